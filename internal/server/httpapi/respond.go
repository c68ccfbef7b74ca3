package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kofany/sshm.io/internal/common"
)

// envelope is the uniform response body. Code is a machine-checkable
// discriminator; Message is human text and not part of the contract.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, httpStatus int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: "success", Message: message, Data: data})
}

// writeServiceError maps service sentinels to an HTTP status and envelope.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrSessionRequired):
		writeJSON(w, http.StatusUnauthorized, envelope{
			Status: "error", Message: "Session required", Code: common.CodeSessionRequired,
		})
	case errors.Is(err, common.ErrSessionExpired):
		writeJSON(w, http.StatusUnauthorized, envelope{
			Status: "error", Message: "Session expired", Code: common.CodeSessionExpired,
		})
	case errors.Is(err, common.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, envelope{
			Status: "error", Message: "Too many attempts, try again later", Code: common.CodeRateLimitExceeded,
		})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, envelope{Status: "error", Message: "Invalid credentials"})
	case errors.Is(err, common.ErrorAccountInactive):
		writeJSON(w, http.StatusForbidden, envelope{Status: "error", Message: "Account is not active"})
	case errors.Is(err, common.ErrInvalidToken):
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: "Invalid or expired token"})
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: validationMessage(err)})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Status: "error", Message: "Not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: "Internal server error"})
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, common.ErrorWeakPassword):
		return "Password must be at least 8 characters with upper, lower, digit and special"
	case errors.Is(err, common.ErrorEmailTaken):
		return "Email already registered"
	case errors.Is(err, common.ErrorMissingFields):
		return "Missing required fields"
	default:
		return "Validation failed"
	}
}

// decodeBody reads a JSON request body into dst, rejecting unknown garbage
// gracefully as a validation error.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrorValidation
	}
	return nil
}
