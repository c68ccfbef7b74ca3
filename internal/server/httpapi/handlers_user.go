package httpapi

import (
	"net/http"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/server/auth"
	"github.com/kofany/sshm.io/internal/server/services"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeSuccess(w, "Registration successful, check your email to confirm the account", map[string]any{
		"email":   user.Email,
		"api_key": user.APIKey,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	session := s.sessions.Create(user.ID)
	token, err := auth.GenerateSessionToken(session.ID, []byte(s.cfg.SecretKey))
	if err != nil {
		s.sessions.Destroy(session.ID)
		s.writeServiceError(w, err)
		return
	}
	s.setSessionCookie(w, token)

	writeSuccess(w, "Login successful", map[string]any{
		"email":   user.Email,
		"api_key": user.APIKey,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Destroy(SessionID(r.Context()))
	s.clearSessionCookie(w)
	writeSuccess(w, "Logged out", nil)
}

func (s *Server) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	user, err := s.users.ConfirmEmail(r.Context(), token)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, "Email confirmed, the account is now active", map[string]any{
		"email": user.Email,
	})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}
	if err := s.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeServiceError(w, err)
		return
	}
	// Same response whether or not the account exists.
	writeSuccess(w, "If the email is registered, a reset link has been sent", nil)
}

func (s *Server) handleResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	user, err := s.users.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	// The old password no longer authenticates anything it opened.
	s.sessions.DestroyAllForUser(user.ID)

	writeSuccess(w, "Password changed, log in with the new password", nil)
}

func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Info(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, "Session active", map[string]any{
		"email": user.Email,
	})
}

func (s *Server) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Info(r.Context(), UserID(r.Context()))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeSuccess(w, "OK", map[string]any{
		"email":      user.Email,
		"api_key":    user.APIKey,
		"created_at": user.CreatedAt,
	})
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateInput
	if err := decodeBody(r, &req); err != nil {
		s.writeServiceError(w, err)
		return
	}

	userID := UserID(r.Context())
	res, err := s.users.Update(r.Context(), userID, req)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	data := map[string]any{"email": res.User.Email}
	if res.CredentialsChanged {
		// Password or key changes invalidate every session, including the
		// one that made this call.
		s.sessions.DestroyAllForUser(userID)
		s.clearSessionCookie(w)
		data["api_key"] = res.User.APIKey
	}
	writeSuccess(w, "Account updated", data)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	if err := s.users.Delete(r.Context(), userID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.sessions.DestroyAllForUser(userID)
	if AuthMethod(r.Context()) == authMethodSession {
		s.clearSessionCookie(w)
	}
	writeSuccess(w, "Account deleted", nil)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTimeout.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
