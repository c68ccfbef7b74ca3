package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kofany/sshm.io/internal/common"
	"github.com/kofany/sshm.io/internal/server/auth"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeySessionID
	ctxKeyAuthMethod
)

// Auth methods recorded in the request context.
const (
	authMethodSession = "session"
	authMethodAPIKey  = "api_key"
)

// authClass determines which credentials an endpoint accepts.
type authClass int

const (
	// authPublic endpoints take no credentials.
	authPublic authClass = iota
	// authSession endpoints accept only a live session cookie.
	authSession
	// authAPIKey endpoints accept only the X-Api-Key header.
	authAPIKey
	// authDual endpoints prefer the session cookie and fall back to the
	// API key header.
	authDual
)

// UserID returns the authenticated user id stored by the gateway.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

// SessionID returns the session id when the request authenticated with a
// cookie, or "" for API-key requests.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeySessionID).(string)
	return id
}

// AuthMethod reports how the request authenticated.
func AuthMethod(ctx context.Context) string {
	m, _ := ctx.Value(ctxKeyAuthMethod).(string)
	return m
}

// withAuth is the authentication gateway. It resolves credentials according
// to the endpoint's class and either populates the request context with the
// user identity or rejects the request with a coded envelope.
func (s *Server) withAuth(class authClass, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if class == authPublic {
			next(w, r)
			return
		}

		ctx, err := s.authenticate(r, class)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		next(w, r.WithContext(ctx))
	}
}

func (s *Server) authenticate(r *http.Request, class authClass) (context.Context, error) {
	var sessionErr error

	if class == authSession || class == authDual {
		ctx, err := s.authenticateSession(r)
		if err == nil {
			return ctx, nil
		}
		if class == authSession {
			return nil, err
		}
		sessionErr = err
	}

	ctx, err := s.authenticateAPIKey(r)
	if err == nil {
		return ctx, nil
	}
	// With no usable API key on a dual endpoint, report the session failure
	// when a cookie was actually presented; otherwise the bare unauthorized.
	if sessionErr != nil && !errors.Is(sessionErr, common.ErrSessionRequired) {
		return nil, sessionErr
	}
	return nil, err
}

// authenticateSession verifies the signed cookie, resolves the session id
// against the server-side store and slides its deadline forward.
func (s *Server) authenticateSession(r *http.Request) (context.Context, error) {
	cookie, err := r.Cookie(common.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, common.ErrSessionRequired
	}

	sessionID, err := auth.SessionIDFromToken(cookie.Value, []byte(s.cfg.SecretKey))
	if err != nil {
		// A cookie that fails signature verification is treated the same
		// as no cookie: the bearer never held a valid session.
		return nil, common.ErrSessionRequired
	}

	session, err := s.sessions.Touch(sessionID)
	if err != nil {
		return nil, err
	}

	// A session only proves identity; the account can have been deactivated
	// since login. Re-check the flag before any handler runs.
	user, err := s.users.Info(r.Context(), session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrorAccountInactive
	}

	ctx := context.WithValue(r.Context(), ctxKeyUserID, session.UserID)
	ctx = context.WithValue(ctx, ctxKeySessionID, session.ID)
	ctx = context.WithValue(ctx, ctxKeyAuthMethod, authMethodSession)
	return ctx, nil
}

func (s *Server) authenticateAPIKey(r *http.Request) (context.Context, error) {
	apiKey := r.Header.Get(common.APIKeyHeaderName)
	if apiKey == "" {
		return nil, common.ErrorUnauthorized
	}
	user, err := s.users.ByAPIKey(r.Context(), apiKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	ctx := context.WithValue(r.Context(), ctxKeyUserID, user.ID)
	ctx = context.WithValue(ctx, ctxKeyAuthMethod, authMethodAPIKey)
	return ctx, nil
}

// withRateLimit counts an attempt per client IP and action before letting
// the request through. Applied to credential-accepting public endpoints.
func (s *Server) withRateLimit(action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := clientIP(r)
		if !s.limiter.Allow(addr, action) {
			s.log.Warn(r.Context(), "rate limit exceeded", "addr", addr, "action", action)
			s.writeServiceError(w, common.ErrRateLimited)
			return
		}
		next(w, r)
	}
}

// clientIP extracts the originating address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-Ip"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog logs one line per request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info(r.Context(), "request",
			"method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration", time.Since(start))
	})
}
