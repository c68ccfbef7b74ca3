package httpapi

import (
	"net/http"

	"github.com/rs/cors"
)

// Handler builds the route table wrapped with CORS and request logging.
// Endpoint auth classes:
//
//	public   register, login, confirm-email, reset-password (+confirm)
//	session  logout, check-session, user/update
//	dual     sync, status, user/info, user/delete
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/register", s.withRateLimit("register", s.handleRegister))
	mux.HandleFunc("POST /api/v1/login", s.withRateLimit("login", s.handleLogin))
	mux.HandleFunc("GET /api/v1/confirm-email", s.handleConfirmEmail)
	mux.HandleFunc("POST /api/v1/reset-password", s.withRateLimit("reset-password", s.handleResetPassword))
	mux.HandleFunc("POST /api/v1/reset-password/confirm", s.withRateLimit("reset-password", s.handleResetPasswordConfirm))

	mux.HandleFunc("POST /api/v1/logout", s.withAuth(authSession, s.handleLogout))
	mux.HandleFunc("GET /api/v1/check-session", s.withAuth(authSession, s.handleCheckSession))
	mux.HandleFunc("POST /api/v1/user/update", s.withAuth(authSession, s.handleUserUpdate))

	mux.HandleFunc("GET /api/v1/sync", s.withAuth(authDual, s.handleSyncGet))
	mux.HandleFunc("POST /api/v1/sync", s.withAuth(authDual, s.handleSyncPost))
	mux.HandleFunc("GET /api/v1/status", s.withAuth(authDual, s.handleStatus))
	mux.HandleFunc("GET /api/v1/user/info", s.withAuth(authDual, s.handleUserInfo))
	mux.HandleFunc("POST /api/v1/user/delete", s.withAuth(authDual, s.handleUserDelete))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "X-Api-Key"},
		AllowCredentials: true,
	})

	return s.withRequestLog(c.Handler(mux))
}
