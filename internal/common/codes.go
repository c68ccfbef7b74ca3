package common

// Machine-checkable discriminators carried in the response envelope.
// Message strings are human text and must not be pattern-matched; these
// codes are the only stable contract.
const (
	CodeSessionRequired   = "SESSION_REQUIRED"
	CodeSessionExpired    = "SESSION_EXPIRED"
	CodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)

// APIKeyHeaderName is the HTTP header that carries the long-lived API key.
const APIKeyHeaderName = "X-Api-Key"

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "sshm_session"
