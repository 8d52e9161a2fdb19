package httpx

import "time"

const (
	// StateCookieName binds a pending social login to the browser that started it.
	StateCookieName = "oauth_state"
	// StateCookieMaxAge matches the default pending-login TTL.
	StateCookieMaxAge = 10 * time.Minute

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// maxBodyBytes caps JSON request bodies on the session API.
	maxBodyBytes = 64 << 10
)

// Error codes written in JSON error bodies by the session API and the screen guard.
const (
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeForbidden      = "forbidden"
	ErrCodeInvalidHandoff = "invalid_handoff"
	ErrCodeNoHandoff      = "no_handoff"
	ErrCodeInvalidJSON    = "invalid_json"
	ErrCodeMissingPath    = "missing_path"
)

// Screen identifiers returned by the guarded screen endpoints.
const (
	ScreenLogin      = "login"
	ScreenWorkerHome = "worker_home"
	ScreenKitchen    = "kitchen"
	ScreenAdmin      = "admin"
)
