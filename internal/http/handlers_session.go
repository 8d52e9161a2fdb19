package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olive/canteen/internal/client"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
	"github.com/olive/canteen/internal/observability/metrics"
)

// SessionHandlers serves the client session API. Every handler runs behind
// LoadSession, which puts the request's client shell on the context.
type SessionHandlers struct {
	Metrics *metrics.Auth
	Logger  *slog.Logger
}

func (h *SessionHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type sessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	Session       *domainauth.Session `json:"session,omitempty"`
}

type handoffRequest struct {
	Location string `json:"location"`
}

type handoffResponse struct {
	Session  domainauth.Session `json:"session"`
	Location string             `json:"location"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Session domainauth.Session `json:"session"`
}

func (h *SessionHandlers) app(w http.ResponseWriter, r *http.Request) (*client.App, bool) {
	app, ok := ClientFromContext(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "session api reached without LoadSession")
		WriteAppError(w, apperrors.Internal("session unavailable"))
	}
	return app, ok
}

// Current reports the active session.
// GET /api/session.
func (h *SessionHandlers) Current(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	resp := sessionResponse{}
	if sess, ok := app.Current(); ok {
		resp.Authenticated = true
		resp.Session = &sess
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Handoff consumes a landing location produced by the identity bridge.
// POST /api/session/handoff {"location": "..."}.
func (h *SessionHandlers) Handoff(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	var req handoffRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Location == "" {
		WriteAppError(w, apperrors.ValidationField("location", "location is required"))
		return
	}

	cleaned, sess, err := app.ConsumeHandoff(req.Location)
	h.Metrics.SessionLogin("handoff", err)
	switch {
	case errors.Is(err, client.ErrNoHandoff):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: ErrCodeNoHandoff, Err: err})
	case apperrors.IsValidation(err):
		h.logger().DebugContext(r.Context(), "handoff rejected", "error", err)
		WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":   ErrCodeInvalidHandoff,
			"message": "handoff payload is not valid",
		})
	case err != nil:
		h.logger().ErrorContext(r.Context(), "handoff failed", "error", err)
		WriteAppError(w, err)
	default:
		WriteJSON(w, http.StatusOK, handoffResponse{Session: sess, Location: cleaned})
	}
}

// Login checks manual credentials.
// POST /api/session/login {"username": "...", "password": "..."}.
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	sess, err := app.Login(r.Context(), req.Username, req.Password)
	h.Metrics.SessionLogin("credentials", err)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, loginResponse{Session: sess})
}

// Logout ends the session. It succeeds without a session too.
// POST /api/session/logout.
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	if err := app.Logout(); err != nil {
		h.logger().ErrorContext(r.Context(), "logout failed", "error", err)
		WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeInternal, "logout"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Navigate answers what the guard would do for a path.
// GET /api/navigate?path=/cs/ss.
func (h *SessionHandlers) Navigate(w http.ResponseWriter, r *http.Request) {
	app, ok := h.app(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: ErrCodeMissingPath,
			Err:     errors.New("path query parameter is required"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, app.Navigate(path))
}
