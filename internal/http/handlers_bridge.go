package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olive/canteen/internal/service"
)

// IdentityBridge is the service surface the bridge handlers need.
type IdentityBridge interface {
	BeginLogin(ctx context.Context, provider string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*service.CompleteLoginResult, error)
}

// BridgeHandlers serves the social login redirect endpoints.
type BridgeHandlers struct {
	Svc     IdentityBridge
	Cookies *StateCookies
	Logger  *slog.Logger
}

func (h *BridgeHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts a provider login.
// GET /api/auth/{provider}/login.
func (h *BridgeHandlers) Login(w http.ResponseWriter, r *http.Request) {
	result, err := h.Svc.BeginLogin(r.Context(), r.PathValue("provider"))
	if err != nil {
		WritePlainError(w, err)
		return
	}

	if err := h.Cookies.Set(w, r, result.State); err != nil {
		h.logger().ErrorContext(r.Context(), "set state cookie", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback finishes a provider login and hands the profile to the client.
// GET /api/auth/{provider}/callback?code=<code>&state=<state>.
func (h *BridgeHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cookieState := h.Cookies.Read(r)
	h.Cookies.Clear(w, r)

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Provider:    r.PathValue("provider"),
		Code:        q.Get("code"),
		State:       q.Get("state"),
		CookieState: cookieState,
	})
	if err != nil {
		WritePlainError(w, err)
		return
	}

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}
