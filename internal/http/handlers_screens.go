package httpx

import (
	"net/http"

	"github.com/olive/canteen/internal/catalog"
	domainauth "github.com/olive/canteen/internal/domain/auth"
	apperrors "github.com/olive/canteen/internal/errors"
)

// ScreenHandlers renders the guarded screens as JSON view models. Access
// control happens in RequireScreen before these run.
type ScreenHandlers struct {
	Catalog *catalog.Catalog
	// Providers lists the social providers offered on the login screen.
	Providers []domainauth.Provider
}

type providerLink struct {
	Provider domainauth.Provider `json:"provider"`
	Label    string              `json:"label"`
	LoginURL string              `json:"loginUrl"`
}

type screenResponse struct {
	Screen    string              `json:"screen"`
	Session   *domainauth.Session `json:"session,omitempty"`
	Providers []providerLink      `json:"providers,omitempty"`
	Kitchens  []catalog.Kitchen   `json:"kitchens,omitempty"`
	Kitchen   *catalog.Kitchen    `json:"kitchen,omitempty"`
}

// Login renders the public login screen.
// GET /login.
func (h *ScreenHandlers) Login(w http.ResponseWriter, r *http.Request) {
	links := make([]providerLink, 0, len(h.Providers))
	for _, p := range h.Providers {
		links = append(links, providerLink{
			Provider: p,
			Label:    p.Label(),
			LoginURL: "/api/auth/" + string(p) + "/login",
		})
	}
	WriteJSON(w, http.StatusOK, screenResponse{
		Screen:    ScreenLogin,
		Session:   GetSessionFromContext(r.Context()),
		Providers: links,
	})
}

// WorkerHome lists the kitchens a worker can order from.
// GET /cs.
func (h *ScreenHandlers) WorkerHome(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, screenResponse{
		Screen:   ScreenWorkerHome,
		Session:  GetSessionFromContext(r.Context()),
		Kitchens: h.Catalog.All(),
	})
}

// Kitchen renders one kitchen by slug.
// GET /cs/{slug}.
func (h *ScreenHandlers) Kitchen(w http.ResponseWriter, r *http.Request) {
	k, err := h.Catalog.BySlug(r.PathValue("slug"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, screenResponse{
		Screen:  ScreenKitchen,
		Session: GetSessionFromContext(r.Context()),
		Kitchen: &k,
	})
}

// Admin lists the kitchens the session may administer.
// GET /admin.
func (h *ScreenHandlers) Admin(w http.ResponseWriter, r *http.Request) {
	sess := GetSessionFromContext(r.Context())
	if sess == nil {
		WriteAppError(w, apperrors.Internal("admin screen reached without a session"))
		return
	}
	WriteJSON(w, http.StatusOK, screenResponse{
		Screen:   ScreenAdmin,
		Session:  sess,
		Kitchens: h.Catalog.ForSession(*sess),
	})
}
