package auth

import (
	"slices"
	"sort"
	"strings"
)

// Outcome is the result class of a navigation decision.
type Outcome string

const (
	Allow              Outcome = "allow"
	RedirectToLogin    Outcome = "redirect_to_login"
	RedirectToRoleHome Outcome = "redirect_to_role_home"
)

// Landing paths for each screen family.
const (
	LoginPath  = "/login"
	WorkerHome = "/cs"
	AdminHome  = "/admin"
)

// Decision is what the guard tells the navigator to do. Target is empty for Allow.
type Decision struct {
	Outcome Outcome `json:"outcome"`
	Target  string  `json:"target,omitempty"`
}

// HomeFor returns the landing path for a role. Unknown roles land on the login screen.
func HomeFor(role Role) string {
	switch role {
	case RoleWorker:
		return WorkerHome
	case RoleAdmin, RoleKitchenManager:
		return AdminHome
	default:
		return LoginPath
	}
}

// Decide evaluates one navigation. It is total over its inputs and never caches.
// The path is informational; the decision depends only on the session and the role set.
func Decide(_ string, required []Role, sess *Session) Decision {
	if sess == nil {
		return Decision{Outcome: RedirectToLogin, Target: LoginPath}
	}
	if slices.Contains(required, sess.Role) {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: RedirectToRoleHome, Target: HomeFor(sess.Role)}
}

// Route classifies a path pattern. Public routes skip the guard.
// A pattern ending in "/*" matches exactly one further segment.
type Route struct {
	Pattern string `json:"pattern"`
	Public  bool   `json:"public,omitempty"`
	Roles   []Role `json:"roles,omitempty"`
}

func (r Route) matches(path string) bool {
	if prefix, ok := strings.CutSuffix(r.Pattern, "/*"); ok {
		rest, found := strings.CutPrefix(path, prefix+"/")
		return found && rest != "" && !strings.Contains(rest, "/")
	}
	return r.Pattern == path
}

// RouteTable is the static path to role classification, defined once at startup.
type RouteTable struct {
	routes []Route
}

// NewRouteTable builds a table from routes. Earlier routes win on overlap.
func NewRouteTable(routes ...Route) *RouteTable {
	return &RouteTable{routes: slices.Clone(routes)}
}

// staffAndWorkers may open worker screens; managers and admins browse kitchens too.
var staffAndWorkers = []Role{RoleWorker, RoleAdmin, RoleKitchenManager}

// DefaultRoutes returns the canteen screen classification.
func DefaultRoutes() *RouteTable {
	return NewRouteTable(
		Route{Pattern: LoginPath, Public: true},
		Route{Pattern: WorkerHome, Roles: staffAndWorkers},
		Route{Pattern: WorkerHome + "/*", Roles: staffAndWorkers},
		Route{Pattern: AdminHome, Roles: []Role{RoleAdmin, RoleKitchenManager}},
	)
}

// Classify returns the route for path. Unclassified paths report false.
func (t *RouteTable) Classify(path string) (Route, bool) {
	path = normalizePath(path)
	for _, r := range t.routes {
		if r.matches(path) {
			return r, true
		}
	}
	return Route{}, false
}

// Decide classifies path and applies the guard. Unclassified paths get an
// empty role set so every session is turned away.
func (t *RouteTable) Decide(path string, sess *Session) Decision {
	r, ok := t.Classify(path)
	if ok && r.Public {
		return Decision{Outcome: Allow}
	}
	return Decide(path, r.Roles, sess)
}

// Routes returns a copy of the table sorted by pattern.
func (t *RouteTable) Routes() []Route {
	out := slices.Clone(t.routes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pattern < out[j].Pattern })
	return out
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
