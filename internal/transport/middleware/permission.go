package middleware

import (
	"log/slog"
	"net/http"

	"github.com/peopleops/hr-platform/internal"
	"github.com/peopleops/hr-platform/internal/roles"
)

// Guard enforces role capabilities at the API boundary. Display-layer checks
// in the front end are advisory only; these middlewares are authoritative.
type Guard struct {
	logger *slog.Logger
}

func NewGuard(logger *slog.Logger) *Guard {
	return &Guard{logger: logger}
}

// RequireCapability admits only identities whose role grants the selected
// capability from the static role table.
func (g *Guard) RequireCapability(selector func(roles.Capabilities) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			caps, err := roles.PermissionsFor(user.Role)
			if err != nil {
				g.logger.Error("capability check failed: role outside closed set",
					"user_id", user.ID, "role", user.Role)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			if !selector(caps) {
				g.logger.Warn("access denied: missing capability",
					"user_id", user.ID, "role", user.Role, "path", r.URL.Path)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits only identities carrying one of the given role tags,
// used for approval stages that are tied to roles rather than capabilities.
func (g *Guard) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	allowedSet := make(map[string]bool, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !allowedSet[user.Role] {
				g.logger.Warn("access denied: role not allowed",
					"user_id", user.ID, "role", user.Role, "path", r.URL.Path)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Guard) RequireCreateUsers() func(http.Handler) http.Handler {
	return g.RequireCapability(func(c roles.Capabilities) bool { return c.CreateUsers })
}

func (g *Guard) RequireManageEmployees() func(http.Handler) http.Handler {
	return g.RequireCapability(func(c roles.Capabilities) bool { return c.ManageEmployees })
}

func (g *Guard) RequireManageDepartments() func(http.Handler) http.Handler {
	return g.RequireCapability(func(c roles.Capabilities) bool { return c.ManageDepartments })
}

func (g *Guard) RequireManageRoles() func(http.Handler) http.Handler {
	return g.RequireCapability(func(c roles.Capabilities) bool { return c.ManageRoles })
}

func (g *Guard) RequireManagerStage() func(http.Handler) http.Handler {
	return g.RequireRole(roles.RoleManager, roles.RoleHR, roles.RoleAdminHR)
}

func (g *Guard) RequireHRStage() func(http.Handler) http.Handler {
	return g.RequireRole(roles.RoleHR, roles.RoleAdminHR)
}
