package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/DhavalSuthar-24/scorebook/internal/middleware"
	"github.com/DhavalSuthar-24/scorebook/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserRolesKey holds the caller's role names once RoleMiddleware has run.
const UserRolesKey = "user_roles"

// RoleLookup resolves the roles of a user.
type RoleLookup interface {
	GetUserRoles(userID uint) ([]string, error)
}

// RoleMiddleware admits authenticated users holding any of requiredRoles. It must run
// after middleware.AuthMiddleware.
func RoleMiddleware(roles RoleLookup, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized: " + err.Error()})
			return
		}

		userRoles, err := roles.GetUserRoles(userID)
		if err != nil {
			log.Error().Err(err).Uint("user_id", userID).Msg("role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "Failed to get user roles"})
			return
		}

		if !hasAnyRole(userRoles, requiredRoles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"ok":       false,
				"message":  "You don't have permission to access this resource",
				"required": requiredRoles,
			})
			return
		}

		// Add roles to context for downstream handlers
		c.Set(UserRolesKey, userRoles)
		c.Next()
	}
}

func hasAnyRole(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware(roles RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(roles, user.RoleAdmin)
}

// ScorerMiddleware admits scorers and admins.
func ScorerMiddleware(roles RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(roles, user.RoleScorer, user.RoleAdmin)
}
