package middleware

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/rbac"
	"github.com/mujabaralno/qr-absence/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Authorize gates a route on the actor's role having resource:action in the
// policy matrix. AuthMiddleware must run first.
func Authorize(service rbac.Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(rbac.Role(role), resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN",
				"You do not have permission to access this resource",
				resource+":"+action,
			)
			c.Abort()
			return
		}
		c.Next()
	}
}
