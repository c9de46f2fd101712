package session

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.GET("",
			middleware.Authorize(rbacService, "session", "read"),
			h.GetAll,
		)
		sessions.GET("/:id",
			middleware.Authorize(rbacService, "session", "read"),
			h.GetByID,
		)
		sessions.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(rbacService, "session", "create"),
			h.Create,
		)
		sessions.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(rbacService, "session", "update"),
			h.Update,
		)
		sessions.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 2),
			middleware.Authorize(rbacService, "session", "delete"),
			h.Delete,
		)
	}
}
