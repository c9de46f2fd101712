package organization

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	orgs := r.Group("/organizations")
	orgs.Use(middleware.AuthMiddleware())
	{
		orgs.GET("/me",
			middleware.RateLimitByUser(2, 10),
			middleware.Authorize(rbacService, "organization", "read"),
			h.GetMe,
		)
		orgs.GET("",
			middleware.Authorize(rbacService, "organization", "manage"),
			h.GetAll,
		)
		orgs.GET("/:id",
			middleware.Authorize(rbacService, "organization", "read"),
			h.GetByID,
		)
		orgs.POST("",
			middleware.Authorize(rbacService, "organization", "manage"),
			h.Create,
		)
		orgs.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "organization", "update"),
			h.Update,
		)
		orgs.PATCH("/:id/status",
			middleware.Authorize(rbacService, "organization", "manage"),
			h.UpdateStatus,
		)
		orgs.DELETE("/:id",
			middleware.RateLimitByUser(0.1, 1),
			middleware.Authorize(rbacService, "organization", "manage"),
			h.Delete,
		)
	}
}
