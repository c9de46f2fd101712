package orgrequest

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	requests := r.Group("/organization-requests")

	// Intake is public; rate limited by source address.
	requests.POST("", middleware.RateLimitByIP(0.5, 3), h.Create)

	reviewed := requests.Group("")
	reviewed.Use(middleware.AuthMiddleware())
	{
		reviewed.GET("",
			middleware.Authorize(rbacService, "orgrequest", "read"),
			h.GetAll,
		)
		reviewed.GET("/:id",
			middleware.Authorize(rbacService, "orgrequest", "read"),
			h.GetByID,
		)
		reviewed.POST("/:id/approve",
			middleware.Authorize(rbacService, "orgrequest", "manage"),
			h.Approve,
		)
		reviewed.POST("/:id/finalize",
			middleware.Authorize(rbacService, "orgrequest", "manage"),
			h.Finalize,
		)
		reviewed.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 2),
			middleware.Authorize(rbacService, "orgrequest", "manage"),
			h.Reject,
		)
	}
}
