package user

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("",
			middleware.Authorize(rbacService, "user", "read"),
			h.GetRoster,
		)
		users.GET("/all",
			middleware.Authorize(rbacService, "user", "read_all"),
			h.GetAll,
		)
		users.GET("/:id",
			middleware.Authorize(rbacService, "user", "read"),
			h.GetByID,
		)
		users.PATCH("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.Authorize(rbacService, "user", "manage"),
			h.UpdateMember,
		)
		users.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.Authorize(rbacService, "user", "manage"),
			h.Remove,
		)
	}
}
