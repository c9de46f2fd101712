package attendance

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/scan",
			middleware.RateLimitByUser(1, 3),
			middleware.Idempotency(rdb),
			middleware.Authorize(rbacService, "attendance", "scan"),
			h.Scan,
		)
		attendances.POST("/records",
			middleware.RateLimitByUser(2, 10),
			middleware.Authorize(rbacService, "attendance", "write"),
			h.Record,
		)
		attendances.GET("/sessions/:sessionId/roster",
			middleware.Authorize(rbacService, "attendance", "read"),
			h.Roster,
		)
		attendances.GET("/sessions/:sessionId/records",
			middleware.Authorize(rbacService, "attendance", "read"),
			h.ListBySession,
		)
		attendances.GET("/records",
			middleware.Authorize(rbacService, "attendance", "read"),
			h.ListByOrganization,
		)
	}
}
