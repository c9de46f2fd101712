package reporting

import (
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	reports.Use(middleware.Authorize(rbacService, "report", "read"))
	{
		reports.GET("/sessions/:sessionId", h.SessionSummary)
		reports.GET("/organization", h.OrganizationSummary)
		reports.GET("/monthly", h.MonthlySummary)
		reports.GET("/window", h.WindowSummary)
	}
}
