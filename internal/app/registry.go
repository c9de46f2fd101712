package app

import (
	"database/sql"
	"os"

	"github.com/mujabaralno/qr-absence/internal/attendance"
	"github.com/mujabaralno/qr-absence/internal/identity"
	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"
	"github.com/mujabaralno/qr-absence/internal/middleware"
	"github.com/mujabaralno/qr-absence/internal/organization"
	"github.com/mujabaralno/qr-absence/internal/orgrequest"
	"github.com/mujabaralno/qr-absence/internal/rbac"
	"github.com/mujabaralno/qr-absence/internal/reporting"
	"github.com/mujabaralno/qr-absence/internal/session"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"
	"github.com/mujabaralno/qr-absence/internal/tenant"
	"github.com/mujabaralno/qr-absence/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	organizationRepo := organization.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	orgRequestRepo := orgrequest.NewRepository(gormDB)
	reportingRepo := reporting.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Core components ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	tokenIssuer := session.NewTokenIssuer(
		os.Getenv("CHECKIN_TOKEN_SECRET"),
		os.Getenv("BASE_URL"),
	)
	systemClock := clock.System()
	deletePolicy := tenant.ParseDeletePolicy(os.Getenv("ON_DELETE_POLICY"))

	// --- Services ---
	organizationService := organization.NewService(db, organizationRepo, deletePolicy)
	userService := user.NewService(userRepo)
	sessionService := session.NewService(sessionRepo, tokenIssuer, db, systemClock)
	reportingService := reporting.NewService(reportingRepo, rdb)
	attendanceService := attendance.NewService(
		attendanceRepo,
		sessionRepo,
		userRepo,
		tokenIssuer,
		outboxRepo,
		reportingService,
		db,
		systemClock,
	)
	orgRequestService := orgrequest.NewService(orgRequestRepo, outboxRepo, db, systemClock)

	// --- Identity provider surface ---
	verifier, err := identity.NewWebhookVerifier(os.Getenv("IDENTITY_WEBHOOK_SECRET"))
	if err != nil {
		return err
	}
	providerClient := identity.NewProviderClient(
		os.Getenv("IDENTITY_API_URL"),
		os.Getenv("IDENTITY_API_KEY"),
	)

	// --- Handlers ---
	organizationHandler := organization.NewHandler(organizationService)
	userHandler := user.NewHandler(userService)
	sessionHandler := session.NewHandler(sessionService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	orgRequestHandler := orgrequest.NewHandler(orgRequestService)
	reportingHandler := reporting.NewHandler(reportingService)
	webhookHandler := identity.NewWebhookHandler(verifier, userService, providerClient, systemClock)
	invitationHandler := identity.NewInvitationHandler(providerClient)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		organization.RegisterRoutes(api, organizationHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		session.RegisterRoutes(api, sessionHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb)
		orgrequest.RegisterRoutes(api, orgRequestHandler, rbacService)
		reporting.RegisterRoutes(api, reportingHandler, rbacService)
		identity.RegisterRoutes(api, webhookHandler, invitationHandler, rbacService)
	}

	return nil
}
