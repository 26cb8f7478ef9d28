package cmd

import (
	"log"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/config"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/handlers"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/services"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/store"
	_ "github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/migrations"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/monitoring"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/security"
	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/utils"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	// Initialize the registration record store and services
	registrationStore := store.NewPocketBaseStore(app, "registrations")

	validationService := services.NewValidationService(registrationStore)
	notifier := services.NewNotifier(pn, cfg.NotificationChannel)
	dashboardService := services.NewDashboardService(registrationStore, redisClient, pn, cfg)
	operatorService := services.NewOperatorService(app)

	// Initialize handlers
	scanHandler := handlers.NewScanHandler(app, registrationStore, validationService, notifier)
	adminHandler := handlers.NewAdminHandler(app, dashboardService, redisClient)
	authHandler := handlers.NewAuthHandler(app, operatorService)

	rateLimiter := security.NewScanRateLimiter(redisClient, cfg.ScanRateLimit, cfg.ScanRateWindow)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		if err := operatorService.EnsureDefaultAdmin(adminPassword(cfg)); err != nil {
			slog.Error("default admin seeding failed", "error", err)
		}

		dashboardService.Start()

		if cfg.EnableMetrics {
			monitoring.NewMonitor(registrationStore, cfg.MetricsInterval)
			go serveMetrics(cfg.MetricsPort)
		}

		// Check-in endpoints
		e.Router.POST("/api/v1/checkin/scan", scanHandler.Scan).BindFunc(rateLimiter.Intercept)
		e.Router.GET("/api/v1/registrations", scanHandler.ListRegistrations)
		e.Router.GET("/api/v1/registrations/{id}", scanHandler.GetRegistration)

		// Dashboard endpoints
		e.Router.GET("/api/v1/dashboard/stats", adminHandler.GetDashboardStats)
		e.Router.GET("/api/v1/dashboard/recent", adminHandler.GetRecentValidations)
		e.Router.GET("/api/v1/dashboard/breakdown", adminHandler.GetStatusBreakdown)

		// Operator endpoints
		e.Router.POST("/api/v1/auth/login", authHandler.Login)

		// Health check
		e.Router.GET("/health", adminHandler.Health)

		log.Println("Server routes registered")

		return e.Next()
	})

	// Teardown on interrupt/SIGTERM rides the app lifecycle.
	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		dashboardService.Stop()
		return e.Next()
	})

	// Start server
	return app.Start()
}

// adminPassword returns the configured bootstrap password, or mints one and
// logs it so a fresh deployment is reachable.
func adminPassword(cfg *config.Config) string {
	if cfg.DefaultAdminPassword != "" {
		return cfg.DefaultAdminPassword
	}
	code, err := utils.GenerateCode(8)
	if err != nil {
		log.Fatalf("Failed to generate admin password: %v", err)
	}
	log.Printf("Generated default admin password: %s (set DEFAULT_ADMIN_PASSWORD to override)", code)
	return code
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}
