package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	_ "github.com/retailhq/sales-insights/docs"
	"github.com/retailhq/sales-insights/internal/api/handler"
	"github.com/retailhq/sales-insights/internal/api/middleware"
	"github.com/retailhq/sales-insights/internal/core/domain"
	"github.com/retailhq/sales-insights/internal/core/service"
	"github.com/retailhq/sales-insights/internal/infrastructure/collaborator"
	"github.com/retailhq/sales-insights/internal/infrastructure/config"
	"github.com/retailhq/sales-insights/internal/infrastructure/db/sqlite"
	httphandlers "github.com/retailhq/sales-insights/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb and cache may be nil when Redis is not configured.
func NewRouter(db *gorm.DB, rdb *goredis.Client, cache service.ReportCache, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("retail"))

	// --- Dependencies ---
	authRepo := sqlite.NewAuthRepository(db)
	salesRepo := sqlite.NewSalesRepository(db)
	feedbackRepo := sqlite.NewFeedbackRepository(db)

	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	ingestService := service.NewIngestService(salesRepo, log)
	reportService := service.NewReportService(salesRepo, cache, log)
	feedbackService := service.NewFeedbackService(feedbackRepo, log)
	forecastService := service.NewForecastService(
		reportService,
		collaborator.NewForecastClient(cfg.Forecast.URL, cfg.Forecast.Timeout),
		log,
	)
	chatService := service.NewChatService(
		collaborator.NewChatClient(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.Timeout),
		cfg.Chat.Model,
		log,
	)

	authHandler := handler.NewAuthHandler(authService)
	salesHandler := handler.NewSalesHandler(ingestService, reportService)
	reportHandler := handler.NewReportHandler(reportService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	forecastHandler := handler.NewForecastHandler(forecastService)
	chatHandler := handler.NewChatHandler(chatService)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes and operability (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Authenticated pages ---
	v1 := e.Group("/v1", middleware.Auth(cfg.JWTSecret))

	v1.POST("/sales/upload", salesHandler.Upload)
	v1.GET("/sales", salesHandler.List)
	v1.GET("/sales/export", salesHandler.Export)
	v1.DELETE("/sales", salesHandler.Clear, middleware.RBAC(domain.RoleAdmin))

	v1.GET("/reports/summary", reportHandler.Summary)
	v1.GET("/reports/timeseries", reportHandler.TimeSeries)
	v1.GET("/reports/top-products", reportHandler.TopProducts)
	v1.GET("/reports/matrix", reportHandler.Matrix)
	v1.GET("/reports/monthly", reportHandler.MonthlyTrend)
	v1.GET("/reports/correlation", reportHandler.Correlation)

	v1.POST("/feedback", feedbackHandler.Submit)
	v1.GET("/feedback", feedbackHandler.List)

	v1.POST("/predictions", forecastHandler.Predict)
	v1.POST("/chat", chatHandler.Ask)

	return e
}
