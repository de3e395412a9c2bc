package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/aggregate"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/config"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/database"
	_ "github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/docs" // Import swagger docs
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/handlers"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/logger"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/middleware"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/schema"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/services"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/store"
	"github.com/tkooo5df/emingo-ai-dashboard-sub000/internal/validator"
)

// @title           Ledger API
// @version         1.0
// @description     Personal finance ledger with income, expenses, debts and a unified transaction ledger kept in sync.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if appConfig.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         appConfig.SentryDSN,
			Environment: appConfig.Env,
		}); err != nil {
			return fmt.Errorf("failed to initialize sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if appConfig.RunMigrations {
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	db := dbManager.DB()
	migrator := schema.New(db)

	// The additive pass covers databases that predate the versioned migrations.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = migrator.EnsureAll(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	st := store.New(db, migrator, dbManager.QueryTimeout())
	engine, err := aggregate.FromGorm(db, dbManager.QueryTimeout())
	if err != nil {
		return fmt.Errorf("failed to create aggregate engine: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying DB: %w", err)
	}

	validator.Register()
	gate := middleware.NewTokenGate(appConfig.JWTSecret, appConfig.JWTExpirationDur)

	// Initialize services
	auditService := services.NewAuditService(db)
	balanceService := services.NewBalanceService(engine)
	userService := services.NewUserService(st)
	incomeService := services.NewIncomeService(st)
	expenseService := services.NewExpenseService(st)
	debtService := services.NewDebtService(st)
	ledgerService := services.NewLedgerService(st)
	settingsService := services.NewSettingsService(st)
	maintenanceService := services.NewMaintenanceService(st)

	// Initialize handlers
	h := &handlers.Handlers{
		Auth:     handlers.NewAuthHandler(userService, gate, auditService),
		Income:   handlers.NewIncomeHandler(incomeService, auditService),
		Expense:  handlers.NewExpenseHandler(expenseService, auditService),
		Debt:     handlers.NewDebtHandler(debtService, balanceService, auditService),
		Account:  handlers.NewAccountHandler(ledgerService, balanceService, auditService),
		Settings: handlers.NewSettingsHandler(settingsService, auditService),
		Database: handlers.NewDatabaseHandler(maintenanceService, auditService),
		Health:   handlers.NewHealthHandler(sqlDB, dbManager.QueryTimeout()),
	}

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(appConfig.CORSOrigins))
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	handlers.RegisterRoutes(router.Group("/api"), h, gate)

	log.Infof("Starting ledger server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
