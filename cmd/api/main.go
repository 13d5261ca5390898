package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventis/budget-api/internal/auth"
	"github.com/eventis/budget-api/internal/config"
	"github.com/eventis/budget-api/internal/database"
	"github.com/eventis/budget-api/internal/http/handler"
	"github.com/eventis/budget-api/internal/http/middleware"
	"github.com/eventis/budget-api/internal/http/router"
	"github.com/eventis/budget-api/internal/jobs"
	"github.com/eventis/budget-api/internal/logger"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/eventis/budget-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// In development the schema is kept current automatically; staging and
	// production run cmd/migrate instead.
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	policy := service.WorkOrderPolicy(cfg.WorkOrder.CreationPolicy)

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	budgetItemRepo := repository.NewBudgetItemRepository(db)
	freightRepo := repository.NewFreightRepository(db)
	serviceOrderRepo := repository.NewServiceOrderRepository(db)

	// Initialize services
	serviceOrderService := service.NewServiceOrderService(serviceOrderRepo, log)
	projectService := service.NewProjectService(projectRepo, log)
	budgetService := service.NewBudgetService(budgetRepo, budgetItemRepo, projectRepo, serviceOrderService, policy, log)
	approvalService := service.NewApprovalService(budgetRepo, budgetItemRepo, serviceOrderService, policy, log)
	freightService := service.NewFreightService(budgetRepo, freightRepo, log)
	freightConfigService := service.NewFreightConfigService(freightRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	projectHandler := handler.NewProjectHandler(projectService, budgetService, log)
	budgetHandler := handler.NewBudgetHandler(budgetService, freightService, log)
	approvalHandler := handler.NewApprovalHandler(approvalService, log)
	freightHandler := handler.NewFreightHandler(freightService, log)
	freightConfigHandler := handler.NewFreightConfigHandler(freightConfigService, log)
	serviceOrderHandler := handler.NewServiceOrderHandler(serviceOrderService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		projectHandler,
		budgetHandler,
		approvalHandler,
		freightHandler,
		freightConfigHandler,
		serviceOrderHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		reminderJob := jobs.NewApprovalReminderJob(
			budgetRepo,
			log,
			time.Duration(cfg.Jobs.ApprovalReminderAfterDays)*24*time.Hour,
		)
		if err := scheduler.AddJob(jobs.ApprovalReminderJobName, cfg.Jobs.ApprovalReminderCron, reminderJob.Run); err != nil {
			log.Error("Failed to register approval reminder job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started",
				zap.String("cron_expr", cfg.Jobs.ApprovalReminderCron),
				zap.Int("reminder_after_days", cfg.Jobs.ApprovalReminderAfterDays),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop scheduler if running
		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
