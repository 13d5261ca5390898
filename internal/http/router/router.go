package router

import (
	"encoding/json"
	"net/http"

	"github.com/eventis/budget-api/internal/auth"
	"github.com/eventis/budget-api/internal/config"
	"github.com/eventis/budget-api/internal/database"
	"github.com/eventis/budget-api/internal/http/handler"
	"github.com/eventis/budget-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                  *config.Config
	logger               *zap.Logger
	db                   *gorm.DB
	authMiddleware       *auth.Middleware
	rateLimiter          *middleware.RateLimiter
	projectHandler       *handler.ProjectHandler
	budgetHandler        *handler.BudgetHandler
	approvalHandler      *handler.ApprovalHandler
	freightHandler       *handler.FreightHandler
	freightConfigHandler *handler.FreightConfigHandler
	serviceOrderHandler  *handler.ServiceOrderHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	projectHandler *handler.ProjectHandler,
	budgetHandler *handler.BudgetHandler,
	approvalHandler *handler.ApprovalHandler,
	freightHandler *handler.FreightHandler,
	freightConfigHandler *handler.FreightConfigHandler,
	serviceOrderHandler *handler.ServiceOrderHandler,
) *Router {
	return &Router{
		cfg:                  cfg,
		logger:               logger,
		db:                   db,
		authMiddleware:       authMiddleware,
		rateLimiter:          rateLimiter,
		projectHandler:       projectHandler,
		budgetHandler:        budgetHandler,
		approvalHandler:      approvalHandler,
		freightHandler:       freightHandler,
		freightConfigHandler: freightConfigHandler,
		serviceOrderHandler:  serviceOrderHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
		})
	})

	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	// Public approval surface. No authentication: possession of the token is
	// the credential, so it sits behind the strict per-IP limiter instead.
	r.Group(func(r chi.Router) {
		r.Use(rt.rateLimiter.LimitPublic)
		r.Route("/public/approval/{token}", func(r chi.Router) {
			r.Get("/", rt.approvalHandler.Get)
			r.Post("/", rt.approvalHandler.Decide)
			r.Get("/document", rt.approvalHandler.Document)
		})
	})

	// Internal API
	r.Group(func(r chi.Router) {
		r.Use(rt.rateLimiter.LimitByIP)
		r.Use(rt.authMiddleware.Authenticate)

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", rt.projectHandler.List)
				r.Post("/", rt.projectHandler.Create)
				r.Get("/{id}", rt.projectHandler.Get)
				r.Patch("/{id}", rt.projectHandler.Update)
				r.Delete("/{id}", rt.projectHandler.Delete)
				r.Get("/{id}/budgets", rt.projectHandler.ListBudgets)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", rt.budgetHandler.List)
				r.Post("/", rt.budgetHandler.Create)
				r.Get("/{id}", rt.budgetHandler.Get)
				r.Patch("/{id}", rt.budgetHandler.Update)
				r.Delete("/{id}", rt.budgetHandler.Delete)
				r.Post("/{id}/send", rt.budgetHandler.Send)
				r.Post("/{id}/freight", rt.budgetHandler.CalculateFreight)
				r.Get("/{id}/service-order", rt.serviceOrderHandler.GetByBudget)

				r.Route("/{id}/items", func(r chi.Router) {
					r.Get("/", rt.budgetHandler.ListItems)
					r.Post("/", rt.budgetHandler.AddItem)
					r.Patch("/{itemId}", rt.budgetHandler.UpdateItem)
					r.Delete("/{itemId}", rt.budgetHandler.DeleteItem)
				})
			})

			r.Route("/freight", func(r chi.Router) {
				r.Post("/preview", rt.freightHandler.Preview)
				r.Get("/settings", rt.freightConfigHandler.GetSettings)
				r.Post("/settings", rt.freightConfigHandler.CreateSettings)
				r.Patch("/settings", rt.freightConfigHandler.UpdateSettings)

				r.Route("/weight-ranges", func(r chi.Router) {
					r.Get("/", rt.freightConfigHandler.ListWeightRanges)
					r.Post("/", rt.freightConfigHandler.CreateWeightRange)
					r.Patch("/{id}", rt.freightConfigHandler.UpdateWeightRange)
					r.Delete("/{id}", rt.freightConfigHandler.DeleteWeightRange)
				})
				r.Route("/volume-ranges", func(r chi.Router) {
					r.Get("/", rt.freightConfigHandler.ListVolumeRanges)
					r.Post("/", rt.freightConfigHandler.CreateVolumeRange)
					r.Patch("/{id}", rt.freightConfigHandler.UpdateVolumeRange)
					r.Delete("/{id}", rt.freightConfigHandler.DeleteVolumeRange)
				})
				r.Route("/urgencies", func(r chi.Router) {
					r.Get("/", rt.freightConfigHandler.ListUrgencies)
					r.Post("/", rt.freightConfigHandler.CreateUrgency)
					r.Patch("/{id}", rt.freightConfigHandler.UpdateUrgency)
					r.Delete("/{id}", rt.freightConfigHandler.DeleteUrgency)
					r.Post("/{id}/default", rt.freightConfigHandler.SetDefaultUrgency)
				})
			})

			r.Route("/service-orders", func(r chi.Router) {
				r.Get("/", rt.serviceOrderHandler.List)
				r.Get("/{id}", rt.serviceOrderHandler.Get)
				r.Patch("/{id}/status", rt.serviceOrderHandler.UpdateStatus)
				r.Patch("/items/{itemId}/status", rt.serviceOrderHandler.UpdateItemStatus)
			})
		})
	})

	return r
}
