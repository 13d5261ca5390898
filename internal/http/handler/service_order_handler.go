package handler

import (
	"net/http"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceOrderHandler handles HTTP requests for service order operations
type ServiceOrderHandler struct {
	orderService *service.ServiceOrderService
	logger       *zap.Logger
}

// NewServiceOrderHandler creates a new ServiceOrderHandler instance
func NewServiceOrderHandler(orderService *service.ServiceOrderService, logger *zap.Logger) *ServiceOrderHandler {
	return &ServiceOrderHandler{orderService: orderService, logger: logger}
}

// List returns all service orders
func (h *ServiceOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.orderService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list service orders", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// Get returns a service order with its items
func (h *ServiceOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service order ID")
		return
	}

	dto, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// GetByBudget returns the service order a budget spawned
func (h *ServiceOrderHandler) GetByBudget(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	dto, err := h.orderService.GetByBudget(r.Context(), budgetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// UpdateStatus moves a service order to a new execution state
func (h *ServiceOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service order ID")
		return
	}

	var req domain.UpdateServiceOrderStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.orderService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// UpdateItemStatus moves a single order item to a new execution state
func (h *ServiceOrderHandler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req domain.UpdateServiceOrderItemStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.orderService.UpdateItemStatus(r.Context(), itemID, req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
