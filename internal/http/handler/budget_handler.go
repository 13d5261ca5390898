package handler

import (
	"net/http"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BudgetHandler handles HTTP requests for budget operations
type BudgetHandler struct {
	budgetService  *service.BudgetService
	freightService *service.FreightService
	logger         *zap.Logger
}

// NewBudgetHandler creates a new BudgetHandler instance
func NewBudgetHandler(budgetService *service.BudgetService, freightService *service.FreightService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService:  budgetService,
		freightService: freightService,
		logger:         logger,
	}
}

func budgetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return uuid.Nil, false
	}
	return id, true
}

// Create creates a budget with its initial items
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.budgetService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create budget", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// Get returns a budget with its items and approval link
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	dto, err := h.budgetService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// List returns all budgets
func (h *BudgetHandler) List(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.budgetService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list budgets", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// Update renames a budget or replaces its item collection
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateBudgetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.budgetService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Send marks a budget as sent to the client
func (h *BudgetHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	dto, err := h.budgetService.Send(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Delete soft-deletes a budget
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	if err := h.budgetService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListItems returns a budget's items
func (h *BudgetHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	dtos, err := h.budgetService.ListItems(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// AddItem appends an item to a budget
func (h *BudgetHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	var req domain.CreateBudgetItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.budgetService.AddItem(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// UpdateItem applies a partial update to a budget item
func (h *BudgetHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req domain.UpdateBudgetItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.budgetService.UpdateItem(r.Context(), id, itemID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// DeleteItem removes a budget item
func (h *BudgetHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	if err := h.budgetService.DeleteItem(r.Context(), id, itemID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// CalculateFreight computes freight for a budget, optionally persisting it
func (h *BudgetHandler) CalculateFreight(w http.ResponseWriter, r *http.Request) {
	id, ok := budgetID(w, r)
	if !ok {
		return
	}

	var req domain.CalculateFreightRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.freightService.CalculateForBudget(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}
