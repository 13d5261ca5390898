package handler

import (
	"net/http"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ApprovalHandler serves the public, token-addressed approval flow. These
// endpoints are unauthenticated; possession of the token is the credential.
type ApprovalHandler struct {
	approvalService *service.ApprovalService
	logger          *zap.Logger
}

// NewApprovalHandler creates a new ApprovalHandler instance
func NewApprovalHandler(approvalService *service.ApprovalService, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService, logger: logger}
}

// Get renders the client-facing budget view for a token
func (h *ApprovalHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respondWithError(w, http.StatusNotFound, "Budget not found")
		return
	}

	dto, err := h.approvalService.GetByToken(r.Context(), token)
	if err != nil {
		// Unknown and deleted tokens answer identically
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Document serves the render-ready budget export for a token
func (h *ApprovalHandler) Document(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respondWithError(w, http.StatusNotFound, "Budget not found")
		return
	}

	dto, err := h.approvalService.GetDocumentByToken(r.Context(), token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Decide records the client's approval or rejection
func (h *ApprovalHandler) Decide(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respondWithError(w, http.StatusNotFound, "Budget not found")
		return
	}

	var req domain.ApprovalDecisionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.approvalService.Decide(r.Context(), token, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
