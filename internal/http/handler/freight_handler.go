package handler

import (
	"net/http"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/service"
	"go.uber.org/zap"
)

// FreightHandler handles stand-alone freight computations
type FreightHandler struct {
	freightService *service.FreightService
	logger         *zap.Logger
}

// NewFreightHandler creates a new FreightHandler instance
func NewFreightHandler(freightService *service.FreightService, logger *zap.Logger) *FreightHandler {
	return &FreightHandler{freightService: freightService, logger: logger}
}

// Preview computes freight for hypothetical rows without touching any budget
func (h *FreightHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.FreightPreviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.freightService.Preview(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto)
}
