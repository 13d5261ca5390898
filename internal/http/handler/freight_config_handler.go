package handler

import (
	"net/http"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FreightConfigHandler handles HTTP requests for freight configuration:
// settings, range tables and urgency multipliers
type FreightConfigHandler struct {
	configService *service.FreightConfigService
	logger        *zap.Logger
}

// NewFreightConfigHandler creates a new FreightConfigHandler instance
func NewFreightConfigHandler(configService *service.FreightConfigService, logger *zap.Logger) *FreightConfigHandler {
	return &FreightConfigHandler{configService: configService, logger: logger}
}

// GetSettings returns the freight settings singleton
func (h *FreightConfigHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	dto, err := h.configService.GetSettings(r.Context())
	if err != nil {
		h.logger.Error("failed to get freight settings", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// CreateSettings rejects attempts to create a second settings row
func (h *FreightConfigHandler) CreateSettings(w http.ResponseWriter, r *http.Request) {
	err := h.configService.CreateSettings(r.Context())
	respondServiceError(w, err)
}

// UpdateSettings applies a partial update to the settings singleton
func (h *FreightConfigHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateFreightSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.UpdateSettings(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

func rangeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid range ID")
		return uuid.Nil, false
	}
	return id, true
}

// ListWeightRanges returns the weight table with configuration warnings
func (h *FreightConfigHandler) ListWeightRanges(w http.ResponseWriter, r *http.Request) {
	table, err := h.configService.ListWeightRanges(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// CreateWeightRange adds a weight band
func (h *FreightConfigHandler) CreateWeightRange(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRangeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.CreateWeightRange(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// UpdateWeightRange applies a partial update to a weight band
func (h *FreightConfigHandler) UpdateWeightRange(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateRangeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.UpdateWeightRange(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// DeleteWeightRange removes a weight band
func (h *FreightConfigHandler) DeleteWeightRange(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	if err := h.configService.DeleteWeightRange(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListVolumeRanges returns the volume table with configuration warnings
func (h *FreightConfigHandler) ListVolumeRanges(w http.ResponseWriter, r *http.Request) {
	table, err := h.configService.ListVolumeRanges(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, table)
}

// CreateVolumeRange adds a volume band
func (h *FreightConfigHandler) CreateVolumeRange(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRangeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.CreateVolumeRange(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// UpdateVolumeRange applies a partial update to a volume band
func (h *FreightConfigHandler) UpdateVolumeRange(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateRangeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.UpdateVolumeRange(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// DeleteVolumeRange removes a volume band
func (h *FreightConfigHandler) DeleteVolumeRange(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	if err := h.configService.DeleteVolumeRange(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ListUrgencies returns all urgency multipliers
func (h *FreightConfigHandler) ListUrgencies(w http.ResponseWriter, r *http.Request) {
	dtos, err := h.configService.ListUrgencies(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dtos)
}

// CreateUrgency adds an urgency multiplier
func (h *FreightConfigHandler) CreateUrgency(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUrgencyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.CreateUrgency(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto)
}

// UpdateUrgency applies a partial update to an urgency multiplier
func (h *FreightConfigHandler) UpdateUrgency(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateUrgencyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.configService.UpdateUrgency(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto)
}

// DeleteUrgency removes an urgency multiplier
func (h *FreightConfigHandler) DeleteUrgency(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	if err := h.configService.DeleteUrgency(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SetDefaultUrgency makes one multiplier the sole default
func (h *FreightConfigHandler) SetDefaultUrgency(w http.ResponseWriter, r *http.Request) {
	id, ok := rangeID(w, r)
	if !ok {
		return
	}

	if err := h.configService.SetDefaultUrgency(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
