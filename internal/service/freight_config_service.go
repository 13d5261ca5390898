package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/freight"
	"github.com/eventis/budget-api/internal/mapper"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FreightConfigService manages the freight configuration: the settings
// singleton, both range tables and the urgency multipliers
type FreightConfigService struct {
	freightRepo *repository.FreightRepository
	logger      *zap.Logger
}

// NewFreightConfigService creates a new FreightConfigService instance
func NewFreightConfigService(freightRepo *repository.FreightRepository, logger *zap.Logger) *FreightConfigService {
	return &FreightConfigService{freightRepo: freightRepo, logger: logger}
}

// GetSettings returns the settings singleton, creating it on first access
func (s *FreightConfigService) GetSettings(ctx context.Context) (*domain.FreightSettingsDTO, error) {
	settings, err := s.freightRepo.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load freight settings: %w", err)
	}
	dto := mapper.ToFreightSettingsDTO(settings)
	return &dto, nil
}

// CreateSettings refuses to mint a second settings row. The singleton exists
// after first read; callers are pointed at the update path instead.
func (s *FreightConfigService) CreateSettings(ctx context.Context) error {
	if _, err := s.freightRepo.GetOrCreateSettings(ctx); err != nil {
		return fmt.Errorf("failed to load freight settings: %w", err)
	}
	return ErrSettingsExist
}

// UpdateSettings applies a partial update to the singleton. There is no
// create path; the row exists after first read and is only ever modified.
func (s *FreightConfigService) UpdateSettings(ctx context.Context, req *domain.UpdateFreightSettingsRequest) (*domain.FreightSettingsDTO, error) {
	if err := checkNonNegative(req.FixedDeliveryFee, req.PercentageOnTotal, req.DistanceRatePerKm); err != nil {
		return nil, err
	}
	if req.PercentageOnTotal != nil && req.PercentageOnTotal.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidInput
	}
	if req.CalculationMode != nil && !req.CalculationMode.IsValid() {
		return nil, ErrInvalidInput
	}

	settings, err := s.freightRepo.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load freight settings: %w", err)
	}

	if req.FixedDeliveryFee != nil {
		settings.FixedDeliveryFee = *req.FixedDeliveryFee
	}
	if req.PercentageOnTotal != nil {
		settings.PercentageOnTotal = *req.PercentageOnTotal
	}
	if req.DistanceRateEnabled != nil {
		settings.DistanceRateEnabled = *req.DistanceRateEnabled
	}
	if req.DistanceRatePerKm != nil {
		settings.DistanceRatePerKm = *req.DistanceRatePerKm
	}
	if req.CalculationMode != nil {
		settings.CalculationMode = *req.CalculationMode
	}

	if err := s.freightRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to update freight settings: %w", err)
	}

	s.logger.Info("freight settings updated", zap.String("mode", string(settings.CalculationMode)))

	dto := mapper.ToFreightSettingsDTO(settings)
	return &dto, nil
}

func validateRangeBounds(min decimal.Decimal, max *decimal.Decimal, rate decimal.Decimal) error {
	if min.IsNegative() || rate.IsNegative() {
		return ErrNegativeAmount
	}
	if max != nil && !max.GreaterThan(min) {
		return ErrInvalidRange
	}
	return nil
}

// ListWeightRanges returns the weight table with configuration warnings
func (s *FreightConfigService) ListWeightRanges(ctx context.Context) (*domain.RangeTableDTO, error) {
	ranges, err := s.freightRepo.ListWeightRanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight ranges: %w", err)
	}
	return weightTableDTO(ranges), nil
}

func weightTableDTO(ranges []domain.WeightRange) *domain.RangeTableDTO {
	table := &domain.RangeTableDTO{Ranges: make([]domain.RangeDTO, 0, len(ranges))}
	bands := make([]freight.Band, 0, len(ranges))
	for i := range ranges {
		table.Ranges = append(table.Ranges, mapper.ToWeightRangeDTO(&ranges[i]))
		bands = append(bands, freight.Band{
			Label: ranges[i].Label,
			Min:   ranges[i].MinWeight,
			Max:   ranges[i].MaxWeight,
			Order: ranges[i].DisplayOrder,
		})
	}
	freight.SortBands(bands)
	table.Warnings = freight.ValidateBands(bands)
	return table
}

// CreateWeightRange adds a weight band
func (s *FreightConfigService) CreateWeightRange(ctx context.Context, req *domain.CreateRangeRequest) (*domain.RangeDTO, error) {
	if err := validateRangeBounds(req.Min, req.Max, req.Rate); err != nil {
		return nil, err
	}

	band := &domain.WeightRange{
		Label:        req.Label,
		MinWeight:    req.Min,
		MaxWeight:    req.Max,
		Rate:         req.Rate,
		RateType:     req.RateType,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.freightRepo.CreateWeightRange(ctx, band); err != nil {
		return nil, fmt.Errorf("failed to create weight range: %w", err)
	}

	dto := mapper.ToWeightRangeDTO(band)
	return &dto, nil
}

// UpdateWeightRange applies a partial update to a weight band
func (s *FreightConfigService) UpdateWeightRange(ctx context.Context, id uuid.UUID, req *domain.UpdateRangeRequest) (*domain.RangeDTO, error) {
	band, err := s.freightRepo.GetWeightRange(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRangeNotFound
		}
		return nil, fmt.Errorf("failed to get weight range: %w", err)
	}

	if req.Label != nil {
		band.Label = *req.Label
	}
	if req.Min != nil {
		band.MinWeight = *req.Min
	}
	if req.Max != nil {
		band.MaxWeight = req.Max
	}
	if req.Rate != nil {
		band.Rate = *req.Rate
	}
	if req.RateType != nil {
		band.RateType = *req.RateType
	}
	if req.DisplayOrder != nil {
		band.DisplayOrder = *req.DisplayOrder
	}
	if err := validateRangeBounds(band.MinWeight, band.MaxWeight, band.Rate); err != nil {
		return nil, err
	}

	if err := s.freightRepo.UpdateWeightRange(ctx, band); err != nil {
		return nil, fmt.Errorf("failed to update weight range: %w", err)
	}

	dto := mapper.ToWeightRangeDTO(band)
	return &dto, nil
}

// DeleteWeightRange removes a weight band
func (s *FreightConfigService) DeleteWeightRange(ctx context.Context, id uuid.UUID) error {
	if err := s.freightRepo.DeleteWeightRange(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRangeNotFound
		}
		return fmt.Errorf("failed to delete weight range: %w", err)
	}
	return nil
}

// ListVolumeRanges returns the volume table with configuration warnings
func (s *FreightConfigService) ListVolumeRanges(ctx context.Context) (*domain.RangeTableDTO, error) {
	ranges, err := s.freightRepo.ListVolumeRanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volume ranges: %w", err)
	}

	table := &domain.RangeTableDTO{Ranges: make([]domain.RangeDTO, 0, len(ranges))}
	bands := make([]freight.Band, 0, len(ranges))
	for i := range ranges {
		table.Ranges = append(table.Ranges, mapper.ToVolumeRangeDTO(&ranges[i]))
		bands = append(bands, freight.Band{
			Label: ranges[i].Label,
			Min:   ranges[i].MinVolume,
			Max:   ranges[i].MaxVolume,
			Order: ranges[i].DisplayOrder,
		})
	}
	freight.SortBands(bands)
	table.Warnings = freight.ValidateBands(bands)
	return table, nil
}

// CreateVolumeRange adds a volume band
func (s *FreightConfigService) CreateVolumeRange(ctx context.Context, req *domain.CreateRangeRequest) (*domain.RangeDTO, error) {
	if err := validateRangeBounds(req.Min, req.Max, req.Rate); err != nil {
		return nil, err
	}

	band := &domain.VolumeRange{
		Label:        req.Label,
		MinVolume:    req.Min,
		MaxVolume:    req.Max,
		Rate:         req.Rate,
		RateType:     req.RateType,
		DisplayOrder: req.DisplayOrder,
	}
	if err := s.freightRepo.CreateVolumeRange(ctx, band); err != nil {
		return nil, fmt.Errorf("failed to create volume range: %w", err)
	}

	dto := mapper.ToVolumeRangeDTO(band)
	return &dto, nil
}

// UpdateVolumeRange applies a partial update to a volume band
func (s *FreightConfigService) UpdateVolumeRange(ctx context.Context, id uuid.UUID, req *domain.UpdateRangeRequest) (*domain.RangeDTO, error) {
	band, err := s.freightRepo.GetVolumeRange(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRangeNotFound
		}
		return nil, fmt.Errorf("failed to get volume range: %w", err)
	}

	if req.Label != nil {
		band.Label = *req.Label
	}
	if req.Min != nil {
		band.MinVolume = *req.Min
	}
	if req.Max != nil {
		band.MaxVolume = req.Max
	}
	if req.Rate != nil {
		band.Rate = *req.Rate
	}
	if req.RateType != nil {
		band.RateType = *req.RateType
	}
	if req.DisplayOrder != nil {
		band.DisplayOrder = *req.DisplayOrder
	}
	if err := validateRangeBounds(band.MinVolume, band.MaxVolume, band.Rate); err != nil {
		return nil, err
	}

	if err := s.freightRepo.UpdateVolumeRange(ctx, band); err != nil {
		return nil, fmt.Errorf("failed to update volume range: %w", err)
	}

	dto := mapper.ToVolumeRangeDTO(band)
	return &dto, nil
}

// DeleteVolumeRange removes a volume band
func (s *FreightConfigService) DeleteVolumeRange(ctx context.Context, id uuid.UUID) error {
	if err := s.freightRepo.DeleteVolumeRange(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRangeNotFound
		}
		return fmt.Errorf("failed to delete volume range: %w", err)
	}
	return nil
}

// ListUrgencies returns all urgency multipliers
func (s *FreightConfigService) ListUrgencies(ctx context.Context) ([]domain.UrgencyMultiplierDTO, error) {
	urgencies, err := s.freightRepo.ListUrgencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list urgencies: %w", err)
	}

	dtos := make([]domain.UrgencyMultiplierDTO, 0, len(urgencies))
	for i := range urgencies {
		dtos = append(dtos, mapper.ToUrgencyDTO(&urgencies[i]))
	}
	return dtos, nil
}

// CreateUrgency adds an urgency multiplier. Flagging it default demotes any
// previous default in the same transaction.
func (s *FreightConfigService) CreateUrgency(ctx context.Context, req *domain.CreateUrgencyRequest) (*domain.UrgencyMultiplierDTO, error) {
	if req.Multiplier.IsNegative() || req.Multiplier.IsZero() {
		return nil, ErrInvalidInput
	}

	urgency := &domain.UrgencyMultiplier{
		Label:       req.Label,
		Description: req.Description,
		Multiplier:  req.Multiplier,
		IsDefault:   req.IsDefault,
	}
	if err := s.freightRepo.CreateUrgency(ctx, urgency); err != nil {
		return nil, fmt.Errorf("failed to create urgency: %w", err)
	}

	dto := mapper.ToUrgencyDTO(urgency)
	return &dto, nil
}

// UpdateUrgency applies a partial update to an urgency multiplier
func (s *FreightConfigService) UpdateUrgency(ctx context.Context, id uuid.UUID, req *domain.UpdateUrgencyRequest) (*domain.UrgencyMultiplierDTO, error) {
	urgency, err := s.freightRepo.GetUrgency(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUrgencyNotFound
		}
		return nil, fmt.Errorf("failed to get urgency: %w", err)
	}

	if req.Label != nil {
		urgency.Label = *req.Label
	}
	if req.Description != nil {
		urgency.Description = *req.Description
	}
	if req.Multiplier != nil {
		if req.Multiplier.IsNegative() || req.Multiplier.IsZero() {
			return nil, ErrInvalidInput
		}
		urgency.Multiplier = *req.Multiplier
	}
	if req.IsDefault != nil {
		urgency.IsDefault = *req.IsDefault
	}

	if err := s.freightRepo.UpdateUrgency(ctx, urgency); err != nil {
		return nil, fmt.Errorf("failed to update urgency: %w", err)
	}

	dto := mapper.ToUrgencyDTO(urgency)
	return &dto, nil
}

// DeleteUrgency removes an urgency multiplier
func (s *FreightConfigService) DeleteUrgency(ctx context.Context, id uuid.UUID) error {
	if err := s.freightRepo.DeleteUrgency(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUrgencyNotFound
		}
		return fmt.Errorf("failed to delete urgency: %w", err)
	}
	return nil
}

// SetDefaultUrgency makes one multiplier the sole default
func (s *FreightConfigService) SetDefaultUrgency(ctx context.Context, id uuid.UUID) error {
	if err := s.freightRepo.SetDefaultUrgency(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUrgencyNotFound
		}
		return fmt.Errorf("failed to set default urgency: %w", err)
	}
	return nil
}
