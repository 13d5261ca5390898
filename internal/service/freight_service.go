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

// FreightService runs freight computations against the stored configuration
type FreightService struct {
	budgetRepo  *repository.BudgetRepository
	freightRepo *repository.FreightRepository
	logger      *zap.Logger
}

// NewFreightService creates a new FreightService instance
func NewFreightService(
	budgetRepo *repository.BudgetRepository,
	freightRepo *repository.FreightRepository,
	logger *zap.Logger,
) *FreightService {
	return &FreightService{budgetRepo: budgetRepo, freightRepo: freightRepo, logger: logger}
}

func weightBands(ranges []domain.WeightRange) []freight.Band {
	bands := make([]freight.Band, 0, len(ranges))
	for _, r := range ranges {
		bands = append(bands, freight.Band{
			Label:    r.Label,
			Min:      r.MinWeight,
			Max:      r.MaxWeight,
			Rate:     r.Rate,
			RateType: freight.RateType(r.RateType),
			Order:    r.DisplayOrder,
		})
	}
	freight.SortBands(bands)
	return bands
}

func volumeBands(ranges []domain.VolumeRange) []freight.Band {
	bands := make([]freight.Band, 0, len(ranges))
	for _, r := range ranges {
		bands = append(bands, freight.Band{
			Label:    r.Label,
			Min:      r.MinVolume,
			Max:      r.MaxVolume,
			Rate:     r.Rate,
			RateType: freight.RateType(r.RateType),
			Order:    r.DisplayOrder,
		})
	}
	freight.SortBands(bands)
	return bands
}

func itemsForFreight(items []domain.BudgetItem) []freight.Item {
	rows := make([]freight.Item, 0, len(items))
	for i := range items {
		it := &items[i]
		row := freight.Item{Quantity: it.Quantity, Weight: it.Weight}
		if it.Measurement != nil && it.MeasurementUnit == domain.UnitCubicMeter {
			row.Volume = it.Measurement
		}
		rows = append(rows, row)
	}
	return rows
}

// resolveUrgency picks the multiplier for a computation: the explicit one when
// requested, otherwise the configured default, otherwise the neutral 1.00
func (s *FreightService) resolveUrgency(ctx context.Context, urgencyID *uuid.UUID) (freight.Urgency, *uuid.UUID, error) {
	if urgencyID != nil {
		u, err := s.freightRepo.GetUrgency(ctx, *urgencyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return freight.Urgency{}, nil, ErrUrgencyNotFound
			}
			return freight.Urgency{}, nil, fmt.Errorf("failed to get urgency: %w", err)
		}
		return freight.Urgency{Label: u.Label, Multiplier: u.Multiplier}, &u.ID, nil
	}

	u, err := s.freightRepo.GetDefaultUrgency(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return freight.NormalUrgency, nil, nil
		}
		return freight.Urgency{}, nil, fmt.Errorf("failed to get default urgency: %w", err)
	}
	return freight.Urgency{Label: u.Label, Multiplier: u.Multiplier}, &u.ID, nil
}

// loadConfig snapshots everything one computation needs
func (s *FreightService) loadConfig(ctx context.Context) (freight.Settings, []freight.Band, []freight.Band, error) {
	settings, err := s.freightRepo.GetOrCreateSettings(ctx)
	if err != nil {
		return freight.Settings{}, nil, nil, fmt.Errorf("failed to load freight settings: %w", err)
	}

	wr, err := s.freightRepo.ListWeightRanges(ctx)
	if err != nil {
		return freight.Settings{}, nil, nil, fmt.Errorf("failed to load weight ranges: %w", err)
	}
	vr, err := s.freightRepo.ListVolumeRanges(ctx)
	if err != nil {
		return freight.Settings{}, nil, nil, fmt.Errorf("failed to load volume ranges: %w", err)
	}

	cfg := freight.Settings{
		Mode:                freight.CombinationMode(settings.CalculationMode),
		FixedFee:            settings.FixedDeliveryFee,
		PercentageOnTotal:   settings.PercentageOnTotal,
		DistanceRateEnabled: settings.DistanceRateEnabled,
		DistanceRatePerKm:   settings.DistanceRatePerKm,
	}
	return cfg, weightBands(wr), volumeBands(vr), nil
}

// CalculateForBudget computes freight for a stored budget. With persist set
// the total, urgency and distance are written back to the budget; otherwise
// the call is a read-only recalculation and repeating it never changes state.
func (s *FreightService) CalculateForBudget(ctx context.Context, budgetID uuid.UUID, req *domain.CalculateFreightRequest) (*domain.FreightBreakdownDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if req.DistanceKm != nil && req.DistanceKm.IsNegative() {
		return nil, ErrNegativeAmount
	}

	cfg, wb, vb, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	urgencyID := req.UrgencyID
	if urgencyID == nil {
		urgencyID = budget.FreightUrgencyID
	}
	urgency, resolvedID, err := s.resolveUrgency(ctx, urgencyID)
	if err != nil {
		return nil, err
	}

	distance := req.DistanceKm
	if distance == nil {
		distance = budget.FreightDistanceKm
	}

	bd := freight.Compute(itemsForFreight(budget.Items), budget.TotalValue(), wb, vb, cfg, urgency, distance)

	if req.Persist {
		budget.FreightCost = &bd.Total
		budget.FreightUrgencyID = resolvedID
		budget.FreightDistanceKm = distance
		if err := s.budgetRepo.Update(ctx, budget); err != nil {
			return nil, fmt.Errorf("failed to persist freight cost: %w", err)
		}
		s.logger.Info("freight cost persisted",
			zap.String("budgetId", budgetID.String()),
			zap.String("total", bd.Total.String()))
	}

	dto := mapper.ToFreightBreakdownDTO(bd)
	return &dto, nil
}

// Preview computes freight for hypothetical rows without touching any budget.
// Rows follow the same derivation as stored items: three dimensions multiply
// into a m³ measurement, and only m³ measurements count toward volume.
func (s *FreightService) Preview(ctx context.Context, req *domain.FreightPreviewRequest) (*domain.FreightBreakdownDTO, error) {
	if req.DistanceKm != nil && req.DistanceKm.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if req.RunningTotal != nil && req.RunningTotal.IsNegative() {
		return nil, ErrNegativeAmount
	}

	items := make([]freight.Item, 0, len(req.Rows))
	total := decimal.Zero
	for i := range req.Rows {
		row := &req.Rows[i]
		if err := checkNonNegative(row.Weight, row.Length, row.Width, row.Height, row.Measurement, row.UnitPrice); err != nil {
			return nil, err
		}

		item := domain.BudgetItem{
			Quantity:        row.Quantity,
			Length:          row.Length,
			Width:           row.Width,
			Height:          row.Height,
			Measurement:     row.Measurement,
			MeasurementUnit: row.MeasurementUnit,
			Weight:          row.Weight,
		}
		if row.UnitPrice != nil {
			item.UnitPrice = *row.UnitPrice
		}
		item.Recalculate()

		total = total.Add(item.TotalPrice)
		fi := freight.Item{Quantity: item.Quantity, Weight: item.Weight}
		if item.Measurement != nil && item.MeasurementUnit == domain.UnitCubicMeter {
			fi.Volume = item.Measurement
		}
		items = append(items, fi)
	}

	if req.RunningTotal != nil {
		total = *req.RunningTotal
	}

	cfg, wb, vb, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	urgency, _, err := s.resolveUrgency(ctx, req.UrgencyID)
	if err != nil {
		return nil, err
	}

	bd := freight.Compute(items, total, wb, vb, cfg, urgency, req.DistanceKm)
	dto := mapper.ToFreightBreakdownDTO(bd)
	return &dto, nil
}
