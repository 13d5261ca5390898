// Package mapper converts persistence models to API DTOs
package mapper

import (
	"time"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/freight"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}

// ToProjectDTO converts a project without loading related budgets
func ToProjectDTO(p *domain.Project) domain.ProjectDTO {
	dto := domain.ProjectDTO{
		ID:          p.ID,
		Name:        p.Name,
		ClientName:  p.ClientName,
		EventDate:   formatDatePtr(p.EventDate),
		Location:    p.Location,
		Notes:       p.Notes,
		TeamMembers: p.TeamMembers,
		BudgetCount: len(p.Budgets),
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
	return dto
}

// ToProjectWithBudgetsDTO includes the project's budgets
func ToProjectWithBudgetsDTO(p *domain.Project) domain.ProjectDTO {
	dto := ToProjectDTO(p)
	dto.Budgets = make([]domain.BudgetDTO, 0, len(p.Budgets))
	for i := range p.Budgets {
		dto.Budgets = append(dto.Budgets, ToBudgetDTO(&p.Budgets[i]))
	}
	return dto
}

// ToBudgetDTO converts a budget with its derived totals
func ToBudgetDTO(b *domain.Budget) domain.BudgetDTO {
	dto := domain.BudgetDTO{
		ID:                b.ID,
		ProjectID:         b.ProjectID,
		Name:              b.Name,
		Status:            b.Status,
		ApprovalStatus:    b.ApprovalStatus,
		ApprovedAt:        formatTimePtr(b.ApprovedAt),
		ClientNotes:       b.ClientNotes,
		TotalValue:        b.TotalValue(),
		ApprovedValue:     b.ApprovedValue(),
		FreightCost:       b.FreightCost,
		TotalWithFreight:  b.TotalWithFreight(),
		TotalWeight:       b.TotalWeight(),
		TotalVolume:       b.TotalVolume(),
		FreightUrgencyID:  b.FreightUrgencyID,
		FreightDistanceKm: b.FreightDistanceKm,
		CreatedAt:         formatTime(b.CreatedAt),
		UpdatedAt:         formatTime(b.UpdatedAt),
	}
	if b.Project != nil {
		dto.ProjectName = b.Project.Name
	}
	dto.Items = make([]domain.BudgetItemDTO, 0, len(b.Items))
	for i := range b.Items {
		dto.Items = append(dto.Items, ToBudgetItemDTO(&b.Items[i]))
	}
	return dto
}

// ToBudgetWithLinkDTO adds the approval token to the internal budget view
func ToBudgetWithLinkDTO(b *domain.Budget) domain.BudgetWithLinkDTO {
	return domain.BudgetWithLinkDTO{
		BudgetDTO:     ToBudgetDTO(b),
		ApprovalToken: b.ApprovalToken,
	}
}

// ToBudgetItemDTO converts a budget item
func ToBudgetItemDTO(it *domain.BudgetItem) domain.BudgetItemDTO {
	return domain.BudgetItemDTO{
		ID:              it.ID,
		BudgetID:        it.BudgetID,
		Name:            it.Name,
		Description:     it.Description,
		Quantity:        it.Quantity,
		UnitPrice:       it.UnitPrice,
		TotalPrice:      it.TotalPrice,
		Length:          it.Length,
		Width:           it.Width,
		Height:          it.Height,
		Measurement:     it.Measurement,
		MeasurementUnit: it.MeasurementUnit,
		Weight:          it.Weight,
		IsApproved:      it.IsApproved,
		DisplayOrder:    it.DisplayOrder,
	}
}

// ToPublicApprovalDTO builds the client-facing view served on the token link
func ToPublicApprovalDTO(b *domain.Budget) domain.PublicApprovalDTO {
	dto := domain.PublicApprovalDTO{
		BudgetName:       b.Name,
		ApprovalStatus:   b.ApprovalStatus,
		ApprovedAt:       formatTimePtr(b.ApprovedAt),
		ClientNotes:      b.ClientNotes,
		Editable:         b.ApprovalStatus == domain.ApprovalStatusPending,
		TotalValue:       b.TotalValue(),
		DisplayTotal:     b.DisplayTotal(),
		FreightCost:      b.FreightCost,
		TotalWithFreight: b.TotalWithFreight(),
	}
	if b.Project != nil {
		dto.ProjectName = b.Project.Name
		dto.ClientName = b.Project.ClientName
		dto.EventDate = formatDatePtr(b.Project.EventDate)
	}
	dto.Items = make([]domain.BudgetItemDTO, 0, len(b.Items))
	for i := range b.Items {
		dto.Items = append(dto.Items, ToBudgetItemDTO(&b.Items[i]))
	}
	return dto
}

// ToBudgetDocumentDTO builds the document export read model. An approved
// budget exports only its approved items and the approved total; every other
// state exports the full item list.
func ToBudgetDocumentDTO(b *domain.Budget) domain.BudgetDocumentDTO {
	dto := domain.BudgetDocumentDTO{
		BudgetName:     b.Name,
		ApprovalStatus: b.ApprovalStatus,
		ApprovedAt:     formatTimePtr(b.ApprovedAt),
		ClientNotes:    b.ClientNotes,
		Total:          b.DisplayTotal(),
		GeneratedAt:    formatTime(time.Now().UTC()),
	}
	if b.Project != nil {
		dto.ProjectName = b.Project.Name
		dto.ClientName = b.Project.ClientName
		dto.EventDate = formatDatePtr(b.Project.EventDate)
	}
	approvedOnly := b.ApprovalStatus == domain.ApprovalStatusApproved
	dto.Items = make([]domain.BudgetItemDTO, 0, len(b.Items))
	for i := range b.Items {
		if approvedOnly && !b.Items[i].IsApproved {
			continue
		}
		dto.Items = append(dto.Items, ToBudgetItemDTO(&b.Items[i]))
	}
	return dto
}

// ToFreightSettingsDTO converts the settings singleton
func ToFreightSettingsDTO(s *domain.FreightSettings) domain.FreightSettingsDTO {
	return domain.FreightSettingsDTO{
		FixedDeliveryFee:    s.FixedDeliveryFee,
		PercentageOnTotal:   s.PercentageOnTotal,
		DistanceRateEnabled: s.DistanceRateEnabled,
		DistanceRatePerKm:   s.DistanceRatePerKm,
		CalculationMode:     s.CalculationMode,
		UpdatedAt:           formatTime(s.UpdatedAt),
	}
}

// ToWeightRangeDTO converts a weight band
func ToWeightRangeDTO(w *domain.WeightRange) domain.RangeDTO {
	return domain.RangeDTO{
		ID:           w.ID,
		Label:        w.Label,
		Min:          w.MinWeight,
		Max:          w.MaxWeight,
		Rate:         w.Rate,
		RateType:     w.RateType,
		DisplayOrder: w.DisplayOrder,
	}
}

// ToVolumeRangeDTO converts a volume band
func ToVolumeRangeDTO(v *domain.VolumeRange) domain.RangeDTO {
	return domain.RangeDTO{
		ID:           v.ID,
		Label:        v.Label,
		Min:          v.MinVolume,
		Max:          v.MaxVolume,
		Rate:         v.Rate,
		RateType:     v.RateType,
		DisplayOrder: v.DisplayOrder,
	}
}

// ToUrgencyDTO converts an urgency multiplier
func ToUrgencyDTO(u *domain.UrgencyMultiplier) domain.UrgencyMultiplierDTO {
	return domain.UrgencyMultiplierDTO{
		ID:          u.ID,
		Label:       u.Label,
		Description: u.Description,
		Multiplier:  u.Multiplier,
		IsDefault:   u.IsDefault,
	}
}

// ToFreightBreakdownDTO converts an engine breakdown to its API shape
func ToFreightBreakdownDTO(bd freight.Breakdown) domain.FreightBreakdownDTO {
	return domain.FreightBreakdownDTO{
		WeightTotal:       bd.WeightTotal,
		VolumeTotal:       bd.VolumeTotal,
		WeightCost:        bd.WeightCost,
		VolumeCost:        bd.VolumeCost,
		CalculationMode:   domain.CalculationMode(bd.Mode),
		BaseFreight:       bd.BaseFreight,
		FixedFee:          bd.FixedFee,
		PercentageCost:    bd.PercentageCost,
		DistanceCost:      bd.DistanceCost,
		Subtotal:          bd.Subtotal,
		UrgencyLabel:      bd.UrgencyLabel,
		UrgencyMultiplier: bd.UrgencyMultiplier,
		FreightTotal:      bd.Total,
	}
}

// ToServiceOrderDTO converts a service order with its items
func ToServiceOrderDTO(o *domain.ServiceOrder) domain.ServiceOrderDTO {
	dto := domain.ServiceOrderDTO{
		ID:        o.ID,
		BudgetID:  o.BudgetID,
		ProjectID: o.ProjectID,
		Status:    o.Status,
		CreatedAt: formatTime(o.CreatedAt),
		UpdatedAt: formatTime(o.UpdatedAt),
	}
	dto.Items = make([]domain.ServiceOrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		dto.Items = append(dto.Items, domain.ServiceOrderItemDTO{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			Quantity:    it.Quantity,
			Status:      it.Status,
		})
	}
	return dto
}
