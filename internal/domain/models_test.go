package domain_test

import (
	"testing"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestBudgetItem_Recalculate_TotalPrice(t *testing.T) {
	item := domain.BudgetItem{
		Quantity:  3,
		UnitPrice: d("19.99"),
	}
	item.Recalculate()

	assert.True(t, item.TotalPrice.Equal(d("59.97")))
}

func TestBudgetItem_Recalculate_RoundsToTwoDecimals(t *testing.T) {
	item := domain.BudgetItem{
		Quantity:  3,
		UnitPrice: d("0.335"),
	}
	item.Recalculate()

	assert.True(t, item.TotalPrice.Equal(d("1.01")), "got %s", item.TotalPrice)
}

func TestBudgetItem_Recalculate_DerivesVolumeFromDimensions(t *testing.T) {
	item := domain.BudgetItem{
		Quantity:  1,
		UnitPrice: d("10"),
		Length:    dp("1.2"),
		Width:     dp("0.8"),
		Height:    dp("0.5"),
	}
	item.Recalculate()

	assert.NotNil(t, item.Measurement)
	assert.True(t, item.Measurement.Equal(d("0.48")), "got %s", item.Measurement)
	assert.Equal(t, domain.UnitCubicMeter, item.MeasurementUnit)
}

func TestBudgetItem_Recalculate_DimensionsOverrideManualMeasurement(t *testing.T) {
	item := domain.BudgetItem{
		Quantity:        1,
		UnitPrice:       d("10"),
		Length:          dp("2"),
		Width:           dp("2"),
		Height:          dp("2"),
		Measurement:     dp("99"),
		MeasurementUnit: domain.UnitSquareMeter,
	}
	item.Recalculate()

	assert.True(t, item.Measurement.Equal(d("8")))
	assert.Equal(t, domain.UnitCubicMeter, item.MeasurementUnit)
}

func TestBudgetItem_Recalculate_PartialDimensionsLeaveMeasurement(t *testing.T) {
	item := domain.BudgetItem{
		Quantity:        1,
		UnitPrice:       d("10"),
		Length:          dp("2"),
		Width:           dp("2"),
		Measurement:     dp("12.5"),
		MeasurementUnit: domain.UnitSquareMeter,
	}
	item.Recalculate()

	assert.True(t, item.Measurement.Equal(d("12.5")))
	assert.Equal(t, domain.UnitSquareMeter, item.MeasurementUnit)
}

func TestBudgetItem_Recalculate_VolumeRoundsToThreeDecimals(t *testing.T) {
	item := domain.BudgetItem{
		Quantity:  1,
		UnitPrice: d("10"),
		Length:    dp("1.111"),
		Width:     dp("1.111"),
		Height:    dp("1.111"),
	}
	item.Recalculate()

	assert.True(t, item.Measurement.Equal(d("1.371")), "got %s", item.Measurement)
}

func budgetWithItems() domain.Budget {
	return domain.Budget{
		ApprovalStatus: domain.ApprovalStatusPending,
		Items: []domain.BudgetItem{
			{
				Quantity:   2,
				TotalPrice: d("200"),
				Weight:     dp("10"),
				IsApproved: true,
			},
			{
				Quantity:        3,
				TotalPrice:      d("150"),
				Measurement:     dp("0.5"),
				MeasurementUnit: domain.UnitCubicMeter,
				IsApproved:      false,
			},
		},
	}
}

func TestBudget_TotalValue(t *testing.T) {
	b := budgetWithItems()
	assert.True(t, b.TotalValue().Equal(d("350")))
}

func TestBudget_ApprovedValue(t *testing.T) {
	b := budgetWithItems()
	assert.True(t, b.ApprovedValue().Equal(d("200")))
}

func TestBudget_TotalWithFreight(t *testing.T) {
	b := budgetWithItems()
	assert.True(t, b.TotalWithFreight().Equal(d("350")))

	b.FreightCost = dp("45.50")
	assert.True(t, b.TotalWithFreight().Equal(d("395.50")))
}

func TestBudget_TotalWeight_ScalesByQuantity(t *testing.T) {
	b := budgetWithItems()
	assert.True(t, b.TotalWeight().Equal(d("20")))
}

func TestBudget_TotalVolume_OnlyCountsCubicMeters(t *testing.T) {
	b := budgetWithItems()
	assert.True(t, b.TotalVolume().Equal(d("1.5")))

	// m² measurements never contribute to shipment volume
	b.Items[1].MeasurementUnit = domain.UnitSquareMeter
	assert.True(t, b.TotalVolume().IsZero())
}

func TestBudget_DisplayTotal(t *testing.T) {
	b := budgetWithItems()
	assert.True(t, b.DisplayTotal().Equal(d("350")))

	b.ApprovalStatus = domain.ApprovalStatusApproved
	assert.True(t, b.DisplayTotal().Equal(d("200")))

	b.ApprovalStatus = domain.ApprovalStatusRejected
	assert.True(t, b.DisplayTotal().Equal(d("350")))
}

func TestBudget_IsEditable(t *testing.T) {
	b := domain.Budget{ApprovalStatus: domain.ApprovalStatusPending}
	assert.True(t, b.IsEditable())

	b.ApprovalStatus = domain.ApprovalStatusApproved
	assert.False(t, b.IsEditable())

	b.ApprovalStatus = domain.ApprovalStatusRejected
	assert.False(t, b.IsEditable())
}

func TestApprovalStatus_IsTerminal(t *testing.T) {
	assert.False(t, domain.ApprovalStatusPending.IsTerminal())
	assert.True(t, domain.ApprovalStatusApproved.IsTerminal())
	assert.True(t, domain.ApprovalStatusRejected.IsTerminal())
}

func TestCalculationMode_IsValid(t *testing.T) {
	for _, mode := range []domain.CalculationMode{
		domain.CalcModeMax, domain.CalcModeSum, domain.CalcModeWeight, domain.CalcModeVolume,
	} {
		assert.True(t, mode.IsValid())
	}
	assert.False(t, domain.CalculationMode("average").IsValid())
}
