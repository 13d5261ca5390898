package repository_test

import (
	"context"
	"testing"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/eventis/budget-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreightRepository_GetOrCreateSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)
	ctx := context.Background()

	settings, err := repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.FreightSettingsID, settings.ID)
	assert.Equal(t, domain.CalcModeMax, settings.CalculationMode)
	assert.True(t, settings.FixedDeliveryFee.IsZero())
	assert.False(t, settings.DistanceRateEnabled)

	// second call returns the same row, never a second one
	again, err := repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&domain.FreightSettings{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFreightRepository_UpdateSettings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)
	ctx := context.Background()

	settings, err := repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)

	settings.FixedDeliveryFee = decimal.NewFromInt(250)
	settings.CalculationMode = domain.CalcModeSum
	require.NoError(t, repo.UpdateSettings(ctx, settings))

	reloaded, err := repo.GetOrCreateSettings(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.FixedDeliveryFee.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, domain.CalcModeSum, reloaded.CalculationMode)
}

func TestFreightRepository_WeightRangeOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)
	ctx := context.Background()

	heavy := &domain.WeightRange{
		Label:        "Heavy",
		MinWeight:    decimal.NewFromInt(50),
		Rate:         decimal.NewFromInt(20),
		RateType:     domain.RateTypePerUnit,
		DisplayOrder: 2,
	}
	light := &domain.WeightRange{
		Label:        "Light",
		MinWeight:    decimal.Zero,
		MaxWeight:    testutil.DecimalPtr("50"),
		Rate:         decimal.NewFromInt(100),
		RateType:     domain.RateTypeFixed,
		DisplayOrder: 1,
	}
	require.NoError(t, repo.CreateWeightRange(ctx, heavy))
	require.NoError(t, repo.CreateWeightRange(ctx, light))

	ranges, err := repo.ListWeightRanges(ctx)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, "Light", ranges[0].Label)
	assert.Equal(t, "Heavy", ranges[1].Label)
}

func TestFreightRepository_DeleteWeightRange_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)

	err := repo.DeleteWeightRange(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestFreightRepository_CreateUrgency_DemotesPreviousDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)
	ctx := context.Background()

	normal := &domain.UrgencyMultiplier{
		Label:      "Normal",
		Multiplier: decimal.NewFromInt(1),
		IsDefault:  true,
	}
	require.NoError(t, repo.CreateUrgency(ctx, normal))

	express := &domain.UrgencyMultiplier{
		Label:      "Express",
		Multiplier: decimal.RequireFromString("1.5"),
		IsDefault:  true,
	}
	require.NoError(t, repo.CreateUrgency(ctx, express))

	urgencies, err := repo.ListUrgencies(ctx)
	require.NoError(t, err)
	require.Len(t, urgencies, 2)

	defaults := 0
	for _, u := range urgencies {
		if u.IsDefault {
			defaults++
			assert.Equal(t, "Express", u.Label)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestFreightRepository_SetDefaultUrgency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)
	ctx := context.Background()

	normal := &domain.UrgencyMultiplier{
		Label:      "Normal",
		Multiplier: decimal.NewFromInt(1),
		IsDefault:  true,
	}
	urgent := &domain.UrgencyMultiplier{
		Label:      "Urgent",
		Multiplier: decimal.NewFromInt(2),
	}
	require.NoError(t, repo.CreateUrgency(ctx, normal))
	require.NoError(t, repo.CreateUrgency(ctx, urgent))

	require.NoError(t, repo.SetDefaultUrgency(ctx, urgent.ID))

	def, err := repo.GetDefaultUrgency(ctx)
	require.NoError(t, err)
	assert.Equal(t, urgent.ID, def.ID)
}

func TestFreightRepository_GetDefaultUrgency_NoneConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewFreightRepository(db)

	_, err := repo.GetDefaultUrgency(context.Background())
	assert.Error(t, err)
}
