package freight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func standardWeightBands() []Band {
	return []Band{
		{Label: "0-50 kg", Min: d("0"), Max: dp("50"), Rate: d("100"), RateType: RateTypeFixed, Order: 0},
		{Label: "Above 50 kg", Min: d("50"), Rate: d("20"), RateType: RateTypePerUnit, Order: 1},
	}
}

func TestLookupFixedBand(t *testing.T) {
	cost := Lookup(d("30"), standardWeightBands(), WeightUnitSize)
	assert.True(t, cost.Equal(d("100")), "got %s", cost)
}

func TestLookupPerUnitBand(t *testing.T) {
	// 20 per tonne above the 50 kg floor: 20 * (2000-50)/1000 = 39
	cost := Lookup(d("2000"), standardWeightBands(), WeightUnitSize)
	assert.True(t, cost.Equal(d("39")), "got %s", cost)
}

func TestLookupBoundaryBelongsToFirstMatch(t *testing.T) {
	// 50 sits in both bands; the first in table order wins
	cost := Lookup(d("50"), standardWeightBands(), WeightUnitSize)
	assert.True(t, cost.Equal(d("100")), "got %s", cost)
}

func TestLookupEmptyTable(t *testing.T) {
	cost := Lookup(d("120"), nil, WeightUnitSize)
	assert.True(t, cost.IsZero())
}

func TestLookupFallsBackToLastBand(t *testing.T) {
	bands := []Band{
		{Label: "0-50", Min: d("0"), Max: dp("50"), Rate: d("100"), RateType: RateTypeFixed, Order: 0},
		{Label: "50-100", Min: d("50"), Max: dp("100"), Rate: d("150"), RateType: RateTypeFixed, Order: 1},
	}
	cost := Lookup(d("500"), bands, WeightUnitSize)
	assert.True(t, cost.Equal(d("150")), "got %s", cost)
}

func TestLookupFallbackPerUnitLastBand(t *testing.T) {
	bands := []Band{
		{Label: "0-50", Min: d("0"), Max: dp("50"), Rate: d("100"), RateType: RateTypeFixed, Order: 0},
		{Label: "50-100", Min: d("50"), Max: dp("100"), Rate: d("20"), RateType: RateTypePerUnit, Order: 1},
	}
	// out of range, last band applied as if open-ended: 20 * (500-50)/1000 = 9
	cost := Lookup(d("500"), bands, WeightUnitSize)
	assert.True(t, cost.Equal(d("9")), "got %s", cost)
}

func TestLookupVolumeUnitSize(t *testing.T) {
	bands := []Band{
		{Label: "0-10 m3", Min: d("0"), Max: dp("10"), Rate: d("80"), RateType: RateTypeFixed, Order: 0},
		{Label: "Above 10 m3", Min: d("10"), Rate: d("15"), RateType: RateTypePerUnit, Order: 1},
	}
	// 15 per m3 above the floor: 15 * (14-10)/1 = 60
	cost := Lookup(d("14"), bands, VolumeUnitSize)
	assert.True(t, cost.Equal(d("60")), "got %s", cost)
}

func TestSortBandsByOrderThenMin(t *testing.T) {
	bands := []Band{
		{Label: "b", Min: d("50"), Order: 1},
		{Label: "c", Min: d("100"), Order: 1},
		{Label: "a", Min: d("0"), Order: 0},
	}
	SortBands(bands)
	require.Len(t, bands, 3)
	assert.Equal(t, "a", bands[0].Label)
	assert.Equal(t, "b", bands[1].Label)
	assert.Equal(t, "c", bands[2].Label)
}

func TestValidateBandsCleanTable(t *testing.T) {
	warnings := ValidateBands(standardWeightBands())
	assert.Empty(t, warnings)
}

func TestValidateBandsSharedBoundaryIsNotOverlap(t *testing.T) {
	bands := []Band{
		{Label: "0-50", Min: d("0"), Max: dp("50"), Order: 0},
		{Label: "50+", Min: d("50"), Order: 1},
	}
	assert.Empty(t, ValidateBands(bands))
}

func TestValidateBandsOverlap(t *testing.T) {
	bands := []Band{
		{Label: "0-60", Min: d("0"), Max: dp("60"), Order: 0},
		{Label: "50+", Min: d("50"), Order: 1},
	}
	warnings := ValidateBands(bands)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "overlap")
}

func TestValidateBandsGap(t *testing.T) {
	bands := []Band{
		{Label: "0-50", Min: d("0"), Max: dp("50"), Order: 0},
		{Label: "80+", Min: d("80"), Order: 1},
	}
	warnings := ValidateBands(bands)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "gap")
}

func TestValidateBandsClosedLastBand(t *testing.T) {
	bands := []Band{
		{Label: "0-50", Min: d("0"), Max: dp("50"), Order: 0},
		{Label: "50-100", Min: d("50"), Max: dp("100"), Order: 1},
	}
	warnings := ValidateBands(bands)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "upper bound")
}

func TestValidateBandsOpenEndedMidTable(t *testing.T) {
	bands := []Band{
		{Label: "0+", Min: d("0"), Order: 0},
		{Label: "50+", Min: d("50"), Order: 1},
	}
	warnings := ValidateBands(bands)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "unreachable")
}
