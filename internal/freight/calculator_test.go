package freight

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalsScaleByQuantity(t *testing.T) {
	items := []Item{
		{Quantity: 2, Weight: dp("10"), Volume: dp("0.5")},
		{Quantity: 3, Weight: dp("4")},
		{Quantity: 1, Volume: dp("1.25")},
	}
	weight, volume := Totals(items)
	assert.True(t, weight.Equal(d("32")), "got %s", weight)
	assert.True(t, volume.Equal(d("2.25")), "got %s", volume)
}

func TestCombineModes(t *testing.T) {
	w, v := d("80"), d("50")

	assert.True(t, Combine(CombineMax, w, v).Equal(d("80")))
	assert.True(t, Combine(CombineSum, w, v).Equal(d("130")))
	assert.True(t, Combine(CombineWeight, w, v).Equal(d("80")))
	assert.True(t, Combine(CombineVolume, w, v).Equal(d("50")))
}

func TestCombineUnknownModeBehavesAsMax(t *testing.T) {
	assert.True(t, Combine(CombinationMode("bogus"), d("80"), d("50")).Equal(d("80")))
}

func TestComputeFullPipeline(t *testing.T) {
	items := []Item{{Quantity: 1, Weight: dp("30"), Volume: dp("5")}}
	volumeBands := []Band{
		{Label: "0-10 m3", Min: d("0"), Max: dp("10"), Rate: d("60"), RateType: RateTypeFixed},
	}
	settings := Settings{
		Mode:              CombineMax,
		FixedFee:          d("25"),
		PercentageOnTotal: d("2"),
	}

	bd := Compute(items, d("1000"), standardWeightBands(), volumeBands, settings, NormalUrgency, nil)

	assert.True(t, bd.WeightCost.Equal(d("100")), "weight cost %s", bd.WeightCost)
	assert.True(t, bd.VolumeCost.Equal(d("60")), "volume cost %s", bd.VolumeCost)
	assert.True(t, bd.BaseFreight.Equal(d("100")))
	assert.True(t, bd.FixedFee.Equal(d("25")))
	assert.True(t, bd.PercentageCost.Equal(d("20")))
	assert.True(t, bd.DistanceCost.IsZero())
	assert.True(t, bd.Subtotal.Equal(d("145")))
	assert.True(t, bd.Total.Equal(d("145")))
	assert.Equal(t, "Normal", bd.UrgencyLabel)
}

func TestComputeUrgencyScalesTotal(t *testing.T) {
	items := []Item{{Quantity: 1, Weight: dp("30")}}
	settings := Settings{Mode: CombineMax, FixedFee: d("100")}
	urgent := Urgency{Label: "Express", Multiplier: d("1.5")}

	// base 100 + fee 100 = 200, times 1.5 = 300
	bd := Compute(items, decimal.Zero, standardWeightBands(), nil, settings, urgent, nil)
	assert.True(t, bd.Subtotal.Equal(d("200")), "subtotal %s", bd.Subtotal)
	assert.True(t, bd.Total.Equal(d("300")), "total %s", bd.Total)
	assert.Equal(t, "Express", bd.UrgencyLabel)
}

func TestComputeDistanceComponent(t *testing.T) {
	settings := Settings{
		Mode:                CombineMax,
		DistanceRateEnabled: true,
		DistanceRatePerKm:   d("1.5"),
	}
	bd := Compute(nil, decimal.Zero, nil, nil, settings, NormalUrgency, dp("120"))
	assert.True(t, bd.DistanceCost.Equal(d("180")), "got %s", bd.DistanceCost)
	assert.True(t, bd.Total.Equal(d("180")))
}

func TestComputeDistanceIgnoredWhenDisabled(t *testing.T) {
	settings := Settings{Mode: CombineMax, DistanceRatePerKm: d("1.5")}
	bd := Compute(nil, decimal.Zero, nil, nil, settings, NormalUrgency, dp("120"))
	assert.True(t, bd.DistanceCost.IsZero())
	assert.True(t, bd.Total.IsZero())
}

func TestComputeEmptyTablesCostNothing(t *testing.T) {
	items := []Item{{Quantity: 4, Weight: dp("25"), Volume: dp("2")}}
	bd := Compute(items, d("500"), nil, nil, Settings{Mode: CombineSum}, NormalUrgency, nil)
	assert.True(t, bd.WeightCost.IsZero())
	assert.True(t, bd.VolumeCost.IsZero())
	assert.True(t, bd.Total.IsZero())
}

func TestComputeIsDeterministic(t *testing.T) {
	items := []Item{{Quantity: 2, Weight: dp("40"), Volume: dp("3")}}
	settings := Settings{Mode: CombineSum, FixedFee: d("10"), PercentageOnTotal: d("1")}

	first := Compute(items, d("2500"), standardWeightBands(), nil, settings, NormalUrgency, nil)
	second := Compute(items, d("2500"), standardWeightBands(), nil, settings, NormalUrgency, nil)
	assert.Equal(t, first, second)
}
