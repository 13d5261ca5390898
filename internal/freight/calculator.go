package freight

import "github.com/shopspring/decimal"

// CombinationMode controls how the weight-derived and volume-derived costs are
// merged into the base freight figure.
type CombinationMode string

const (
	CombineMax    CombinationMode = "max"
	CombineSum    CombinationMode = "sum"
	CombineWeight CombinationMode = "weight"
	CombineVolume CombinationMode = "volume"
)

// Item is the slice of a budget line the engine needs: aggregate weight and
// volume are quantity-scaled, everything else is ignored.
type Item struct {
	Quantity int
	Weight   *decimal.Decimal
	Volume   *decimal.Decimal
}

// Settings is the pricing configuration snapshot a computation runs against
type Settings struct {
	Mode                CombinationMode
	FixedFee            decimal.Decimal
	PercentageOnTotal   decimal.Decimal
	DistanceRateEnabled bool
	DistanceRatePerKm   decimal.Decimal
}

// Urgency scales the final total. Label travels into the breakdown so callers
// can show which multiplier applied.
type Urgency struct {
	Label      string
	Multiplier decimal.Decimal
}

// NormalUrgency is the synthetic no-op multiplier used when none is configured
var NormalUrgency = Urgency{Label: "Normal", Multiplier: decimal.NewFromInt(1)}

// Breakdown is the full intermediate trace of one freight computation
type Breakdown struct {
	WeightTotal       decimal.Decimal `json:"weightTotal"`
	VolumeTotal       decimal.Decimal `json:"volumeTotal"`
	WeightCost        decimal.Decimal `json:"weightCost"`
	VolumeCost        decimal.Decimal `json:"volumeCost"`
	Mode              CombinationMode `json:"mode"`
	BaseFreight       decimal.Decimal `json:"baseFreight"`
	FixedFee          decimal.Decimal `json:"fixedFee"`
	PercentageCost    decimal.Decimal `json:"percentageCost"`
	DistanceCost      decimal.Decimal `json:"distanceCost"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	UrgencyLabel      string          `json:"urgencyLabel"`
	UrgencyMultiplier decimal.Decimal `json:"urgencyMultiplier"`
	Total             decimal.Decimal `json:"total"`
}

// Totals sums quantity-scaled weight and volume across items. Items missing a
// dimension contribute nothing to that axis.
func Totals(items []Item) (weight, volume decimal.Decimal) {
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		if it.Weight != nil {
			weight = weight.Add(it.Weight.Mul(qty))
		}
		if it.Volume != nil {
			volume = volume.Add(it.Volume.Mul(qty))
		}
	}
	return weight, volume
}

// Combine merges the two axis costs per the configured mode. Unknown modes
// behave as max.
func Combine(mode CombinationMode, weightCost, volumeCost decimal.Decimal) decimal.Decimal {
	switch mode {
	case CombineSum:
		return weightCost.Add(volumeCost)
	case CombineWeight:
		return weightCost
	case CombineVolume:
		return volumeCost
	default:
		return decimal.Max(weightCost, volumeCost)
	}
}

// Compute runs the full pipeline: aggregate item dimensions, price each axis
// against its band table, combine, add the fixed fee, the percentage of the
// budget total and the optional distance component, then scale by urgency.
// DistanceKm may be nil; the distance component also drops out when distance
// pricing is disabled in settings. The returned breakdown rounds money figures
// to 2 decimal places and dimension totals to 3.
func Compute(
	items []Item,
	budgetTotal decimal.Decimal,
	weightBands, volumeBands []Band,
	settings Settings,
	urgency Urgency,
	distanceKm *decimal.Decimal,
) Breakdown {
	weightTotal, volumeTotal := Totals(items)

	weightCost := Lookup(weightTotal, weightBands, WeightUnitSize)
	volumeCost := Lookup(volumeTotal, volumeBands, VolumeUnitSize)

	base := Combine(settings.Mode, weightCost, volumeCost)

	percentageCost := budgetTotal.Mul(settings.PercentageOnTotal).Div(decimal.NewFromInt(100))

	distanceCost := decimal.Zero
	if settings.DistanceRateEnabled && distanceKm != nil {
		distanceCost = distanceKm.Mul(settings.DistanceRatePerKm)
	}

	subtotal := base.Add(settings.FixedFee).Add(percentageCost).Add(distanceCost)
	total := subtotal.Mul(urgency.Multiplier)

	return Breakdown{
		WeightTotal:       weightTotal.Round(3),
		VolumeTotal:       volumeTotal.Round(3),
		WeightCost:        weightCost.Round(2),
		VolumeCost:        volumeCost.Round(2),
		Mode:              settings.Mode,
		BaseFreight:       base.Round(2),
		FixedFee:          settings.FixedFee.Round(2),
		PercentageCost:    percentageCost.Round(2),
		DistanceCost:      distanceCost.Round(2),
		Subtotal:          subtotal.Round(2),
		UrgencyLabel:      urgency.Label,
		UrgencyMultiplier: urgency.Multiplier,
		Total:             total.Round(2),
	}
}
