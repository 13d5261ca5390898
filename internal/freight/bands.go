// Package freight implements the tiered freight pricing engine: band lookup
// over weight/volume range tables and the multi-stage cost breakdown. All
// arithmetic is decimal fixed-point; the package holds no state and touches no
// storage, so it is safe for concurrent use.
package freight

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// RateType mirrors the stored band rate modes
type RateType string

const (
	RateTypeFixed   RateType = "fixed"
	RateTypePerUnit RateType = "per_unit"
)

// WeightUnitSize is the per-unit charging unit for weight bands (1 tonne)
var WeightUnitSize = decimal.NewFromInt(1000)

// VolumeUnitSize is the per-unit charging unit for volume bands (1 m³)
var VolumeUnitSize = decimal.NewFromInt(1)

// Band is one pricing interval of a range table. A nil Max means the band is
// open-ended ("above X").
type Band struct {
	Label    string
	Min      decimal.Decimal
	Max      *decimal.Decimal
	Rate     decimal.Decimal
	RateType RateType
	Order    int
}

// SortBands orders bands by (order, min), the sequence lookups evaluate them in
func SortBands(bands []Band) {
	sort.SliceStable(bands, func(i, j int) bool {
		if bands[i].Order != bands[j].Order {
			return bands[i].Order < bands[j].Order
		}
		return bands[i].Min.LessThan(bands[j].Min)
	})
}

// bandCost applies the band's rate mode to a quantity
func bandCost(b Band, quantity, unitSize decimal.Decimal) decimal.Decimal {
	if b.RateType == RateTypePerUnit {
		excess := quantity.Sub(b.Min)
		return b.Rate.Mul(excess.Div(unitSize))
	}
	return b.Rate
}

// Lookup resolves a non-negative quantity against a band table. Bands must
// already be in (order, min) sequence; the first band containing the quantity
// wins. A quantity no band contains falls back to the last band, treated as
// open-ended, so a misconfigured table degrades instead of rejecting input.
// An empty table costs zero.
func Lookup(quantity decimal.Decimal, bands []Band, unitSize decimal.Decimal) decimal.Decimal {
	if len(bands) == 0 {
		return decimal.Zero
	}

	for _, b := range bands {
		inRange := quantity.GreaterThanOrEqual(b.Min) &&
			(b.Max == nil || quantity.LessThanOrEqual(*b.Max))
		if inRange {
			return bandCost(b, quantity, unitSize)
		}
	}

	return bandCost(bands[len(bands)-1], quantity, unitSize)
}

// ValidateBands reports configuration smells in a sorted band table: overlaps,
// gaps between consecutive bands, and a closed final band (which makes the
// fallback silently reprice out-of-range quantities). Warnings are advisory;
// lookups still work on a flawed table.
func ValidateBands(bands []Band) []string {
	var warnings []string

	for i := 1; i < len(bands); i++ {
		prev, cur := bands[i-1], bands[i]

		if prev.Max == nil {
			warnings = append(warnings, fmt.Sprintf(
				"band %q is open-ended but is not the last band; bands after it are unreachable", prev.Label))
			continue
		}
		// a shared endpoint (prev.Max == cur.Min) is the normal adjacent
		// table shape; only a real range intersection is an overlap
		if cur.Min.LessThan(*prev.Max) {
			warnings = append(warnings, fmt.Sprintf(
				"bands %q and %q overlap between %s and %s; the first match wins",
				prev.Label, cur.Label, cur.Min.String(), prev.Max.String()))
		}
		if cur.Min.GreaterThan(prev.Max.Add(decimal.New(1, -3))) {
			warnings = append(warnings, fmt.Sprintf(
				"gap between bands %q (up to %s) and %q (from %s); quantities in the gap fall back to the last band",
				prev.Label, prev.Max.String(), cur.Label, cur.Min.String()))
		}
	}

	if n := len(bands); n > 0 && bands[n-1].Max != nil {
		warnings = append(warnings, fmt.Sprintf(
			"last band %q has an upper bound; quantities above %s are priced by it as if it were open-ended",
			bands[n-1].Label, bands[n-1].Max.String()))
	}

	return warnings
}
