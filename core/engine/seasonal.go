package engine

import (
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
	"movequote/core/registry"
	"movequote/core/types"
)

// AdjustSeasonal computes the weekend/holiday/seasonal adjustment over the
// five pre-seasonal buckets and finalizes subtotal, taxes and total. Weekend
// and holiday percentages stack additively; off-peak subtracts. The
// multiplier never reads the seasonal bucket itself, so seasonal-bucket
// rules cannot feed the multiplier their own output.
func AdjustSeasonal(b *types.Breakdown, in *types.EstimateInput, rates *registry.RateTable) {
	pct := decimal.Zero
	if in.IsWeekend {
		pct = pct.Add(rates.WeekendPercent)
	}
	if in.IsHoliday {
		pct = pct.Add(rates.HolidayPercent)
	}
	switch in.SeasonalPeriod {
	case types.SeasonPeak:
		pct = pct.Add(rates.PeakPercent)
	case types.SeasonOffPeak:
		pct = pct.Sub(rates.OffPeakDiscountPercent)
	}

	base := b.PreSeasonalSum()
	if !pct.IsZero() {
		b.Add(types.BucketSeasonalAdjustment, base.Mul(determinism.Percent(pct)))
	}

	b.Subtotal = base.Add(b.SeasonalAdjustment).RoundCents()
	b.Taxes = b.Subtotal.Mul(determinism.Percent(rates.TaxPercent)).RoundCents()
	b.Total = b.Subtotal.Add(b.Taxes).RoundCents()
}
