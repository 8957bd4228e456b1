package engine

import (
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
	"movequote/core/registry"
	"movequote/core/types"
	"movequote/internal/errors"
)

// ApplyRules evaluates the sorted rule sequence against the input and the
// running breakdown. Rules run sequentially: each matching rule's impact is
// folded into its target bucket before the next rule is evaluated, so later
// rules observe earlier rules' effects. The returned sequence preserves
// evaluation order exactly.
func ApplyRules(in *types.EstimateInput, b *types.Breakdown, rules []registry.PricingRule) ([]types.AppliedRule, error) {
	applied := make([]types.AppliedRule, 0, len(rules))
	for i := range rules {
		r := &rules[i]

		match, err := conditionsHold(in, b, r)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}

		impact, applies, err := ruleImpact(in, b, r)
		if err != nil {
			return nil, err
		}
		if !applies {
			continue
		}

		impact = impact.RoundCents()
		b.Add(r.Bucket, impact)
		applied = append(applied, types.AppliedRule{
			RuleName:    r.Name,
			Description: r.Description,
			PriceImpact: impact,
		})
	}
	return applied, nil
}

func conditionsHold(in *types.EstimateInput, b *types.Breakdown, r *registry.PricingRule) (bool, error) {
	for _, c := range r.Conditions {
		hold, err := conditionHolds(in, b, r.ID, c)
		if err != nil {
			return false, err
		}
		if !hold {
			return false, nil
		}
	}
	return true, nil
}

func conditionHolds(in *types.EstimateInput, b *types.Breakdown, ruleID string, c registry.Condition) (bool, error) {
	switch c.Kind {
	case registry.CondServiceIs:
		return in.Service == c.Service, nil
	case registry.CondSeasonIs:
		return in.SeasonalPeriod == c.Season, nil
	case registry.CondFlagSet:
		v, ok := flagValue(in, c.Flag)
		if !ok {
			return false, errors.Rule(ruleID, "condition references unknown flag "+string(c.Flag))
		}
		return v, nil
	case registry.CondMetricAtLeast:
		v, ok := metricValue(in, c.Metric)
		if !ok {
			return false, errors.Rule(ruleID, "condition references unknown metric "+string(c.Metric))
		}
		return v >= c.Threshold, nil
	case registry.CondBucketBelow:
		return b.Get(c.Bucket).Cmp(c.Amount) < 0, nil
	case registry.CondBucketAtLeast:
		return b.Get(c.Bucket).Cmp(c.Amount) >= 0, nil
	}
	return false, errors.Rule(ruleID, "unknown condition kind "+string(c.Kind))
}

func ruleImpact(in *types.EstimateInput, b *types.Breakdown, r *registry.PricingRule) (determinism.Money, bool, error) {
	switch r.Kind {
	case registry.KindFixedAmount:
		return r.Amount, true, nil

	case registry.KindPerUnit:
		v, ok := metricValue(in, r.Metric)
		if !ok {
			return determinism.Zero(), false, errors.Rule(r.ID, "unknown metric "+string(r.Metric))
		}
		return r.Rate.Mul(decimal.NewFromFloat(v)), true, nil

	case registry.KindPercentOfBucket:
		source := b.Get(r.SourceBucket)
		return source.Mul(determinism.Percent(r.Percent)), true, nil

	case registry.KindTieredThreshold:
		v, ok := metricValue(in, r.Metric)
		if !ok {
			return determinism.Zero(), false, errors.Rule(r.ID, "unknown metric "+string(r.Metric))
		}
		// The highest tier reached wins; below the first tier the rule
		// does not apply at all.
		impact := determinism.Zero()
		applies := false
		for _, t := range r.Tiers {
			if v >= t.Threshold {
				impact = t.Amount
				applies = true
			}
		}
		return impact, applies, nil
	}
	return determinism.Zero(), false, errors.Rule(r.ID, "unknown rule kind "+string(r.Kind))
}

func metricValue(in *types.EstimateInput, m registry.Metric) (float64, bool) {
	switch m {
	case registry.MetricTotalWeight:
		return in.TotalWeight, true
	case registry.MetricTotalVolume:
		return in.TotalVolume, true
	case registry.MetricDistance:
		return in.Distance, true
	case registry.MetricCrewSize:
		return float64(in.CrewSize), true
	case registry.MetricDuration:
		return in.EstimatedDuration, true
	case registry.MetricFragileItems:
		return float64(in.SpecialItems.FragileItems), true
	case registry.MetricValuableItems:
		return float64(in.SpecialItems.ValuableItems), true
	case registry.MetricRoomCount:
		return float64(len(in.Rooms)), true
	}
	return 0, false
}

func flagValue(in *types.EstimateInput, f registry.Flag) (bool, bool) {
	switch f {
	case registry.FlagPiano:
		return in.SpecialItems.Piano, true
	case registry.FlagAntiques:
		return in.SpecialItems.Antiques, true
	case registry.FlagArtwork:
		return in.SpecialItems.Artwork, true
	case registry.FlagPacking:
		return in.AdditionalServices.Packing, true
	case registry.FlagPackingNeeded:
		return in.PackingNeeded(), true
	case registry.FlagUnpacking:
		return in.AdditionalServices.Unpacking, true
	case registry.FlagAssembly:
		return in.AdditionalServices.Assembly, true
	case registry.FlagStorage:
		return in.AdditionalServices.Storage, true
	case registry.FlagCleaning:
		return in.AdditionalServices.Cleaning, true
	case registry.FlagSpecialtyCrew:
		return in.SpecialtyCrewRequired, true
	case registry.FlagWeekend:
		return in.IsWeekend, true
	case registry.FlagHoliday:
		return in.IsHoliday, true
	}
	return false, false
}
