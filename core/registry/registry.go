package registry

import (
	"movequote/core/determinism"
	"movequote/core/types"
	"movequote/internal/errors"
)

// RuleSet is one immutable registry snapshot: rate tables, pricing rules and
// location handicaps, tagged with a version for audit. A RuleSet is built
// once (at startup or load time) and passed by reference into every estimate;
// hot reloads must swap the whole reference, never mutate in place.
type RuleSet struct {
	Version           string             `json:"version"`
	Rates             RateTable          `json:"rates"`
	PricingRules      []PricingRule      `json:"pricing_rules"`
	LocationHandicaps []LocationHandicap `json:"location_handicaps"`
}

// SortedRules returns the deterministic evaluation sequence: ascending Order,
// ties broken by lexicographic ID. The receiver is not modified.
func (rs *RuleSet) SortedRules() []PricingRule {
	rules := make([]PricingRule, len(rs.PricingRules))
	copy(rules, rs.PricingRules)
	determinism.SortSlice(rules, func(a, b PricingRule) bool {
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return rules
}

// Validate checks the registry for structural defects. A defective registry
// must never price a move, so every estimate call validates before
// computing.
func (rs *RuleSet) Validate() error {
	if rs.Version == "" {
		return errors.Config("rule set has no version")
	}
	if len(rs.PricingRules) == 0 {
		return errors.Config("rule set has no pricing rules")
	}

	seen := make(map[string]int, len(rs.PricingRules))
	orders := make(map[int]map[string]bool)
	for i := range rs.PricingRules {
		r := &rs.PricingRules[i]
		if r.ID == "" {
			return errors.Config("pricing rule with empty id")
		}
		if _, dup := seen[r.ID]; dup {
			return errors.Newf(errors.TypeConfig, "duplicate pricing rule id %q", r.ID)
		}
		seen[r.ID] = i
		if orders[r.Order] == nil {
			orders[r.Order] = make(map[string]bool)
		}
		if orders[r.Order][r.ID] {
			return errors.Newf(errors.TypeConfig,
				"rules share both order %d and id %q: ordering is not total", r.Order, r.ID)
		}
		orders[r.Order][r.ID] = true
		if err := rs.validateRule(r); err != nil {
			return err
		}
	}

	hseen := make(map[string]bool, len(rs.LocationHandicaps))
	for i := range rs.LocationHandicaps {
		h := &rs.LocationHandicaps[i]
		if h.ID == "" {
			return errors.Config("location handicap with empty id")
		}
		if hseen[h.ID] {
			return errors.Newf(errors.TypeConfig, "duplicate location handicap id %q", h.ID)
		}
		hseen[h.ID] = true
		if err := validateHandicap(h); err != nil {
			return err
		}
	}

	return rs.validateRates()
}

func (rs *RuleSet) validateRule(r *PricingRule) error {
	if !KnownRuleKind(r.Kind) {
		return errors.Newf(errors.TypeConfig, "rule %q: unknown kind %q", r.ID, r.Kind)
	}
	if !types.RuleBucket(r.Bucket) {
		return errors.Newf(errors.TypeConfig,
			"rule %q: bucket %q is not a valid rule target", r.ID, r.Bucket)
	}
	for _, c := range r.Conditions {
		if err := validateCondition(r.ID, c); err != nil {
			return err
		}
	}
	switch r.Kind {
	case KindPerUnit:
		if !KnownMetric(r.Metric) {
			return errors.Newf(errors.TypeConfig, "rule %q: unknown metric %q", r.ID, r.Metric)
		}
	case KindPercentOfBucket:
		if !types.RuleBucket(r.SourceBucket) && r.SourceBucket != types.BucketLocationHandicaps {
			return errors.Newf(errors.TypeConfig,
				"rule %q: unknown source bucket %q", r.ID, r.SourceBucket)
		}
	case KindTieredThreshold:
		if !KnownMetric(r.Metric) {
			return errors.Newf(errors.TypeConfig, "rule %q: unknown metric %q", r.ID, r.Metric)
		}
		if len(r.Tiers) == 0 {
			return errors.Newf(errors.TypeConfig, "rule %q: tiered rule has no tiers", r.ID)
		}
		prev := r.Tiers[0].Threshold
		for _, t := range r.Tiers[1:] {
			if t.Threshold <= prev {
				return errors.Newf(errors.TypeConfig,
					"rule %q: tier thresholds must strictly ascend", r.ID)
			}
			prev = t.Threshold
		}
	}
	return nil
}

func validateCondition(ruleID string, c Condition) error {
	switch c.Kind {
	case CondServiceIs:
		if !types.KnownService(c.Service) {
			return errors.Newf(errors.TypeConfig,
				"rule %q: condition references unknown service %q", ruleID, c.Service)
		}
	case CondSeasonIs:
		if !types.KnownSeason(c.Season) {
			return errors.Newf(errors.TypeConfig,
				"rule %q: condition references unknown season %q", ruleID, c.Season)
		}
	case CondFlagSet:
		if !KnownFlag(c.Flag) {
			return errors.Newf(errors.TypeConfig,
				"rule %q: condition references unknown flag %q", ruleID, c.Flag)
		}
	case CondMetricAtLeast:
		if !KnownMetric(c.Metric) {
			return errors.Newf(errors.TypeConfig,
				"rule %q: condition references unknown metric %q", ruleID, c.Metric)
		}
	case CondBucketBelow, CondBucketAtLeast:
		if !types.RuleBucket(c.Bucket) && c.Bucket != types.BucketLocationHandicaps {
			return errors.Newf(errors.TypeConfig,
				"rule %q: condition references unknown bucket %q", ruleID, c.Bucket)
		}
	default:
		return errors.Newf(errors.TypeConfig,
			"rule %q: unknown condition kind %q", ruleID, c.Kind)
	}
	return nil
}

func validateHandicap(h *LocationHandicap) error {
	if !KnownHandicapKind(h.Kind) {
		return errors.Newf(errors.TypeConfig, "handicap %q: unknown kind %q", h.ID, h.Kind)
	}
	if h.Amount.IsNegative() || h.PerFloor.IsNegative() {
		return errors.Newf(errors.TypeConfig,
			"handicap %q: impacts must be non-negative", h.ID)
	}
	if h.Kind == KindDifficultyTier {
		// easy is implicitly zero; the tiers above it must strictly ascend.
		if h.Moderate.IsNegative() || h.Moderate.IsZero() {
			return errors.Newf(errors.TypeConfig,
				"handicap %q: moderate tier must be positive", h.ID)
		}
		if h.Difficult.Cmp(h.Moderate) <= 0 || h.Extreme.Cmp(h.Difficult) <= 0 {
			return errors.Newf(errors.TypeConfig,
				"handicap %q: difficulty tiers must strictly ascend", h.ID)
		}
	}
	if h.StairsThreshold < 0 || h.ParkingThresholdFeet < 0 {
		return errors.Newf(errors.TypeConfig,
			"handicap %q: thresholds must be non-negative", h.ID)
	}
	return nil
}

func (rs *RuleSet) validateRates() error {
	t := &rs.Rates
	if len(t.LaborRates) == 0 {
		return errors.Config("rate table has no labor rates")
	}
	prev := 0
	for _, lr := range t.LaborRates {
		if lr.CrewSize <= prev {
			return errors.Config("labor rates must ascend by crew size, starting at 1 or above")
		}
		if lr.HourlyRate.IsNegative() || lr.HourlyRate.IsZero() {
			return errors.Config("labor hourly rates must be positive")
		}
		prev = lr.CrewSize
	}
	if t.LaborRates[0].CrewSize != 1 {
		return errors.Config("labor rates must cover crew size 1")
	}
	if t.SpecialtyCrewMultiplier.IsNegative() || t.SpecialtyCrewMultiplier.IsZero() {
		return errors.Config("specialty crew multiplier must be positive")
	}
	for name, m := range map[string]determinism.Money{
		"packing_material_rate":        t.PackingMaterialRate,
		"local_transport_base":         t.LocalTransportBase,
		"local_per_mile":               t.LocalPerMile,
		"long_distance_transport_base": t.LongDistanceTransportBase,
		"long_distance_per_mile":       t.LongDistancePerMile,
		"piano_surcharge":              t.PianoSurcharge,
		"antiques_surcharge":           t.AntiquesSurcharge,
		"artwork_surcharge":            t.ArtworkSurcharge,
		"fragile_item_rate":            t.FragileItemRate,
		"valuable_item_rate":           t.ValuableItemRate,
		"unpacking_fee":                t.UnpackingFee,
		"assembly_fee":                 t.AssemblyFee,
		"storage_fee":                  t.StorageFee,
		"cleaning_fee":                 t.CleaningFee,
	} {
		if m.IsNegative() {
			return errors.Newf(errors.TypeConfig, "rate %s must be non-negative", name)
		}
	}
	if t.TaxPercent.IsNegative() {
		return errors.Config("tax percent must be non-negative")
	}
	if t.OffPeakDiscountPercent.IsNegative() {
		return errors.Config("off-peak discount percent must be non-negative")
	}
	return nil
}
