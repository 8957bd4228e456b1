// Package registry defines the versioned pricing configuration: rate tables,
// pricing rules and location handicaps. Rules and handicaps carry only data
// (kinds, thresholds, rates, target buckets); the engine owns the single
// generic evaluator. That keeps every registry serializable and auditable,
// and makes a rule that throws or returns a non-finite number impossible to
// express.
package registry

import (
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
	"movequote/core/types"
)

// RuleKind selects the impact formula of a pricing rule
type RuleKind string

const (
	// KindFixedAmount contributes a flat signed amount
	KindFixedAmount RuleKind = "fixed_amount"

	// KindPerUnit contributes Rate multiplied by an input metric
	KindPerUnit RuleKind = "per_unit"

	// KindPercentOfBucket contributes Percent of the running value of
	// SourceBucket, so the rule observes earlier rules' effects
	KindPercentOfBucket RuleKind = "percent_of_bucket"

	// KindTieredThreshold contributes the amount of the highest tier whose
	// threshold the metric reaches
	KindTieredThreshold RuleKind = "tiered_threshold"
)

// KnownRuleKind reports whether k is a recognized rule kind
func KnownRuleKind(k RuleKind) bool {
	switch k {
	case KindFixedAmount, KindPerUnit, KindPercentOfBucket, KindTieredThreshold:
		return true
	}
	return false
}

// Metric names a numeric dimension of the move an expression can read
type Metric string

const (
	MetricTotalWeight   Metric = "total_weight"
	MetricTotalVolume   Metric = "total_volume"
	MetricDistance      Metric = "distance"
	MetricCrewSize      Metric = "crew_size"
	MetricDuration      Metric = "estimated_duration"
	MetricFragileItems  Metric = "fragile_items"
	MetricValuableItems Metric = "valuable_items"
	MetricRoomCount     Metric = "room_count"
)

// KnownMetric reports whether m is a recognized metric
func KnownMetric(m Metric) bool {
	switch m {
	case MetricTotalWeight, MetricTotalVolume, MetricDistance, MetricCrewSize,
		MetricDuration, MetricFragileItems, MetricValuableItems, MetricRoomCount:
		return true
	}
	return false
}

// Flag names a boolean dimension of the move a condition can test
type Flag string

const (
	FlagPiano         Flag = "piano"
	FlagAntiques      Flag = "antiques"
	FlagArtwork       Flag = "artwork"
	FlagPacking       Flag = "packing"
	FlagPackingNeeded Flag = "packing_needed"
	FlagUnpacking     Flag = "unpacking"
	FlagAssembly      Flag = "assembly"
	FlagStorage       Flag = "storage"
	FlagCleaning      Flag = "cleaning"
	FlagSpecialtyCrew Flag = "specialty_crew"
	FlagWeekend       Flag = "weekend"
	FlagHoliday       Flag = "holiday"
)

// KnownFlag reports whether f is a recognized flag
func KnownFlag(f Flag) bool {
	switch f {
	case FlagPiano, FlagAntiques, FlagArtwork, FlagPacking, FlagPackingNeeded,
		FlagUnpacking, FlagAssembly, FlagStorage, FlagCleaning,
		FlagSpecialtyCrew, FlagWeekend, FlagHoliday:
		return true
	}
	return false
}

// ConditionKind selects the predicate form of a rule condition
type ConditionKind string

const (
	CondServiceIs     ConditionKind = "service_is"
	CondSeasonIs      ConditionKind = "season_is"
	CondFlagSet       ConditionKind = "flag_set"
	CondMetricAtLeast ConditionKind = "metric_at_least"
	CondBucketBelow   ConditionKind = "bucket_below"
	CondBucketAtLeast ConditionKind = "bucket_at_least"
)

// Condition is one data-only predicate clause. A rule applies when all of
// its conditions hold (empty list: always applies, subject to kind-specific
// gating such as the lowest tier threshold).
type Condition struct {
	Kind ConditionKind `json:"kind"`

	Service types.ServiceType    `json:"service,omitempty"`
	Season  types.SeasonalPeriod `json:"season,omitempty"`
	Flag    Flag                 `json:"flag,omitempty"`

	Metric    Metric  `json:"metric,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`

	Bucket types.Bucket      `json:"bucket,omitempty"`
	Amount determinism.Money `json:"amount,omitempty"`
}

// Tier is one level of a tiered-threshold rule. Thresholds must ascend.
type Tier struct {
	Threshold float64           `json:"threshold"`
	Amount    determinism.Money `json:"amount"`
}

// PricingRule is one entry of the rule registry. Evaluation order is
// ascending Order with ties broken by lexicographic ID, which yields a
// single deterministic sequence regardless of how the registry was
// constructed.
type PricingRule struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Order       int    `json:"order"`

	// Bucket the impact lands in; never BucketLocationHandicaps.
	Bucket types.Bucket `json:"bucket"`

	Kind       RuleKind    `json:"kind"`
	Conditions []Condition `json:"conditions,omitempty"`

	// Kind-specific data.
	Amount       determinism.Money `json:"amount,omitempty"`        // fixed_amount
	Rate         determinism.Money `json:"rate,omitempty"`          // per_unit
	Metric       Metric            `json:"metric,omitempty"`        // per_unit, tiered_threshold
	Percent      decimal.Decimal   `json:"percent,omitempty"`       // percent_of_bucket
	SourceBucket types.Bucket      `json:"source_bucket,omitempty"` // percent_of_bucket
	Tiers        []Tier            `json:"tiers,omitempty"`         // tiered_threshold
}
