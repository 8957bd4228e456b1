package engine

import (
	"time"

	"movequote/core/integrity"
	"movequote/core/registry"
	"movequote/core/types"
)

// Estimator is the sole entry point for pricing a move. It carries an
// immutable registry reference and an injectable clock; it holds no other
// state, so any number of Calculate calls may run concurrently.
type Estimator struct {
	rules *registry.RuleSet
	now   func() time.Time
}

// Option configures an Estimator
type Option func(*Estimator)

// WithNow injects the clock used for metadata.calculatedAt. The timestamp
// never enters the audit hash, so this only matters for callers asserting
// full struct equality.
func WithNow(now func() time.Time) Option {
	return func(e *Estimator) {
		e.now = now
	}
}

// New creates an Estimator over a registry snapshot. A nil rule set selects
// the compiled-in default registry.
func New(rules *registry.RuleSet, opts ...Option) *Estimator {
	if rules == nil {
		rules = registry.Default()
	}
	e := &Estimator{
		rules: rules,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RulesVersion returns the version of the registry snapshot in use
func (e *Estimator) RulesVersion() string {
	return e.rules.Version
}

// Calculate prices a move. It is synchronous and side-effect free: any
// failure (validation, registry defect, rule defect) is terminal for this
// call, no partial result is ever returned, and retrying with the same
// input yields the same outcome.
func (e *Estimator) Calculate(input types.EstimateInput, calculatedBy string) (*types.EstimateResult, error) {
	if err := e.rules.Validate(); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	in := input.Normalize()

	base := ComputeBaseCosts(&in, &e.rules.Rates)

	pickupCharges := EvaluateHandicaps(&in.Pickup, e.rules.LocationHandicaps)
	deliveryCharges := EvaluateHandicaps(&in.Delivery, e.rules.LocationHandicaps)
	handicaps := make([]types.HandicapCharge, 0, len(pickupCharges)+len(deliveryCharges))
	handicaps = append(handicaps, pickupCharges...)
	handicaps = append(handicaps, deliveryCharges...)

	var breakdown types.Breakdown
	breakdown.Add(types.BucketLabor, base.BaseLabor)
	breakdown.Add(types.BucketMaterials, base.Materials)
	breakdown.Add(types.BucketTransportation, base.Transportation)
	breakdown.Add(types.BucketSpecialServices, base.SpecialServices)
	for i := range handicaps {
		breakdown.Add(types.BucketLocationHandicaps, handicaps[i].PriceImpact)
	}

	applied, err := ApplyRules(&in, &breakdown, e.rules.SortedRules())
	if err != nil {
		return nil, err
	}

	AdjustSeasonal(&breakdown, &in, &e.rules.Rates)

	calc := types.Calculations{
		FinalPrice:        breakdown.Total,
		Breakdown:         breakdown,
		AppliedRules:      applied,
		LocationHandicaps: handicaps,
	}

	return &types.EstimateResult{
		CustomerID:   in.CustomerID,
		Calculations: calc,
		Metadata: types.Metadata{
			Hash:         integrity.ComputeHash(&in, &calc, e.rules.Version),
			CalculatedBy: calculatedBy,
			CalculatedAt: e.now(),
			RulesVersion: e.rules.Version,
		},
	}, nil
}

// CalculateEstimate prices a move against the default registry. Convenience
// wrapper for callers that do not manage their own registry snapshot.
func CalculateEstimate(input types.EstimateInput, calculatedBy string) (*types.EstimateResult, error) {
	return New(nil).Calculate(input, calculatedBy)
}
