package types

import (
	"time"

	"movequote/core/determinism"
)

// Bucket names a cost bucket within the breakdown. Pricing rules declare the
// bucket they contribute to; BucketLocationHandicaps is owned exclusively by
// the handicap evaluator and is never a valid rule target.
type Bucket string

const (
	BucketLabor              Bucket = "labor"
	BucketMaterials          Bucket = "materials"
	BucketTransportation     Bucket = "transportation"
	BucketLocationHandicaps  Bucket = "location_handicaps"
	BucketSpecialServices    Bucket = "special_services"
	BucketSeasonalAdjustment Bucket = "seasonal"
)

// RuleBucket reports whether b is a bucket a pricing rule may target
func RuleBucket(b Bucket) bool {
	switch b {
	case BucketLabor, BucketMaterials, BucketTransportation,
		BucketSpecialServices, BucketSeasonalAdjustment:
		return true
	}
	return false
}

// Breakdown is the named decomposition of the total price. All buckets are
// non-negative except SeasonalAdjustment, which may carry an off-peak
// discount.
type Breakdown struct {
	BaseLabor          determinism.Money `json:"base_labor"`
	Materials          determinism.Money `json:"materials"`
	Transportation     determinism.Money `json:"transportation"`
	LocationHandicaps  determinism.Money `json:"location_handicaps"`
	SpecialServices    determinism.Money `json:"special_services"`
	SeasonalAdjustment determinism.Money `json:"seasonal_adjustment"`
	Subtotal           determinism.Money `json:"subtotal"`
	Taxes              determinism.Money `json:"taxes"`
	Total              determinism.Money `json:"total"`
}

// Get returns the current value of a named bucket
func (b *Breakdown) Get(bucket Bucket) determinism.Money {
	switch bucket {
	case BucketLabor:
		return b.BaseLabor
	case BucketMaterials:
		return b.Materials
	case BucketTransportation:
		return b.Transportation
	case BucketLocationHandicaps:
		return b.LocationHandicaps
	case BucketSpecialServices:
		return b.SpecialServices
	case BucketSeasonalAdjustment:
		return b.SeasonalAdjustment
	}
	return determinism.Zero()
}

// Add contributes a signed amount to a named bucket, canonicalized to cents
func (b *Breakdown) Add(bucket Bucket, amount determinism.Money) {
	amount = amount.RoundCents()
	switch bucket {
	case BucketLabor:
		b.BaseLabor = b.BaseLabor.Add(amount)
	case BucketMaterials:
		b.Materials = b.Materials.Add(amount)
	case BucketTransportation:
		b.Transportation = b.Transportation.Add(amount)
	case BucketLocationHandicaps:
		b.LocationHandicaps = b.LocationHandicaps.Add(amount)
	case BucketSpecialServices:
		b.SpecialServices = b.SpecialServices.Add(amount)
	case BucketSeasonalAdjustment:
		b.SeasonalAdjustment = b.SeasonalAdjustment.Add(amount)
	}
}

// PreSeasonalSum is the sum of the five base buckets, before the seasonal
// adjustment and taxes.
func (b *Breakdown) PreSeasonalSum() determinism.Money {
	return b.BaseLabor.
		Add(b.Materials).
		Add(b.Transportation).
		Add(b.LocationHandicaps).
		Add(b.SpecialServices)
}

// AppliedRule records one pricing rule that matched this input, with its
// signed price delta, in evaluation order.
type AppliedRule struct {
	RuleName    string            `json:"rule_name"`
	Description string            `json:"description"`
	PriceImpact determinism.Money `json:"price_impact"`
}

// HandicapCharge records one access-difficulty surcharge at a location
type HandicapCharge struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PriceImpact determinism.Money `json:"price_impact"`
}

// Calculations carries the priced outcome of an estimate
type Calculations struct {
	FinalPrice        determinism.Money `json:"final_price"`
	Breakdown         Breakdown         `json:"breakdown"`
	AppliedRules      []AppliedRule     `json:"applied_rules"`
	LocationHandicaps []HandicapCharge  `json:"location_handicaps"`
}

// Metadata identifies who produced an estimate, when, and against which
// registry snapshot. Hash covers the input and the computed figures but
// never CalculatedAt/CalculatedBy.
type Metadata struct {
	Hash         string    `json:"hash"`
	CalculatedBy string    `json:"calculated_by"`
	CalculatedAt time.Time `json:"calculated_at"`
	RulesVersion string    `json:"rules_version"`
}

// EstimateResult is the immutable output of one estimate computation
type EstimateResult struct {
	CustomerID   string       `json:"customer_id"`
	Calculations Calculations `json:"calculations"`
	Metadata     Metadata     `json:"metadata"`
}
