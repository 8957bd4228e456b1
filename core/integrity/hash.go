// Package integrity computes the reproducible audit hash of an estimate.
// The hash covers a canonical serialization of the normalized input, the
// full breakdown, the ordered applied-rule and handicap sequences, and the
// registry version. It deliberately excludes calculatedAt and calculatedBy:
// those vary per call without changing the financial outcome and must never
// break reproducibility.
package integrity

import (
	"time"

	"movequote/core/determinism"
	"movequote/core/types"
)

// ComputeHash produces the fixed-length hex digest for an estimate. The
// input must be the normalized form the engine actually priced.
func ComputeHash(in *types.EstimateInput, calc *types.Calculations, rulesVersion string) string {
	w := determinism.NewCanonicalWriter()

	w.Section("input")
	w.Field("customer_id", in.CustomerID)
	w.Field("move_date", in.MoveDate.UTC().Format(time.RFC3339))
	w.Field("service", string(in.Service))
	w.Int("crew_size", in.CrewSize)
	w.Bool("is_weekend", in.IsWeekend)
	w.Bool("is_holiday", in.IsHoliday)
	w.Field("seasonal_period", string(in.SeasonalPeriod))
	w.Bool("specialty_crew_required", in.SpecialtyCrewRequired)
	w.Quantity("total_weight", in.TotalWeight)
	w.Quantity("total_volume", in.TotalVolume)
	w.Quantity("distance", in.Distance)
	w.Quantity("estimated_duration", in.EstimatedDuration)

	writeLocation(w, "pickup", &in.Pickup)
	writeLocation(w, "delivery", &in.Delivery)

	w.Section("special_items")
	w.Bool("piano", in.SpecialItems.Piano)
	w.Bool("antiques", in.SpecialItems.Antiques)
	w.Bool("artwork", in.SpecialItems.Artwork)
	w.Int("fragile_items", in.SpecialItems.FragileItems)
	w.Int("valuable_items", in.SpecialItems.ValuableItems)

	w.Section("additional_services")
	w.Bool("packing", in.AdditionalServices.Packing)
	w.Bool("unpacking", in.AdditionalServices.Unpacking)
	w.Bool("assembly", in.AdditionalServices.Assembly)
	w.Bool("storage", in.AdditionalServices.Storage)
	w.Bool("cleaning", in.AdditionalServices.Cleaning)

	w.Section("rooms")
	for i := range in.Rooms {
		r := &in.Rooms[i]
		w.Index(i)
		w.Field("id", r.ID)
		w.Field("type", r.Type)
		w.Field("description", r.Description)
		w.Bool("packing_required", r.PackingRequired)
		w.Quantity("total_weight", r.TotalWeight)
		w.Quantity("total_volume", r.TotalVolume)
		for j := range r.Items {
			it := &r.Items[j]
			w.Index(j)
			w.Field("item_id", it.ID)
			w.Field("item_name", it.Name)
			w.Quantity("item_weight", it.Weight)
			w.Quantity("item_volume", it.Volume)
			w.Bool("item_fragile", it.Fragile)
			w.Bool("item_disassembly", it.Disassembly)
		}
	}

	b := &calc.Breakdown
	w.Section("breakdown")
	w.Money("base_labor", b.BaseLabor)
	w.Money("materials", b.Materials)
	w.Money("transportation", b.Transportation)
	w.Money("location_handicaps", b.LocationHandicaps)
	w.Money("special_services", b.SpecialServices)
	w.Money("seasonal_adjustment", b.SeasonalAdjustment)
	w.Money("subtotal", b.Subtotal)
	w.Money("taxes", b.Taxes)
	w.Money("total", b.Total)

	w.Section("applied_rules")
	for i := range calc.AppliedRules {
		ar := &calc.AppliedRules[i]
		w.Index(i)
		w.Field("rule_name", ar.RuleName)
		w.Field("description", ar.Description)
		w.Money("price_impact", ar.PriceImpact)
	}

	w.Section("location_handicaps")
	for i := range calc.LocationHandicaps {
		hc := &calc.LocationHandicaps[i]
		w.Index(i)
		w.Field("name", hc.Name)
		w.Field("description", hc.Description)
		w.Money("price_impact", hc.PriceImpact)
	}

	w.Section("registry")
	w.Field("rules_version", rulesVersion)

	return w.Sum().Hex()
}

func writeLocation(w *determinism.CanonicalWriter, name string, p *types.LocationProfile) {
	w.Section(name)
	w.Field("address", p.Address)
	w.Int("floor_level", p.FloorLevel)
	w.Bool("elevator_access", p.ElevatorAccess)
	w.Bool("long_carry", p.LongCarry)
	w.Quantity("parking_distance", p.ParkingDistance)
	w.Field("access_difficulty", string(p.AccessDifficulty))
	w.Int("stairs_count", p.StairsCount)
	w.Bool("narrow_hallways", p.NarrowHallways)
}

// Verify recomputes the audit hash for a result against the input it claims
// to price and reports whether it matches. Two estimates with equal hashes
// were produced by identical computation.
func Verify(in *types.EstimateInput, res *types.EstimateResult) bool {
	normalized := in.Normalize()
	recomputed := ComputeHash(&normalized, &res.Calculations, res.Metadata.RulesVersion)
	return recomputed == res.Metadata.Hash
}
