package types

import (
	"math"
	"strings"

	"movequote/internal/errors"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks an EstimateInput before any computation begins. A failure
// here is terminal: no partial estimate is ever produced from a rejected
// input.
func (in *EstimateInput) Validate() error {
	if strings.TrimSpace(in.CustomerID) == "" {
		return errors.Validation("customer_id", "must not be empty")
	}
	if !KnownService(in.Service) {
		return errors.Validation("service", "unknown service type "+string(in.Service))
	}
	if !KnownSeason(in.SeasonalPeriod) {
		return errors.Validation("seasonal_period", "unknown seasonal period "+string(in.SeasonalPeriod))
	}
	if in.CrewSize < 1 {
		return errors.Validation("crew_size", "must be at least 1")
	}
	// NaN slips through ordinary bound checks, so non-finite quantities are
	// rejected explicitly before anything is priced or hashed.
	for _, q := range []struct {
		field string
		value float64
	}{
		{"total_weight_lbs", in.TotalWeight},
		{"total_volume_cuft", in.TotalVolume},
		{"distance_miles", in.Distance},
		{"estimated_duration_hours", in.EstimatedDuration},
	} {
		if !finite(q.value) {
			return errors.Validation(q.field, "must be a finite number")
		}
	}
	if in.TotalWeight <= 0 {
		return errors.Validation("total_weight_lbs", "must be positive")
	}
	if in.TotalVolume <= 0 {
		return errors.Validation("total_volume_cuft", "must be positive")
	}
	if in.EstimatedDuration <= 0 {
		return errors.Validation("estimated_duration_hours", "must be positive")
	}
	if in.Distance < 0 {
		return errors.Validation("distance_miles", "must not be negative")
	}
	// Packing-only jobs have no transport leg; every other service does.
	if in.Distance == 0 && in.Service != ServicePackingOnly {
		return errors.Validation("distance_miles", "must be positive for "+string(in.Service))
	}
	if in.SpecialItems.FragileItems < 0 {
		return errors.Validation("special_items.fragile_items", "must not be negative")
	}
	if in.SpecialItems.ValuableItems < 0 {
		return errors.Validation("special_items.valuable_items", "must not be negative")
	}
	if err := in.Pickup.validate("pickup"); err != nil {
		return err
	}
	if err := in.Delivery.validate("delivery"); err != nil {
		return err
	}
	for i := range in.Rooms {
		r := &in.Rooms[i]
		if !finite(r.TotalWeight) || r.TotalWeight < 0 {
			return errors.Validation("rooms", "room "+r.ID+": total weight must be a finite non-negative number")
		}
		if !finite(r.TotalVolume) || r.TotalVolume < 0 {
			return errors.Validation("rooms", "room "+r.ID+": total volume must be a finite non-negative number")
		}
	}
	return nil
}

func (p *LocationProfile) validate(prefix string) error {
	if strings.TrimSpace(p.Address) == "" {
		return errors.Validation(prefix+".address", "must not be empty")
	}
	if p.FloorLevel < 1 {
		return errors.Validation(prefix+".floor_level", "must be at least 1")
	}
	if !finite(p.ParkingDistance) {
		return errors.Validation(prefix+".parking_distance_feet", "must be a finite number")
	}
	if p.ParkingDistance < 0 {
		return errors.Validation(prefix+".parking_distance_feet", "must not be negative")
	}
	if p.StairsCount < 0 {
		return errors.Validation(prefix+".stairs_count", "must not be negative")
	}
	if !KnownAccess(p.AccessDifficulty) {
		return errors.Validation(prefix+".access_difficulty", "unknown tier "+string(p.AccessDifficulty))
	}
	return nil
}

// Normalize returns a copy of the input ready for pricing. An empty room
// list is replaced with a single synthesized room carrying the move's
// aggregate weight and volume, so downstream components never special-case
// missing manifests.
func (in EstimateInput) Normalize() EstimateInput {
	if len(in.Rooms) == 0 {
		in.Rooms = []RoomManifest{{
			ID:              "default",
			Type:            "whole_home",
			Description:     "aggregate manifest",
			PackingRequired: in.AdditionalServices.Packing,
			TotalWeight:     in.TotalWeight,
			TotalVolume:     in.TotalVolume,
		}}
		return in
	}
	rooms := make([]RoomManifest, len(in.Rooms))
	copy(rooms, in.Rooms)
	in.Rooms = rooms
	return in
}
