package registry

import (
	"movequote/core/determinism"
)

// HandicapKind selects the predicate and impact formula of a location
// handicap. Handicap impacts are always non-negative; discounts belong to
// pricing rules.
type HandicapKind string

const (
	// KindWalkUp applies when the floor is above ground and there is no
	// elevator; impact is PerFloor for each floor above the first
	KindWalkUp HandicapKind = "walk_up"

	// KindStairsThreshold applies when the stairs count exceeds
	// StairsThreshold
	KindStairsThreshold HandicapKind = "stairs_threshold"

	// KindParkingDistance applies when the truck-to-door carry exceeds
	// ParkingThresholdFeet
	KindParkingDistance HandicapKind = "parking_distance"

	// KindLongCarryFlag applies when the surveyor marked a long carry
	KindLongCarryFlag HandicapKind = "long_carry_flag"

	// KindNarrowHallways applies when hallways restrict furniture movement
	KindNarrowHallways HandicapKind = "narrow_hallways"

	// KindDifficultyTier applies for any tier above easy; impact is the
	// amount configured for the location's tier
	KindDifficultyTier HandicapKind = "difficulty_tier"
)

// KnownHandicapKind reports whether k is a recognized handicap kind
func KnownHandicapKind(k HandicapKind) bool {
	switch k {
	case KindWalkUp, KindStairsThreshold, KindParkingDistance,
		KindLongCarryFlag, KindNarrowHallways, KindDifficultyTier:
		return true
	}
	return false
}

// LocationHandicap is one entry of the handicap registry. Registry position
// is the fixed evaluation order; the evaluator walks the slice front to
// back for the pickup profile, then again for delivery.
type LocationHandicap struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Kind        HandicapKind `json:"kind"`

	// Kind-specific data.
	Amount               determinism.Money `json:"amount,omitempty"`       // flat kinds
	PerFloor             determinism.Money `json:"per_floor,omitempty"`    // walk_up
	StairsThreshold      int               `json:"stairs_threshold,omitempty"`
	ParkingThresholdFeet float64           `json:"parking_threshold_feet,omitempty"`

	// difficulty_tier amounts; easy is always zero and the three must be
	// strictly increasing.
	Moderate  determinism.Money `json:"moderate,omitempty"`
	Difficult determinism.Money `json:"difficult,omitempty"`
	Extreme   determinism.Money `json:"extreme,omitempty"`
}
