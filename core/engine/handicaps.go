package engine

import (
	"movequote/core/determinism"
	"movequote/core/registry"
	"movequote/core/types"
)

// EvaluateHandicaps walks the handicap registry in its fixed order and
// returns the charges whose predicate holds for the profile. The estimator
// calls this for pickup first, then delivery, and concatenates the two
// sequences pickup-first.
func EvaluateHandicaps(p *types.LocationProfile, handicaps []registry.LocationHandicap) []types.HandicapCharge {
	var charges []types.HandicapCharge
	for i := range handicaps {
		h := &handicaps[i]
		impact, applies := handicapImpact(p, h)
		if !applies {
			continue
		}
		charges = append(charges, types.HandicapCharge{
			Name:        h.Name,
			Description: h.Description,
			PriceImpact: impact.RoundCents(),
		})
	}
	return charges
}

func handicapImpact(p *types.LocationProfile, h *registry.LocationHandicap) (determinism.Money, bool) {
	switch h.Kind {
	case registry.KindWalkUp:
		if p.FloorLevel > 1 && !p.ElevatorAccess {
			return h.PerFloor.MulInt(int64(p.FloorLevel - 1)), true
		}

	case registry.KindStairsThreshold:
		if p.StairsCount > h.StairsThreshold {
			return h.Amount, true
		}

	case registry.KindParkingDistance:
		if p.ParkingDistance > h.ParkingThresholdFeet {
			return h.Amount, true
		}

	case registry.KindLongCarryFlag:
		if p.LongCarry {
			return h.Amount, true
		}

	case registry.KindNarrowHallways:
		if p.NarrowHallways {
			return h.Amount, true
		}

	case registry.KindDifficultyTier:
		switch p.AccessDifficulty {
		case types.AccessModerate:
			return h.Moderate, true
		case types.AccessDifficult:
			return h.Difficult, true
		case types.AccessExtreme:
			return h.Extreme, true
		}
	}
	return determinism.Zero(), false
}
