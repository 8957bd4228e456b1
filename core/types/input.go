// Package types defines the value types of the estimation engine: the move
// description consumed by the estimator and the priced result it returns.
// Values are created once and never mutated; the engine treats every input
// as a frozen snapshot.
package types

import (
	"time"
)

// ServiceType identifies the kind of move being quoted
type ServiceType string

const (
	ServiceLocal        ServiceType = "local"
	ServiceLongDistance ServiceType = "long_distance"
	ServicePackingOnly  ServiceType = "packing_only"
)

// KnownService reports whether s is a recognized service type
func KnownService(s ServiceType) bool {
	switch s {
	case ServiceLocal, ServiceLongDistance, ServicePackingOnly:
		return true
	}
	return false
}

// SeasonalPeriod identifies the demand season of the move date
type SeasonalPeriod string

const (
	SeasonStandard SeasonalPeriod = "standard"
	SeasonPeak     SeasonalPeriod = "peak"
	SeasonOffPeak  SeasonalPeriod = "off_peak"
)

// KnownSeason reports whether p is a recognized seasonal period
func KnownSeason(p SeasonalPeriod) bool {
	switch p {
	case SeasonStandard, SeasonPeak, SeasonOffPeak:
		return true
	}
	return false
}

// AccessDifficulty grades how hard a location is to work.
// Tiers are strictly ordered: easy < moderate < difficult < extreme.
type AccessDifficulty string

const (
	AccessEasy      AccessDifficulty = "easy"
	AccessModerate  AccessDifficulty = "moderate"
	AccessDifficult AccessDifficulty = "difficult"
	AccessExtreme   AccessDifficulty = "extreme"
)

// KnownAccess reports whether d is a recognized difficulty tier
func KnownAccess(d AccessDifficulty) bool {
	switch d {
	case AccessEasy, AccessModerate, AccessDifficult, AccessExtreme:
		return true
	}
	return false
}

// AccessRank returns the ordinal position of a difficulty tier (easy=0)
func AccessRank(d AccessDifficulty) int {
	switch d {
	case AccessModerate:
		return 1
	case AccessDifficult:
		return 2
	case AccessExtreme:
		return 3
	default:
		return 0
	}
}

// LocationProfile describes the physical access conditions at one end of
// the move.
type LocationProfile struct {
	Address          string           `json:"address"`
	FloorLevel       int              `json:"floor_level"`
	ElevatorAccess   bool             `json:"elevator_access"`
	LongCarry        bool             `json:"long_carry"`
	ParkingDistance  float64          `json:"parking_distance_feet"`
	AccessDifficulty AccessDifficulty `json:"access_difficulty"`
	StairsCount      int              `json:"stairs_count"`
	NarrowHallways   bool             `json:"narrow_hallways"`
}

// SpecialItems flags high-touch inventory that needs dedicated handling
type SpecialItems struct {
	Piano         bool `json:"piano"`
	Antiques      bool `json:"antiques"`
	Artwork       bool `json:"artwork"`
	FragileItems  int  `json:"fragile_items"`
	ValuableItems int  `json:"valuable_items"`
}

// AdditionalServices flags optional services sold with the move
type AdditionalServices struct {
	Packing   bool `json:"packing"`
	Unpacking bool `json:"unpacking"`
	Assembly  bool `json:"assembly"`
	Storage   bool `json:"storage"`
	Cleaning  bool `json:"cleaning"`
}

// Item is a single inventory entry within a room
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight_lbs"`
	Volume      float64 `json:"volume_cuft"`
	Fragile     bool    `json:"fragile"`
	Disassembly bool    `json:"disassembly"`
}

// RoomManifest is the inventory of one room
type RoomManifest struct {
	ID              string  `json:"id"`
	Type            string  `json:"type"`
	Description     string  `json:"description"`
	Items           []Item  `json:"items"`
	PackingRequired bool    `json:"packing_required"`
	TotalWeight     float64 `json:"total_weight_lbs"`
	TotalVolume     float64 `json:"total_volume_cuft"`
}

// EstimateInput is the complete, immutable description of a move to quote
type EstimateInput struct {
	CustomerID string      `json:"customer_id"`
	MoveDate   time.Time   `json:"move_date"`
	Service    ServiceType `json:"service"`

	CrewSize              int            `json:"crew_size"`
	IsWeekend             bool           `json:"is_weekend"`
	IsHoliday             bool           `json:"is_holiday"`
	SeasonalPeriod        SeasonalPeriod `json:"seasonal_period"`
	SpecialtyCrewRequired bool           `json:"specialty_crew_required"`

	Pickup   LocationProfile `json:"pickup"`
	Delivery LocationProfile `json:"delivery"`

	TotalWeight       float64 `json:"total_weight_lbs"`
	TotalVolume       float64 `json:"total_volume_cuft"`
	Distance          float64 `json:"distance_miles"`
	EstimatedDuration float64 `json:"estimated_duration_hours"`

	SpecialItems       SpecialItems       `json:"special_items"`
	AdditionalServices AdditionalServices `json:"additional_services"`

	Rooms []RoomManifest `json:"rooms"`
}

// PackingNeeded reports whether any packing work is in scope: either the
// packing service was sold or at least one room requires packing.
func (in *EstimateInput) PackingNeeded() bool {
	if in.AdditionalServices.Packing {
		return true
	}
	for i := range in.Rooms {
		if in.Rooms[i].PackingRequired {
			return true
		}
	}
	return false
}
