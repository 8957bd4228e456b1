package registry

import (
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
)

// LaborRate is the per-mover hourly rate for jobs at or above a crew size
type LaborRate struct {
	CrewSize   int               `json:"crew_size"`
	HourlyRate determinism.Money `json:"hourly_rate"`
}

// RateTable holds the base rates the cost calculator and the seasonal/tax
// adjuster read. Like the rules, it is configuration: a market supplies its
// own numbers, the engine only defines the structure.
type RateTable struct {
	// Labor. Rates are keyed by crew size; the entry with the largest
	// CrewSize not exceeding the job's crew applies. Specialty crews bill
	// at the base rate times SpecialtyCrewMultiplier.
	LaborRates              []LaborRate     `json:"labor_rates"`
	SpecialtyCrewMultiplier decimal.Decimal `json:"specialty_crew_multiplier"`

	// Materials, per cubic foot, charged only when packing is in scope.
	PackingMaterialRate determinism.Money `json:"packing_material_rate"`

	// Transportation: flat callout plus mileage, with a distinct table for
	// long-distance jobs.
	LocalTransportBase        determinism.Money `json:"local_transport_base"`
	LocalPerMile              determinism.Money `json:"local_per_mile"`
	LongDistanceTransportBase determinism.Money `json:"long_distance_transport_base"`
	LongDistancePerMile       determinism.Money `json:"long_distance_per_mile"`

	// Special items.
	PianoSurcharge    determinism.Money `json:"piano_surcharge"`
	AntiquesSurcharge determinism.Money `json:"antiques_surcharge"`
	ArtworkSurcharge  determinism.Money `json:"artwork_surcharge"`
	FragileItemRate   determinism.Money `json:"fragile_item_rate"`
	ValuableItemRate  determinism.Money `json:"valuable_item_rate"`

	// Flat additional-service fees.
	UnpackingFee determinism.Money `json:"unpacking_fee"`
	AssemblyFee  determinism.Money `json:"assembly_fee"`
	StorageFee   determinism.Money `json:"storage_fee"`
	CleaningFee  determinism.Money `json:"cleaning_fee"`

	// Seasonal multipliers, in percent. Weekend and holiday stack
	// additively; off-peak is a discount.
	WeekendPercent         decimal.Decimal `json:"weekend_percent"`
	HolidayPercent         decimal.Decimal `json:"holiday_percent"`
	PeakPercent            decimal.Decimal `json:"peak_percent"`
	OffPeakDiscountPercent decimal.Decimal `json:"off_peak_discount_percent"`

	// Region-agnostic tax rate, in percent.
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

// HourlyRateFor resolves the per-mover hourly rate for a crew. LaborRates
// must be sorted ascending by crew size (Validate enforces this).
func (t *RateTable) HourlyRateFor(crewSize int, specialty bool) determinism.Money {
	rate := determinism.Zero()
	for _, lr := range t.LaborRates {
		if lr.CrewSize > crewSize {
			break
		}
		rate = lr.HourlyRate
	}
	if specialty {
		rate = rate.Mul(t.SpecialtyCrewMultiplier)
	}
	return rate
}
