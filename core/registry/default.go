package registry

import (
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
	"movequote/core/types"
)

// DefaultVersion tags the compiled-in registry snapshot. Bump it whenever a
// rate, rule or handicap below changes; audit hashes embed this value.
const DefaultVersion = "2025.08.1"

// Default builds the standard-market registry. The numbers here are the
// house rate card, not engine semantics: per-market registries with
// different numbers load through the hclload package and flow through the
// same evaluator. The returned value is freshly constructed on every call,
// so no caller can mutate another caller's registry.
func Default() *RuleSet {
	pct := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	usd := determinism.MustMoney

	return &RuleSet{
		Version: DefaultVersion,
		Rates: RateTable{
			LaborRates: []LaborRate{
				{CrewSize: 1, HourlyRate: usd("75")},
				{CrewSize: 2, HourlyRate: usd("65")},
				{CrewSize: 3, HourlyRate: usd("60")},
				{CrewSize: 4, HourlyRate: usd("55")},
			},
			SpecialtyCrewMultiplier: pct("1.25"),

			PackingMaterialRate: usd("1.25"),

			LocalTransportBase:        usd("150"),
			LocalPerMile:              usd("2.50"),
			LongDistanceTransportBase: usd("500"),
			LongDistancePerMile:       usd("3.75"),

			PianoSurcharge:    usd("250"),
			AntiquesSurcharge: usd("150"),
			ArtworkSurcharge:  usd("100"),
			FragileItemRate:   usd("15"),
			ValuableItemRate:  usd("25"),

			UnpackingFee: usd("200"),
			AssemblyFee:  usd("150"),
			StorageFee:   usd("300"),
			CleaningFee:  usd("250"),

			WeekendPercent:         pct("10"),
			HolidayPercent:         pct("20"),
			PeakPercent:            pct("15"),
			OffPeakDiscountPercent: pct("10"),

			TaxPercent: pct("8"),
		},
		PricingRules: []PricingRule{
			{
				ID:          "heavy_load_surcharge",
				Name:        "Heavy Load Surcharge",
				Description: "Extra handling for shipments at or above eight thousand pounds",
				Category:    "weight",
				Order:       10,
				Bucket:      types.BucketLabor,
				Kind:        KindTieredThreshold,
				Metric:      MetricTotalWeight,
				Tiers: []Tier{
					{Threshold: 8000, Amount: usd("200")},
					{Threshold: 12000, Amount: usd("400")},
				},
			},
			{
				ID:           "long_distance_fuel",
				Name:         "Long Distance Fuel Adjustment",
				Description:  "Fuel recovery on interstate transportation",
				Category:     "transportation",
				Order:        20,
				Bucket:       types.BucketTransportation,
				Kind:         KindPercentOfBucket,
				Percent:      pct("12"),
				SourceBucket: types.BucketTransportation,
				Conditions: []Condition{
					{Kind: CondServiceIs, Service: types.ServiceLongDistance},
				},
			},
			{
				ID:           "specialty_crew_premium",
				Name:         "Specialty Crew Premium",
				Description:  "Certified crew uplift on labor",
				Category:     "labor",
				Order:        30,
				Bucket:       types.BucketLabor,
				Kind:         KindPercentOfBucket,
				Percent:      pct("15"),
				SourceBucket: types.BucketLabor,
				Conditions: []Condition{
					{Kind: CondFlagSet, Flag: FlagSpecialtyCrew},
				},
			},
			{
				ID:          "fragile_handling_materials",
				Name:        "Fragile Handling Materials",
				Description: "Extra crating material per fragile item",
				Category:    "materials",
				Order:       40,
				Bucket:      types.BucketMaterials,
				Kind:        KindPerUnit,
				Metric:      MetricFragileItems,
				Rate:        usd("5"),
				Conditions: []Condition{
					{Kind: CondMetricAtLeast, Metric: MetricFragileItems, Threshold: 1},
				},
			},
			{
				ID:          "bulk_volume_discount",
				Name:        "Bulk Volume Discount",
				Description: "Transportation discount for full-truck volume",
				Category:    "transportation",
				Order:       50,
				Bucket:      types.BucketTransportation,
				Kind:        KindFixedAmount,
				Amount:      usd("-150"),
				// The second clause keeps the discount off jobs without a
				// transport leg, so it can never pull the bucket negative.
				Conditions: []Condition{
					{Kind: CondMetricAtLeast, Metric: MetricTotalVolume, Threshold: 1200},
					{Kind: CondBucketAtLeast, Bucket: types.BucketTransportation, Amount: usd("150")},
				},
			},
			{
				ID:           "packing_labor_uplift",
				Name:         "Packing Labor Uplift",
				Description:  "Labor uplift when the crew also packs",
				Category:     "labor",
				Order:        60,
				Bucket:       types.BucketLabor,
				Kind:         KindPercentOfBucket,
				Percent:      pct("10"),
				SourceBucket: types.BucketLabor,
				Conditions: []Condition{
					{Kind: CondFlagSet, Flag: FlagPackingNeeded},
				},
			},
			{
				ID:          "storage_coordination",
				Name:        "Storage Coordination Fee",
				Description: "Warehouse intake scheduling for storage jobs",
				Category:    "services",
				Order:       60,
				Bucket:      types.BucketSpecialServices,
				Kind:        KindFixedAmount,
				Amount:      usd("75"),
				Conditions: []Condition{
					{Kind: CondFlagSet, Flag: FlagStorage},
				},
			},
			{
				ID:          "minimum_callout",
				Name:        "Minimum Callout Fee",
				Description: "Floor for short jobs whose labor falls under the callout minimum",
				Category:    "labor",
				Order:       70,
				Bucket:      types.BucketLabor,
				Kind:        KindFixedAmount,
				Amount:      usd("75"),
				Conditions: []Condition{
					{Kind: CondBucketBelow, Bucket: types.BucketLabor, Amount: usd("300")},
				},
			},
			{
				ID:          "peak_capacity_fee",
				Name:        "Peak Season Capacity Fee",
				Description: "Capacity reservation during peak season",
				Category:    "seasonal",
				Order:       80,
				Bucket:      types.BucketSeasonalAdjustment,
				Kind:        KindFixedAmount,
				Amount:      usd("120"),
				Conditions: []Condition{
					{Kind: CondSeasonIs, Season: types.SeasonPeak},
				},
			},
		},
		LocationHandicaps: []LocationHandicap{
			{
				ID:          "walk_up",
				Name:        "Walk-Up Surcharge",
				Description: "No elevator above the ground floor",
				Kind:        KindWalkUp,
				PerFloor:    usd("50"),
			},
			{
				ID:              "stairs",
				Name:            "Stairs Surcharge",
				Description:     "More than two flights of stairs on the carry path",
				Kind:            KindStairsThreshold,
				StairsThreshold: 2,
				Amount:          usd("75"),
			},
			{
				ID:                   "long_carry_parking",
				Name:                 "Long Carry (Parking)",
				Description:          "Truck parked more than a hundred feet from the door",
				Kind:                 KindParkingDistance,
				ParkingThresholdFeet: 100,
				Amount:               usd("85"),
			},
			{
				ID:          "long_carry_flagged",
				Name:        "Long Carry (Surveyed)",
				Description: "Surveyor marked an extended carry path",
				Kind:        KindLongCarryFlag,
				Amount:      usd("60"),
			},
			{
				ID:          "narrow_hallways",
				Name:        "Narrow Hallways",
				Description: "Hallways restrict furniture movement",
				Kind:        KindNarrowHallways,
				Amount:      usd("40"),
			},
			{
				ID:          "access_difficulty",
				Name:        "Access Difficulty",
				Description: "Graded surcharge for overall site difficulty",
				Kind:        KindDifficultyTier,
				Moderate:    usd("50"),
				Difficult:   usd("125"),
				Extreme:     usd("250"),
			},
		},
	}
}
