// Package engine - estimate invariant tests
// These tests pin the properties the quote guarantee depends on:
// determinism, rule-order stability, monotonicity and exact reconciliation.
package engine

import (
	"math"
	"testing"
	"time"

	"movequote/core/determinism"
	"movequote/core/registry"
	"movequote/core/types"
	"movequote/internal/errors"
)

func moneyFromString(s string) (determinism.Money, error) {
	return determinism.NewMoney(s)
}

// baselineInput is the reference 2BR local move: easy access at both ends,
// standard season, no special items, no additional services.
func baselineInput() types.EstimateInput {
	return types.EstimateInput{
		CustomerID:        "cust-2br-001",
		MoveDate:          time.Date(2025, 9, 16, 8, 0, 0, 0, time.UTC),
		Service:           types.ServiceLocal,
		CrewSize:          2,
		SeasonalPeriod:    types.SeasonStandard,
		TotalWeight:       5886,
		TotalVolume:       654,
		Distance:          10,
		EstimatedDuration: 4,
		Pickup: types.LocationProfile{
			Address:          "114 Alder St",
			FloorLevel:       1,
			AccessDifficulty: types.AccessEasy,
		},
		Delivery: types.LocationProfile{
			Address:          "77 Birchwood Ave",
			FloorLevel:       1,
			AccessDifficulty: types.AccessEasy,
		},
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestBaselineLocalMove(t *testing.T) {
	est := New(nil, WithNow(fixedClock()))

	res, err := est.Calculate(baselineInput(), "tester")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	b := res.Calculations.Breakdown
	// crew 2 * $65/hr * 4h = 520; transport 150 + 2.50*10 = 175;
	// subtotal 695; tax 8% = 55.60; total 750.60.
	if got := b.BaseLabor.String(); got != "520.00" {
		t.Errorf("base labor = %s, want 520.00", got)
	}
	if got := b.Transportation.String(); got != "175.00" {
		t.Errorf("transportation = %s, want 175.00", got)
	}
	if !b.Materials.IsZero() || !b.SpecialServices.IsZero() || !b.LocationHandicaps.IsZero() {
		t.Errorf("expected zero materials/special/handicaps, got %s/%s/%s",
			b.Materials, b.SpecialServices, b.LocationHandicaps)
	}
	if got := b.Subtotal.String(); got != "695.00" {
		t.Errorf("subtotal = %s, want 695.00", got)
	}
	if got := b.Taxes.String(); got != "55.60" {
		t.Errorf("taxes = %s, want 55.60", got)
	}
	if got := b.Total.String(); got != "750.60" {
		t.Errorf("total = %s, want 750.60", got)
	}
	if !res.Calculations.FinalPrice.Equal(b.Total) {
		t.Errorf("final price %s != total %s", res.Calculations.FinalPrice, b.Total)
	}
	if len(res.Calculations.AppliedRules) != 0 {
		t.Errorf("expected no applied rules, got %d", len(res.Calculations.AppliedRules))
	}
	if len(res.Metadata.Hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(res.Metadata.Hash))
	}
	if res.Metadata.RulesVersion != registry.DefaultVersion {
		t.Errorf("rules version = %s, want %s", res.Metadata.RulesVersion, registry.DefaultVersion)
	}
}

func TestDeterminism(t *testing.T) {
	est := New(nil, WithNow(fixedClock()))

	first, err := est.Calculate(baselineInput(), "alice")
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := est.Calculate(baselineInput(), "bob")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if first.Metadata.Hash != second.Metadata.Hash {
		t.Errorf("hashes differ across identical inputs: %s vs %s",
			first.Metadata.Hash, second.Metadata.Hash)
	}
	if !first.Calculations.Breakdown.Total.Equal(second.Calculations.Breakdown.Total) {
		t.Errorf("totals differ: %s vs %s",
			first.Calculations.Breakdown.Total, second.Calculations.Breakdown.Total)
	}
	if len(first.Calculations.AppliedRules) != len(second.Calculations.AppliedRules) {
		t.Errorf("applied rule sequences differ in length")
	}
}

func TestRuleOrderStability(t *testing.T) {
	// Same rules, same order/id values, reversed construction order.
	permuted := registry.Default()
	for i, j := 0, len(permuted.PricingRules)-1; i < j; i, j = i+1, j-1 {
		permuted.PricingRules[i], permuted.PricingRules[j] = permuted.PricingRules[j], permuted.PricingRules[i]
	}

	in := baselineInput()
	in.SpecialtyCrewRequired = true
	in.AdditionalServices.Storage = true
	in.SpecialItems.FragileItems = 4

	base, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("default registry run failed: %v", err)
	}
	perm, err := New(permuted, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("permuted registry run failed: %v", err)
	}

	if base.Metadata.Hash != perm.Metadata.Hash {
		t.Errorf("hash depends on registry construction order")
	}
	if len(base.Calculations.AppliedRules) != len(perm.Calculations.AppliedRules) {
		t.Fatalf("applied rule counts differ: %d vs %d",
			len(base.Calculations.AppliedRules), len(perm.Calculations.AppliedRules))
	}
	for i := range base.Calculations.AppliedRules {
		a, b := base.Calculations.AppliedRules[i], perm.Calculations.AppliedRules[i]
		if a.RuleName != b.RuleName || !a.PriceImpact.Equal(b.PriceImpact) {
			t.Errorf("applied rule %d differs: %s(%s) vs %s(%s)",
				i, a.RuleName, a.PriceImpact, b.RuleName, b.PriceImpact)
		}
	}
}

func TestOrderTieBrokenByID(t *testing.T) {
	// packing_labor_uplift and storage_coordination share order 60; the
	// lexicographically smaller id must evaluate first.
	in := baselineInput()
	in.AdditionalServices.Packing = true
	in.AdditionalServices.Storage = true

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	var names []string
	for _, r := range res.Calculations.AppliedRules {
		names = append(names, r.RuleName)
	}
	packIdx, storeIdx := -1, -1
	for i, n := range names {
		switch n {
		case "Packing Labor Uplift":
			packIdx = i
		case "Storage Coordination Fee":
			storeIdx = i
		}
	}
	if packIdx < 0 || storeIdx < 0 {
		t.Fatalf("expected both order-60 rules applied, got %v", names)
	}
	if packIdx > storeIdx {
		t.Errorf("tie-break violated: packing_labor_uplift after storage_coordination")
	}
}

func TestDifficultAccessSurcharges(t *testing.T) {
	in := baselineInput()
	in.Pickup.AccessDifficulty = types.AccessDifficult
	in.Pickup.StairsCount = 3

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	b := res.Calculations.Breakdown
	if b.LocationHandicaps.IsZero() || b.LocationHandicaps.IsNegative() {
		t.Fatalf("expected positive handicaps, got %s", b.LocationHandicaps)
	}
	// stairs > 2 flat 75 + difficult tier 125.
	if got := b.LocationHandicaps.String(); got != "200.00" {
		t.Errorf("handicaps = %s, want 200.00", got)
	}

	charges := res.Calculations.LocationHandicaps
	if len(charges) != 2 {
		t.Fatalf("expected 2 handicap charges, got %d", len(charges))
	}
	if charges[0].Name != "Stairs Surcharge" || charges[1].Name != "Access Difficulty" {
		t.Errorf("handicap order wrong: %s, %s", charges[0].Name, charges[1].Name)
	}
	if got := charges[1].PriceImpact.String(); got != "125.00" {
		t.Errorf("difficult tier impact = %s, want 125.00", got)
	}
}

func TestDifficultyTiersMonotone(t *testing.T) {
	tiers := []types.AccessDifficulty{
		types.AccessEasy, types.AccessModerate, types.AccessDifficult, types.AccessExtreme,
	}
	prev := "-1"
	for _, tier := range tiers {
		in := baselineInput()
		in.Pickup.AccessDifficulty = tier
		res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
		if err != nil {
			t.Fatalf("tier %s failed: %v", tier, err)
		}
		got := res.Calculations.Breakdown.LocationHandicaps
		prevMoney, _ := moneyFromString(prev)
		if got.Cmp(prevMoney) <= 0 {
			t.Errorf("tier %s handicap %s not above previous %s", tier, got, prev)
		}
		prev = got.String()
	}
}

func TestPickupChargesPrecedeDelivery(t *testing.T) {
	in := baselineInput()
	in.Pickup.NarrowHallways = true
	in.Delivery.LongCarry = true
	in.Delivery.NarrowHallways = true

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	charges := res.Calculations.LocationHandicaps
	if len(charges) != 3 {
		t.Fatalf("expected 3 charges, got %d", len(charges))
	}
	// Pickup group first (narrow hallways), then delivery group in registry
	// order (long carry before narrow hallways).
	want := []string{"Narrow Hallways", "Long Carry (Surveyed)", "Narrow Hallways"}
	for i, w := range want {
		if charges[i].Name != w {
			t.Errorf("charge %d = %s, want %s", i, charges[i].Name, w)
		}
	}
}

func TestFragileItemsMonotonic(t *testing.T) {
	prevSpecial := "-1"
	prevTotal := "-1"
	for _, n := range []int{0, 1, 3, 10, 25} {
		in := baselineInput()
		in.SpecialItems.FragileItems = n
		res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
		if err != nil {
			t.Fatalf("fragile=%d failed: %v", n, err)
		}
		special := res.Calculations.Breakdown.SpecialServices
		total := res.Calculations.Breakdown.Total
		ps, _ := moneyFromString(prevSpecial)
		pt, _ := moneyFromString(prevTotal)
		if special.Cmp(ps) < 0 {
			t.Errorf("fragile=%d: special services %s decreased below %s", n, special, prevSpecial)
		}
		if total.Cmp(pt) < 0 {
			t.Errorf("fragile=%d: total %s decreased below %s", n, total, prevTotal)
		}
		prevSpecial = special.String()
		prevTotal = total.String()
	}
}

func TestReconciliationAndNonNegativity(t *testing.T) {
	inputs := []types.EstimateInput{
		baselineInput(),
		func() types.EstimateInput {
			in := baselineInput()
			in.Service = types.ServiceLongDistance
			in.Distance = 640
			in.TotalWeight = 13250
			in.SeasonalPeriod = types.SeasonPeak
			in.IsWeekend = true
			in.SpecialItems = types.SpecialItems{Piano: true, FragileItems: 12, ValuableItems: 3}
			in.AdditionalServices = types.AdditionalServices{Packing: true, Storage: true, Cleaning: true}
			in.Pickup.FloorLevel = 4
			in.Pickup.AccessDifficulty = types.AccessExtreme
			return in
		}(),
		func() types.EstimateInput {
			in := baselineInput()
			in.SeasonalPeriod = types.SeasonOffPeak
			in.CrewSize = 1
			in.EstimatedDuration = 2
			return in
		}(),
		func() types.EstimateInput {
			// Packing-only at full-truck volume: no transport leg for the
			// bulk discount to draw on.
			in := baselineInput()
			in.Service = types.ServicePackingOnly
			in.Distance = 0
			in.TotalVolume = 1300
			in.AdditionalServices.Packing = true
			return in
		}(),
	}

	for i, in := range inputs {
		res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
		if err != nil {
			t.Fatalf("input %d failed: %v", i, err)
		}
		b := res.Calculations.Breakdown

		sum := b.BaseLabor.
			Add(b.Materials).
			Add(b.Transportation).
			Add(b.LocationHandicaps).
			Add(b.SpecialServices).
			Add(b.SeasonalAdjustment)
		if !sum.Equal(b.Subtotal) {
			t.Errorf("input %d: bucket sum %s != subtotal %s", i, sum, b.Subtotal)
		}
		if !b.Subtotal.Add(b.Taxes).Equal(b.Total) {
			t.Errorf("input %d: subtotal+taxes %s != total %s",
				i, b.Subtotal.Add(b.Taxes), b.Total)
		}

		for name, m := range map[string]string{
			"base_labor":         b.BaseLabor.String(),
			"materials":          b.Materials.String(),
			"transportation":     b.Transportation.String(),
			"location_handicaps": b.LocationHandicaps.String(),
			"special_services":   b.SpecialServices.String(),
			"taxes":              b.Taxes.String(),
			"total":              b.Total.String(),
		} {
			if len(m) > 0 && m[0] == '-' {
				t.Errorf("input %d: bucket %s is negative: %s", i, name, m)
			}
		}
	}
}

func TestBulkDiscountNeverDrawsOnEmptyTransport(t *testing.T) {
	est := New(nil, WithNow(fixedClock()))

	// Full-truck volume on a local move: the discount applies against the
	// 175.00 transport charge.
	local := baselineInput()
	local.TotalVolume = 1300
	res, err := est.Calculate(local, "x")
	if err != nil {
		t.Fatalf("local run failed: %v", err)
	}
	if got := res.Calculations.Breakdown.Transportation.String(); got != "25.00" {
		t.Errorf("discounted transportation = %s, want 25.00", got)
	}

	// Same volume on a packing-only job: the transport bucket is empty, so
	// the discount must stay off instead of pulling it negative.
	packing := baselineInput()
	packing.Service = types.ServicePackingOnly
	packing.Distance = 0
	packing.TotalVolume = 1300
	packing.AdditionalServices.Packing = true
	res, err = est.Calculate(packing, "x")
	if err != nil {
		t.Fatalf("packing-only run failed: %v", err)
	}
	if got := res.Calculations.Breakdown.Transportation.String(); !res.Calculations.Breakdown.Transportation.IsZero() {
		t.Errorf("packing-only transportation = %s, want 0", got)
	}
	for _, r := range res.Calculations.AppliedRules {
		if r.RuleName == "Bulk Volume Discount" {
			t.Errorf("bulk discount applied without a transport leg (impact %s)", r.PriceImpact)
		}
	}
}

func TestOffPeakDiscountIsNegative(t *testing.T) {
	in := baselineInput()
	in.SeasonalPeriod = types.SeasonOffPeak

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	b := res.Calculations.Breakdown
	if !b.SeasonalAdjustment.IsNegative() {
		t.Fatalf("expected negative seasonal adjustment, got %s", b.SeasonalAdjustment)
	}
	// -10% of 695.00.
	if got := b.SeasonalAdjustment.String(); got != "-69.50" {
		t.Errorf("seasonal adjustment = %s, want -69.50", got)
	}
	if got := b.Total.String(); got != "675.54" {
		t.Errorf("total = %s, want 675.54", got)
	}
}

func TestWeekendHolidayPeakStackAdditively(t *testing.T) {
	in := baselineInput()
	in.IsWeekend = true
	in.IsHoliday = true
	in.SeasonalPeriod = types.SeasonPeak

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	b := res.Calculations.Breakdown
	// Peak capacity rule adds 120 into the seasonal bucket, then the
	// 10+20+15 = 45% multiplier applies to the 695.00 pre-seasonal sum:
	// 120 + 312.75 = 432.75.
	if got := b.SeasonalAdjustment.String(); got != "432.75" {
		t.Errorf("seasonal adjustment = %s, want 432.75", got)
	}
	if got := b.Subtotal.String(); got != "1127.75" {
		t.Errorf("subtotal = %s, want 1127.75", got)
	}
	if got := b.Total.String(); got != "1217.97" {
		t.Errorf("total = %s, want 1217.97", got)
	}
}

func TestSequentialRulesObserveEarlierImpacts(t *testing.T) {
	// Specialty crew premium (order 30) raises labor; the packing uplift
	// (order 60) must compute its percentage on the raised figure.
	in := baselineInput()
	in.SpecialtyCrewRequired = true
	in.AdditionalServices.Packing = true

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	// Base labor: 2 * (65*1.25) * 4 = 650. Premium 15% = 97.50 -> 747.50.
	// Packing uplift 10% of 747.50 = 74.75, not 10% of 650.
	var uplift string
	for _, r := range res.Calculations.AppliedRules {
		if r.RuleName == "Packing Labor Uplift" {
			uplift = r.PriceImpact.String()
		}
	}
	if uplift != "74.75" {
		t.Errorf("packing uplift = %s, want 74.75 (must observe the premium)", uplift)
	}
}

func TestInvalidInputRejected(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.EstimateInput)
	}{
		{"zero weight", func(in *types.EstimateInput) { in.TotalWeight = 0 }},
		{"zero volume", func(in *types.EstimateInput) { in.TotalVolume = 0 }},
		{"zero duration", func(in *types.EstimateInput) { in.EstimatedDuration = 0 }},
		{"NaN duration", func(in *types.EstimateInput) { in.EstimatedDuration = math.NaN() }},
		{"NaN weight", func(in *types.EstimateInput) { in.TotalWeight = math.NaN() }},
		{"infinite distance", func(in *types.EstimateInput) { in.Distance = math.Inf(1) }},
		{"zero crew", func(in *types.EstimateInput) { in.CrewSize = 0 }},
		{"negative distance", func(in *types.EstimateInput) { in.Distance = -5 }},
		{"unknown service", func(in *types.EstimateInput) { in.Service = "teleport" }},
		{"unknown season", func(in *types.EstimateInput) { in.SeasonalPeriod = "monsoon" }},
		{"missing pickup address", func(in *types.EstimateInput) { in.Pickup.Address = " " }},
		{"unknown difficulty", func(in *types.EstimateInput) { in.Delivery.AccessDifficulty = "impossible" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baselineInput()
			tc.mutate(&in)
			res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
			if err == nil {
				t.Fatalf("expected validation error, got result with total %s",
					res.Calculations.Breakdown.Total)
			}
			if !errors.IsType(err, errors.TypeValidation) {
				t.Errorf("expected VALIDATION_ERROR, got %v", err)
			}
			if res != nil {
				t.Errorf("partial result returned alongside error")
			}
		})
	}
}

func TestEmptyRegistryRejected(t *testing.T) {
	rs := registry.Default()
	rs.PricingRules = nil

	_, err := New(rs, WithNow(fixedClock())).Calculate(baselineInput(), "x")
	if err == nil {
		t.Fatal("expected configuration error for empty rule set")
	}
	if !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestConcurrentCalculationsAgree(t *testing.T) {
	est := New(nil, WithNow(fixedClock()))

	ref, err := est.Calculate(baselineInput(), "x")
	if err != nil {
		t.Fatalf("reference run failed: %v", err)
	}

	const workers = 16
	hashes := make(chan string, workers)
	for i := 0; i < workers; i++ {
		go func() {
			res, err := est.Calculate(baselineInput(), "x")
			if err != nil {
				hashes <- "error: " + err.Error()
				return
			}
			hashes <- res.Metadata.Hash
		}()
	}
	for i := 0; i < workers; i++ {
		if h := <-hashes; h != ref.Metadata.Hash {
			t.Errorf("concurrent run diverged: %s", h)
		}
	}
}

func TestPackingOnlyHasNoTransportLeg(t *testing.T) {
	in := baselineInput()
	in.Service = types.ServicePackingOnly
	in.Distance = 0
	in.AdditionalServices.Packing = true

	res, err := New(nil, WithNow(fixedClock())).Calculate(in, "x")
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	b := res.Calculations.Breakdown
	if !b.Transportation.IsZero() {
		t.Errorf("packing-only transportation = %s, want 0", b.Transportation)
	}
	// 1.25/cuft * 654 = 817.50.
	if got := b.Materials.String(); got != "817.50" {
		t.Errorf("materials = %s, want 817.50", got)
	}
}
