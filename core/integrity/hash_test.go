// Package integrity - audit hash reproducibility tests
package integrity_test

import (
	"testing"
	"time"

	"movequote/core/determinism"
	"movequote/core/engine"
	"movequote/core/integrity"
	"movequote/core/types"
)

func sampleInput() types.EstimateInput {
	return types.EstimateInput{
		CustomerID:        "cust-7781",
		MoveDate:          time.Date(2025, 10, 4, 9, 0, 0, 0, time.UTC),
		Service:           types.ServiceLocal,
		CrewSize:          3,
		SeasonalPeriod:    types.SeasonStandard,
		TotalWeight:       7200,
		TotalVolume:       820,
		Distance:          22,
		EstimatedDuration: 6,
		Pickup: types.LocationProfile{
			Address:          "9 Quay Rd",
			FloorLevel:       2,
			AccessDifficulty: types.AccessModerate,
			StairsCount:      1,
		},
		Delivery: types.LocationProfile{
			Address:          "310 Harrow Ln",
			FloorLevel:       1,
			ElevatorAccess:   true,
			AccessDifficulty: types.AccessEasy,
		},
		SpecialItems: types.SpecialItems{FragileItems: 6},
	}
}

func TestHashExcludesOperatorAndTimestamp(t *testing.T) {
	clockA := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	clockB := func() time.Time { return time.Date(2026, 6, 15, 18, 30, 0, 0, time.UTC) }

	resA, err := engine.New(nil, engine.WithNow(clockA)).Calculate(sampleInput(), "alice")
	if err != nil {
		t.Fatalf("first calculation failed: %v", err)
	}
	resB, err := engine.New(nil, engine.WithNow(clockB)).Calculate(sampleInput(), "bob")
	if err != nil {
		t.Fatalf("second calculation failed: %v", err)
	}

	if resA.Metadata.Hash != resB.Metadata.Hash {
		t.Errorf("hash varies with operator/timestamp: %s vs %s",
			resA.Metadata.Hash, resB.Metadata.Hash)
	}
}

func TestHashCoversInput(t *testing.T) {
	base, err := engine.CalculateEstimate(sampleInput(), "x")
	if err != nil {
		t.Fatalf("baseline failed: %v", err)
	}

	changed := sampleInput()
	changed.Distance = 23
	other, err := engine.CalculateEstimate(changed, "x")
	if err != nil {
		t.Fatalf("changed input failed: %v", err)
	}

	if base.Metadata.Hash == other.Metadata.Hash {
		t.Error("hash did not change when the input changed")
	}
}

func TestHashCoversRulesVersion(t *testing.T) {
	in := sampleInput()
	res, err := engine.CalculateEstimate(in, "x")
	if err != nil {
		t.Fatalf("calculation failed: %v", err)
	}

	normalized := in.Normalize()
	withVersion := integrity.ComputeHash(&normalized, &res.Calculations, res.Metadata.RulesVersion)
	otherVersion := integrity.ComputeHash(&normalized, &res.Calculations, "some-other-version")

	if withVersion != res.Metadata.Hash {
		t.Error("recomputed hash does not match the engine's hash")
	}
	if withVersion == otherVersion {
		t.Error("hash did not change when the rules version changed")
	}
}

func TestVerify(t *testing.T) {
	in := sampleInput()
	res, err := engine.CalculateEstimate(in, "auditor")
	if err != nil {
		t.Fatalf("calculation failed: %v", err)
	}

	if !integrity.Verify(&in, res) {
		t.Fatal("Verify rejected an untampered result")
	}

	tampered := *res
	tampered.Calculations.Breakdown.Total =
		tampered.Calculations.Breakdown.Total.Add(determinism.FromCents(1))
	if integrity.Verify(&in, &tampered) {
		t.Fatal("Verify accepted a tampered total")
	}
}

func TestAdjacentFieldsCannotCollide(t *testing.T) {
	a := determinism.NewCanonicalWriter()
	a.Field("x", "ab")
	a.Field("y", "c")

	b := determinism.NewCanonicalWriter()
	b.Field("x", "a")
	b.Field("y", "bc")

	if a.Sum().Hex() == b.Sum().Hex() {
		t.Error("field boundaries are ambiguous in the canonical stream")
	}
}
