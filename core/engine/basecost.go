// Package engine implements the deterministic estimate computation: base
// costs, location handicaps, rule evaluation, seasonal adjustment and tax.
// Everything here is a pure function of the input and the injected registry;
// the same input and registry always produce the same result.
package engine

import (
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
	"movequote/core/registry"
	"movequote/core/types"
)

// BaseCosts are the pre-rule baseline figures for a move
type BaseCosts struct {
	BaseLabor       determinism.Money
	Materials       determinism.Money
	Transportation  determinism.Money
	SpecialServices determinism.Money
}

// ComputeBaseCosts derives the baseline cost figures from the move's
// physical dimensions and the registry's rate tables. The input must already
// be validated and normalized.
func ComputeBaseCosts(in *types.EstimateInput, rates *registry.RateTable) BaseCosts {
	var c BaseCosts

	hourly := rates.HourlyRateFor(in.CrewSize, in.SpecialtyCrewRequired)
	c.BaseLabor = hourly.
		MulInt(int64(in.CrewSize)).
		Mul(decimal.NewFromFloat(in.EstimatedDuration)).
		RoundCents()

	if in.PackingNeeded() {
		c.Materials = rates.PackingMaterialRate.
			Mul(decimal.NewFromFloat(in.TotalVolume)).
			RoundCents()
	} else {
		c.Materials = determinism.Zero()
	}

	c.Transportation = transportCost(in, rates)

	c.SpecialServices = specialServicesCost(in, rates)

	return c
}

// transportCost prices the truck leg. Packing-only jobs have no truck leg
// and therefore no transportation charge.
func transportCost(in *types.EstimateInput, rates *registry.RateTable) determinism.Money {
	if in.Service == types.ServicePackingOnly {
		return determinism.Zero()
	}
	base := rates.LocalTransportBase
	perMile := rates.LocalPerMile
	if in.Service == types.ServiceLongDistance {
		base = rates.LongDistanceTransportBase
		perMile = rates.LongDistancePerMile
	}
	return base.
		Add(perMile.Mul(decimal.NewFromFloat(in.Distance))).
		RoundCents()
}

func specialServicesCost(in *types.EstimateInput, rates *registry.RateTable) determinism.Money {
	total := determinism.Zero()

	if in.SpecialItems.Piano {
		total = total.Add(rates.PianoSurcharge)
	}
	if in.SpecialItems.Antiques {
		total = total.Add(rates.AntiquesSurcharge)
	}
	if in.SpecialItems.Artwork {
		total = total.Add(rates.ArtworkSurcharge)
	}
	if n := in.SpecialItems.FragileItems; n > 0 {
		total = total.Add(rates.FragileItemRate.MulInt(int64(n)))
	}
	if n := in.SpecialItems.ValuableItems; n > 0 {
		total = total.Add(rates.ValuableItemRate.MulInt(int64(n)))
	}

	if in.AdditionalServices.Unpacking {
		total = total.Add(rates.UnpackingFee)
	}
	if in.AdditionalServices.Assembly {
		total = total.Add(rates.AssemblyFee)
	}
	if in.AdditionalServices.Storage {
		total = total.Add(rates.StorageFee)
	}
	if in.AdditionalServices.Cleaning {
		total = total.Add(rates.CleaningFee)
	}

	return total.RoundCents()
}
