// Package hclload loads per-market rule registries from HCL files. A market
// that prices differently from the house rate card ships a .hcl file with
// its own rates, rules and handicaps; the decoded RuleSet flows through the
// same validator and evaluator as the compiled-in default.
package hclload

import (
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"

	"movequote/core/determinism"
	"movequote/core/registry"
	"movequote/core/types"
	"movequote/internal/errors"
)

type rootHCL struct {
	Version   string        `hcl:"version"`
	Rates     ratesHCL      `hcl:"rates,block"`
	Rules     []ruleHCL     `hcl:"rule,block"`
	Handicaps []handicapHCL `hcl:"handicap,block"`
}

type ratesHCL struct {
	LaborRates              []laborRateHCL `hcl:"labor_rate,block"`
	SpecialtyCrewMultiplier string         `hcl:"specialty_crew_multiplier"`

	PackingMaterialRate string `hcl:"packing_material_rate"`

	LocalTransportBase        string `hcl:"local_transport_base"`
	LocalPerMile              string `hcl:"local_per_mile"`
	LongDistanceTransportBase string `hcl:"long_distance_transport_base"`
	LongDistancePerMile       string `hcl:"long_distance_per_mile"`

	PianoSurcharge    string `hcl:"piano_surcharge"`
	AntiquesSurcharge string `hcl:"antiques_surcharge"`
	ArtworkSurcharge  string `hcl:"artwork_surcharge"`
	FragileItemRate   string `hcl:"fragile_item_rate"`
	ValuableItemRate  string `hcl:"valuable_item_rate"`

	UnpackingFee string `hcl:"unpacking_fee"`
	AssemblyFee  string `hcl:"assembly_fee"`
	StorageFee   string `hcl:"storage_fee"`
	CleaningFee  string `hcl:"cleaning_fee"`

	WeekendPercent         string `hcl:"weekend_percent"`
	HolidayPercent         string `hcl:"holiday_percent"`
	PeakPercent            string `hcl:"peak_percent"`
	OffPeakDiscountPercent string `hcl:"off_peak_discount_percent"`

	TaxPercent string `hcl:"tax_percent"`
}

type laborRateHCL struct {
	CrewSize   int    `hcl:"crew_size"`
	HourlyRate string `hcl:"hourly_rate"`
}

type ruleHCL struct {
	ID          string `hcl:"id,label"`
	Name        string `hcl:"name"`
	Description string `hcl:"description,optional"`
	Category    string `hcl:"category,optional"`
	Order       int    `hcl:"order"`
	Bucket      string `hcl:"bucket"`
	Kind        string `hcl:"kind"`

	Amount       string         `hcl:"amount,optional"`
	Rate         string         `hcl:"rate,optional"`
	Metric       string         `hcl:"metric,optional"`
	Percent      string         `hcl:"percent,optional"`
	SourceBucket string         `hcl:"source_bucket,optional"`
	Tiers        []tierHCL      `hcl:"tier,block"`
	Conditions   []conditionHCL `hcl:"condition,block"`
}

type tierHCL struct {
	Threshold float64 `hcl:"threshold"`
	Amount    string  `hcl:"amount"`
}

type conditionHCL struct {
	Kind      string  `hcl:"kind"`
	Service   string  `hcl:"service,optional"`
	Season    string  `hcl:"season,optional"`
	Flag      string  `hcl:"flag,optional"`
	Metric    string  `hcl:"metric,optional"`
	Threshold float64 `hcl:"threshold,optional"`
	Bucket    string  `hcl:"bucket,optional"`
	Amount    string  `hcl:"amount,optional"`
}

type handicapHCL struct {
	ID          string `hcl:"id,label"`
	Name        string `hcl:"name"`
	Description string `hcl:"description,optional"`
	Kind        string `hcl:"kind"`

	Amount               string  `hcl:"amount,optional"`
	PerFloor             string  `hcl:"per_floor,optional"`
	StairsThreshold      int     `hcl:"stairs_threshold,optional"`
	ParkingThresholdFeet float64 `hcl:"parking_threshold_feet,optional"`
	Moderate             string  `hcl:"moderate,optional"`
	Difficult            string  `hcl:"difficult,optional"`
	Extreme              string  `hcl:"extreme,optional"`
}

// LoadFile parses and validates a registry file. The returned RuleSet has
// already passed structural validation.
func LoadFile(path string) (*registry.RuleSet, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Parsing("failed to read rules file "+path, err)
	}
	return Load(src, path)
}

// Load parses and validates registry source. filename is used only for
// diagnostics.
func Load(src []byte, filename string) (*registry.RuleSet, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Parsing("failed to parse rules file "+filename, diags)
	}

	var root rootHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, errors.Parsing("failed to decode rules file "+filename, diags)
	}

	rs, err := convert(&root)
	if err != nil {
		return nil, err
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

func convert(root *rootHCL) (*registry.RuleSet, error) {
	rates, err := convertRates(&root.Rates)
	if err != nil {
		return nil, err
	}

	rules := make([]registry.PricingRule, 0, len(root.Rules))
	for i := range root.Rules {
		r, err := convertRule(&root.Rules[i])
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	handicaps := make([]registry.LocationHandicap, 0, len(root.Handicaps))
	for i := range root.Handicaps {
		h, err := convertHandicap(&root.Handicaps[i])
		if err != nil {
			return nil, err
		}
		handicaps = append(handicaps, h)
	}

	return &registry.RuleSet{
		Version:           root.Version,
		Rates:             rates,
		PricingRules:      rules,
		LocationHandicaps: handicaps,
	}, nil
}

func convertRates(r *ratesHCL) (registry.RateTable, error) {
	var t registry.RateTable
	var err error

	for _, lr := range r.LaborRates {
		rate, merr := money(lr.HourlyRate, "labor_rate.hourly_rate")
		if merr != nil {
			return t, merr
		}
		t.LaborRates = append(t.LaborRates, registry.LaborRate{
			CrewSize:   lr.CrewSize,
			HourlyRate: rate,
		})
	}

	if t.SpecialtyCrewMultiplier, err = number(r.SpecialtyCrewMultiplier, "specialty_crew_multiplier"); err != nil {
		return t, err
	}

	fields := []struct {
		dst  *determinism.Money
		src  string
		name string
	}{
		{&t.PackingMaterialRate, r.PackingMaterialRate, "packing_material_rate"},
		{&t.LocalTransportBase, r.LocalTransportBase, "local_transport_base"},
		{&t.LocalPerMile, r.LocalPerMile, "local_per_mile"},
		{&t.LongDistanceTransportBase, r.LongDistanceTransportBase, "long_distance_transport_base"},
		{&t.LongDistancePerMile, r.LongDistancePerMile, "long_distance_per_mile"},
		{&t.PianoSurcharge, r.PianoSurcharge, "piano_surcharge"},
		{&t.AntiquesSurcharge, r.AntiquesSurcharge, "antiques_surcharge"},
		{&t.ArtworkSurcharge, r.ArtworkSurcharge, "artwork_surcharge"},
		{&t.FragileItemRate, r.FragileItemRate, "fragile_item_rate"},
		{&t.ValuableItemRate, r.ValuableItemRate, "valuable_item_rate"},
		{&t.UnpackingFee, r.UnpackingFee, "unpacking_fee"},
		{&t.AssemblyFee, r.AssemblyFee, "assembly_fee"},
		{&t.StorageFee, r.StorageFee, "storage_fee"},
		{&t.CleaningFee, r.CleaningFee, "cleaning_fee"},
	}
	for _, f := range fields {
		if *f.dst, err = money(f.src, f.name); err != nil {
			return t, err
		}
	}

	percents := []struct {
		dst  *decimal.Decimal
		src  string
		name string
	}{
		{&t.WeekendPercent, r.WeekendPercent, "weekend_percent"},
		{&t.HolidayPercent, r.HolidayPercent, "holiday_percent"},
		{&t.PeakPercent, r.PeakPercent, "peak_percent"},
		{&t.OffPeakDiscountPercent, r.OffPeakDiscountPercent, "off_peak_discount_percent"},
		{&t.TaxPercent, r.TaxPercent, "tax_percent"},
	}
	for _, p := range percents {
		if *p.dst, err = number(p.src, p.name); err != nil {
			return t, err
		}
	}

	return t, nil
}

func convertRule(r *ruleHCL) (registry.PricingRule, error) {
	out := registry.PricingRule{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Order:        r.Order,
		Bucket:       types.Bucket(r.Bucket),
		Kind:         registry.RuleKind(r.Kind),
		Metric:       registry.Metric(r.Metric),
		SourceBucket: types.Bucket(r.SourceBucket),
	}

	var err error
	if r.Amount != "" {
		if out.Amount, err = money(r.Amount, "rule "+r.ID+" amount"); err != nil {
			return out, err
		}
	}
	if r.Rate != "" {
		if out.Rate, err = money(r.Rate, "rule "+r.ID+" rate"); err != nil {
			return out, err
		}
	}
	if r.Percent != "" {
		if out.Percent, err = number(r.Percent, "rule "+r.ID+" percent"); err != nil {
			return out, err
		}
	}

	for _, t := range r.Tiers {
		amount, err := money(t.Amount, "rule "+r.ID+" tier amount")
		if err != nil {
			return out, err
		}
		out.Tiers = append(out.Tiers, registry.Tier{Threshold: t.Threshold, Amount: amount})
	}

	for _, c := range r.Conditions {
		cond := registry.Condition{
			Kind:      registry.ConditionKind(c.Kind),
			Service:   types.ServiceType(c.Service),
			Season:    types.SeasonalPeriod(c.Season),
			Flag:      registry.Flag(c.Flag),
			Metric:    registry.Metric(c.Metric),
			Threshold: c.Threshold,
			Bucket:    types.Bucket(c.Bucket),
		}
		if c.Amount != "" {
			if cond.Amount, err = money(c.Amount, "rule "+r.ID+" condition amount"); err != nil {
				return out, err
			}
		}
		out.Conditions = append(out.Conditions, cond)
	}

	return out, nil
}

func convertHandicap(h *handicapHCL) (registry.LocationHandicap, error) {
	out := registry.LocationHandicap{
		ID:                   h.ID,
		Name:                 h.Name,
		Description:          h.Description,
		Kind:                 registry.HandicapKind(h.Kind),
		StairsThreshold:      h.StairsThreshold,
		ParkingThresholdFeet: h.ParkingThresholdFeet,
	}

	var err error
	assign := []struct {
		dst  *determinism.Money
		src  string
		name string
	}{
		{&out.Amount, h.Amount, "handicap " + h.ID + " amount"},
		{&out.PerFloor, h.PerFloor, "handicap " + h.ID + " per_floor"},
		{&out.Moderate, h.Moderate, "handicap " + h.ID + " moderate"},
		{&out.Difficult, h.Difficult, "handicap " + h.ID + " difficult"},
		{&out.Extreme, h.Extreme, "handicap " + h.ID + " extreme"},
	}
	for _, a := range assign {
		if a.src == "" {
			continue
		}
		if *a.dst, err = money(a.src, a.name); err != nil {
			return out, err
		}
	}

	return out, nil
}

func money(s, field string) (determinism.Money, error) {
	m, err := determinism.NewMoney(s)
	if err != nil {
		return determinism.Zero(), errors.Newf(errors.TypeConfig, "%s: bad money literal %q", field, s)
	}
	return m, nil
}

func number(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Newf(errors.TypeConfig, "%s: bad numeric literal %q", field, s)
	}
	return d, nil
}
