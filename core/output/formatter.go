// Package output renders estimate results for the terminal and for JSON
// consumers.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"movequote/core/types"
)

// WriteJSON renders the full result as indented JSON
func WriteJSON(w io.Writer, res *types.EstimateResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteSummary renders the breakdown as a terminal table. showDetails adds
// the per-rule and per-handicap lines beneath their buckets.
func WriteSummary(w io.Writer, res *types.EstimateResult, showDetails bool) {
	b := &res.Calculations.Breakdown

	fmt.Fprintln(w, "┌─────────────────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(w, "│                          MOVING QUOTE SUMMARY                           │")
	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────────────┤")

	line(w, "Base labor", b.BaseLabor.String())
	line(w, "Materials", b.Materials.String())
	line(w, "Transportation", b.Transportation.String())
	line(w, "Location handicaps", b.LocationHandicaps.String())
	if showDetails {
		for _, h := range res.Calculations.LocationHandicaps {
			sub(w, h.Name, h.PriceImpact.String())
		}
	}
	line(w, "Special services", b.SpecialServices.String())
	line(w, "Seasonal adjustment", b.SeasonalAdjustment.String())
	if showDetails {
		for _, r := range res.Calculations.AppliedRules {
			sub(w, r.RuleName, r.PriceImpact.String())
		}
	}

	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────────────┤")
	line(w, "Subtotal", b.Subtotal.String())
	line(w, "Taxes", b.Taxes.String())
	line(w, "TOTAL", b.Total.String())
	fmt.Fprintln(w, "└─────────────────────────────────────────────────────────────────────────┘")

	fmt.Fprintf(w, "\nRules version: %s\n", res.Metadata.RulesVersion)
	fmt.Fprintf(w, "Audit hash:    %s\n", res.Metadata.Hash)
}

func line(w io.Writer, label, amount string) {
	fmt.Fprintf(w, "│ %-50s %20s │\n", truncate(label, 50), "$"+amount)
}

func sub(w io.Writer, label, amount string) {
	fmt.Fprintf(w, "│   └─ %-46s %20s │\n", truncate(label, 46), "$"+amount)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
