// Package cmd - rules command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"movequote/internal/config"
)

// rulesCmd validates a registry and prints its contents in evaluation order
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Validate and print a rule registry",
	Long: `Validate a rule registry and print its rules in evaluation order.

Without --rules this prints the compiled-in registry; with --rules it loads
and validates an HCL registry file, which is the quickest way to check a
per-market rate card before deploying it.`,
	RunE: runRules,
}

func init() {
	rulesCmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "HCL rule registry file (default: compiled-in registry)")
}

func runRules(cmd *cobra.Command, args []string) error {
	rules, err := resolveRules(config.Get())
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return err
	}

	fmt.Printf("Registry version: %s\n\n", rules.Version)

	fmt.Printf("Pricing rules (%d, evaluation order):\n", len(rules.PricingRules))
	for _, r := range rules.SortedRules() {
		fmt.Printf("  %4d  %-28s  %-18s  bucket=%s\n", r.Order, r.ID, r.Kind, r.Bucket)
	}

	fmt.Printf("\nLocation handicaps (%d, registry order):\n", len(rules.LocationHandicaps))
	for _, h := range rules.LocationHandicaps {
		fmt.Printf("  %-22s  %s\n", h.ID, h.Kind)
	}

	fmt.Println("\nRegistry is valid.")
	return nil
}
