// Package cmd - estimate command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"movequote/core/engine"
	"movequote/core/output"
	"movequote/core/registry"
	"movequote/core/registry/hclload"
	"movequote/core/types"
	"movequote/internal/config"
	"movequote/internal/logging"
)

var (
	outputFormat string
	rulesFile    string
	showDetails  bool
	calculatedBy string
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate <input.json>",
	Short: "Price a move from a JSON move description",
	Long: `Compute a binding quote for a move described in a JSON file.

The input file carries the EstimateInput fields: service, crew, pickup and
delivery access profiles, weight, volume, distance, duration, special items,
additional services and optional room manifests.

Examples:
  movequote estimate move.json
  movequote estimate --rules metro-west.hcl move.json
  movequote estimate --format json --by "j.alvarez" move.json`,
	Args: cobra.ExactArgs(1),
	RunE: runEstimate,
}

func init() {
	estimateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json)")
	estimateCmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "HCL rule registry file (default: compiled-in registry)")
	estimateCmd.Flags().BoolVarP(&showDetails, "details", "d", true, "show per-rule and per-handicap lines")
	estimateCmd.Flags().StringVar(&calculatedBy, "by", "", "operator identity stamped on the estimate")
}

func runEstimate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	input, err := readInput(args[0])
	if err != nil {
		return err
	}

	rules, err := resolveRules(cfg)
	if err != nil {
		return err
	}

	by := calculatedBy
	if by == "" {
		by = cfg.CalculatedBy
	}

	logging.Info("pricing move",
		zap.String("customer_id", input.CustomerID),
		zap.String("service", string(input.Service)),
		zap.String("rules_version", rules.Version))

	result, err := engine.New(rules).Calculate(*input, by)
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	if format == "json" {
		return output.WriteJSON(os.Stdout, result)
	}
	output.WriteSummary(os.Stdout, result, showDetails && cfg.Output.ShowDetails)
	return nil
}

func readInput(path string) (*types.EstimateInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var input types.EstimateInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to decode input file: %w", err)
	}
	return &input, nil
}

func resolveRules(cfg *config.Config) (*registry.RuleSet, error) {
	path := rulesFile
	if path == "" {
		path = cfg.RulesFile
	}
	if path == "" {
		return registry.Default(), nil
	}
	return hclload.LoadFile(path)
}
