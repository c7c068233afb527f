package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"policyscope/internal/models"
	"policyscope/internal/normalizer"
)

var (
	flagNormFamily string
	flagNormInput  string
	flagNormOutput string
	flagNormStrict bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize raw Graph JSON offline",
	Long: `Normalize converts previously saved Graph responses into unified policy
records without contacting Graph.

The input may be a single record, an array of records, or a Graph page with a
"value" array. --family accepts a family name ("compliance",
"Device Configuration") or a collection name ("intents").

Examples:
  policyscope normalize --family compliance --input raw.json
  policyscope normalize --family configurationPolicies -i page.json -o out.json`,
	Args: cobra.NoArgs,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringVarP(&flagNormFamily, "family", "f", "", "Policy family or collection name (required)")
	normalizeCmd.Flags().StringVarP(&flagNormInput, "input", "i", "-", "Input JSON file (- for stdin)")
	normalizeCmd.Flags().StringVarP(&flagNormOutput, "output", "o", "-", "Output file (- for stdout)")
	normalizeCmd.Flags().BoolVar(&flagNormStrict, "strict", false, "Drop records that fail validation")

	_ = normalizeCmd.MarkFlagRequired("family")
}

func runNormalize(_ *cobra.Command, _ []string) error {
	kind, err := resolveKind(flagNormFamily)
	if err != nil {
		return err
	}

	data, err := readInput(flagNormInput)
	if err != nil {
		return err
	}

	records, err := decodeRecords(data)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p := normalizer.NewProcessor(newLogger(cfg))
	p.Strict = flagNormStrict

	return writeJSONOutput(flagNormOutput, p.ProcessAll(records, kind))
}

// resolveKind maps a collection or family name to a source kind.
func resolveKind(name string) (models.SourceKind, error) {
	for _, k := range models.SourceKinds {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}

	if family, ok := models.ParseFamily(name); ok {
		return models.SourceForFamily(family), nil
	}

	return "", fmt.Errorf("unknown family %q", name)
}

// decodeRecords accepts an object, an array, or a page with "value".
func decodeRecords(data []byte) ([]models.RawRecord, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}

	switch t := v.(type) {
	case []any:
		return toRecords(t), nil
	case map[string]any:
		if page, ok := t["value"].([]any); ok {
			return toRecords(page), nil
		}

		return []models.RawRecord{t}, nil
	default:
		return nil, fmt.Errorf("input must be a JSON object or array, got %T", v)
	}
}

func toRecords(items []any) []models.RawRecord {
	records := make([]models.RawRecord, 0, len(items))

	for _, item := range items {
		rec, _ := models.AsRecord(item)
		records = append(records, rec)
	}

	return records
}
