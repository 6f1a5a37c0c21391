package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nurpe/carbon-valuation/internal/training"
)

var (
	generateSamples int
	generateSeed    uint64
	generateOut     string
	generateXLSX    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic training dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		samples := generateSamples
		if samples == 0 {
			samples = cfg.Training.Samples
		}
		if samples < 0 {
			return eris.Errorf("samples must be positive, got %d", samples)
		}
		seed := cfg.Training.Seed
		if cmd.Flags().Changed("seed") {
			seed = generateSeed
		}
		out := generateOut
		if out == "" {
			out = filepath.Join(cfg.Training.DataDir, training.ProcessedFileName)
		}

		rows := training.NewSyntheticGenerator(seed).Generate(samples)
		if err := writeDataset(out, rows, generateXLSX); err != nil {
			return err
		}
		log.Info().Str("file", out).Int("rows", len(rows)).Uint64("seed", seed).Msg("synthetic dataset written")
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&generateSamples, "samples", 0, "number of rows (default TRAINING_SAMPLES)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "random seed (default TRAINING_SEED)")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output CSV path (default <TRAINING_DATA_DIR>/carbon_projects.csv)")
	generateCmd.Flags().BoolVar(&generateXLSX, "xlsx", false, "also write an .xlsx copy next to the CSV")
	rootCmd.AddCommand(generateCmd)
}
