package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nurpe/carbon-valuation/internal/config"
	"github.com/nurpe/carbon-valuation/internal/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "valuation-trainer",
	Short:        "Offline data preparation and model training for carbon credit valuation",
	Long:         "Generates synthetic project data, cleans raw project data and trains the forest model served by valuation-service.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		log = logger.New(cfg.Environment)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
