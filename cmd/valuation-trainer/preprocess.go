package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nurpe/carbon-valuation/internal/db"
	"github.com/nurpe/carbon-valuation/internal/excel"
	"github.com/nurpe/carbon-valuation/internal/model"
	"github.com/nurpe/carbon-valuation/internal/repository"
	"github.com/nurpe/carbon-valuation/internal/training"
)

var (
	preprocessRawDir string
	preprocessOut    string
	preprocessXLSX   bool
	preprocessNoDB   bool
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Clean raw project data into the processed training dataset",
	Long:  "Loads .csv, .json and .xlsx files from the raw directory plus the carbon_projects table when DB_DSN is set, cleans them, fills credit values and writes the processed CSV. Falls back to synthetic data when no raw rows exist.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rawDir := preprocessRawDir
		if rawDir == "" {
			rawDir = cfg.Training.RawDir
		}
		out := preprocessOut
		if out == "" {
			out = filepath.Join(cfg.Training.DataDir, training.ProcessedFileName)
		}

		var sources []training.RowSource
		if cfg.DB.DSN != "" && !preprocessNoDB {
			database, err := db.New(cfg, log)
			if err != nil {
				return eris.Wrap(err, "connect database")
			}
			projects := repository.NewProjectRepository(database)
			count, err := projects.CountProjects(cmd.Context())
			if err != nil {
				return eris.Wrap(err, "count carbon_projects rows")
			}
			log.Info().Int64("rows", count).Msg("reading carbon_projects table")
			sources = append(sources, projects)
		}

		rows, err := training.Preprocess(cmd.Context(), training.PreprocessConfig{
			RawDir:  rawDir,
			Sources: sources,
			Samples: cfg.Training.Samples,
			Seed:    cfg.Training.Seed,
		}, log)
		if err != nil {
			return err
		}
		if err := writeDataset(out, rows, preprocessXLSX); err != nil {
			return err
		}
		log.Info().Str("file", out).Int("rows", len(rows)).Msg("processed dataset written")
		return nil
	},
}

func init() {
	preprocessCmd.Flags().StringVar(&preprocessRawDir, "raw-dir", "", "raw data directory (default TRAINING_RAW_DIR)")
	preprocessCmd.Flags().StringVar(&preprocessOut, "out", "", "output CSV path (default <TRAINING_DATA_DIR>/carbon_projects.csv)")
	preprocessCmd.Flags().BoolVar(&preprocessXLSX, "xlsx", false, "also write an .xlsx copy next to the CSV")
	preprocessCmd.Flags().BoolVar(&preprocessNoDB, "no-db", false, "ignore DB_DSN and read only the raw directory")
	rootCmd.AddCommand(preprocessCmd)
}

// writeDataset writes rows as CSV to path and, with withXLSX, as a workbook
// with the same base name.
func writeDataset(path string, rows []model.TrainingRow, withXLSX bool) error {
	if err := training.WriteCSVFile(path, rows); err != nil {
		return err
	}
	if !withXLSX {
		return nil
	}
	data, err := excel.WriteDataset(rows)
	if err != nil {
		return eris.Wrap(err, "render dataset workbook")
	}
	xlsxPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".xlsx"
	if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", xlsxPath)
	}
	log.Info().Str("file", xlsxPath).Msg("dataset workbook written")
	return nil
}
