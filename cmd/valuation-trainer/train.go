package main

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/nurpe/carbon-valuation/internal/artifact"
	"github.com/nurpe/carbon-valuation/internal/training"
)

var (
	trainData     string
	trainModelOut string
	trainTrees    int
	trainMaxDepth int
	trainWorkers  int
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit the valuation model and write the model artifact",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dataPath := trainData
		if dataPath == "" {
			dataPath = filepath.Join(cfg.Training.DataDir, training.ProcessedFileName)
		}
		modelPath := trainModelOut
		if modelPath == "" {
			modelPath = cfg.Model.Path
		}

		rows, err := training.LoadTrainingData(dataPath, cfg.Training.Samples, cfg.Training.Seed, log)
		if err != nil {
			return err
		}

		opts := training.DefaultOptions()
		opts.Forest.Trees = trainTrees
		opts.Forest.MaxDepth = trainMaxDepth
		opts.Forest.Workers = trainWorkers
		opts.Forest.Seed = cfg.Training.Seed
		opts.SplitSeed = cfg.Training.Seed

		m, err := training.NewPipeline(opts, log).Fit(cmd.Context(), rows)
		if err != nil {
			return err
		}
		if err := artifact.Save(modelPath, m); err != nil {
			return eris.Wrap(err, "save model")
		}
		log.Info().Str("path", modelPath).Int("samples", m.Samples).Msg("model saved")
		return nil
	},
}

func init() {
	defaults := training.DefaultOptions().Forest
	trainCmd.Flags().StringVar(&trainData, "data", "", "training CSV (default <TRAINING_DATA_DIR>/carbon_projects.csv)")
	trainCmd.Flags().StringVar(&trainModelOut, "model-out", "", "artifact path (default MODEL_PATH)")
	trainCmd.Flags().IntVar(&trainTrees, "trees", defaults.Trees, "number of trees")
	trainCmd.Flags().IntVar(&trainMaxDepth, "max-depth", defaults.MaxDepth, "maximum tree depth")
	trainCmd.Flags().IntVar(&trainWorkers, "workers", 0, "concurrent tree builders (0 = GOMAXPROCS)")
	rootCmd.AddCommand(trainCmd)
}
