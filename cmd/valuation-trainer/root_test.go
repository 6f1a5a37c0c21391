package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/carbon-valuation/internal/artifact"
	"github.com/nurpe/carbon-valuation/internal/training"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"generate", "preprocess", "train"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestTrainCommand_Flags(t *testing.T) {
	flag := trainCmd.Flags().Lookup("trees")
	require.NotNil(t, flag)
	assert.Equal(t, "100", flag.DefValue)

	flag = trainCmd.Flags().Lookup("max-depth")
	require.NotNil(t, flag)
	assert.Equal(t, "10", flag.DefValue)
}

func TestGenerateThenTrain(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("TRAINING_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("MODEL_PATH", filepath.Join(dir, "models", "model.json"))
	t.Setenv("DB_DSN", "")

	rootCmd.SetArgs([]string{"generate", "--samples", "80", "--xlsx"})
	require.NoError(t, rootCmd.Execute())
	assert.FileExists(t, filepath.Join(dir, "data", training.ProcessedFileName))
	assert.FileExists(t, filepath.Join(dir, "data", "carbon_projects.xlsx"))

	rootCmd.SetArgs([]string{"train", "--trees", "5", "--max-depth", "4", "--workers", "2"})
	require.NoError(t, rootCmd.Execute())

	m, err := artifact.Load(filepath.Join(dir, "models", "model.json"))
	require.NoError(t, err)
	assert.Equal(t, 80, m.Samples)
	assert.Len(t, m.Forest.Trees, 5)
}

func TestPreprocessRawDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("TRAINING_DATA_DIR", filepath.Join(dir, "data"))
	raw := filepath.Join(dir, "data", "raw")
	require.NoError(t, os.MkdirAll(raw, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "projects.json"),
		[]byte(`[{"projectType":"Solar park","area":40,"location":"Savanna, Tanzania","estimatedCarbonCapture":800,"startDate":"2022-01-01"}]`), 0o644))

	rootCmd.SetArgs([]string{"preprocess", "--no-db"})
	require.NoError(t, rootCmd.Execute())

	rows, err := training.ReadCSVFile(filepath.Join(dir, "data", training.ProcessedFileName))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "renewable_energy", rows[0].ProjectType)
	assert.Equal(t, "2042-01-01", rows[0].EndDate)
	require.NotNil(t, rows[0].CreditValue)
}
