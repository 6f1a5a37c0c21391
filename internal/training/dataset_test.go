package training

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/carbon-valuation/internal/excel"
	"github.com/nurpe/carbon-valuation/internal/model"
)

type stubSource struct {
	rows []model.TrainingRow
	err  error
}

func (s stubSource) ListProjectRows(context.Context) ([]model.TrainingRow, error) {
	return s.rows, s.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadRawDirReadsAllFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.csv"),
		"projectType,area,location,estimatedCarbonCapture,startDate,endDate\n"+
			"solar,120.5,\"Great Plains, USA\",2410,2021-03-01,2041-03-01\n"+
			"wind,,Savanna,,,\n")
	writeFile(t, filepath.Join(dir, "b.json"),
		`{"projectType":"Soil carbon","area":80,"location":"Pampas","estimatedCarbonCapture":null}`)
	writeFile(t, filepath.Join(dir, "c.json"),
		`[{"projectType":"methane","area":10},{"projectType":"forest","area":20}]`)
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	workbook, err := excel.WriteDataset([]model.TrainingRow{
		{ProjectType: "conservation", Area: model.Float(300), Location: "Congo Rainforest, DRC", StartDate: "2019-01-01"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d.xlsx"), workbook, 0o644))

	rows, err := LoadRawDir(dir, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 6)

	assert.Equal(t, "solar", rows[0].ProjectType)
	assert.Equal(t, 120.5, *rows[0].Area)
	assert.Equal(t, "Great Plains, USA", rows[0].Location)
	assert.Nil(t, rows[0].ActualCarbonCapture)
	assert.Nil(t, rows[1].Area)
	assert.Nil(t, rows[1].EstimatedCarbonCapture)

	assert.Equal(t, "Soil carbon", rows[2].ProjectType)
	assert.Nil(t, rows[2].EstimatedCarbonCapture)
	assert.Equal(t, "methane", rows[3].ProjectType)
	assert.Equal(t, "forest", rows[4].ProjectType)

	assert.Equal(t, "conservation", rows[5].ProjectType)
	assert.Equal(t, 300.0, *rows[5].Area)
	assert.Equal(t, "2019-01-01", rows[5].StartDate)
	assert.Nil(t, rows[5].CreditValue)
}

func TestLoadRawDirMissingDirectory(t *testing.T) {
	rows, err := LoadRawDir(filepath.Join(t.TempDir(), "absent"), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadRawDirRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.json"), `{"projectType":`)

	_, err := LoadRawDir(dir, zerolog.Nop())
	require.Error(t, err)
}

func TestPreprocessFallsBackToSyntheticData(t *testing.T) {
	rows, err := Preprocess(context.Background(), PreprocessConfig{
		RawDir:  t.TempDir(),
		Samples: 40,
		Seed:    9,
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, NewSyntheticGenerator(9).Generate(40), rows)
}

func TestPreprocessCleansRawRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "projects.csv"),
		"projectType,area,location,estimatedCarbonCapture,startDate,endDate\n"+
			"Solar farm,100,Great Plains,2000,2020-01-01,2030-01-01\n"+
			"Solar park,50,Great Plains,,2020-01-01,\n")
	source := stubSource{rows: []model.TrainingRow{{ProjectType: "kelp farming", Area: model.Float(10)}}}

	rows, err := Preprocess(context.Background(), PreprocessConfig{
		RawDir:  dir,
		Sources: []RowSource{source},
		Samples: 40,
		Seed:    9,
		Now:     func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) },
	}, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "renewable_energy", rows[0].ProjectType)
	assert.Equal(t, "renewable_energy", rows[1].ProjectType)
	assert.Equal(t, "other", rows[2].ProjectType)

	assert.Equal(t, "2040-01-01", rows[1].EndDate)
	assert.Equal(t, "2026-10-18", rows[2].StartDate)
	for _, row := range rows {
		require.NotNil(t, row.CreditValue)
		assert.Greater(t, *row.CreditValue, 0.0)
		require.NotNil(t, row.DurationYears)
	}
}

func TestPreprocessPropagatesSourceError(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := Preprocess(context.Background(), PreprocessConfig{
		RawDir:  t.TempDir(),
		Sources: []RowSource{stubSource{err: boom}},
	}, zerolog.Nop())
	require.ErrorIs(t, err, boom)
}

func TestLoadTrainingDataGeneratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", ProcessedFileName)

	generated, err := LoadTrainingData(path, 30, 42, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, generated, 30)
	require.FileExists(t, path)

	loaded, err := LoadTrainingData(path, 999, 1, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, generated, loaded)
}

func TestWriteCSVFileIsByteStable(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	require.NoError(t, WriteCSVFile(first, NewSyntheticGenerator(42).Generate(100)))
	require.NoError(t, WriteCSVFile(second, NewSyntheticGenerator(42).Generate(100)))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
