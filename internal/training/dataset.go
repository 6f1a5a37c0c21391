package training

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/nurpe/carbon-valuation/internal/excel"
	"github.com/nurpe/carbon-valuation/internal/model"
)

const ProcessedFileName = "carbon_projects.csv"

// RowSource supplies raw project rows from outside the raw data directory.
type RowSource interface {
	ListProjectRows(ctx context.Context) ([]model.TrainingRow, error)
}

// LoadRawDir reads every .csv, .json and .xlsx file in dir, in name order.
// A missing directory yields no rows.
func LoadRawDir(dir string, log zerolog.Logger) ([]model.TrainingRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("dir", dir).Msg("raw data directory not found")
			return nil, nil
		}
		return nil, eris.Wrapf(err, "training: read dir %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var rows []model.TrainingRow
	for _, name := range names {
		path := filepath.Join(dir, name)
		var (
			loaded []model.TrainingRow
			err    error
		)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv":
			loaded, err = ReadCSVFile(path)
		case ".json":
			loaded, err = readJSONFile(path)
		case ".xlsx":
			loaded, err = excel.ReadDataset(path)
		default:
			continue
		}
		if err != nil {
			return nil, eris.Wrapf(err, "training: load %s", path)
		}
		log.Info().Str("file", path).Int("rows", len(loaded)).Msg("loaded raw data")
		rows = append(rows, loaded...)
	}
	return rows, nil
}

func ReadCSVFile(path string) ([]model.TrainingRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var rows []model.TrainingRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "training: decode csv %s", path)
	}
	return rows, nil
}

func WriteCSVFile(path string, rows []model.TrainingRow) error {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "training: encode csv")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "training: create dir for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "training: write %s", path)
	}
	return nil
}

func readJSONFile(path string) ([]model.TrainingRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '{' {
		var row model.TrainingRow
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, eris.Wrapf(err, "training: decode json %s", path)
		}
		return []model.TrainingRow{row}, nil
	}
	var rows []model.TrainingRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrapf(err, "training: decode json %s", path)
	}
	return rows, nil
}

type PreprocessConfig struct {
	RawDir  string
	Sources []RowSource
	Samples int
	Seed    uint64
	Now     func() time.Time
}

// Preprocess gathers raw rows, cleans them and fills credit values. With no raw
// rows at all it returns Samples synthetic rows instead.
func Preprocess(ctx context.Context, cfg PreprocessConfig, log zerolog.Logger) ([]model.TrainingRow, error) {
	rows, err := LoadRawDir(cfg.RawDir, log)
	if err != nil {
		return nil, err
	}
	for _, source := range cfg.Sources {
		extra, err := source.ListProjectRows(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "training: list source rows")
		}
		log.Info().Int("rows", len(extra)).Msg("loaded source rows")
		rows = append(rows, extra...)
	}

	if len(rows) == 0 {
		log.Info().Int("samples", cfg.Samples).Msg("no raw data, generating synthetic data")
		return NewSyntheticGenerator(cfg.Seed).Generate(cfg.Samples), nil
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	cleaned := Clean(rows, now())
	if n := countType(cleaned, model.ProjectTypeOther); n > 0 {
		log.Warn().Int("rows", n).Msg("project types mapped to other")
	}
	return FillCreditValues(cleaned, rand.New(rand.NewPCG(cfg.Seed, 1))), nil
}

// LoadTrainingData reads the processed dataset at path or, when it does not
// exist, generates synthetic rows and writes them there.
func LoadTrainingData(path string, samples int, seed uint64, log zerolog.Logger) ([]model.TrainingRow, error) {
	rows, err := ReadCSVFile(path)
	if err == nil {
		log.Info().Str("file", path).Int("rows", len(rows)).Msg("loaded training data")
		return rows, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(err, "training: load %s", path)
	}

	log.Info().Int("samples", samples).Msg("training data not found, generating synthetic data")
	rows = NewSyntheticGenerator(seed).Generate(samples)
	if err := WriteCSVFile(path, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func countType(rows []model.TrainingRow, projectType model.ProjectType) int {
	n := 0
	for _, row := range rows {
		if row.ProjectType == string(projectType) {
			n++
		}
	}
	return n
}
