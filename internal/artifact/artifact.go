// Package artifact persists the trained valuation model as a single JSON file.
package artifact

import (
	"encoding/json"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/nurpe/carbon-valuation/internal/forest"
	"github.com/nurpe/carbon-valuation/internal/model"
)

var ErrNotFound = errors.New("model artifact not found")

// Metrics are the evaluation figures recorded at training time.
type Metrics struct {
	TrainMAE float64 `json:"train_mae"`
	TestMAE  float64 `json:"test_mae"`
	TrainR2  float64 `json:"train_r2"`
	TestR2   float64 `json:"test_r2"`
}

// Model is the loaded, read-only regression artifact.
type Model struct {
	Forest       *forest.Forest `json:"forest"`
	ColumnMeans  []float64      `json:"column_means"`
	FeatureNames []string       `json:"feature_names"`
	Metrics      *Metrics       `json:"metrics,omitempty"`
	Samples      int            `json:"samples"`
	TrainedAt    time.Time      `json:"trained_at"`
}

// Predict fills NaN features with the training column means and scores the forest.
func (m *Model) Predict(features model.FeatureVector) (float64, error) {
	x := make([]float64, len(features))
	for i, v := range features {
		if math.IsNaN(v) && i < len(m.ColumnMeans) {
			v = m.ColumnMeans[i]
		}
		x[i] = v
	}
	return m.Forest.Predict(x)
}

// QualityScore returns the held-out R².
func (m *Model) QualityScore() (float64, error) {
	if m.Metrics == nil {
		return 0, eris.New("artifact: no metrics recorded")
	}
	return m.Metrics.TestR2, nil
}

func (m *Model) validate() error {
	switch {
	case m.Forest == nil:
		return eris.New("artifact: missing forest")
	case len(m.Forest.Trees) == 0:
		return eris.New("artifact: forest has no trees")
	case m.Forest.Features != model.FeatureCount:
		return eris.Errorf("artifact: forest expects %d features, want %d", m.Forest.Features, model.FeatureCount)
	case len(m.ColumnMeans) != 0 && len(m.ColumnMeans) != model.FeatureCount:
		return eris.Errorf("artifact: %d column means, want %d", len(m.ColumnMeans), model.FeatureCount)
	}
	return m.Forest.Validate()
}

// Save writes m to path atomically, creating parent directories.
func Save(path string, m *Model) error {
	if err := m.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "artifact: encode")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "artifact: create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "artifact: create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrap(err, "artifact: write")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "artifact: close")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "artifact: rename to %s", path)
	}
	return nil
}

// Load reads the artifact at path. A missing file yields ErrNotFound.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, eris.Wrapf(err, "artifact: read %s", path)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrapf(err, "artifact: decode %s", path)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
