package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/carbon-valuation/internal/model"
)

func TestGenerateProducesPDF(t *testing.T) {
	report := model.ValuationReport{
		ID:          uuid.New(),
		GeneratedAt: time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
		Project: model.ProjectRecord{
			Name:                   "São Paulo Agroforestry",
			ProjectType:            "reforestation",
			Area:                   1000,
			Location:               "Amazon Rainforest, Brazil",
			EstimatedCarbonCapture: 50000,
			StartDate:              time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:                time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Result: model.ValuationResult{
			CreditValue:             35.1,
			Confidence:              0.75,
			MarketTrend:             model.MarketTrendRising,
			RecommendedInitialPrice: 38.61,
			PriceRange:              model.PriceRange{Min: 31.59, Max: 45.63},
			Method:                  model.ValuationMethodRules,
		},
	}

	data, err := NewGenerator().Generate(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(bytes.TrimSpace(data[len(data)-16:])), "%%EOF")
}

func TestGenerateHandlesEmptyProject(t *testing.T) {
	data, err := NewGenerator().Generate(model.ValuationReport{})
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "-", safeValue("  "))
	assert.Equal(t, "12.346", formatAmount(12.3456, 3))
	assert.Equal(t, "-", formatOptional(nil))
	v := 4.5
	assert.Equal(t, "4.50", formatOptional(&v))
	assert.Equal(t, "-", formatDate(time.Time{}))
	assert.Equal(t, "2020-01-01", formatDate(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))
}
