package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nurpe/carbon-valuation/internal/model"
)

func TestExtract(t *testing.T) {
	record := amazonReforestation()

	features := Extract(record)
	assert.Equal(t, 1000.0, features[0])
	assert.Equal(t, 50000.0, features[1])
	assert.InDelta(t, 30.0, features[2], 0.01)
	assert.Equal(t, 1.0, features[3])
	assert.Equal(t, 1.3, features[4])
}

func TestExtractPrefersActualCapture(t *testing.T) {
	record := amazonReforestation()
	record.ActualCarbonCapture = model.Float(42000)

	assert.Equal(t, 42000.0, Extract(record)[1])
}

func TestExtractCoercesMissingAndNaN(t *testing.T) {
	record := model.ProjectRecord{
		ProjectType:            "Blue Carbon",
		Area:                   math.NaN(),
		Location:               "Coastal Region, Australia",
		EstimatedCarbonCapture: math.NaN(),
	}

	features := Extract(record)
	for i, v := range features {
		assert.False(t, math.IsNaN(v), "feature %d", i)
	}
	assert.Equal(t, model.FeatureVector{0, 0, 0, 0, 1.0}, features)
}

func TestExtractIsDeterministic(t *testing.T) {
	record := amazonReforestation()
	assert.Equal(t, Extract(record), Extract(record))
}

func TestProjectTypeCode(t *testing.T) {
	assert.Equal(t, 1.0, ProjectTypeCode("Reforestation"))
	assert.Equal(t, 2.0, ProjectTypeCode("conservation"))
	assert.Equal(t, 3.0, ProjectTypeCode("renewable_energy"))
	assert.Equal(t, 4.0, ProjectTypeCode("METHANE_CAPTURE"))
	assert.Equal(t, 5.0, ProjectTypeCode("soil_carbon"))
	assert.Equal(t, 0.0, ProjectTypeCode("other"))
	assert.Equal(t, 0.0, ProjectTypeCode("soil carbon"))
}

func TestLocationPremium(t *testing.T) {
	assert.Equal(t, 1.3, LocationPremium("Borneo RAINFOREST, Indonesia"))
	assert.Equal(t, 1.0, LocationPremium("Northern Forest, Canada"))
	assert.Equal(t, 1.0, LocationPremium(""))
}
