package valuation

import (
	"math"
	"strings"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const (
	rainforestToken       = "rainforest"
	forestToken           = "forest"
	rainforestPremium     = 1.3
	defaultLocationFactor = 1.0
)

var projectTypeCodes = map[model.ProjectType]float64{
	model.ProjectTypeReforestation:   1.0,
	model.ProjectTypeConservation:    2.0,
	model.ProjectTypeRenewableEnergy: 3.0,
	model.ProjectTypeMethaneCapture:  4.0,
	model.ProjectTypeSoilCarbon:      5.0,
}

// Extract maps a project to the model's input vector. It never fails: NaN inputs
// become 0 and unknown project types get code 0.
func Extract(record model.ProjectRecord) model.FeatureVector {
	return model.FeatureVector{
		finite(record.Area),
		finite(record.CarbonCapture()),
		finite(record.DurationYears()),
		ProjectTypeCode(record.ProjectType),
		LocationPremium(record.Location),
	}
}

// ProjectTypeCode is the categorical encoding of a project type, 0 when unmatched.
func ProjectTypeCode(projectType string) float64 {
	return projectTypeCodes[canonicalType(projectType)]
}

// LocationPremium is 1.3 for locations mentioning a rainforest, 1.0 otherwise.
func LocationPremium(location string) float64 {
	if strings.Contains(strings.ToLower(location), rainforestToken) {
		return rainforestPremium
	}
	return defaultLocationFactor
}

func canonicalType(projectType string) model.ProjectType {
	return model.ProjectType(strings.ToLower(projectType))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
