package valuation

import (
	"math"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const (
	BaseValuePerTon = 15.0

	defaultTypeMultiplier = 1.0
	scaleSaturationArea   = 1000.0
	durabilitySaturation  = 30.0

	verifiedConfidence  = 0.85
	estimatedConfidence = 0.75
)

// Serving prices "other" at 0.95, the same multiplier the trainer uses when it
// labels synthetic and cleaned rows, rather than the neutral 1.0.
var typeMultipliers = map[model.ProjectType]float64{
	model.ProjectTypeReforestation:   1.2,
	model.ProjectTypeConservation:    1.0,
	model.ProjectTypeRenewableEnergy: 0.9,
	model.ProjectTypeMethaneCapture:  1.1,
	model.ProjectTypeSoilCarbon:      1.05,
	model.ProjectTypeOther:           0.95,
}

func TypeMultiplier(projectType string) float64 {
	if m, ok := typeMultipliers[canonicalType(projectType)]; ok {
		return m
	}
	return defaultTypeMultiplier
}

// ScaleFactor grows linearly from 0.7 at 0 ha to 1.0 at 1000 ha and stays there.
func ScaleFactor(area float64) float64 {
	return math.Min(1.0, 0.7+0.3*math.Min(area/scaleSaturationArea, 1.0))
}

// DurabilityFactor grows linearly from 0.8 at 0 years to 1.5 at 30 years and stays there.
func DurabilityFactor(durationYears float64) float64 {
	return math.Min(1.5, 0.8+0.7*math.Min(durationYears/durabilitySaturation, 1.0))
}

// CreditValue is the unrounded rule formula shared by serving and training.
func CreditValue(projectType, location string, area, durationYears float64) float64 {
	return BaseValuePerTon *
		TypeMultiplier(projectType) *
		LocationPremium(location) *
		ScaleFactor(area) *
		DurabilityFactor(durationYears)
}

// RuleValue prices a project without a learned model. Confidence reflects only
// whether the capture figure has been verified.
func RuleValue(record model.ProjectRecord) (float64, float64) {
	value := CreditValue(record.ProjectType, record.Location, record.Area, record.DurationYears())
	if record.HasActualCapture() {
		return value, verifiedConfidence
	}
	return value, estimatedConfidence
}
