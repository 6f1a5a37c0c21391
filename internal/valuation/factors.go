package valuation

import (
	"strings"

	"github.com/nurpe/carbon-valuation/internal/model"
)

// AnalyzeFactors labels each valuation input independently.
func AnalyzeFactors(record model.ProjectRecord) model.Factors {
	return model.Factors{
		Location:    locationImpact(record.Location),
		ProjectType: projectTypeImpact(record.ProjectType),
		Duration:    durationImpact(record.DurationYears()),
		Scale:       scaleImpact(record.Area),
	}
}

func AnalyzeTrend(record model.ProjectRecord) model.MarketTrend {
	switch canonicalType(record.ProjectType) {
	case model.ProjectTypeReforestation, model.ProjectTypeConservation:
		return model.MarketTrendRising
	case model.ProjectTypeSoilCarbon:
		return model.MarketTrendStableRising
	default:
		return model.MarketTrendStable
	}
}

func locationImpact(location string) model.Impact {
	location = strings.ToLower(location)
	switch {
	case strings.Contains(location, rainforestToken):
		return model.ImpactHigh
	case strings.Contains(location, forestToken):
		return model.ImpactMedium
	default:
		return model.ImpactLow
	}
}

func projectTypeImpact(projectType string) model.Impact {
	switch canonicalType(projectType) {
	case model.ProjectTypeReforestation, model.ProjectTypeConservation:
		return model.ImpactHigh
	default:
		return model.ImpactMedium
	}
}

func durationImpact(years float64) model.Impact {
	switch {
	case years > 20:
		return model.ImpactHigh
	case years > 10:
		return model.ImpactMedium
	default:
		return model.ImpactLow
	}
}

func scaleImpact(area float64) model.Impact {
	switch {
	case area > 5000:
		return model.ImpactHigh
	case area > 1000:
		return model.ImpactMedium
	default:
		return model.ImpactLow
	}
}
