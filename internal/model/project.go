package model

import (
	"math"
	"time"
)

const daysPerYear = 365.25

type ProjectType string

const (
	ProjectTypeReforestation   ProjectType = "reforestation"
	ProjectTypeConservation    ProjectType = "conservation"
	ProjectTypeRenewableEnergy ProjectType = "renewable_energy"
	ProjectTypeMethaneCapture  ProjectType = "methane_capture"
	ProjectTypeSoilCarbon      ProjectType = "soil_carbon"
	ProjectTypeOther           ProjectType = "other"
)

// KnownProjectTypes lists the canonical categories, excluding "other".
var KnownProjectTypes = []ProjectType{
	ProjectTypeReforestation,
	ProjectTypeConservation,
	ProjectTypeRenewableEnergy,
	ProjectTypeMethaneCapture,
	ProjectTypeSoilCarbon,
}

// ProjectRecord is the validated project description a valuation is computed from.
type ProjectRecord struct {
	ID                     string
	Name                   string
	Description            string
	ProjectType            string
	Area                   float64
	Location               string
	EstimatedCarbonCapture float64
	ActualCarbonCapture    *float64 // verified tons; takes precedence when set
	StartDate              time.Time
	EndDate                time.Time
}

// DurationYears is the whole-day span between start and end divided by 365.25.
// It is negative when EndDate precedes StartDate.
func (p ProjectRecord) DurationYears() float64 {
	return DurationYears(p.StartDate, p.EndDate)
}

// CarbonCapture returns the actual capture when present, otherwise the estimate.
func (p ProjectRecord) CarbonCapture() float64 {
	if p.ActualCarbonCapture != nil {
		return *p.ActualCarbonCapture
	}
	return p.EstimatedCarbonCapture
}

func (p ProjectRecord) HasActualCapture() bool {
	return p.ActualCarbonCapture != nil
}

func DurationYears(start, end time.Time) float64 {
	days := math.Floor(end.Sub(start).Hours() / 24)
	return days / daysPerYear
}
