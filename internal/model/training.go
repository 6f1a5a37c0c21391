package model

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// TrainingRow is one tabular project record as found in raw or processed data files.
// Nil pointers are missing cells.
type TrainingRow struct {
	ProjectType            string   `csv:"projectType" json:"projectType" gorm:"column:project_type"`
	Area                   *float64 `csv:"area" json:"area" gorm:"column:area"`
	Location               string   `csv:"location" json:"location" gorm:"column:location"`
	EstimatedCarbonCapture *float64 `csv:"estimatedCarbonCapture" json:"estimatedCarbonCapture" gorm:"column:estimated_carbon_capture"`
	ActualCarbonCapture    *float64 `csv:"actualCarbonCapture" json:"actualCarbonCapture" gorm:"column:actual_carbon_capture"`
	StartDate              string   `csv:"startDate" json:"startDate" gorm:"column:start_date"`
	EndDate                string   `csv:"endDate" json:"endDate" gorm:"column:end_date"`
	DurationYears          *float64 `csv:"durationYears" json:"durationYears" gorm:"column:duration_years"`
	CreditValue            *float64 `csv:"creditValue" json:"creditValue" gorm:"column:credit_value"`
}

// Project converts the row to a ProjectRecord. Missing numbers become 0 and
// unparseable dates the zero time.
func (r TrainingRow) Project() ProjectRecord {
	start, _ := ParseDate(r.StartDate)
	end, _ := ParseDate(r.EndDate)
	return ProjectRecord{
		ProjectType:            r.ProjectType,
		Area:                   deref(r.Area),
		Location:               r.Location,
		EstimatedCarbonCapture: deref(r.EstimatedCarbonCapture),
		ActualCarbonCapture:    r.ActualCarbonCapture,
		StartDate:              start,
		EndDate:                end,
	}
}

// ParseDate accepts a calendar date, an RFC3339 timestamp or a timestamp without zone
// and returns the UTC calendar date.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	layouts := []string{
		DateLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			y, m, d := parsed.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func Float(v float64) *float64 {
	return &v
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
