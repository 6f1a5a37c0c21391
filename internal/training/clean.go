package training

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/nurpe/carbon-valuation/internal/model"
	"github.com/nurpe/carbon-valuation/internal/valuation"
)

const (
	defaultProjectYears = 20
	defaultCreditArea   = 1000.0
)

// Clean imputes missing capture and dates, normalizes project types and
// recomputes durationYears. The input slice is not modified.
func Clean(rows []model.TrainingRow, now time.Time) []model.TrainingRow {
	out := make([]model.TrainingRow, len(rows))
	copy(out, rows)

	imputeCapture(out)

	today := dateOnly(now)
	for i := range out {
		row := &out[i]

		start, ok := model.ParseDate(row.StartDate)
		if !ok {
			start = today
		}
		end, ok := model.ParseDate(row.EndDate)
		if !ok {
			end = start.AddDate(defaultProjectYears, 0, 0)
		}
		row.StartDate = start.Format(model.DateLayout)
		row.EndDate = end.Format(model.DateLayout)
		row.DurationYears = model.Float(model.DurationYears(start, end))

		row.ProjectType = string(NormalizeProjectType(row.ProjectType))
	}
	return out
}

// imputeCapture fills missing estimated capture with area times the
// capture-per-hectare ratio of fully observed rows of the same raw project
// type, or the mean of all type ratios when the type has no observed rows.
func imputeCapture(rows []model.TrainingRow) {
	type totals struct{ capture, area float64 }
	byType := map[string]*totals{}
	order := []string{}
	missing := false

	for _, row := range rows {
		if missingValue(row.EstimatedCarbonCapture) {
			missing = true
			continue
		}
		if missingValue(row.Area) {
			continue
		}
		t, ok := byType[row.ProjectType]
		if !ok {
			t = &totals{}
			byType[row.ProjectType] = t
			order = append(order, row.ProjectType)
		}
		t.capture += *row.EstimatedCarbonCapture
		t.area += *row.Area
	}
	if !missing || len(byType) == 0 {
		return
	}

	ratios := make(map[string]float64, len(byType))
	sum := 0.0
	for _, projectType := range order {
		t := byType[projectType]
		ratio := t.capture / t.area
		ratios[projectType] = ratio
		sum += ratio
	}
	globalRatio := sum / float64(len(order))

	for i := range rows {
		row := &rows[i]
		if !missingValue(row.EstimatedCarbonCapture) || missingValue(row.Area) {
			continue
		}
		ratio, ok := ratios[row.ProjectType]
		if !ok {
			ratio = globalRatio
		}
		row.EstimatedCarbonCapture = model.Float(*row.Area * ratio)
	}
}

func missingValue(v *float64) bool {
	return v == nil || math.IsNaN(*v)
}

// FillCreditValues computes a noisy rule-based credit value for every row
// when the data carries none. Data with at least one credit value is kept as is.
func FillCreditValues(rows []model.TrainingRow, rng *rand.Rand) []model.TrainingRow {
	out := make([]model.TrainingRow, len(rows))
	copy(out, rows)
	for _, row := range out {
		if row.CreditValue != nil && !math.IsNaN(*row.CreditValue) {
			return out
		}
	}

	for i := range out {
		row := &out[i]
		area := defaultCreditArea
		if row.Area != nil && !math.IsNaN(*row.Area) {
			area = *row.Area
		}
		duration := float64(defaultProjectYears)
		if row.DurationYears != nil && !math.IsNaN(*row.DurationYears) {
			duration = *row.DurationYears
		}
		projectType := row.ProjectType
		if projectType == "" {
			projectType = string(model.ProjectTypeOther)
		}
		value := valuation.CreditValue(projectType, row.Location, area, duration) * (0.9 + 0.2*rng.Float64())
		row.CreditValue = model.Float(valuation.Round2(value))
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
