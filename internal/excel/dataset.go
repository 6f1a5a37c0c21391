package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const datasetSheet = "carbon_projects"

var datasetColumns = []string{
	"projectType",
	"area",
	"location",
	"estimatedCarbonCapture",
	"actualCarbonCapture",
	"startDate",
	"endDate",
	"durationYears",
	"creditValue",
}

// ReadDataset reads project rows from the first sheet of an xlsx file. The
// first row holds column names; unknown columns are ignored and empty cells
// stay nil.
func ReadDataset(path string) ([]model.TrainingRow, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := make([]model.TrainingRow, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		parsed := model.TrainingRow{
			ProjectType: cell(row, "projectType"),
			Location:    cell(row, "location"),
			StartDate:   cell(row, "startDate"),
			EndDate:     cell(row, "endDate"),
		}
		targets := map[string]**float64{
			"area":                   &parsed.Area,
			"estimatedCarbonCapture": &parsed.EstimatedCarbonCapture,
			"actualCarbonCapture":    &parsed.ActualCarbonCapture,
			"durationYears":          &parsed.DurationYears,
			"creditValue":            &parsed.CreditValue,
		}
		for column, target := range targets {
			value, err := parseOptionalFloat(cell(row, column))
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %s: %w", path, n+2, column, err)
			}
			*target = value
		}
		result = append(result, parsed)
	}
	return result, nil
}

// WriteDataset renders rows as a single-sheet workbook with the dataset columns.
func WriteDataset(rows []model.TrainingRow) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", datasetSheet); err != nil {
		return nil, err
	}
	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(datasetSheet, cell, value)
	}

	for i, name := range datasetColumns {
		set(i+1, 1, name)
	}
	for i, row := range rows {
		r := i + 2
		set(1, r, row.ProjectType)
		set(2, r, optional(row.Area))
		set(3, r, row.Location)
		set(4, r, optional(row.EstimatedCarbonCapture))
		set(5, r, optional(row.ActualCarbonCapture))
		set(6, r, row.StartDate)
		set(7, r, row.EndDate)
		set(8, r, optional(row.DurationYears))
		set(9, r, optional(row.CreditValue))
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
