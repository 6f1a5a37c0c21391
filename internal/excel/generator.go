package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/carbon-valuation/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a valuation report as a workbook with a summary sheet and a factor sheet.
func (g *Generator) Generate(report model.ValuationReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	summarySheet := "Valuation"
	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	factorSheet := "Factors"
	if _, err := file.NewSheet(factorSheet); err != nil {
		return nil, err
	}
	if err := g.writeFactors(file, factorSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.ValuationReport) error {
	project := report.Project
	result := report.Result

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	rows := []struct {
		label string
		value interface{}
	}{
		{"Report ID", report.ID.String()},
		{"Generated at", formatDateTime(report.GeneratedAt)},
		{"Project", displayName(project)},
		{"Project type", project.ProjectType},
		{"Location", project.Location},
		{"Area, ha", project.Area},
		{"Estimated capture, tCO2", project.EstimatedCarbonCapture},
		{"Actual capture, tCO2", formatFloat(project.ActualCarbonCapture)},
		{"Start date", formatDate(project.StartDate)},
		{"End date", formatDate(project.EndDate)},
		{"Duration, years", fmt.Sprintf("%.2f", project.DurationYears())},
		{"Valuation method", string(result.Method)},
		{"Credit value per ton", result.CreditValue},
		{"Confidence", result.Confidence},
		{"Market trend", string(result.MarketTrend)},
		{"Recommended initial price", result.RecommendedInitialPrice},
		{"Price range min", result.PriceRange.Min},
		{"Price range max", result.PriceRange.Max},
	}
	for i, row := range rows {
		set(fmt.Sprintf("A%d", i+1), row.label)
		set(fmt.Sprintf("B%d", i+1), row.value)
	}

	_ = file.SetColWidth(sheet, "A", "A", 30)
	_ = file.SetColWidth(sheet, "B", "B", 40)
	return nil
}

func (g *Generator) writeFactors(file *excelize.File, sheet string, report model.ValuationReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Factor", "Impact"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, factor := range factorRows(report.Result.Factors) {
		row := i + 2
		set(fmt.Sprintf("A%d", row), factor[0])
		set(fmt.Sprintf("B%d", row), factor[1])
	}

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 20)
	return nil
}

func factorRows(f model.Factors) [][2]string {
	return [][2]string{
		{"Location", string(f.Location)},
		{"Project type", string(f.ProjectType)},
		{"Duration", string(f.Duration)},
		{"Scale", string(f.Scale)},
	}
}

func displayName(p model.ProjectRecord) string {
	if p.Name != "" {
		return p.Name
	}
	if p.ID != "" {
		return p.ID
	}
	return "-"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%.3f", *value)
}
