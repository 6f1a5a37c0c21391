package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/carbon-valuation/internal/model"
)

const fontName = "Helvetica"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a one-page valuation certificate using the core Helvetica font.
func (g *Generator) Generate(report model.ValuationReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	project := report.Project
	result := report.Result

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, "Carbon Credit Valuation Report", "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report %s, generated %s", report.ID, formatDateTime(report.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, "Project")
	widths := []float64{60, 120}
	projectRows := [][]string{
		{"Name", tr(safeValue(displayName(project)))},
		{"Type", tr(safeValue(project.ProjectType))},
		{"Location", tr(safeValue(project.Location))},
		{"Area, ha", formatAmount(project.Area, 2)},
		{"Estimated capture, tCO2", formatAmount(project.EstimatedCarbonCapture, 2)},
		{"Actual capture, tCO2", formatOptional(project.ActualCarbonCapture)},
		{"Period", fmt.Sprintf("%s - %s", formatDate(project.StartDate), formatDate(project.EndDate))},
		{"Duration, years", formatAmount(project.DurationYears(), 2)},
	}
	for _, row := range projectRows {
		drawTableRow(pdf, row, widths, false)
	}
	pdf.Ln(4)

	section(pdf, "Valuation")
	drawTableRow(pdf, []string{"Metric", "Value"}, widths, true)
	valuationRows := [][]string{
		{"Credit value per ton", formatAmount(result.CreditValue, 2)},
		{"Confidence", formatAmount(result.Confidence, 2)},
		{"Market trend", string(result.MarketTrend)},
		{"Recommended initial price", formatAmount(result.RecommendedInitialPrice, 2)},
		{"Price range", fmt.Sprintf("%s - %s", formatAmount(result.PriceRange.Min, 2), formatAmount(result.PriceRange.Max, 2))},
		{"Method", string(result.Method)},
	}
	for _, row := range valuationRows {
		drawTableRow(pdf, row, widths, false)
	}
	pdf.Ln(4)

	section(pdf, "Factors")
	drawTableRow(pdf, []string{"Factor", "Impact"}, widths, true)
	factors := result.Factors
	for _, row := range [][]string{
		{"Location", string(factors.Location)},
		{"Project type", string(factors.ProjectType)},
		{"Duration", string(factors.Duration)},
		{"Scale", string(factors.Scale)},
	} {
		drawTableRow(pdf, row, widths, false)
	}

	if result.Method == model.ValuationMethodRules {
		pdf.Ln(4)
		pdf.SetFont(fontName, "I", 9)
		pdf.MultiCell(0, 5, "Valued with the rule-based fallback; no trained model was available.", "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 && !header {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func displayName(p model.ProjectRecord) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatAmount(value float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, value)
}

func formatOptional(value *float64) string {
	if value == nil {
		return "-"
	}
	return formatAmount(*value, 2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}
