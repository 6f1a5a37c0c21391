package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/carbon-valuation/internal/config"
	"github.com/nurpe/carbon-valuation/internal/model"
)

const maxHistoryDays = 365

type Valuator interface {
	Value(record model.ProjectRecord) (model.ValuationResult, error)
	RecommendPrice(record model.ProjectRecord, marketReferencePrice float64) (model.PriceRecommendation, error)
	ModelLoaded() bool
}

type MarketProvider interface {
	ReferencePrice() float64
	Metrics() model.MarketMetrics
	PriceHistory(tokenID string, days int, now time.Time) model.PriceHistory
}

type ExcelGenerator interface {
	Generate(report model.ValuationReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.ValuationReport) ([]byte, error)
}

type ValuationService struct {
	valuator    Valuator
	market      MarketProvider
	excel       ExcelGenerator
	pdf         PDFGenerator
	historyDays int
	log         zerolog.Logger
	now         func() time.Time
}

type ExportInput struct {
	Project model.ProjectRecord
	Format  model.ReportFormat
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

func NewValuationService(valuator Valuator, market MarketProvider, excel ExcelGenerator, pdf PDFGenerator, cfg *config.Config, log zerolog.Logger) *ValuationService {
	return &ValuationService{
		valuator:    valuator,
		market:      market,
		excel:       excel,
		pdf:         pdf,
		historyDays: cfg.Market.HistoryDays,
		log:         log,
		now:         time.Now,
	}
}

func (s *ValuationService) ModelLoaded() bool {
	return s.valuator.ModelLoaded()
}

func (s *ValuationService) Predict(ctx context.Context, project model.ProjectRecord) (*model.ValuationResult, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}
	result, err := s.valuator.Value(project)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	s.log.Debug().
		Str("project_type", project.ProjectType).
		Str("method", string(result.Method)).
		Float64("credit_value", result.CreditValue).
		Msg("project valued")
	return &result, nil
}

func (s *ValuationService) RecommendPrice(ctx context.Context, project model.ProjectRecord) (*model.PriceRecommendation, error) {
	if err := validateProject(project); err != nil {
		return nil, err
	}
	recommendation, err := s.valuator.RecommendPrice(project, s.market.ReferencePrice())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	return &recommendation, nil
}

// PriceHistory uses the configured number of days when days is nil.
func (s *ValuationService) PriceHistory(ctx context.Context, tokenID string, days *int) (*model.PriceHistory, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, fmt.Errorf("%w: token id is required", ErrInvalidInput)
	}
	n := s.historyDays
	if days != nil {
		n = *days
	}
	if n < 1 || n > maxHistoryDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, maxHistoryDays)
	}
	history := s.market.PriceHistory(tokenID, n, s.now())
	return &history, nil
}

func (s *ValuationService) MarketMetrics(ctx context.Context) model.MarketMetrics {
	return s.market.Metrics()
}

func (s *ValuationService) Export(ctx context.Context, input ExportInput) (*ExportResult, error) {
	var (
		generate    func(model.ValuationReport) ([]byte, error)
		contentType string
	)
	switch input.Format {
	case model.ReportFormatXLSX:
		generate = s.excel.Generate
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case model.ReportFormatPDF:
		generate = s.pdf.Generate
		contentType = "application/pdf"
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, input.Format)
	}

	result, err := s.Predict(ctx, input.Project)
	if err != nil {
		return nil, err
	}

	report := model.ValuationReport{
		ID:          uuid.New(),
		GeneratedAt: s.now().UTC(),
		Project:     input.Project,
		Result:      *result,
	}
	content, err := generate(report)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		FileName:    buildFileName(report, input.Format),
		ContentType: contentType,
		Content:     content,
	}, nil
}

func validateProject(p model.ProjectRecord) error {
	switch {
	case strings.TrimSpace(p.ProjectType) == "":
		return fmt.Errorf("%w: projectType is required", ErrInvalidInput)
	case strings.TrimSpace(p.Location) == "":
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	case !(p.Area > 0) || math.IsInf(p.Area, 0):
		return fmt.Errorf("%w: area must be a positive number", ErrInvalidInput)
	case !(p.EstimatedCarbonCapture >= 0) || math.IsInf(p.EstimatedCarbonCapture, 0):
		return fmt.Errorf("%w: estimatedCarbonCapture must not be negative", ErrInvalidInput)
	case p.ActualCarbonCapture != nil && (!(*p.ActualCarbonCapture >= 0) || math.IsInf(*p.ActualCarbonCapture, 0)):
		return fmt.Errorf("%w: actualCarbonCapture must not be negative", ErrInvalidInput)
	case p.StartDate.IsZero() || p.EndDate.IsZero():
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	case p.EndDate.Before(p.StartDate):
		return fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidInput)
	}
	return nil
}

func buildFileName(report model.ValuationReport, format model.ReportFormat) string {
	name := sanitizeFileName(report.Project.Name)
	if name == "" {
		name = sanitizeFileName(report.Project.ID)
	}
	if name == "" {
		name = sanitizeFileName(report.Project.ProjectType)
	}
	return fmt.Sprintf("valuation-%s-%s.%s", name, report.GeneratedAt.Format("20060102"), format)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
