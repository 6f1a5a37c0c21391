package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportFormat string

const (
	ReportFormatXLSX ReportFormat = "xlsx"
	ReportFormatPDF  ReportFormat = "pdf"
)

type ValuationReport struct {
	ID          uuid.UUID
	GeneratedAt time.Time
	Project     ProjectRecord
	Result      ValuationResult
}
