package repositories

import (
	"context"
	"time"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// ReportReader defines read operations for report data
type ReportReader interface {
	// FindReportByID retrieves a specific report by its unique identifier.
	FindReportByID(ctx context.Context, reportID string) (*domain.Report, error)

	// ListReports retrieves a paginated list of reports, optionally filtered by type.
	ListReports(ctx context.Context, limit int, nextToken *string, reportType *domain.ReportType) ([]domain.Report, *string, error)
}

// ReportWriter defines write operations for report data
type ReportWriter interface {
	// SaveReport persists a new report record.
	SaveReport(ctx context.Context, report domain.Report) error

	// CompleteReport stores the generated summary and marks the report completed.
	CompleteReport(ctx context.Context, reportID string, summary []byte, generatedAt time.Time) error

	// UpdateReportStatus updates only the report's lifecycle status.
	UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, userID string, now time.Time) error
}

// ReportRepositoryFacade combines all report-related repository interfaces
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
}
