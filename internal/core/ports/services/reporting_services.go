package services

import (
	"context"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// ReportingService defines operations for dashboard statistics and
// background report jobs.
type ReportingService interface {
	// DashboardStats assembles the aggregate snapshot behind the admin dashboard.
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)

	// RequestReport records a report job and starts generating it in the
	// background. The returned report is in pending status.
	RequestReport(ctx context.Context, req dto.CreateReportRequest, userID string) (*domain.Report, error)

	// GetReportByID retrieves a report job and its summary once completed.
	GetReportByID(ctx context.Context, reportID string) (*domain.Report, error)

	// ListReports retrieves a paginated list of report jobs.
	ListReports(ctx context.Context, limit int, nextToken *string, reportType *domain.ReportType) ([]domain.Report, *string, error)

	// CancelReport stops a pending report job. Only the issuer may cancel.
	CancelReport(ctx context.Context, reportID string, userID string) (*domain.Report, error)
}
