package dto

import (
	"encoding/json"
	"time"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// CreateReportRequest asks for a background report job over a period.
type CreateReportRequest struct {
	ReportType domain.ReportType `json:"reportType" binding:"required,oneof=donations-summary inventory-status distribution-summary donor-activity"`
	PeriodFrom time.Time         `json:"periodFrom" binding:"required"`
	PeriodTo   time.Time         `json:"periodTo" binding:"required"`
}

// ReportResponse defines the data returned for a report job.
// Summary is present only once the job has completed.
type ReportResponse struct {
	ReportID    string              `json:"reportID"`
	ReportType  domain.ReportType   `json:"reportType"`
	PeriodFrom  time.Time           `json:"periodFrom"`
	PeriodTo    time.Time           `json:"periodTo"`
	Status      domain.ReportStatus `json:"status"`
	RequestedBy string              `json:"requestedBy"`
	GeneratedAt *time.Time          `json:"generatedAt,omitempty"`
	Summary     json.RawMessage     `json:"summary,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ToReportResponse converts a domain.Report to a ReportResponse DTO
func ToReportResponse(r *domain.Report) ReportResponse {
	return ReportResponse{
		ReportID:    r.ReportID,
		ReportType:  r.ReportType,
		PeriodFrom:  r.PeriodFrom,
		PeriodTo:    r.PeriodTo,
		Status:      r.Status,
		RequestedBy: r.RequestedBy,
		GeneratedAt: r.GeneratedAt,
		Summary:     json.RawMessage(r.Summary),
		CreatedAt:   r.CreatedAt,
	}
}

// ToListReportResponse converts a slice of domain.Report to DTOs
func ToListReportResponse(reports []domain.Report) []ReportResponse {
	res := make([]ReportResponse, len(reports))
	for i := range reports {
		res[i] = ToReportResponse(&reports[i])
	}
	return res
}

// ListReportsParams defines query parameters for listing reports.
type ListReportsParams struct {
	Limit      int     `form:"limit,default=20"`
	NextToken  *string `form:"nextToken"`
	ReportType *string `form:"reportType"`
}

// ListReportsResponse wraps the list of reports with the pagination cursor.
type ListReportsResponse struct {
	Reports   []ReportResponse `json:"reports"`
	NextToken *string          `json:"nextToken,omitempty"`
}
