package domain

import "time"

// ReportType selects which aggregate snapshot a report captures.
type ReportType string

const (
	ReportDonationsSummary    ReportType = "donations-summary"
	ReportInventoryStatus     ReportType = "inventory-status"
	ReportDistributionSummary ReportType = "distribution-summary"
	ReportDonorActivity       ReportType = "donor-activity"
)

// ReportStatus is the state of a background report job.
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportCompleted ReportStatus = "completed"
	ReportCancelled ReportStatus = "cancelled"
	ReportFailed    ReportStatus = "failed"
)

// Report is a persisted aggregate snapshot produced by a background job.
// Summary holds the computed figures as JSON; no document is rendered.
type Report struct {
	ReportID    string       `json:"reportID"`
	ReportType  ReportType   `json:"reportType"`
	PeriodFrom  time.Time    `json:"periodFrom"`
	PeriodTo    time.Time    `json:"periodTo"`
	Status      ReportStatus `json:"status"`
	RequestedBy string       `json:"requestedBy"`
	GeneratedAt *time.Time   `json:"generatedAt,omitempty"`
	Summary     []byte       `json:"summary,omitempty"`
	AuditFields
}
