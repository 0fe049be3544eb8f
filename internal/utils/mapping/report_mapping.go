package mapping

import (
	"database/sql"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/models"
)

// ToModelReport converts a domain Report to a model Report
func ToModelReport(d domain.Report) models.Report {
	m := models.Report{
		ReportID:    d.ReportID,
		ReportType:  string(d.ReportType),
		PeriodFrom:  d.PeriodFrom,
		PeriodTo:    d.PeriodTo,
		Status:      string(d.Status),
		RequestedBy: d.RequestedBy,
		Summary:     d.Summary,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
	if d.GeneratedAt != nil {
		m.GeneratedAt = sql.NullTime{Time: *d.GeneratedAt, Valid: true}
	}
	return m
}

// ToDomainReport converts a model Report to a domain Report
func ToDomainReport(m models.Report) domain.Report {
	d := domain.Report{
		ReportID:    m.ReportID,
		ReportType:  domain.ReportType(m.ReportType),
		PeriodFrom:  m.PeriodFrom,
		PeriodTo:    m.PeriodTo,
		Status:      domain.ReportStatus(m.Status),
		RequestedBy: m.RequestedBy,
		Summary:     m.Summary,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.GeneratedAt.Valid {
		t := m.GeneratedAt.Time
		d.GeneratedAt = &t
	}
	return d
}

// ToDomainReportSlice converts model Reports to domain Reports
func ToDomainReportSlice(ms []models.Report) []domain.Report {
	ds := make([]domain.Report, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReport(m)
	}
	return ds
}
