package models

import (
	"database/sql"
	"time"
)

// Report is the row shape of the reports table. Summary is a JSONB column.
type Report struct {
	ReportID    string       `db:"report_id"`
	ReportType  string       `db:"report_type"`
	PeriodFrom  time.Time    `db:"period_from"`
	PeriodTo    time.Time    `db:"period_to"`
	Status      string       `db:"status"`
	RequestedBy string       `db:"requested_by"`
	GeneratedAt sql.NullTime `db:"generated_at"`
	Summary     []byte       `db:"summary"`
	AuditFields
}
