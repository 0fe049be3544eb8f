package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	"github.com/reliefbase/relief_ledger_app/internal/models"
	"github.com/reliefbase/relief_ledger_app/internal/utils/mapping"
	"github.com/reliefbase/relief_ledger_app/internal/utils/pagination"
)

// PgxReportRepository persists report jobs in Postgres.
type PgxReportRepository struct {
	BaseRepository
}

func newPgxReportRepository(db *pgxpool.Pool, timeout time.Duration) *PgxReportRepository {
	return &PgxReportRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

const reportColumns = `report_id, report_type, period_from, period_to, status, requested_by,
	generated_at, summary, created_at, created_by, last_updated_at, last_updated_by`

func scanReport(row pgx.Row) (models.Report, error) {
	var m models.Report
	err := row.Scan(
		&m.ReportID,
		&m.ReportType,
		&m.PeriodFrom,
		&m.PeriodTo,
		&m.Status,
		&m.RequestedBy,
		&m.GeneratedAt,
		&m.Summary,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelReport(report)
	query := `
		INSERT INTO reports (` + reportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReportID, m.ReportType, m.PeriodFrom, m.PeriodTo, m.Status, m.RequestedBy,
		m.GeneratedAt, m.Summary, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to save report "+m.ReportID)
	}
	return nil
}

func (r *PgxReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1;`
	m, err := scanReport(r.Pool.QueryRow(ctx, query, reportID))
	if err != nil {
		return nil, normalizeErr(err, "failed to find report "+reportID)
	}
	d := mapping.ToDomainReport(m)
	return &d, nil
}

func (r *PgxReportRepository) ListReports(ctx context.Context, limit int, nextToken *string, reportType *domain.ReportType) ([]domain.Report, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + reportColumns + ` FROM reports WHERE 1=1`
	args := []interface{}{}

	if reportType != nil {
		args = append(args, string(*reportType))
		baseQuery += ` AND report_type = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		_, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		baseQuery += ` AND created_at < $` + strconv.Itoa(len(args))
	}
	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, normalizeErr(err, "failed to list reports")
	}
	defer rows.Close()

	reports := make([]models.Report, 0, fetchLimit)
	for rows.Next() {
		m, err := scanReport(rows)
		if err != nil {
			return nil, nil, normalizeErr(err, "failed to scan report row")
		}
		reports = append(reports, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, normalizeErr(err, "error iterating report rows")
	}

	var nextTokenVal *string
	if len(reports) > limit {
		last := reports[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CreatedAt)
		nextTokenVal = &token
		reports = reports[:limit]
	}
	return mapping.ToDomainReportSlice(reports), nextTokenVal, nil
}

// CompleteReport only succeeds while the job is still pending, so a cancel
// that lands first wins.
func (r *PgxReportRepository) CompleteReport(ctx context.Context, reportID string, summary []byte, generatedAt time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE reports
		SET status = 'completed', summary = $2, generated_at = $3, last_updated_at = $3
		WHERE report_id = $1 AND status = 'pending';
	`
	tag, err := r.Pool.Exec(ctx, query, reportID, summary, generatedAt)
	if err != nil {
		return normalizeErr(err, "failed to complete report "+reportID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

func (r *PgxReportRepository) UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, userID string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE reports
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE report_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, reportID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for report "+reportID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
