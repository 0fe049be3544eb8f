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

// PgxDistributionRepository persists distributions in Postgres.
type PgxDistributionRepository struct {
	BaseRepository
}

func newPgxDistributionRepository(db *pgxpool.Pool, timeout time.Duration) *PgxDistributionRepository {
	return &PgxDistributionRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.DistributionRepositoryWithTx = (*PgxDistributionRepository)(nil)

const distributionColumns = `distribution_id, name, org_id, location, scheduled_date, dist_type,
	beneficiaries, amount_per_beneficiary, requested_items, notes, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDistribution(row pgx.Row) (models.Distribution, error) {
	var m models.Distribution
	err := row.Scan(
		&m.DistributionID,
		&m.Name,
		&m.OrgID,
		&m.Location,
		&m.ScheduledDate,
		&m.DistType,
		&m.Beneficiaries,
		&m.AmountPerBeneficiary,
		&m.RequestedItems,
		&m.Notes,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDistributionRepository) SaveDistribution(ctx context.Context, distribution domain.Distribution) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := mapping.ToModelDistribution(distribution)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO distributions (` + distributionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.DistributionID, m.Name, m.OrgID, m.Location, m.ScheduledDate, m.DistType,
		m.Beneficiaries, m.AmountPerBeneficiary, m.RequestedItems, m.Notes, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to save distribution "+m.DistributionID)
	}
	return nil
}

func (r *PgxDistributionRepository) FindDistributionByID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE distribution_id = $1;`
	m, err := scanDistribution(r.Pool.QueryRow(ctx, query, distributionID))
	if err != nil {
		return nil, normalizeErr(err, "failed to find distribution "+distributionID)
	}
	d, err := mapping.ToDomainDistribution(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxDistributionRepository) ListDistributions(ctx context.Context, limit int, nextToken *string, filter portsrepo.DistributionListFilter) ([]domain.Distribution, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + distributionColumns + ` FROM distributions WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.OrgID != nil {
		args = append(args, *filter.OrgID)
		baseQuery += ` AND org_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastScheduled, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastScheduled, lastCreatedAt)
		baseQuery += ` AND (scheduled_date, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY scheduled_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, normalizeErr(err, "failed to list distributions")
	}
	defer rows.Close()

	distributions := make([]models.Distribution, 0, fetchLimit)
	for rows.Next() {
		m, err := scanDistribution(rows)
		if err != nil {
			return nil, nil, normalizeErr(err, "failed to scan distribution row")
		}
		distributions = append(distributions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, normalizeErr(err, "error iterating distribution rows")
	}

	var nextTokenVal *string
	if len(distributions) > limit {
		last := distributions[limit-1]
		token := pagination.EncodeToken(last.ScheduledDate, last.CreatedAt)
		nextTokenVal = &token
		distributions = distributions[:limit]
	}

	result := make([]domain.Distribution, len(distributions))
	for i, m := range distributions {
		d, err := mapping.ToDomainDistribution(m)
		if err != nil {
			return nil, nil, err
		}
		result[i] = d
	}
	return result, nextTokenVal, nil
}

func (r *PgxDistributionRepository) CountByStatus(ctx context.Context, status domain.DistributionStatus) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int64
	query := `SELECT COUNT(*) FROM distributions WHERE status = $1;`
	if err := r.Pool.QueryRow(ctx, query, string(status)).Scan(&count); err != nil {
		return 0, normalizeErr(err, "failed to count distributions")
	}
	return count, nil
}

func (r *PgxDistributionRepository) UpdateDistribution(ctx context.Context, distribution domain.Distribution) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := mapping.ToModelDistribution(distribution)
	if err != nil {
		return err
	}
	query := `
		UPDATE distributions
		SET name = $2, location = $3, scheduled_date = $4, beneficiaries = $5,
			amount_per_beneficiary = $6, requested_items = $7, notes = $8,
			last_updated_at = $9, last_updated_by = $10
		WHERE distribution_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.DistributionID, m.Name, m.Location, m.ScheduledDate, m.Beneficiaries,
		m.AmountPerBeneficiary, m.RequestedItems, m.Notes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to update distribution "+m.DistributionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const updateDistributionStatusQuery = `
	UPDATE distributions
	SET status = $2, last_updated_at = $3, last_updated_by = $4
	WHERE distribution_id = $1;
`

func (r *PgxDistributionRepository) UpdateDistributionStatus(ctx context.Context, distributionID string, status domain.DistributionStatus, userID string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, updateDistributionStatusQuery, distributionID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for distribution "+distributionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDistributionRepository) FindDistributionByIDForUpdate(ctx context.Context, tx pgx.Tx, distributionID string) (*domain.Distribution, error) {
	query := `SELECT ` + distributionColumns + ` FROM distributions WHERE distribution_id = $1 FOR UPDATE;`
	m, err := scanDistribution(tx.QueryRow(ctx, query, distributionID))
	if err != nil {
		return nil, normalizeErr(err, "failed to lock distribution "+distributionID)
	}
	d, err := mapping.ToDomainDistribution(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxDistributionRepository) UpdateDistributionStatusInTx(ctx context.Context, tx pgx.Tx, distributionID string, status domain.DistributionStatus, userID string, now time.Time) error {
	tag, err := tx.Exec(ctx, updateDistributionStatusQuery, distributionID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for distribution "+distributionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
