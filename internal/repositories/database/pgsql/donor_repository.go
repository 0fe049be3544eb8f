package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	"github.com/reliefbase/relief_ledger_app/internal/models"
	"github.com/reliefbase/relief_ledger_app/internal/utils/mapping"
	"github.com/reliefbase/relief_ledger_app/internal/utils/pagination"
)

// PgxDonorRepository persists donors in Postgres.
type PgxDonorRepository struct {
	BaseRepository
}

func newPgxDonorRepository(db *pgxpool.Pool, timeout time.Duration) *PgxDonorRepository {
	return &PgxDonorRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.DonorRepositoryFacade = (*PgxDonorRepository)(nil)

const donorColumns = `donor_id, user_id, name, donor_type, email, phone, address, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanDonor(row pgx.Row) (models.Donor, error) {
	var m models.Donor
	err := row.Scan(
		&m.DonorID,
		&m.UserID,
		&m.Name,
		&m.DonorType,
		&m.Email,
		&m.Phone,
		&m.Address,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertDonorQuery = `
	INSERT INTO donors (` + donorColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func donorInsertArgs(m models.Donor) []interface{} {
	return []interface{}{
		m.DonorID, m.UserID, m.Name, m.DonorType, m.Email, m.Phone, m.Address, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxDonorRepository) SaveDonor(ctx context.Context, donor domain.Donor) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelDonor(donor)
	if _, err := r.Pool.Exec(ctx, insertDonorQuery, donorInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save donor "+m.DonorID)
	}
	return nil
}

func (r *PgxDonorRepository) SaveDonorInTx(ctx context.Context, tx pgx.Tx, donor domain.Donor) error {
	m := mapping.ToModelDonor(donor)
	if _, err := tx.Exec(ctx, insertDonorQuery, donorInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save donor "+m.DonorID)
	}
	return nil
}

func (r *PgxDonorRepository) FindDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + donorColumns + ` FROM donors WHERE donor_id = $1;`
	m, err := scanDonor(r.Pool.QueryRow(ctx, query, donorID))
	if err != nil {
		return nil, normalizeErr(err, "failed to find donor "+donorID)
	}
	d := mapping.ToDomainDonor(m)
	return &d, nil
}

func (r *PgxDonorRepository) FindDonorByEmail(ctx context.Context, email string) (*domain.Donor, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + donorColumns + ` FROM donors WHERE email = $1;`
	m, err := scanDonor(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		return nil, normalizeErr(err, "failed to find donor by email")
	}
	d := mapping.ToDomainDonor(m)
	return &d, nil
}

func (r *PgxDonorRepository) ListDonors(ctx context.Context, limit int, nextToken *string, status *domain.DonorStatus) ([]domain.Donor, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + donorColumns + ` FROM donors WHERE 1=1`
	args := []interface{}{}

	if status != nil {
		args = append(args, string(*status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
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
		return nil, nil, normalizeErr(err, "failed to list donors")
	}
	defer rows.Close()

	donors := make([]models.Donor, 0, fetchLimit)
	for rows.Next() {
		m, err := scanDonor(rows)
		if err != nil {
			return nil, nil, normalizeErr(err, "failed to scan donor row")
		}
		donors = append(donors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, normalizeErr(err, "error iterating donor rows")
	}

	var nextTokenVal *string
	if len(donors) > limit {
		last := donors[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CreatedAt)
		nextTokenVal = &token
		donors = donors[:limit]
	}
	return mapping.ToDomainDonorSlice(donors), nextTokenVal, nil
}

// TotalForDonor derives the donor's contribution total from monetary
// donations. Strict totals count verified, received and distributed pledges;
// includePending adds pending ones for reporting.
func (r *PgxDonorRepository) TotalForDonor(ctx context.Context, donorID string, includePending bool) (decimal.Decimal, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	statuses := []string{"verified", "received", "distributed"}
	if includePending {
		statuses = append(statuses, "pending")
	}

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM donations
		WHERE donor_id = $1 AND kind = 'monetary' AND status = ANY($2);
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, donorID, statuses).Scan(&total); err != nil {
		return decimal.Zero, normalizeErr(err, "failed to total donations for donor "+donorID)
	}
	return total, nil
}

func (r *PgxDonorRepository) UpdateDonor(ctx context.Context, donor domain.Donor) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelDonor(donor)
	query := `
		UPDATE donors
		SET name = $2, email = $3, phone = $4, address = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE donor_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.DonorID, m.Name, m.Email, m.Phone, m.Address, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to update donor "+m.DonorID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDonorRepository) UpdateDonorStatus(ctx context.Context, donorID string, status domain.DonorStatus, userID string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE donors
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE donor_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, donorID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for donor "+donorID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
