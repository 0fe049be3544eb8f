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

// PgxDonationRepository persists donations in Postgres.
type PgxDonationRepository struct {
	BaseRepository
}

func newPgxDonationRepository(db *pgxpool.Pool, timeout time.Duration) *PgxDonationRepository {
	return &PgxDonationRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.DonationRepositoryWithTx = (*PgxDonationRepository)(nil)

const donationColumns = `donation_id, donor_id, kind, amount, item_name, category, quantity, unit,
	status, donated_at, created_at, created_by, last_updated_at, last_updated_by`

func scanDonation(row pgx.Row) (models.Donation, error) {
	var m models.Donation
	err := row.Scan(
		&m.DonationID,
		&m.DonorID,
		&m.Kind,
		&m.Amount,
		&m.ItemName,
		&m.Category,
		&m.Quantity,
		&m.Unit,
		&m.Status,
		&m.DonatedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelDonation(donation)
	query := `
		INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DonationID, m.DonorID, m.Kind, m.Amount, m.ItemName, m.Category, m.Quantity, m.Unit,
		m.Status, m.DonatedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to save donation "+m.DonationID)
	}
	return nil
}

func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + donationColumns + ` FROM donations WHERE donation_id = $1;`
	m, err := scanDonation(r.Pool.QueryRow(ctx, query, donationID))
	if err != nil {
		return nil, normalizeErr(err, "failed to find donation "+donationID)
	}
	d := mapping.ToDomainDonation(m)
	return &d, nil
}

func (r *PgxDonationRepository) ListDonations(ctx context.Context, limit int, nextToken *string, filter portsrepo.DonationListFilter) ([]domain.Donation, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + donationColumns + ` FROM donations WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.DonorID != nil {
		args = append(args, *filter.DonorID)
		baseQuery += ` AND donor_id = $` + strconv.Itoa(len(args))
	}
	if filter.Kind != nil {
		args = append(args, string(*filter.Kind))
		baseQuery += ` AND kind = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastDonatedAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDonatedAt, lastCreatedAt)
		baseQuery += ` AND (donated_at, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY donated_at DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, normalizeErr(err, "failed to list donations")
	}
	defer rows.Close()

	donations := make([]models.Donation, 0, fetchLimit)
	for rows.Next() {
		m, err := scanDonation(rows)
		if err != nil {
			return nil, nil, normalizeErr(err, "failed to scan donation row")
		}
		donations = append(donations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, normalizeErr(err, "error iterating donation rows")
	}

	var nextTokenVal *string
	if len(donations) > limit {
		last := donations[limit-1]
		token := pagination.EncodeToken(last.DonatedAt, last.CreatedAt)
		nextTokenVal = &token
		donations = donations[:limit]
	}
	return mapping.ToDomainDonationSlice(donations), nextTokenVal, nil
}

func (r *PgxDonationRepository) RecentDonations(ctx context.Context, limit int) ([]domain.Donation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + donationColumns + ` FROM donations ORDER BY donated_at DESC, created_at DESC LIMIT $1;`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, normalizeErr(err, "failed to list recent donations")
	}
	defer rows.Close()

	donations := make([]models.Donation, 0, limit)
	for rows.Next() {
		m, err := scanDonation(rows)
		if err != nil {
			return nil, normalizeErr(err, "failed to scan donation row")
		}
		donations = append(donations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating donation rows")
	}
	return mapping.ToDomainDonationSlice(donations), nil
}

const updateDonationStatusQuery = `
	UPDATE donations
	SET status = $2, last_updated_at = $3, last_updated_by = $4
	WHERE donation_id = $1;
`

func (r *PgxDonationRepository) UpdateDonationStatus(ctx context.Context, donationID string, status domain.DonationStatus, userID string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, updateDonationStatusQuery, donationID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for donation "+donationID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDonationRepository) FindDonationByIDForUpdate(ctx context.Context, tx pgx.Tx, donationID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donation_id = $1 FOR UPDATE;`
	m, err := scanDonation(tx.QueryRow(ctx, query, donationID))
	if err != nil {
		return nil, normalizeErr(err, "failed to lock donation "+donationID)
	}
	d := mapping.ToDomainDonation(m)
	return &d, nil
}

func (r *PgxDonationRepository) UpdateDonationStatusInTx(ctx context.Context, tx pgx.Tx, donationID string, status domain.DonationStatus, userID string, now time.Time) error {
	tag, err := tx.Exec(ctx, updateDonationStatusQuery, donationID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for donation "+donationID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
