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

// PgxOrganizationRepository persists organizations in Postgres.
type PgxOrganizationRepository struct {
	BaseRepository
}

func newPgxOrganizationRepository(db *pgxpool.Pool, timeout time.Duration) *PgxOrganizationRepository {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

const organizationColumns = `org_id, donor_id, name, org_type, contact_person, email, phone, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanOrganization(row pgx.Row) (models.Organization, error) {
	var m models.Organization
	err := row.Scan(
		&m.OrgID,
		&m.DonorID,
		&m.Name,
		&m.OrgType,
		&m.ContactPerson,
		&m.Email,
		&m.Phone,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertOrganizationQuery = `
	INSERT INTO organizations (` + organizationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func organizationInsertArgs(m models.Organization) []interface{} {
	return []interface{}{
		m.OrgID, m.DonorID, m.Name, m.OrgType, m.ContactPerson, m.Email, m.Phone, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, org domain.Organization) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelOrganization(org)
	if _, err := r.Pool.Exec(ctx, insertOrganizationQuery, organizationInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save organization "+m.OrgID)
	}
	return nil
}

func (r *PgxOrganizationRepository) SaveOrganizationInTx(ctx context.Context, tx pgx.Tx, org domain.Organization) error {
	m := mapping.ToModelOrganization(org)
	if _, err := tx.Exec(ctx, insertOrganizationQuery, organizationInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save organization "+m.OrgID)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE org_id = $1;`
	m, err := scanOrganization(r.Pool.QueryRow(ctx, query, orgID))
	if err != nil {
		return nil, normalizeErr(err, "failed to find organization "+orgID)
	}
	d := mapping.ToDomainOrganization(m)
	return &d, nil
}

func (r *PgxOrganizationRepository) FindOrganizationByName(ctx context.Context, name string) (*domain.Organization, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE name = $1;`
	m, err := scanOrganization(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		return nil, normalizeErr(err, "failed to find organization by name")
	}
	d := mapping.ToDomainOrganization(m)
	return &d, nil
}

func (r *PgxOrganizationRepository) ListOrganizations(ctx context.Context, limit int, nextToken *string, status *domain.OrgStatus) ([]domain.Organization, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + organizationColumns + ` FROM organizations WHERE 1=1`
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
		return nil, nil, normalizeErr(err, "failed to list organizations")
	}
	defer rows.Close()

	orgs := make([]models.Organization, 0, fetchLimit)
	for rows.Next() {
		m, err := scanOrganization(rows)
		if err != nil {
			return nil, nil, normalizeErr(err, "failed to scan organization row")
		}
		orgs = append(orgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, normalizeErr(err, "error iterating organization rows")
	}

	var nextTokenVal *string
	if len(orgs) > limit {
		last := orgs[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CreatedAt)
		nextTokenVal = &token
		orgs = orgs[:limit]
	}
	return mapping.ToDomainOrganizationSlice(orgs), nextTokenVal, nil
}

// ContributionSummary aggregates the countable donations of the donor record
// linked to the organization.
func (r *PgxOrganizationRepository) ContributionSummary(ctx context.Context, orgID string) (*domain.ContributionSummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			COALESCE(SUM(d.amount) FILTER (WHERE d.kind = 'monetary'), 0),
			COUNT(*) FILTER (WHERE d.kind = 'in_kind')
		FROM donations d
		JOIN organizations o ON o.donor_id = d.donor_id
		WHERE o.org_id = $1 AND d.status IN ('verified', 'received', 'distributed');
	`
	var summary domain.ContributionSummary
	if err := r.Pool.QueryRow(ctx, query, orgID).Scan(&summary.MonetaryTotal, &summary.InKindCount); err != nil {
		return nil, normalizeErr(err, "failed to summarize contributions for organization "+orgID)
	}
	return &summary, nil
}

func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelOrganization(org)
	query := `
		UPDATE organizations
		SET name = $2, org_type = $3, contact_person = $4, email = $5, phone = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE org_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.OrgID, m.Name, m.OrgType, m.ContactPerson, m.Email, m.Phone,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to update organization "+m.OrgID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxOrganizationRepository) UpdateOrganizationStatus(ctx context.Context, orgID string, status domain.OrgStatus, userID string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE organizations
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE org_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, orgID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for organization "+orgID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
