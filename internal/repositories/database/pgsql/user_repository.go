package pgsql

import (
	"context"
	"database/sql"
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

// PgxUserRepository persists users in Postgres.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool, timeout time.Duration) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, full_name, username, email, password_hash, donor_type, is_active,
	last_login_at, refresh_token_hash, refresh_token_expiry_time,
	created_at, created_by, last_updated_at, last_updated_by`

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.FullName,
		&m.Username,
		&m.Email,
		&m.PasswordHash,
		&m.DonorType,
		&m.IsActive,
		&m.LastLoginAt,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

const insertUserQuery = `
	INSERT INTO users (` + userColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

func userInsertArgs(m models.User) []interface{} {
	return []interface{}{
		m.UserID, m.FullName, m.Username, m.Email, m.PasswordHash, m.DonorType, m.IsActive,
		m.LastLoginAt, m.RefreshTokenHash, m.RefreshTokenExpiryTime,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelUser(user)
	if _, err := r.Pool.Exec(ctx, insertUserQuery, userInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save user "+m.UserID)
	}
	return nil
}

func (r *PgxUserRepository) SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error {
	m := mapping.ToModelUser(user)
	if _, err := tx.Exec(ctx, insertUserQuery, userInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save user "+m.UserID)
	}
	return nil
}

func (r *PgxUserRepository) findUserWhere(ctx context.Context, clause string, arg interface{}) (*domain.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + clause + `;`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, normalizeErr(err, "failed to find user")
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUserWhere(ctx, `user_id = $1`, userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUserWhere(ctx, `email = $1`, email)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUserWhere(ctx, `username = $1`, username)
}

func (r *PgxUserRepository) FindUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findUserWhere(ctx, `(email = $1 OR username = $1)`, identifier)
}

func (r *PgxUserRepository) ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}

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
		return nil, nil, normalizeErr(err, "failed to list users")
	}
	defer rows.Close()

	users := make([]models.User, 0, fetchLimit)
	for rows.Next() {
		m, err := scanUser(rows)
		if err != nil {
			return nil, nil, normalizeErr(err, "failed to scan user row")
		}
		users = append(users, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, normalizeErr(err, "error iterating user rows")
	}

	var nextTokenVal *string
	if len(users) > limit {
		last := users[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.CreatedAt)
		nextTokenVal = &token
		users = users[:limit]
	}

	result := make([]domain.User, len(users))
	for i, m := range users {
		result[i] = mapping.ToDomainUser(m)
	}
	return result, nextTokenVal, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelUser(user)
	query := `
		UPDATE users
		SET full_name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.UserID, m.FullName, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return normalizeErr(err, "failed to update user "+m.UserID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateLastLogin(ctx context.Context, userID string, loginAt time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET last_login_at = $2 WHERE user_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, userID, loginAt)
	if err != nil {
		return normalizeErr(err, "failed to record last login for user "+userID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiryTime *time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var hash sql.NullString
	if tokenHash != nil {
		hash = sql.NullString{String: *tokenHash, Valid: true}
	}
	var expiry sql.NullTime
	if expiryTime != nil {
		expiry = sql.NullTime{Time: *expiryTime, Valid: true}
	}

	query := `UPDATE users SET refresh_token_hash = $2, refresh_token_expiry_time = $3 WHERE user_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, userID, hash, expiry)
	if err != nil {
		return normalizeErr(err, "failed to update refresh token for user "+userID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		UPDATE users
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE user_id = $1 AND is_active = TRUE;
	`
	tag, err := r.Pool.Exec(ctx, query, userID, now, updatedBy)
	if err != nil {
		return normalizeErr(err, "failed to deactivate user "+userID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
