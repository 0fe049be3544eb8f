package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by their email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByIdentifier retrieves a user by email or username.
	FindUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	// ListUsers retrieves a paginated list of users.
	ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error

	// UpdateUser persists changes to a user's profile fields.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateLastLogin records the time of the user's latest successful login.
	UpdateLastLogin(ctx context.Context, userID string, loginAt time.Time) error

	// UpdateRefreshToken stores the hash and expiry of the user's current
	// refresh token. A nil hash clears the stored token.
	UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiryTime *time.Time) error

	// DeactivateUser marks a user as inactive.
	DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}

// UserTransactionSupport defines user operations that run inside a
// caller-owned database transaction. Registration uses it to create the
// user and its linked donor (and organization) records atomically.
type UserTransactionSupport interface {
	// SaveUserInTx persists a new user within the transaction.
	SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error
}

// UserRepositoryWithTx combines the facade with transaction support
type UserRepositoryWithTx interface {
	UserRepositoryFacade
	UserTransactionSupport
	TransactionManager
}
