package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
	"github.com/reliefbase/relief_ledger_app/internal/utils"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo  portsrepo.UserRepositoryWithTx
	donorRepo portsrepo.DonorRepositoryWithTx
	orgRepo   portsrepo.OrganizationRepositoryWithTx
}

// NewUserService creates a new user service
func NewUserService(
	userRepo portsrepo.UserRepositoryWithTx,
	donorRepo portsrepo.DonorRepositoryWithTx,
	orgRepo portsrepo.OrganizationRepositoryWithTx,
) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, donorRepo: donorRepo, orgRepo: orgRepo}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates the login account, its linked donor record and, for
// organizational registrants, the organization row, all in one transaction.
// The username is the email local part, with a numeric suffix on collision.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	existing, err := s.userRepo.FindUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check email uniqueness", slog.String("email", req.Email))
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("email %s is already registered: %w", req.Email, apperrors.ErrDuplicate)
	}

	username, err := s.deriveUsername(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		FullName:     req.FullName,
		Username:     username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		DonorType:    req.DonorType,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "self-registration",
			LastUpdatedAt: now,
			LastUpdatedBy: "self-registration",
		},
	}

	tx, err := s.userRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin registration transaction")
		return nil, err
	}
	defer func() { _ = s.userRepo.Rollback(ctx, tx) }()

	if err := s.userRepo.SaveUserInTx(ctx, tx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("user_id", user.UserID))
		return nil, err
	}

	donor := domain.Donor{
		DonorID:   uuid.NewString(),
		UserID:    &user.UserID,
		Name:      req.FullName,
		DonorType: req.DonorType,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Status:    domain.DonorActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     user.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: user.UserID,
		},
	}
	if err := s.donorRepo.SaveDonorInTx(ctx, tx, donor); err != nil {
		s.LogError(ctx, err, "Failed to create donor for registered user",
			slog.String("user_id", user.UserID))
		return nil, err
	}

	if req.DonorType == domain.DonorOrganization {
		org := domain.Organization{
			OrgID:         uuid.NewString(),
			DonorID:       &donor.DonorID,
			Name:          req.FullName,
			OrgType:       "community",
			ContactPerson: req.FullName,
			Email:         req.Email,
			Phone:         req.Phone,
			Status:        domain.OrgPending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     user.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: user.UserID,
			},
		}
		if err := s.orgRepo.SaveOrganizationInTx(ctx, tx, org); err != nil {
			s.LogError(ctx, err, "Failed to create organization for registered user",
				slog.String("user_id", user.UserID))
			return nil, err
		}
	}

	if err := s.userRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit registration", slog.String("user_id", user.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "User registered",
		slog.String("user_id", user.UserID), slog.String("username", username))
	return &user, nil
}

// deriveUsername takes the email local part and appends the smallest free
// numeric suffix if the name is taken.
func (s *userService) deriveUsername(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	candidate := base
	for suffix := 1; ; suffix++ {
		existing, err := s.userRepo.FindUserByUsername(ctx, candidate)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return candidate, nil
			}
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, suffix)
	}
}

// AuthenticateUser verifies credentials and records the login time.
// The same error comes back for an unknown identifier and a wrong password.
func (s *userService) AuthenticateUser(ctx context.Context, identifier string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", apperrors.ErrForbidden)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}

	loginAt := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, loginAt); err != nil {
		// A failed login-time write should not block the login itself.
		s.LogError(ctx, err, "Failed to record last login", slog.String("user_id", user.UserID))
	} else {
		user.LastLoginAt = &loginAt
	}

	s.LogInfo(ctx, "User authenticated", slog.String("user_id", user.UserID))
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error) {
	users, next, err := s.userRepo.ListUsers(ctx, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, next, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updatedBy string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updatedBy

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "User updated", slog.String("user_id", userID))
	return user, nil
}

func (s *userService) DeactivateUser(ctx context.Context, userID string, updatedBy string) error {
	if err := s.userRepo.DeactivateUser(ctx, userID, updatedBy, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to deactivate user", slog.String("user_id", userID))
		}
		return err
	}
	s.LogInfo(ctx, "User deactivated", slog.String("user_id", userID))
	return nil
}
