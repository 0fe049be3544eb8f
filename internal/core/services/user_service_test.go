package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/core/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
	"github.com/reliefbase/relief_ledger_app/internal/utils"
)

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, limit int, nextToken *string) ([]domain.User, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var users []domain.User
	if args.Get(0) != nil {
		users = args.Get(0).([]domain.User)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return users, next, args.Error(2)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SaveUserInTx(ctx context.Context, tx pgx.Tx, user domain.User) error {
	args := m.Called(ctx, tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockUserRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockUserRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, userID string, loginAt time.Time) error {
	args := m.Called(ctx, userID, loginAt)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiryTime *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiryTime)
	return args.Error(0)
}

func (m *MockUserRepository) DeactivateUser(ctx context.Context, userID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, userID, updatedBy, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo  *MockUserRepository
	mockDonorRepo *MockDonorRepository
	mockOrgRepo   *MockOrganizationRepository
	service       portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockDonorRepo = new(MockDonorRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.service = services.NewUserService(suite.mockUserRepo, suite.mockDonorRepo, suite.mockOrgRepo)
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName:  "Jane Smith",
		Email:     "jane.smith@example.com",
		Password:  "s3cret!",
		DonorType: domain.DonorIndividual,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "jane.smith").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockUserRepo.On("SaveUserInTx", ctx, mock.Anything, mock.AnythingOfType("domain.User")).Return(nil).Once()
	var createdDonor domain.Donor
	suite.mockDonorRepo.On("SaveDonorInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Donor")).
		Run(func(args mock.Arguments) {
			createdDonor = args.Get(2).(domain.Donor)
		}).Return(nil).Once()
	suite.mockUserRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("jane.smith", user.Username)
	suite.True(user.IsActive)
	suite.NotEqual(req.Password, user.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, user.PasswordHash))

	// Registration also creates the linked donor record.
	suite.Require().NotNil(createdDonor.UserID)
	suite.Equal(user.UserID, *createdDonor.UserID)
	suite.Equal(req.FullName, createdDonor.Name)
	suite.Equal(domain.DonorActive, createdDonor.Status)

	// Individual registrants get no organization row.
	suite.mockOrgRepo.AssertNotCalled(suite.T(), "SaveOrganizationInTx",
		mock.Anything, mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockDonorRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_OrganizationGetsOrgRecord() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName:  "Relief Partners Inc",
		Email:     "contact@reliefpartners.org",
		Password:  "s3cret!",
		DonorType: domain.DonorOrganization,
		Phone:     "555-0101",
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "contact").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockUserRepo.On("SaveUserInTx", ctx, mock.Anything, mock.AnythingOfType("domain.User")).Return(nil).Once()
	var createdDonor domain.Donor
	suite.mockDonorRepo.On("SaveDonorInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Donor")).
		Run(func(args mock.Arguments) {
			createdDonor = args.Get(2).(domain.Donor)
		}).Return(nil).Once()
	var createdOrg domain.Organization
	suite.mockOrgRepo.On("SaveOrganizationInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Organization")).
		Run(func(args mock.Arguments) {
			createdOrg = args.Get(2).(domain.Organization)
		}).Return(nil).Once()
	suite.mockUserRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)

	// The organization row links back to the donor created in the same
	// transaction and starts pending until an admin activates it.
	suite.Require().NotNil(createdOrg.DonorID)
	suite.Equal(createdDonor.DonorID, *createdOrg.DonorID)
	suite.Equal(req.FullName, createdOrg.Name)
	suite.Equal(domain.OrgPending, createdOrg.Status)

	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockDonorRepo.AssertExpectations(suite.T())
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DonorSaveFailureRollsBack() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName:  "Jane Smith",
		Email:     "jane@example.com",
		Password:  "s3cret!",
		DonorType: domain.DonorIndividual,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "jane").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockUserRepo.On("SaveUserInTx", ctx, mock.Anything, mock.AnythingOfType("domain.User")).Return(nil).Once()
	suite.mockDonorRepo.On("SaveDonorInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Donor")).
		Return(assert.AnError).Once()
	suite.mockUserRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	// No partial state: the user insert rides the same transaction and is
	// rolled back with the failed donor insert.
	suite.mockUserRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_UsernameCollisionGetsSuffix() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName:  "Jane Smith",
		Email:     "jane@example.com",
		Password:  "s3cret!",
		DonorType: domain.DonorIndividual,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "jane").Return(&domain.User{Username: "jane"}, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "jane1").Return(&domain.User{Username: "jane1"}, nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "jane2").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockUserRepo.On("SaveUserInTx", ctx, mock.Anything, mock.AnythingOfType("domain.User")).Return(nil).Once()
	suite.mockDonorRepo.On("SaveDonorInTx", ctx, mock.Anything, mock.AnythingOfType("domain.Donor")).Return(nil).Once()
	suite.mockUserRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("jane2", user.Username)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		FullName:  "Jane Smith",
		Email:     "jane@example.com",
		Password:  "s3cret!",
		DonorType: domain.DonorIndividual,
	}

	suite.mockUserRepo.On("FindUserByEmail", ctx, req.Email).Return(&domain.User{
		UserID: uuid.NewString(),
		Email:  req.Email,
	}, nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUserInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "s3cret!"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	stored := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "jane",
		Email:        "jane@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "jane").Return(stored, nil).Once()
	suite.mockUserRepo.On("UpdateLastLogin", ctx, stored.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "jane", password)

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.Require().NotNil(user.LastLoginAt)
	suite.WithinDuration(time.Now(), *user.LastLoginAt, time.Second)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct")
	suite.Require().NoError(err)
	stored := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "jane",
		PasswordHash: hash,
		IsActive:     true,
	}

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "jane").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "jane", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateLastLogin", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownIdentifier() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "ghost", "whatever")

	suite.Require().Error(err)
	// The caller cannot distinguish an unknown identifier from a wrong password.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_DeactivatedAccount() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret!")
	suite.Require().NoError(err)
	stored := &domain.User{
		UserID:       uuid.NewString(),
		Username:     "jane",
		PasswordHash: hash,
		IsActive:     false,
	}

	suite.mockUserRepo.On("FindUserByIdentifier", ctx, "jane").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "jane", "s3cret!")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestUpdateUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	newName := "Jane S. Smith"

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(&domain.User{
		UserID:   userID,
		FullName: "Jane Smith",
		IsActive: true,
	}, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.AnythingOfType("domain.User")).Return(nil).Once()

	user, err := suite.service.UpdateUser(ctx, userID, dto.UpdateUserRequest{FullName: &newName}, userID)

	suite.Require().NoError(err)
	suite.Equal(newName, user.FullName)
	suite.Equal(userID, user.LastUpdatedBy)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestDeactivateUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("DeactivateUser", ctx, userID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateUser(ctx, userID, userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
