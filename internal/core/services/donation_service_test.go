package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/core/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// MockDonationRepository is a mock type for the DonationRepositoryWithTx interface
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) ListDonations(ctx context.Context, limit int, nextToken *string, filter portsrepo.DonationListFilter) ([]domain.Donation, *string, error) {
	args := m.Called(ctx, limit, nextToken, filter)
	var donations []domain.Donation
	if args.Get(0) != nil {
		donations = args.Get(0).([]domain.Donation)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return donations, next, args.Error(2)
}

func (m *MockDonationRepository) RecentDonations(ctx context.Context, limit int) ([]domain.Donation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockDonationRepository) UpdateDonationStatus(ctx context.Context, donationID string, status domain.DonationStatus, userID string, now time.Time) error {
	args := m.Called(ctx, donationID, status, userID, now)
	return args.Error(0)
}

func (m *MockDonationRepository) FindDonationByIDForUpdate(ctx context.Context, tx pgx.Tx, donationID string) (*domain.Donation, error) {
	args := m.Called(ctx, tx, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donation), args.Error(1)
}

func (m *MockDonationRepository) UpdateDonationStatusInTx(ctx context.Context, tx pgx.Tx, donationID string, status domain.DonationStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, donationID, status, userID, now)
	return args.Error(0)
}

func (m *MockDonationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockDonationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDonationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockInventoryRepository is a mock type for the InventoryRepositoryWithTx interface
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListItems(ctx context.Context, limit int, nextToken *string, filter portsrepo.InventoryListFilter) ([]domain.InventoryItem, *string, error) {
	args := m.Called(ctx, limit, nextToken, filter)
	var items []domain.InventoryItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.InventoryItem)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return items, next, args.Error(2)
}

func (m *MockInventoryRepository) StoredQuantityByCategory(ctx context.Context) ([]domain.CategoryQuantity, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryQuantity), args.Error(1)
}

func (m *MockInventoryRepository) StoredItemsByCategory(ctx context.Context, category string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateItemStatus(ctx context.Context, itemID string, from, to domain.ItemStatus, userID string, now time.Time) error {
	args := m.Called(ctx, itemID, from, to, userID, now)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockInventoryRepository) FindStoredItemsForUpdate(ctx context.Context, tx pgx.Tx, category string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, tx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindItemsByDistributionForUpdate(ctx context.Context, tx pgx.Tx, distributionID string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, tx, distributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) SaveItemInTx(ctx context.Context, tx pgx.Tx, item domain.InventoryItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) MarkItemsAllocatedInTx(ctx context.Context, tx pgx.Tx, itemIDs []string, distributionID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, itemIDs, distributionID, userID, now)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateItemQuantityInTx(ctx context.Context, tx pgx.Tx, itemID string, quantity int64, userID string, now time.Time) error {
	args := m.Called(ctx, tx, itemID, quantity, userID, now)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateItemStatusInTx(ctx context.Context, tx pgx.Tx, itemID string, status domain.ItemStatus, userID string, now time.Time) error {
	args := m.Called(ctx, tx, itemID, status, userID, now)
	return args.Error(0)
}

func (m *MockInventoryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockInventoryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockInventoryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockDonorRepository is a mock type for the DonorRepositoryFacade interface
type MockDonorRepository struct {
	mock.Mock
}

func (m *MockDonorRepository) FindDonorByID(ctx context.Context, donorID string) (*domain.Donor, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorRepository) FindDonorByEmail(ctx context.Context, email string) (*domain.Donor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Donor), args.Error(1)
}

func (m *MockDonorRepository) ListDonors(ctx context.Context, limit int, nextToken *string, status *domain.DonorStatus) ([]domain.Donor, *string, error) {
	args := m.Called(ctx, limit, nextToken, status)
	var donors []domain.Donor
	if args.Get(0) != nil {
		donors = args.Get(0).([]domain.Donor)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return donors, next, args.Error(2)
}

func (m *MockDonorRepository) TotalForDonor(ctx context.Context, donorID string, includePending bool) (decimal.Decimal, error) {
	args := m.Called(ctx, donorID, includePending)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockDonorRepository) SaveDonor(ctx context.Context, donor domain.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) SaveDonorInTx(ctx context.Context, tx pgx.Tx, donor domain.Donor) error {
	args := m.Called(ctx, tx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockDonorRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDonorRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDonorRepository) UpdateDonor(ctx context.Context, donor domain.Donor) error {
	args := m.Called(ctx, donor)
	return args.Error(0)
}

func (m *MockDonorRepository) UpdateDonorStatus(ctx context.Context, donorID string, status domain.DonorStatus, userID string, now time.Time) error {
	args := m.Called(ctx, donorID, status, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---

type DonationServiceTestSuite struct {
	suite.Suite
	mockDonationRepo  *MockDonationRepository
	mockInventoryRepo *MockInventoryRepository
	mockDonorRepo     *MockDonorRepository
	service           portssvc.DonationSvcFacade
}

func (suite *DonationServiceTestSuite) SetupTest() {
	suite.mockDonationRepo = new(MockDonationRepository)
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.mockDonorRepo = new(MockDonorRepository)
	suite.service = services.NewDonationService(suite.mockDonationRepo, suite.mockInventoryRepo, suite.mockDonorRepo)
}

func (suite *DonationServiceTestSuite) activeDonor(donorID string) *domain.Donor {
	return &domain.Donor{
		DonorID:   donorID,
		Name:      "Test Donor",
		DonorType: domain.DonorIndividual,
		Email:     "donor@example.com",
		Status:    domain.DonorActive,
	}
}

// --- Test Cases ---

func (suite *DonationServiceTestSuite) TestCreateDonation_Monetary_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	donorID := uuid.NewString()
	amount := decimal.NewFromInt(250)
	req := dto.CreateDonationRequest{
		DonorID: donorID,
		Kind:    domain.Monetary,
		Amount:  &amount,
	}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(suite.activeDonor(donorID), nil).Once()
	suite.mockDonationRepo.On("SaveDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	donation, err := suite.service.CreateDonation(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(donation)
	suite.NotEmpty(donation.DonationID)
	suite.Equal(donorID, donation.DonorID)
	suite.Equal(domain.Monetary, donation.Kind)
	suite.True(amount.Equal(donation.Amount))
	suite.Equal(domain.DonationPending, donation.Status)
	suite.Equal(userID, donation.CreatedBy)
	suite.WithinDuration(time.Now(), donation.DonatedAt, time.Second)

	suite.mockDonorRepo.AssertExpectations(suite.T())
	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestCreateDonation_InKind_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	donorID := uuid.NewString()
	req := dto.CreateDonationRequest{
		DonorID:  donorID,
		Kind:     domain.InKind,
		ItemName: "Rice",
		Category: "food",
		Quantity: 100,
		Unit:     "kg",
	}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(suite.activeDonor(donorID), nil).Once()
	suite.mockDonationRepo.On("SaveDonation", ctx, mock.AnythingOfType("domain.Donation")).Return(nil).Once()

	donation, err := suite.service.CreateDonation(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.InKind, donation.Kind)
	suite.Equal("Rice", donation.ItemName)
	suite.Equal("food", donation.Category)
	suite.Equal(int64(100), donation.Quantity)
	suite.Equal("kg", donation.Unit)
	suite.True(donation.Amount.IsZero())

	suite.mockDonationRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestCreateDonation_BlacklistedDonor() {
	ctx := context.Background()
	donorID := uuid.NewString()
	amount := decimal.NewFromInt(50)
	req := dto.CreateDonationRequest{DonorID: donorID, Kind: domain.Monetary, Amount: &amount}

	blacklisted := suite.activeDonor(donorID)
	blacklisted.Status = domain.DonorBlacklisted
	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(blacklisted, nil).Once()

	donation, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDonorBlacklisted)
	suite.Nil(donation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_InactiveDonor() {
	ctx := context.Background()
	donorID := uuid.NewString()
	amount := decimal.NewFromInt(50)
	req := dto.CreateDonationRequest{DonorID: donorID, Kind: domain.Monetary, Amount: &amount}

	inactive := suite.activeDonor(donorID)
	inactive.Status = domain.DonorInactive
	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(inactive, nil).Once()

	donation, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(donation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_DonorNotFound() {
	ctx := context.Background()
	donorID := uuid.NewString()
	amount := decimal.NewFromInt(50)
	req := dto.CreateDonationRequest{DonorID: donorID, Kind: domain.Monetary, Amount: &amount}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(nil, apperrors.ErrNotFound).Once()

	donation, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(donation)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_MonetaryWithoutAmount() {
	ctx := context.Background()
	donorID := uuid.NewString()
	req := dto.CreateDonationRequest{DonorID: donorID, Kind: domain.Monetary}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(suite.activeDonor(donorID), nil).Once()

	_, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "SaveDonation", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_MonetaryNegativeAmount() {
	ctx := context.Background()
	donorID := uuid.NewString()
	amount := decimal.NewFromInt(-10)
	req := dto.CreateDonationRequest{DonorID: donorID, Kind: domain.Monetary, Amount: &amount}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(suite.activeDonor(donorID), nil).Once()

	_, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_InKindMissingItemFields() {
	ctx := context.Background()
	donorID := uuid.NewString()
	req := dto.CreateDonationRequest{
		DonorID:  donorID,
		Kind:     domain.InKind,
		ItemName: "Blankets",
		Quantity: 20,
		// Category and Unit missing
	}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(suite.activeDonor(donorID), nil).Once()

	_, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_InKindZeroQuantity() {
	ctx := context.Background()
	donorID := uuid.NewString()
	req := dto.CreateDonationRequest{
		DonorID:  donorID,
		Kind:     domain.InKind,
		ItemName: "Blankets",
		Category: "bedding",
		Unit:     "piece",
		Quantity: 0,
	}

	suite.mockDonorRepo.On("FindDonorByID", ctx, donorID).Return(suite.activeDonor(donorID), nil).Once()

	_, err := suite.service.CreateDonation(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DonationServiceTestSuite) TestGetDonationByID_NotFound() {
	ctx := context.Background()
	donationID := uuid.NewString()

	suite.mockDonationRepo.On("FindDonationByID", ctx, donationID).Return(nil, apperrors.ErrNotFound).Once()

	donation, err := suite.service.GetDonationByID(ctx, donationID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(donation)
}

func (suite *DonationServiceTestSuite) TestListDonations_NilBecomesEmpty() {
	ctx := context.Background()
	filter := portsrepo.DonationListFilter{}

	suite.mockDonationRepo.On("ListDonations", ctx, 20, (*string)(nil), filter).Return(nil, nil, nil).Once()

	donations, next, err := suite.service.ListDonations(ctx, 20, nil, filter)

	suite.Require().NoError(err)
	suite.NotNil(donations)
	suite.Empty(donations)
	suite.Nil(next)
}

func (suite *DonationServiceTestSuite) TestTransitionDonationStatus_Verify() {
	ctx := context.Background()
	userID := uuid.NewString()
	donationID := uuid.NewString()
	pending := &domain.Donation{
		DonationID: donationID,
		DonorID:    uuid.NewString(),
		Kind:       domain.Monetary,
		Amount:     decimal.NewFromInt(100),
		Status:     domain.DonationPending,
	}

	suite.mockDonationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockDonationRepo.On("FindDonationByIDForUpdate", ctx, mock.Anything, donationID).Return(pending, nil).Once()
	suite.mockDonationRepo.On("UpdateDonationStatusInTx", ctx, mock.Anything, donationID, domain.DonationVerified, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDonationRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockDonationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	donation, err := suite.service.TransitionDonationStatus(ctx, donationID, domain.DonationVerified, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DonationVerified, donation.Status)
	suite.Equal(userID, donation.LastUpdatedBy)

	suite.mockDonationRepo.AssertExpectations(suite.T())
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "SaveItemInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestTransitionDonationStatus_ReceivedInKind_CreatesInventory() {
	ctx := context.Background()
	userID := uuid.NewString()
	donationID := uuid.NewString()
	donorID := uuid.NewString()
	verified := &domain.Donation{
		DonationID: donationID,
		DonorID:    donorID,
		Kind:       domain.InKind,
		ItemName:   "Rice",
		Category:   "food",
		Quantity:   100,
		Unit:       "kg",
		Status:     domain.DonationVerified,
	}

	suite.mockDonationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockDonationRepo.On("FindDonationByIDForUpdate", ctx, mock.Anything, donationID).Return(verified, nil).Once()
	suite.mockDonationRepo.On("UpdateDonationStatusInTx", ctx, mock.Anything, donationID, domain.DonationReceived, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	var createdItem domain.InventoryItem
	suite.mockInventoryRepo.On("SaveItemInTx", ctx, mock.Anything, mock.AnythingOfType("domain.InventoryItem")).
		Run(func(args mock.Arguments) {
			createdItem = args.Get(2).(domain.InventoryItem)
		}).Return(nil).Once()
	suite.mockDonationRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockDonationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	donation, err := suite.service.TransitionDonationStatus(ctx, donationID, domain.DonationReceived, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DonationReceived, donation.Status)

	// The pledge and its stock record are created together.
	suite.NotEmpty(createdItem.ItemID)
	suite.Equal(donorID, createdItem.DonorID)
	suite.Require().NotNil(createdItem.DonationID)
	suite.Equal(donationID, *createdItem.DonationID)
	suite.Equal("Rice", createdItem.Name)
	suite.Equal("food", createdItem.Category)
	suite.Equal(int64(100), createdItem.Quantity)
	suite.Equal(domain.ItemPending, createdItem.Status)

	suite.mockDonationRepo.AssertExpectations(suite.T())
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *DonationServiceTestSuite) TestTransitionDonationStatus_ReceivedMonetary_NoInventory() {
	ctx := context.Background()
	userID := uuid.NewString()
	donationID := uuid.NewString()
	verified := &domain.Donation{
		DonationID: donationID,
		DonorID:    uuid.NewString(),
		Kind:       domain.Monetary,
		Amount:     decimal.NewFromInt(500),
		Status:     domain.DonationVerified,
	}

	suite.mockDonationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockDonationRepo.On("FindDonationByIDForUpdate", ctx, mock.Anything, donationID).Return(verified, nil).Once()
	suite.mockDonationRepo.On("UpdateDonationStatusInTx", ctx, mock.Anything, donationID, domain.DonationReceived, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDonationRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	suite.mockDonationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	_, err := suite.service.TransitionDonationStatus(ctx, donationID, domain.DonationReceived, userID)

	suite.Require().NoError(err)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "SaveItemInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestTransitionDonationStatus_InvalidTransition() {
	ctx := context.Background()
	donationID := uuid.NewString()
	pending := &domain.Donation{
		DonationID: donationID,
		Kind:       domain.Monetary,
		Status:     domain.DonationPending,
	}

	suite.mockDonationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockDonationRepo.On("FindDonationByIDForUpdate", ctx, mock.Anything, donationID).Return(pending, nil).Once()
	suite.mockDonationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	donation, err := suite.service.TransitionDonationStatus(ctx, donationID, domain.DonationDistributed, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(donation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "UpdateDonationStatusInTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestTransitionDonationStatus_TerminalIsLocked() {
	ctx := context.Background()
	donationID := uuid.NewString()
	rejected := &domain.Donation{
		DonationID: donationID,
		Kind:       domain.Monetary,
		Status:     domain.DonationRejected,
	}

	suite.mockDonationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockDonationRepo.On("FindDonationByIDForUpdate", ctx, mock.Anything, donationID).Return(rejected, nil).Once()
	suite.mockDonationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	donation, err := suite.service.TransitionDonationStatus(ctx, donationID, domain.DonationReceived, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEntityLocked)
	suite.NotErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(donation)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "UpdateDonationStatusInTx",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDonationRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *DonationServiceTestSuite) TestTransitionDonationStatus_CommitError() {
	ctx := context.Background()
	userID := uuid.NewString()
	donationID := uuid.NewString()
	pending := &domain.Donation{
		DonationID: donationID,
		Kind:       domain.Monetary,
		Status:     domain.DonationPending,
	}

	suite.mockDonationRepo.On("Begin", ctx).Return(nil, nil).Once()
	suite.mockDonationRepo.On("FindDonationByIDForUpdate", ctx, mock.Anything, donationID).Return(pending, nil).Once()
	suite.mockDonationRepo.On("UpdateDonationStatusInTx", ctx, mock.Anything, donationID, domain.DonationVerified, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDonationRepo.On("Commit", ctx, mock.Anything).Return(assert.AnError).Once()
	suite.mockDonationRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	donation, err := suite.service.TransitionDonationStatus(ctx, donationID, domain.DonationVerified, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.Nil(donation)
}

// --- Run Suite ---

func TestDonationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DonationServiceTestSuite))
}
