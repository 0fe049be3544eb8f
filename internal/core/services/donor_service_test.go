package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/core/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

type DonorServiceTestSuite struct {
	suite.Suite
	mockRepo *MockDonorRepository
	service  portssvc.DonorSvcFacade
}

func (suite *DonorServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockDonorRepository)
	suite.service = services.NewDonorService(suite.mockRepo)
}

// --- Test Cases ---

func (suite *DonorServiceTestSuite) TestCreateDonor_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateDonorRequest{
		Name:      "Jane Smith",
		DonorType: domain.DonorIndividual,
		Email:     "jane@example.com",
		Phone:     "555-0102",
	}

	suite.mockRepo.On("FindDonorByEmail", ctx, req.Email).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveDonor", ctx, mock.AnythingOfType("domain.Donor")).Return(nil).Once()

	donor, err := suite.service.CreateDonor(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(donor)
	suite.NotEmpty(donor.DonorID)
	suite.Equal(req.Name, donor.Name)
	suite.Equal(domain.DonorActive, donor.Status)
	suite.Equal(userID, donor.CreatedBy)
	suite.WithinDuration(time.Now(), donor.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DonorServiceTestSuite) TestCreateDonor_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateDonorRequest{
		Name:      "Jane Smith",
		DonorType: domain.DonorIndividual,
		Email:     "jane@example.com",
	}

	suite.mockRepo.On("FindDonorByEmail", ctx, req.Email).Return(&domain.Donor{
		DonorID: uuid.NewString(),
		Email:   req.Email,
		Status:  domain.DonorActive,
	}, nil).Once()

	donor, err := suite.service.CreateDonor(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(donor)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDonor", mock.Anything, mock.Anything)
}

func (suite *DonorServiceTestSuite) TestGetDonorTotal_Strict() {
	ctx := context.Background()
	donorID := uuid.NewString()
	expected := decimal.NewFromInt(1250)

	suite.mockRepo.On("FindDonorByID", ctx, donorID).Return(&domain.Donor{
		DonorID: donorID,
		Status:  domain.DonorActive,
	}, nil).Once()
	suite.mockRepo.On("TotalForDonor", ctx, donorID, false).Return(expected, nil).Once()

	total, err := suite.service.GetDonorTotal(ctx, donorID, false)

	suite.Require().NoError(err)
	suite.True(expected.Equal(total))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DonorServiceTestSuite) TestGetDonorTotal_UnknownDonor() {
	ctx := context.Background()
	donorID := uuid.NewString()

	suite.mockRepo.On("FindDonorByID", ctx, donorID).Return(nil, apperrors.ErrNotFound).Once()

	total, err := suite.service.GetDonorTotal(ctx, donorID, true)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.True(total.IsZero())
	suite.mockRepo.AssertNotCalled(suite.T(), "TotalForDonor", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonorServiceTestSuite) TestUpdateDonor_EmailTakenByAnother() {
	ctx := context.Background()
	donorID := uuid.NewString()
	newEmail := "taken@example.com"

	suite.mockRepo.On("FindDonorByID", ctx, donorID).Return(&domain.Donor{
		DonorID: donorID,
		Email:   "old@example.com",
		Status:  domain.DonorActive,
	}, nil).Once()
	suite.mockRepo.On("FindDonorByEmail", ctx, newEmail).Return(&domain.Donor{
		DonorID: uuid.NewString(),
		Email:   newEmail,
	}, nil).Once()

	donor, err := suite.service.UpdateDonor(ctx, donorID, dto.UpdateDonorRequest{Email: &newEmail}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(donor)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateDonor", mock.Anything, mock.Anything)
}

func (suite *DonorServiceTestSuite) TestTransitionDonorStatus_Blacklist() {
	ctx := context.Background()
	userID := uuid.NewString()
	donorID := uuid.NewString()

	suite.mockRepo.On("FindDonorByID", ctx, donorID).Return(&domain.Donor{
		DonorID: donorID,
		Status:  domain.DonorActive,
	}, nil).Once()
	suite.mockRepo.On("UpdateDonorStatus", ctx, donorID, domain.DonorBlacklisted, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	donor, err := suite.service.TransitionDonorStatus(ctx, donorID, domain.DonorBlacklisted, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.DonorBlacklisted, donor.Status)
	suite.Equal(userID, donor.LastUpdatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *DonorServiceTestSuite) TestTransitionDonorStatus_BlacklistedIsTerminal() {
	ctx := context.Background()
	donorID := uuid.NewString()

	suite.mockRepo.On("FindDonorByID", ctx, donorID).Return(&domain.Donor{
		DonorID: donorID,
		Status:  domain.DonorBlacklisted,
	}, nil).Once()

	donor, err := suite.service.TransitionDonorStatus(ctx, donorID, domain.DonorActive, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEntityLocked)
	suite.NotErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(donor)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateDonorStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DonorServiceTestSuite) TestListDonors_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockRepo.On("ListDonors", ctx, 20, (*string)(nil), (*domain.DonorStatus)(nil)).Return(nil, nil, nil).Once()

	donors, next, err := suite.service.ListDonors(ctx, 20, nil, nil)

	suite.Require().NoError(err)
	suite.NotNil(donors)
	suite.Empty(donors)
	suite.Nil(next)
}

// --- Run Suite ---

func TestDonorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DonorServiceTestSuite))
}
