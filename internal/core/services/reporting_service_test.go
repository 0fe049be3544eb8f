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
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/core/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// MockReportRepository is a mock type for the ReportRepositoryFacade interface
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *MockReportRepository) ListReports(ctx context.Context, limit int, nextToken *string, reportType *domain.ReportType) ([]domain.Report, *string, error) {
	args := m.Called(ctx, limit, nextToken, reportType)
	var reports []domain.Report
	if args.Get(0) != nil {
		reports = args.Get(0).([]domain.Report)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return reports, next, args.Error(2)
}

func (m *MockReportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) CompleteReport(ctx context.Context, reportID string, summary []byte, generatedAt time.Time) error {
	args := m.Called(ctx, reportID, summary, generatedAt)
	return args.Error(0)
}

func (m *MockReportRepository) UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, userID string, now time.Time) error {
	args := m.Called(ctx, reportID, status, userID, now)
	return args.Error(0)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) DonorCounts(ctx context.Context) (*portsrepo.DonorCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.DonorCounts), args.Error(1)
}

func (m *MockReportingRepository) DonationCounts(ctx context.Context, period portsrepo.Period) (*portsrepo.DonationCounts, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.DonationCounts), args.Error(1)
}

func (m *MockReportingRepository) MonetaryTotal(ctx context.Context, period portsrepo.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReportingRepository) InventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventorySummary), args.Error(1)
}

func (m *MockReportingRepository) DistributionStats(ctx context.Context, period portsrepo.Period) (*portsrepo.DistributionStats, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portsrepo.DistributionStats), args.Error(1)
}

func (m *MockReportingRepository) TopDonors(ctx context.Context, period portsrepo.Period, limit int) ([]portsrepo.TopDonor, error) {
	args := m.Called(ctx, period, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.TopDonor), args.Error(1)
}

func (m *MockReportingRepository) DonorActivity(ctx context.Context, period portsrepo.Period, donorID *string) ([]domain.DonorActivityRow, error) {
	args := m.Called(ctx, period, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DonorActivityRow), args.Error(1)
}

// --- Test Suite Setup ---

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportRepo    *MockReportRepository
	mockReportingRepo *MockReportingRepository
	mockDonationRepo  *MockDonationRepository
	service           portssvc.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportRepo = new(MockReportRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.mockDonationRepo = new(MockDonationRepository)
	suite.service = services.NewReportingService(suite.mockReportRepo, suite.mockReportingRepo, suite.mockDonationRepo)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestDashboardStats() {
	ctx := context.Background()
	recent := []domain.Donation{{DonationID: uuid.NewString(), Kind: domain.Monetary}}

	suite.mockReportingRepo.On("DonorCounts", ctx).Return(&portsrepo.DonorCounts{Total: 40, Active: 35}, nil).Once()
	suite.mockReportingRepo.On("DonationCounts", ctx, portsrepo.Period{}).Return(&portsrepo.DonationCounts{Total: 90, Pending: 10, Verified: 80}, nil).Once()
	suite.mockReportingRepo.On("MonetaryTotal", ctx, portsrepo.Period{}).Return(decimal.NewFromInt(12000), nil).Once()
	suite.mockReportingRepo.On("InventorySummary", ctx).Return(&domain.InventorySummary{TotalStored: 500}, nil).Once()
	suite.mockReportingRepo.On("DistributionStats", ctx, portsrepo.Period{}).Return(&portsrepo.DistributionStats{Total: 12, Completed: 9, BeneficiariesServed: 1500}, nil).Once()
	suite.mockDonationRepo.On("RecentDonations", ctx, 5).Return(recent, nil).Once()

	stats, err := suite.service.DashboardStats(ctx)

	suite.Require().NoError(err)
	suite.Equal(int64(40), stats.TotalDonors)
	suite.Equal(int64(35), stats.ActiveDonors)
	suite.Equal(int64(90), stats.TotalDonations)
	suite.True(decimal.NewFromInt(12000).Equal(stats.MonetaryTotal))
	suite.Equal(int64(500), stats.Inventory.TotalStored)
	suite.Equal(int64(3), stats.OngoingDistributions)
	suite.Equal(int64(1500), stats.BeneficiariesServed)
	suite.Equal(recent, stats.RecentDonations)
	suite.mockReportingRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestRequestReport_InvalidPeriod() {
	ctx := context.Background()
	now := time.Now()
	req := dto.CreateReportRequest{
		ReportType: domain.ReportInventoryStatus,
		PeriodFrom: now,
		PeriodTo:   now.Add(-24 * time.Hour),
	}

	report, err := suite.service.RequestReport(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(report)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "SaveReport", mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestRequestReport_CompletesInBackground() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateReportRequest{
		ReportType: domain.ReportInventoryStatus,
		PeriodFrom: time.Now().Add(-30 * 24 * time.Hour),
		PeriodTo:   time.Now(),
	}

	suite.mockReportRepo.On("SaveReport", ctx, mock.AnythingOfType("domain.Report")).Return(nil).Once()
	// The job runs detached from the request context.
	suite.mockReportingRepo.On("InventorySummary", mock.Anything).Return(&domain.InventorySummary{TotalStored: 10}, nil).Once()
	completed := make(chan struct{})
	suite.mockReportRepo.On("CompleteReport", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8"), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) { close(completed) }).Return(nil).Once()

	report, err := suite.service.RequestReport(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Equal(domain.ReportPending, report.Status)
	suite.Equal(userID, report.RequestedBy)

	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		suite.FailNow("report job did not complete")
	}
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCancelReport_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockReportRepo.On("FindReportByID", ctx, reportID).Return(&domain.Report{
		ReportID:    reportID,
		ReportType:  domain.ReportDonationsSummary,
		Status:      domain.ReportPending,
		RequestedBy: userID,
	}, nil).Once()
	suite.mockReportRepo.On("UpdateReportStatus", ctx, reportID, domain.ReportCancelled, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	report, err := suite.service.CancelReport(ctx, reportID, userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReportCancelled, report.Status)
	suite.mockReportRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCancelReport_OnlyRequesterMayCancel() {
	ctx := context.Background()
	reportID := uuid.NewString()

	suite.mockReportRepo.On("FindReportByID", ctx, reportID).Return(&domain.Report{
		ReportID:    reportID,
		Status:      domain.ReportPending,
		RequestedBy: uuid.NewString(),
	}, nil).Once()

	report, err := suite.service.CancelReport(ctx, reportID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(report)
	suite.mockReportRepo.AssertNotCalled(suite.T(), "UpdateReportStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestCancelReport_CompletedIsPastCancelling() {
	ctx := context.Background()
	userID := uuid.NewString()
	reportID := uuid.NewString()

	suite.mockReportRepo.On("FindReportByID", ctx, reportID).Return(&domain.Report{
		ReportID:    reportID,
		Status:      domain.ReportCompleted,
		RequestedBy: userID,
	}, nil).Once()

	report, err := suite.service.CancelReport(ctx, reportID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(report)
}

func (suite *ReportingServiceTestSuite) TestListReports_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockReportRepo.On("ListReports", ctx, 20, (*string)(nil), (*domain.ReportType)(nil)).Return(nil, nil, nil).Once()

	reports, next, err := suite.service.ListReports(ctx, 20, nil, nil)

	suite.Require().NoError(err)
	suite.NotNil(reports)
	suite.Empty(reports)
	suite.Nil(next)
}

// --- Run Suite ---

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
