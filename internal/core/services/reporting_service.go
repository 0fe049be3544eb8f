package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reliefbase/relief_ledger_app/internal/apperrors"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/reliefbase/relief_ledger_app/internal/core/ports/services"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

const recentDonationsOnDashboard = 5

// reportingService implements ReportingService: dashboard aggregates plus
// background report jobs with a cancellation registry.
type reportingService struct {
	BaseService
	reportRepo    portsrepo.ReportRepositoryFacade
	reportingRepo portsrepo.ReportingRepository
	donationRepo  portsrepo.DonationReader

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

// NewReportingService creates a new reporting service
func NewReportingService(
	reportRepo portsrepo.ReportRepositoryFacade,
	reportingRepo portsrepo.ReportingRepository,
	donationRepo portsrepo.DonationReader,
) portssvc.ReportingService {
	return &reportingService{
		reportRepo:    reportRepo,
		reportingRepo: reportingRepo,
		donationRepo:  donationRepo,
		running:       make(map[string]context.CancelFunc),
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// DashboardStats assembles the aggregate snapshot behind the admin dashboard.
// Every figure is derived on demand; nothing here is cached or stored.
func (s *reportingService) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	donorCounts, err := s.reportingRepo.DonorCounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to count donors for dashboard")
		return nil, err
	}
	donationCounts, err := s.reportingRepo.DonationCounts(ctx, portsrepo.Period{})
	if err != nil {
		s.LogError(ctx, err, "Failed to count donations for dashboard")
		return nil, err
	}
	monetaryTotal, err := s.reportingRepo.MonetaryTotal(ctx, portsrepo.Period{})
	if err != nil {
		s.LogError(ctx, err, "Failed to total donations for dashboard")
		return nil, err
	}
	inventory, err := s.reportingRepo.InventorySummary(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize inventory for dashboard")
		return nil, err
	}
	distStats, err := s.reportingRepo.DistributionStats(ctx, portsrepo.Period{})
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize distributions for dashboard")
		return nil, err
	}
	recent, err := s.donationRepo.RecentDonations(ctx, recentDonationsOnDashboard)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch recent donations for dashboard")
		return nil, err
	}

	return &domain.DashboardStats{
		TotalDonors:          donorCounts.Total,
		ActiveDonors:         donorCounts.Active,
		TotalDonations:       donationCounts.Total,
		PendingDonations:     donationCounts.Pending,
		VerifiedDonations:    donationCounts.Verified,
		MonetaryTotal:        monetaryTotal,
		Inventory:            *inventory,
		OngoingDistributions: distStats.Total - distStats.Completed,
		BeneficiariesServed:  distStats.BeneficiariesServed,
		RecentDonations:      recent,
	}, nil
}

// RequestReport records a pending report job and starts generating it in the
// background. The job runs detached from the request context so a closed
// connection does not abort it; only an explicit cancel does.
func (s *reportingService) RequestReport(ctx context.Context, req dto.CreateReportRequest, userID string) (*domain.Report, error) {
	if !req.PeriodTo.After(req.PeriodFrom) {
		return nil, fmt.Errorf("report period end must be after its start: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	report := domain.Report{
		ReportID:    uuid.NewString(),
		ReportType:  req.ReportType,
		PeriodFrom:  req.PeriodFrom,
		PeriodTo:    req.PeriodTo,
		Status:      domain.ReportPending,
		RequestedBy: userID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		s.LogError(ctx, err, "Failed to save report job", slog.String("report_id", report.ReportID))
		return nil, err
	}

	jobCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.running[report.ReportID] = cancel
	s.mu.Unlock()

	go s.generate(jobCtx, report)

	s.LogInfo(ctx, "Report job started",
		slog.String("report_id", report.ReportID), slog.String("type", string(report.ReportType)))
	return &report, nil
}

func (s *reportingService) generate(ctx context.Context, report domain.Report) {
	defer func() {
		s.mu.Lock()
		delete(s.running, report.ReportID)
		s.mu.Unlock()
	}()

	logger := slog.Default().With(slog.String("report_id", report.ReportID))
	summary, err := s.buildSummary(ctx, report)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// CancelReport already persisted the cancelled status.
			logger.Info("Report job cancelled")
			return
		}
		logger.Error("Report job failed", slog.String("error", err.Error()))
		if markErr := s.reportRepo.UpdateReportStatus(context.Background(), report.ReportID, domain.ReportFailed, report.RequestedBy, time.Now()); markErr != nil {
			logger.Error("Failed to mark report as failed", slog.String("error", markErr.Error()))
		}
		return
	}

	if err := s.reportRepo.CompleteReport(context.Background(), report.ReportID, summary, time.Now()); err != nil {
		logger.Error("Failed to persist completed report", slog.String("error", err.Error()))
		return
	}
	logger.Info("Report job completed")
}

func (s *reportingService) buildSummary(ctx context.Context, report domain.Report) ([]byte, error) {
	period := portsrepo.Period{From: report.PeriodFrom, To: report.PeriodTo}

	switch report.ReportType {
	case domain.ReportDonationsSummary:
		counts, err := s.reportingRepo.DonationCounts(ctx, period)
		if err != nil {
			return nil, err
		}
		total, err := s.reportingRepo.MonetaryTotal(ctx, period)
		if err != nil {
			return nil, err
		}
		topDonors, err := s.reportingRepo.TopDonors(ctx, period, 10)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{
			"totalDonations":    counts.Total,
			"pendingDonations":  counts.Pending,
			"verifiedDonations": counts.Verified,
			"monetaryTotal":     total,
			"topDonors":         topDonors,
		})

	case domain.ReportInventoryStatus:
		inventory, err := s.reportingRepo.InventorySummary(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(inventory)

	case domain.ReportDistributionSummary:
		stats, err := s.reportingRepo.DistributionStats(ctx, period)
		if err != nil {
			return nil, err
		}
		return json.Marshal(stats)

	case domain.ReportDonorActivity:
		rows, err := s.reportingRepo.DonorActivity(ctx, period, nil)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]any{"donors": rows})
	}

	return nil, fmt.Errorf("unknown report type %q: %w", report.ReportType, apperrors.ErrValidation)
}

func (s *reportingService) GetReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find report by ID", slog.String("report_id", reportID))
		}
		return nil, err
	}
	return report, nil
}

func (s *reportingService) ListReports(ctx context.Context, limit int, nextToken *string, reportType *domain.ReportType) ([]domain.Report, *string, error) {
	reports, next, err := s.reportRepo.ListReports(ctx, limit, nextToken, reportType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reports", slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, next, nil
}

// CancelReport stops a pending report job. Only the user who requested the
// report may cancel it; completed and failed jobs are past cancelling.
func (s *reportingService) CancelReport(ctx context.Context, reportID string, userID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.RequestedBy != userID {
		return nil, fmt.Errorf("only the requesting user may cancel report %s: %w", reportID, apperrors.ErrForbidden)
	}
	if report.Status != domain.ReportPending {
		return nil, fmt.Errorf("report %s in status %s cannot be cancelled: %w",
			reportID, report.Status, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	if err := s.reportRepo.UpdateReportStatus(ctx, reportID, domain.ReportCancelled, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to mark report cancelled", slog.String("report_id", reportID))
		return nil, err
	}

	s.mu.Lock()
	if cancel, ok := s.running[reportID]; ok {
		cancel()
	}
	s.mu.Unlock()

	report.Status = domain.ReportCancelled
	report.LastUpdatedAt = now
	report.LastUpdatedBy = userID
	s.LogInfo(ctx, "Report job cancelled", slog.String("report_id", reportID))
	return report, nil
}
