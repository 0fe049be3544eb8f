package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool, timeout time.Duration) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

// periodClause appends bounds on the given column for non-zero period edges.
func periodClause(column string, period portsrepo.Period, args []interface{}) (string, []interface{}) {
	clause := ""
	if !period.From.IsZero() {
		args = append(args, period.From)
		clause += ` AND ` + column + ` >= $` + strconv.Itoa(len(args))
	}
	if !period.To.IsZero() {
		args = append(args, period.To)
		clause += ` AND ` + column + ` <= $` + strconv.Itoa(len(args))
	}
	return clause, args
}

func (r *reportingRepository) DonorCounts(ctx context.Context) (*portsrepo.DonorCounts, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM donors;
	`
	var counts portsrepo.DonorCounts
	if err := r.Pool.QueryRow(ctx, query).Scan(&counts.Total, &counts.Active); err != nil {
		return nil, normalizeErr(err, "failed to count donors")
	}
	return &counts, nil
}

func (r *reportingRepository) DonationCounts(ctx context.Context, period portsrepo.Period) (*portsrepo.DonationCounts, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []interface{}{}
	clause, args := periodClause("donated_at", period, args)
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status IN ('verified', 'received', 'distributed'))
		FROM donations
		WHERE 1=1` + clause + `;`

	var counts portsrepo.DonationCounts
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&counts.Total, &counts.Pending, &counts.Verified); err != nil {
		return nil, normalizeErr(err, "failed to count donations")
	}
	return &counts, nil
}

func (r *reportingRepository) MonetaryTotal(ctx context.Context, period portsrepo.Period) (decimal.Decimal, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []interface{}{}
	clause, args := periodClause("donated_at", period, args)
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM donations
		WHERE kind = 'monetary' AND status IN ('verified', 'received', 'distributed')` + clause + `;`

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, normalizeErr(err, "failed to total monetary donations")
	}
	return total, nil
}

func (r *reportingRepository) InventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'stored'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'allocated'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE status = 'distributed'), 0)
		FROM inventory_items;
	`
	var summary domain.InventorySummary
	if err := r.Pool.QueryRow(ctx, query).Scan(
		&summary.TotalReceived,
		&summary.TotalStored,
		&summary.TotalAllocated,
		&summary.TotalDistributed,
	); err != nil {
		return nil, normalizeErr(err, "failed to summarize inventory")
	}

	byCategoryQuery := `
		SELECT category, COALESCE(SUM(quantity), 0)
		FROM inventory_items
		WHERE status = 'stored'
		GROUP BY category
		ORDER BY category;
	`
	rows, err := r.Pool.Query(ctx, byCategoryQuery)
	if err != nil {
		return nil, normalizeErr(err, "failed to aggregate stored inventory by category")
	}
	defer rows.Close()

	for rows.Next() {
		var cq domain.CategoryQuantity
		if err := rows.Scan(&cq.Category, &cq.Quantity); err != nil {
			return nil, normalizeErr(err, "failed to scan category quantity row")
		}
		summary.StoredByCategory = append(summary.StoredByCategory, cq)
	}
	if err := rows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating category quantity rows")
	}
	return &summary, nil
}

func (r *reportingRepository) DistributionStats(ctx context.Context, period portsrepo.Period) (*portsrepo.DistributionStats, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []interface{}{}
	clause, args := periodClause("scheduled_date", period, args)
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status IN ('ongoing', 'completed')),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COALESCE(SUM(beneficiaries) FILTER (WHERE status = 'completed'), 0)
		FROM distributions
		WHERE 1=1` + clause + `;`

	var stats portsrepo.DistributionStats
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Completed, &stats.BeneficiariesServed); err != nil {
		return nil, normalizeErr(err, "failed to summarize distributions")
	}
	return &stats, nil
}

func (r *reportingRepository) TopDonors(ctx context.Context, period portsrepo.Period, limit int) ([]portsrepo.TopDonor, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}
	args := []interface{}{}
	clause, args := periodClause("dn.donated_at", period, args)
	args = append(args, limit)
	query := `
		SELECT d.donor_id, d.name, COALESCE(SUM(dn.amount), 0) AS total
		FROM donors d
		JOIN donations dn ON dn.donor_id = d.donor_id
		WHERE dn.kind = 'monetary' AND dn.status IN ('verified', 'received', 'distributed')` + clause + `
		GROUP BY d.donor_id, d.name
		ORDER BY total DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, normalizeErr(err, "failed to rank donors")
	}
	defer rows.Close()

	var result []portsrepo.TopDonor
	for rows.Next() {
		var td portsrepo.TopDonor
		if err := rows.Scan(&td.DonorID, &td.Name, &td.Total); err != nil {
			return nil, normalizeErr(err, "failed to scan top donor row")
		}
		result = append(result, td)
	}
	if err := rows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating top donor rows")
	}
	return result, nil
}

func (r *reportingRepository) DonorActivity(ctx context.Context, period portsrepo.Period, donorID *string) ([]domain.DonorActivityRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	args := []interface{}{}
	clause, args := periodClause("dn.donated_at", period, args)
	if donorID != nil {
		args = append(args, *donorID)
		clause += ` AND d.donor_id = $` + strconv.Itoa(len(args))
	}
	query := `
		SELECT d.donor_id, d.name,
			COUNT(dn.donation_id),
			COALESCE(SUM(dn.amount) FILTER (WHERE dn.kind = 'monetary'), 0),
			COUNT(dn.donation_id) FILTER (WHERE dn.kind = 'in_kind'),
			MAX(dn.donated_at)
		FROM donors d
		JOIN donations dn ON dn.donor_id = d.donor_id
		WHERE dn.status IN ('verified', 'received', 'distributed')` + clause + `
		GROUP BY d.donor_id, d.name
		ORDER BY COUNT(dn.donation_id) DESC, d.name;
	`
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, normalizeErr(err, "failed to aggregate donor activity")
	}
	defer rows.Close()

	var result []domain.DonorActivityRow
	for rows.Next() {
		var row domain.DonorActivityRow
		if err := rows.Scan(
			&row.DonorID,
			&row.Name,
			&row.DonationCount,
			&row.MonetaryTotal,
			&row.InKindCount,
			&row.LastDonatedAt,
		); err != nil {
			return nil, normalizeErr(err, "failed to scan donor activity row")
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating donor activity rows")
	}
	return result, nil
}
