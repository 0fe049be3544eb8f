package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	portsrepo "github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	"github.com/reliefbase/relief_ledger_app/internal/models"
	"github.com/reliefbase/relief_ledger_app/internal/utils/mapping"
)

// PgxAllocationRepository persists allocations and their lines in Postgres.
type PgxAllocationRepository struct {
	BaseRepository
}

func newPgxAllocationRepository(db *pgxpool.Pool, timeout time.Duration) *PgxAllocationRepository {
	return &PgxAllocationRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.AllocationRepositoryWithTx = (*PgxAllocationRepository)(nil)

func (r *PgxAllocationRepository) ListAllocationsByDistribution(ctx context.Context, distributionID string) ([]domain.Allocation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT allocation_id, distribution_id, monetary_amount,
			created_at, created_by, last_updated_at, last_updated_by
		FROM allocations
		WHERE distribution_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, distributionID)
	if err != nil {
		return nil, normalizeErr(err, "failed to list allocations for distribution "+distributionID)
	}
	defer rows.Close()

	var allocations []models.Allocation
	for rows.Next() {
		var m models.Allocation
		if err := rows.Scan(
			&m.AllocationID, &m.DistributionID, &m.MonetaryAmount,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, normalizeErr(err, "failed to scan allocation row")
		}
		allocations = append(allocations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating allocation rows")
	}
	if len(allocations) == 0 {
		return []domain.Allocation{}, nil
	}

	lineQuery := `
		SELECT l.line_id, l.allocation_id, l.item_id, l.category, l.quantity
		FROM allocation_lines l
		JOIN allocations a ON l.allocation_id = a.allocation_id
		WHERE a.distribution_id = $1
		ORDER BY l.line_id;
	`
	lineRows, err := r.Pool.Query(ctx, lineQuery, distributionID)
	if err != nil {
		return nil, normalizeErr(err, "failed to list allocation lines for distribution "+distributionID)
	}
	defer lineRows.Close()

	linesByAllocation := map[string][]models.AllocationLine{}
	for lineRows.Next() {
		var l models.AllocationLine
		if err := lineRows.Scan(&l.LineID, &l.AllocationID, &l.ItemID, &l.Category, &l.Quantity); err != nil {
			return nil, normalizeErr(err, "failed to scan allocation line row")
		}
		linesByAllocation[l.AllocationID] = append(linesByAllocation[l.AllocationID], l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating allocation line rows")
	}

	result := make([]domain.Allocation, len(allocations))
	for i, m := range allocations {
		result[i] = mapping.ToDomainAllocation(m, linesByAllocation[m.AllocationID])
	}
	return result, nil
}

// SaveAllocationInTx writes the allocation header and all of its lines in a
// single batch round trip.
func (r *PgxAllocationRepository) SaveAllocationInTx(ctx context.Context, tx pgx.Tx, allocation domain.Allocation) error {
	m := mapping.ToModelAllocation(allocation)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO allocations (allocation_id, distribution_id, monetary_amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, m.AllocationID, m.DistributionID, m.MonetaryAmount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)

	for _, line := range allocation.Lines {
		l := mapping.ToModelAllocationLine(line)
		batch.Queue(`
			INSERT INTO allocation_lines (line_id, allocation_id, item_id, category, quantity)
			VALUES ($1, $2, $3, $4, $5);
		`, l.LineID, l.AllocationID, l.ItemID, l.Category, l.Quantity)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return normalizeErr(err, "failed to save allocation "+m.AllocationID)
		}
	}
	return nil
}

// AvailableFundsInTx computes countable monetary donations minus already
// committed monetary allocations, inside the caller's transaction so the
// figure is consistent with the locks the caller holds.
func (r *PgxAllocationRepository) AvailableFundsInTx(ctx context.Context, tx pgx.Tx) (decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM donations
				WHERE kind = 'monetary' AND status IN ('verified', 'received', 'distributed')), 0)
			-
			COALESCE((SELECT SUM(monetary_amount) FROM allocations), 0);
	`
	var available decimal.Decimal
	if err := tx.QueryRow(ctx, query).Scan(&available); err != nil {
		return decimal.Zero, normalizeErr(err, "failed to compute available funds")
	}
	return available, nil
}
