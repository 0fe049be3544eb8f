package pgsql

import (
	"context"
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

// PgxInventoryRepository persists inventory items in Postgres.
type PgxInventoryRepository struct {
	BaseRepository
}

func newPgxInventoryRepository(db *pgxpool.Pool, timeout time.Duration) *PgxInventoryRepository {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: db, Timeout: timeout}}
}

var _ portsrepo.InventoryRepositoryWithTx = (*PgxInventoryRepository)(nil)

const inventoryColumns = `item_id, donor_id, donation_id, name, category, quantity, unit,
	expiry_date, received_at, status, distribution_id, split_from_item_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanInventoryItem(row pgx.Row) (models.InventoryItem, error) {
	var m models.InventoryItem
	err := row.Scan(
		&m.ItemID,
		&m.DonorID,
		&m.DonationID,
		&m.Name,
		&m.Category,
		&m.Quantity,
		&m.Unit,
		&m.ExpiryDate,
		&m.ReceivedAt,
		&m.Status,
		&m.DistributionID,
		&m.SplitFromItemID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanInventoryItems(rows pgx.Rows) ([]models.InventoryItem, error) {
	defer rows.Close()
	var items []models.InventoryItem
	for rows.Next() {
		m, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const insertInventoryItemQuery = `
	INSERT INTO inventory_items (` + inventoryColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
`

func inventoryInsertArgs(m models.InventoryItem) []interface{} {
	return []interface{}{
		m.ItemID, m.DonorID, m.DonationID, m.Name, m.Category, m.Quantity, m.Unit,
		m.ExpiryDate, m.ReceivedAt, m.Status, m.DistributionID, m.SplitFromItemID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelInventoryItem(item)
	if _, err := r.Pool.Exec(ctx, insertInventoryItemQuery, inventoryInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save inventory item "+m.ItemID)
	}
	return nil
}

func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE item_id = $1;`
	m, err := scanInventoryItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, normalizeErr(err, "failed to find inventory item "+itemID)
	}
	d := mapping.ToDomainInventoryItem(m)
	return &d, nil
}

func (r *PgxInventoryRepository) ListItems(ctx context.Context, limit int, nextToken *string, filter portsrepo.InventoryListFilter) ([]domain.InventoryItem, *string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Category != nil {
		args = append(args, *filter.Category)
		baseQuery += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.DonorID != nil {
		args = append(args, *filter.DonorID)
		baseQuery += ` AND donor_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastReceivedAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastReceivedAt, lastCreatedAt)
		baseQuery += ` AND (received_at, created_at) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query := baseQuery + ` ORDER BY received_at DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, normalizeErr(err, "failed to list inventory items")
	}
	items, err := scanInventoryItems(rows)
	if err != nil {
		return nil, nil, normalizeErr(err, "failed to scan inventory rows")
	}

	var nextTokenVal *string
	if len(items) > limit {
		last := items[limit-1]
		token := pagination.EncodeToken(last.ReceivedAt, last.CreatedAt)
		nextTokenVal = &token
		items = items[:limit]
	}
	return mapping.ToDomainInventoryItemSlice(items), nextTokenVal, nil
}

func (r *PgxInventoryRepository) StoredQuantityByCategory(ctx context.Context) ([]domain.CategoryQuantity, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT category, COALESCE(SUM(quantity), 0)
		FROM inventory_items
		WHERE status = 'stored'
		GROUP BY category
		ORDER BY category;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, normalizeErr(err, "failed to aggregate stored quantities")
	}
	defer rows.Close()

	var result []domain.CategoryQuantity
	for rows.Next() {
		var cq domain.CategoryQuantity
		if err := rows.Scan(&cq.Category, &cq.Quantity); err != nil {
			return nil, normalizeErr(err, "failed to scan category quantity row")
		}
		result = append(result, cq)
	}
	if err := rows.Err(); err != nil {
		return nil, normalizeErr(err, "error iterating category quantity rows")
	}
	return result, nil
}

// StoredItemsByCategory orders oldest-first so previews walk items in the
// same order Allocate will consume them.
func (r *PgxInventoryRepository) StoredItemsByCategory(ctx context.Context, category string) ([]domain.InventoryItem, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE status = 'stored' AND category = $1
		ORDER BY received_at ASC, created_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, category)
	if err != nil {
		return nil, normalizeErr(err, "failed to list stored items for category "+category)
	}
	items, err := scanInventoryItems(rows)
	if err != nil {
		return nil, normalizeErr(err, "failed to scan stored item rows")
	}
	return mapping.ToDomainInventoryItemSlice(items), nil
}

func (r *PgxInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	m := mapping.ToModelInventoryItem(item)
	query := `
		UPDATE inventory_items
		SET name = $2, category = $3, quantity = $4, unit = $5, expiry_date = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE item_id = $1 AND status IN ('pending', 'verified');
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.Name, m.Category, m.Quantity, m.Unit, m.ExpiryDate,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return normalizeErr(err, "failed to update inventory item "+m.ItemID)
	}
	if tag.RowsAffected() == 0 {
		// The caller verified the item was mutable before writing, so a miss
		// here means the row advanced past verified (or was removed) in the
		// meantime.
		return apperrors.ErrConcurrentUpdateConflict
	}
	return nil
}

const updateItemStatusQuery = `
	UPDATE inventory_items
	SET status = $3, last_updated_at = $4, last_updated_by = $5
	WHERE item_id = $1 AND status = $2;
`

func (r *PgxInventoryRepository) UpdateItemStatus(ctx context.Context, itemID string, from, to domain.ItemStatus, userID string, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, updateItemStatusQuery, itemID, string(from), string(to), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for inventory item "+itemID)
	}
	if tag.RowsAffected() == 0 {
		// The row is no longer in the status the caller validated against.
		return apperrors.ErrConcurrentUpdateConflict
	}
	return nil
}

func (r *PgxInventoryRepository) DeleteItem(ctx context.Context, itemID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.Pool.Exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1;`, itemID)
	if err != nil {
		return normalizeErr(err, "failed to delete inventory item "+itemID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindStoredItemsForUpdate locks the stored rows of one category for the
// duration of the transaction. Oldest-first ordering makes consumption
// deterministic.
func (r *PgxInventoryRepository) FindStoredItemsForUpdate(ctx context.Context, tx pgx.Tx, category string) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE status = 'stored' AND category = $1
		ORDER BY received_at ASC, created_at ASC
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, category)
	if err != nil {
		return nil, normalizeErr(err, "failed to lock stored items for category "+category)
	}
	items, err := scanInventoryItems(rows)
	if err != nil {
		return nil, normalizeErr(err, "failed to scan locked item rows")
	}
	return mapping.ToDomainInventoryItemSlice(items), nil
}

func (r *PgxInventoryRepository) FindItemsByDistributionForUpdate(ctx context.Context, tx pgx.Tx, distributionID string) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE distribution_id = $1
		ORDER BY received_at ASC, created_at ASC
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, distributionID)
	if err != nil {
		return nil, normalizeErr(err, "failed to lock items for distribution "+distributionID)
	}
	items, err := scanInventoryItems(rows)
	if err != nil {
		return nil, normalizeErr(err, "failed to scan locked item rows")
	}
	return mapping.ToDomainInventoryItemSlice(items), nil
}

func (r *PgxInventoryRepository) SaveItemInTx(ctx context.Context, tx pgx.Tx, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	if _, err := tx.Exec(ctx, insertInventoryItemQuery, inventoryInsertArgs(m)...); err != nil {
		return normalizeErr(err, "failed to save inventory item "+m.ItemID)
	}
	return nil
}

func (r *PgxInventoryRepository) MarkItemsAllocatedInTx(ctx context.Context, tx pgx.Tx, itemIDs []string, distributionID string, userID string, now time.Time) error {
	query := `
		UPDATE inventory_items
		SET status = 'allocated', distribution_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE item_id = ANY($1) AND status = 'stored';
	`
	tag, err := tx.Exec(ctx, query, itemIDs, distributionID, now, userID)
	if err != nil {
		return normalizeErr(err, "failed to mark items allocated for distribution "+distributionID)
	}
	if tag.RowsAffected() != int64(len(itemIDs)) {
		// Another transaction consumed one of the rows between lock and update.
		return apperrors.ErrConcurrentUpdateConflict
	}
	return nil
}

func (r *PgxInventoryRepository) UpdateItemQuantityInTx(ctx context.Context, tx pgx.Tx, itemID string, quantity int64, userID string, now time.Time) error {
	query := `
		UPDATE inventory_items
		SET quantity = $2, last_updated_at = $3, last_updated_by = $4
		WHERE item_id = $1;
	`
	tag, err := tx.Exec(ctx, query, itemID, quantity, now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update quantity for inventory item "+itemID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxInventoryRepository) UpdateItemStatusInTx(ctx context.Context, tx pgx.Tx, itemID string, status domain.ItemStatus, userID string, now time.Time) error {
	tag, err := tx.Exec(ctx, updateItemStatusQuery, itemID, string(status), now, userID)
	if err != nil {
		return normalizeErr(err, "failed to update status for inventory item "+itemID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
