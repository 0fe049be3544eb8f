package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
)

// InventoryListFilter narrows ListItems results.
type InventoryListFilter struct {
	Status   *domain.ItemStatus
	Category *string
	DonorID  *string
}

// InventoryReader defines read operations for inventory data
type InventoryReader interface {
	// FindItemByID retrieves a specific inventory item by its unique identifier.
	FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// ListItems retrieves a paginated list of inventory items matching the filter.
	ListItems(ctx context.Context, limit int, nextToken *string, filter InventoryListFilter) ([]domain.InventoryItem, *string, error)

	// StoredQuantityByCategory returns the total stored quantity per category.
	StoredQuantityByCategory(ctx context.Context) ([]domain.CategoryQuantity, error)

	// StoredItemsByCategory returns all stored items in a category ordered
	// oldest-first by received date, without locking.
	StoredItemsByCategory(ctx context.Context, category string) ([]domain.InventoryItem, error)
}

// InventoryWriter defines write operations for inventory data
type InventoryWriter interface {
	// SaveItem persists a new inventory item.
	SaveItem(ctx context.Context, item domain.InventoryItem) error

	// UpdateItem persists changes to a mutable inventory item. The write is
	// guarded so it only lands while the row is still pending or verified;
	// a row that moved on concurrently yields ErrConcurrentUpdateConflict.
	UpdateItem(ctx context.Context, item domain.InventoryItem) error

	// UpdateItemStatus moves the item from one lifecycle status to another.
	// The write carries the expected current status so a concurrent change
	// between read and write yields ErrConcurrentUpdateConflict instead of
	// silently overwriting.
	UpdateItemStatus(ctx context.Context, itemID string, from, to domain.ItemStatus, userID string, now time.Time) error

	// DeleteItem removes an inventory item.
	DeleteItem(ctx context.Context, itemID string) error
}

// InventoryTransactionSupport defines inventory operations that run inside a
// caller-owned database transaction. Allocation depends on these to lock and
// consume stored rows atomically.
type InventoryTransactionSupport interface {
	// FindStoredItemsForUpdate selects all stored items in a category ordered
	// oldest-first by received date and locks their rows within the transaction.
	FindStoredItemsForUpdate(ctx context.Context, tx pgx.Tx, category string) ([]domain.InventoryItem, error)

	// FindItemsByDistributionForUpdate selects all items allocated to a
	// distribution and locks their rows within the transaction.
	FindItemsByDistributionForUpdate(ctx context.Context, tx pgx.Tx, distributionID string) ([]domain.InventoryItem, error)

	// SaveItemInTx persists a new inventory item within the transaction.
	SaveItemInTx(ctx context.Context, tx pgx.Tx, item domain.InventoryItem) error

	// MarkItemsAllocatedInTx moves the given items to allocated and stamps the
	// distribution they were allocated to, within the transaction.
	MarkItemsAllocatedInTx(ctx context.Context, tx pgx.Tx, itemIDs []string, distributionID string, userID string, now time.Time) error

	// UpdateItemQuantityInTx adjusts an item's remaining quantity within the transaction.
	UpdateItemQuantityInTx(ctx context.Context, tx pgx.Tx, itemID string, quantity int64, userID string, now time.Time) error

	// UpdateItemStatusInTx updates an item's status within the transaction.
	UpdateItemStatusInTx(ctx context.Context, tx pgx.Tx, itemID string, status domain.ItemStatus, userID string, now time.Time) error
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}

// InventoryRepositoryWithTx extends InventoryRepositoryFacade with transaction capabilities
type InventoryRepositoryWithTx interface {
	InventoryRepositoryFacade
	InventoryTransactionSupport
	TransactionManager
}
