package services

import (
	"context"

	"github.com/reliefbase/relief_ledger_app/internal/core/domain"
	"github.com/reliefbase/relief_ledger_app/internal/core/ports/repositories"
	"github.com/reliefbase/relief_ledger_app/internal/dto"
)

// InventoryReaderSvc defines read operations for inventory data
type InventoryReaderSvc interface {
	// GetItemByID retrieves a specific inventory item by its unique identifier.
	GetItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)

	// ListItems retrieves a paginated list of inventory items matching the filter.
	ListItems(ctx context.Context, limit int, nextToken *string, filter repositories.InventoryListFilter) ([]domain.InventoryItem, *string, error)

	// GetInventorySummary aggregates quantities by lifecycle stage and category.
	GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error)
}

// InventoryWriterSvc defines write operations for inventory data
type InventoryWriterSvc interface {
	// CreateItem records a received item.
	CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest, userID string) (*domain.InventoryItem, error)

	// UpdateItem edits a pending or verified item. Items past verified are immutable.
	UpdateItem(ctx context.Context, itemID string, req dto.UpdateInventoryItemRequest, userID string) (*domain.InventoryItem, error)

	// TransitionItemStatus moves an item to a new lifecycle status.
	TransitionItemStatus(ctx context.Context, itemID string, target domain.ItemStatus, userID string) (*domain.InventoryItem, error)

	// DeleteItem removes a pending or verified item.
	DeleteItem(ctx context.Context, itemID string, userID string) error
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
}
