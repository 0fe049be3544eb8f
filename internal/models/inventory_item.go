package models

import "time"

// InventoryItem is the row shape of the inventory_items table.
type InventoryItem struct {
	ItemID          string     `db:"item_id"`
	DonorID         string     `db:"donor_id"`
	DonationID      *string    `db:"donation_id"`
	Name            string     `db:"name"`
	Category        string     `db:"category"`
	Quantity        int64      `db:"quantity"`
	Unit            string     `db:"unit"`
	ExpiryDate      *time.Time `db:"expiry_date"`
	ReceivedAt      time.Time  `db:"received_at"`
	Status          string     `db:"status"`
	DistributionID  *string    `db:"distribution_id"`
	SplitFromItemID *string    `db:"split_from_item_id"`
	AuditFields
}
