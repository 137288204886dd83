package model

import "time"

// Rental is the ledger row for one asset. There is exactly one row per asset;
// a lending cycle overwrites it and the previous values survive only in
// RentalHistory.
type Rental struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	AssetID    string  `gorm:"size:64;uniqueIndex;not null" json:"assetId"`
	BorrowerID *string `gorm:"size:64;index" json:"borrowerId"`
	// Calendar dates, stored as midnight UTC of the local day.
	RentalDate    *time.Time `json:"rentalDate"`
	DueDate       *time.Time `json:"dueDate"`
	ReturnDate    *time.Time `json:"returnDate"`
	InventoryDate *time.Time `json:"inventoryDate"`
	Remarks       string     `gorm:"size:1024" json:"remarks"`
	// Available is the single source of truth for "lent out or not".
	Available bool `gorm:"not null;index" json:"available"`
}

// Open reports whether the row describes an ongoing rental.
func (r *Rental) Open() bool {
	return r != nil && !r.Available
}
