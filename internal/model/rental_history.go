package model

import "time"

// Change types recorded in the audit trail.
const (
	ChangeTypeRent   = "rent"
	ChangeTypeReturn = "return"
)

// RentalHistory is an append-only audit entry for a ledger transition.
type RentalHistory struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ChangedAt        time.Time  `gorm:"not null;index" json:"changedAt"`
	ChangeType       string     `gorm:"size:16;not null" json:"changeType"`
	AssetID          string     `gorm:"size:64;not null;index" json:"assetId"`
	BorrowerBefore   *string    `gorm:"size:64" json:"borrowerBefore"`
	BorrowerAfter    *string    `gorm:"size:64" json:"borrowerAfter"`
	RentalDateBefore *time.Time `json:"rentalDateBefore"`
	RentalDateAfter  *time.Time `json:"rentalDateAfter"`
	DueDateBefore    *time.Time `json:"dueDateBefore"`
	DueDateAfter     *time.Time `json:"dueDateAfter"`
	ReturnDateAfter  *time.Time `json:"returnDateAfter"`
	ChangedBy        string     `gorm:"size:64;not null" json:"changedBy"`
}
