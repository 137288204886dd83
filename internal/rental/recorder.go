package rental

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"device-lending-backend/internal/model"
)

// record appends one audit entry on the caller's transaction. A failure here
// must abort that transaction.
func record(tx *gorm.DB, entry *model.RentalHistory) error {
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record %s of asset %s: %w", entry.ChangeType, entry.AssetID, err)
	}
	return nil
}

// returnEntry snapshots a ledger row as it was just before check-in. The
// borrower and dates stay on the row, so before and after are the same.
func returnEntry(pre *model.Rental, returnedOn time.Time, actor string, changedAt time.Time) *model.RentalHistory {
	return &model.RentalHistory{
		ChangedAt:        changedAt,
		ChangeType:       model.ChangeTypeReturn,
		AssetID:          pre.AssetID,
		BorrowerBefore:   pre.BorrowerID,
		BorrowerAfter:    pre.BorrowerID,
		RentalDateBefore: pre.RentalDate,
		RentalDateAfter:  pre.RentalDate,
		DueDateBefore:    pre.DueDate,
		DueDateAfter:     pre.DueDate,
		ReturnDateAfter:  &returnedOn,
		ChangedBy:        actor,
	}
}

// rentEntry snapshots a check-out: the previous cycle before, the new one after.
func rentEntry(pre *model.Rental, borrower string, rentedOn, due time.Time, actor string, changedAt time.Time) *model.RentalHistory {
	return &model.RentalHistory{
		ChangedAt:        changedAt,
		ChangeType:       model.ChangeTypeRent,
		AssetID:          pre.AssetID,
		BorrowerBefore:   pre.BorrowerID,
		BorrowerAfter:    &borrower,
		RentalDateBefore: pre.RentalDate,
		RentalDateAfter:  &rentedOn,
		DueDateBefore:    pre.DueDate,
		DueDateAfter:     &due,
		ChangedBy:        actor,
	}
}
