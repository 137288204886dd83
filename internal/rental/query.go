package rental

import (
	"context"
	"fmt"
	"time"
)

type statusScan struct {
	AssetID         string
	Manufacturer    string
	OperatingSystem string
	Memory          string
	Storage         string
	GraphicsCard    string
	Location        string
	IsBroken        bool
	RentalID        *int64
	Available       *bool
	BorrowerID      *string
	BorrowerName    *string
	Department      *string
	RentalDate      *time.Time
	DueDate         *time.Time
	ReturnDate      *time.Time
}

// StatusBoard lists every non-deleted device with its current lending state.
func (s *Service) StatusBoard(ctx context.Context) ([]StatusRow, error) {
	var scanned []statusScan
	err := s.db.WithContext(ctx).
		Table("devices AS d").
		Select(`d.asset_id, d.manufacturer, d.operating_system, d.memory, d.storage,
			d.graphics_card, d.location, d.is_broken,
			r.id AS rental_id, r.available, r.borrower_id,
			u.name AS borrower_name, u.department,
			r.rental_date, r.due_date, r.return_date`).
		Joins("LEFT JOIN rentals AS r ON r.asset_id = d.asset_id").
		Joins("LEFT JOIN users AS u ON u.employee_id = r.borrower_id").
		Where("d.is_deleted = ?", false).
		Order("d.asset_id").
		Scan(&scanned).Error
	if err != nil {
		return nil, fmt.Errorf("%w: status board: %v", ErrReadFailed, err)
	}

	today := s.Today()
	rows := make([]StatusRow, 0, len(scanned))
	for _, sc := range scanned {
		row := StatusRow{
			AssetID:         sc.AssetID,
			Manufacturer:    sc.Manufacturer,
			OperatingSystem: sc.OperatingSystem,
			Memory:          sc.Memory,
			Storage:         sc.Storage,
			GraphicsCard:    sc.GraphicsCard,
			Location:        sc.Location,
			IsBroken:        sc.IsBroken,
			RentalID:        sc.RentalID,
			// A device without a ledger row has never been lent.
			Available:  sc.Available == nil || *sc.Available,
			BorrowerID: sc.BorrowerID,
			RentalDate: normalizeDate(sc.RentalDate),
			DueDate:    normalizeDate(sc.DueDate),
			ReturnDate: normalizeDate(sc.ReturnDate),
		}
		if !row.Available {
			if sc.BorrowerName != nil {
				row.BorrowerName = *sc.BorrowerName
			}
			if sc.Department != nil {
				row.Department = *sc.Department
			}
		}
		row.IsOverdue = overdue(row.Available, row.DueDate, today)
		rows = append(rows, row)
	}
	return rows, nil
}

// ActiveRentalFor returns the borrower's open rental, or nil when there is none.
// With several open rentals the newest one wins.
func (s *Service) ActiveRentalFor(ctx context.Context, borrowerID string) (*ActiveRental, error) {
	var found []ActiveRental
	err := s.db.WithContext(ctx).
		Table("rentals AS r").
		Select(`r.id AS rental_id, r.asset_id, r.borrower_id,
			d.manufacturer, d.operating_system, d.location,
			r.rental_date, r.due_date`).
		Joins("LEFT JOIN devices AS d ON d.asset_id = r.asset_id").
		Where("r.borrower_id = ? AND r.available = ? AND r.return_date IS NULL", borrowerID, false).
		Order("r.rental_date DESC").
		Order("r.id").
		Limit(1).
		Scan(&found).Error
	if err != nil {
		return nil, fmt.Errorf("%w: active rental of %s: %v", ErrReadFailed, borrowerID, err)
	}
	if len(found) == 0 {
		return nil, nil
	}

	active := found[0]
	active.RentalDate = normalizeDate(active.RentalDate)
	active.DueDate = normalizeDate(active.DueDate)
	active.IsOverdue = overdue(false, active.DueDate, s.Today())
	return &active, nil
}

// History lists every recorded lending cycle, newest first.
func (s *Service) History(ctx context.Context) ([]HistoryRow, error) {
	return s.history(ctx, "")
}

// AssetHistory lists the recorded lending cycles of one asset, newest first.
func (s *Service) AssetHistory(ctx context.Context, assetID string) ([]HistoryRow, error) {
	return s.history(ctx, assetID)
}

func (s *Service) history(ctx context.Context, assetID string) ([]HistoryRow, error) {
	q := s.db.WithContext(ctx).
		Table("rental_histories AS h").
		Select(`h.id, h.changed_at, h.change_type, h.asset_id,
			h.borrower_after AS borrower_id, u.name AS borrower_name,
			h.rental_date_after AS rental_date, h.due_date_after AS due_date,
			h.return_date_after AS return_date, h.changed_by`).
		Joins("LEFT JOIN users AS u ON u.employee_id = h.borrower_after").
		Where("h.rental_date_after IS NOT NULL")
	if assetID != "" {
		q = q.Where("h.asset_id = ?", assetID)
	}

	var rows []HistoryRow
	if err := q.Order("h.changed_at DESC").Order("h.id DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: history: %v", ErrReadFailed, err)
	}
	for i := range rows {
		rows[i].RentalDate = normalizeDate(rows[i].RentalDate)
		rows[i].DueDate = normalizeDate(rows[i].DueDate)
		rows[i].ReturnDate = normalizeDate(rows[i].ReturnDate)
	}
	if rows == nil {
		rows = []HistoryRow{}
	}
	return rows, nil
}
