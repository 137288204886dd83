package rental

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"device-lending-backend/internal/model"
)

var tracer = otel.Tracer("device-lending-backend/internal/rental")

// Options tunes the lending rules.
type Options struct {
	// Location decides which calendar day "today" is. Defaults to time.Local.
	Location *time.Location
	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// AuditCheckOut also writes a "rent" audit entry on check-out.
	AuditCheckOut bool
	// SingleRentalPerBorrower refuses a check-out while the borrower holds a device.
	SingleRentalPerBorrower bool
	// FallbackActor is recorded when a check-in carries no actor. Defaults to "system".
	FallbackActor string
}

// Service runs check-out and check-in transitions against the rental ledger
// and serves the read projections built on it.
type Service struct {
	db   *gorm.DB
	opts Options
}

// NewService creates a new rental service.
func NewService(db *gorm.DB, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FallbackActor == "" {
		opts.FallbackActor = "system"
	}
	return &Service{db: db, opts: opts}
}

// Today returns the current calendar date in the configured location.
func (s *Service) Today() time.Time {
	return CalendarDate(s.opts.Now().In(s.opts.Location))
}

// CheckOut lends an available asset to a borrower.
func (s *Service) CheckOut(ctx context.Context, req CheckOutRequest) (*model.Rental, error) {
	ctx, span := tracer.Start(ctx, "rental.check_out", trace.WithAttributes(
		attribute.String("asset.id", req.AssetID),
		attribute.String("borrower.id", req.BorrowerID),
	))
	defer span.End()

	assetID := strings.TrimSpace(req.AssetID)
	borrowerID := strings.TrimSpace(req.BorrowerID)
	if assetID == "" || borrowerID == "" || req.DueDate.IsZero() {
		return nil, fail(span, ErrInvalidRequest)
	}

	today := s.Today()
	due := CalendarDate(req.DueDate)

	var out model.Rental
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var device model.Device
		if err := tx.Where("asset_id = ?", assetID).Take(&device).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotRentable
			}
			return fmt.Errorf("failed to load device %s: %w", assetID, err)
		}
		if !device.Rentable() {
			return ErrNotRentable
		}

		if s.opts.SingleRentalPerBorrower {
			var held int64
			if err := tx.Model(&model.Rental{}).
				Where("borrower_id = ? AND available = ? AND return_date IS NULL", borrowerID, false).
				Count(&held).Error; err != nil {
				return fmt.Errorf("failed to count rentals of %s: %w", borrowerID, err)
			}
			if held > 0 {
				return ErrBorrowerHasRental
			}
		}

		var pre model.Rental
		if s.opts.AuditCheckOut {
			if err := tx.Where("asset_id = ?", assetID).Take(&pre).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotRentable
				}
				return fmt.Errorf("failed to load ledger row of %s: %w", assetID, err)
			}
		}

		res := tx.Model(&model.Rental{}).
			Where("asset_id = ? AND available = ?", assetID, true).
			Updates(map[string]any{
				"borrower_id": borrowerID,
				"rental_date": today,
				"due_date":    due,
				"return_date": nil,
				"available":   false,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to check out %s: %w", assetID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotRentable
		}

		if s.opts.AuditCheckOut {
			actor := s.actor(req.ActorID)
			if err := record(tx, rentEntry(&pre, borrowerID, today, due, actor, s.opts.Now().UTC())); err != nil {
				return err
			}
		}

		return tx.Where("asset_id = ?", assetID).Take(&out).Error
	})
	if err != nil {
		return nil, fail(span, err)
	}

	log.Printf("Asset %s checked out to %s, due %s", assetID, borrowerID, due.Format(time.DateOnly))
	return &out, nil
}

// CheckIn closes the open rental of an asset.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	ctx, span := tracer.Start(ctx, "rental.check_in", trace.WithAttributes(
		attribute.String("asset.id", req.AssetID),
	))
	defer span.End()

	assetID := strings.TrimSpace(req.AssetID)
	if assetID == "" {
		return nil, fail(span, ErrInvalidRequest)
	}

	result, err := s.checkIn(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("asset_id = ?", assetID)
	}, req.ActorID)
	if err != nil {
		return nil, fail(span, err)
	}
	return result, nil
}

// CheckInByID closes an open rental addressed by its ledger row id.
func (s *Service) CheckInByID(ctx context.Context, rentalID int64, actorID string) (*CheckInResult, error) {
	ctx, span := tracer.Start(ctx, "rental.check_in", trace.WithAttributes(
		attribute.Int64("rental.id", rentalID),
	))
	defer span.End()

	if rentalID <= 0 {
		return nil, fail(span, ErrInvalidRequest)
	}

	result, err := s.checkIn(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ?", rentalID)
	}, actorID)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("asset.id", result.AssetID))
	return result, nil
}

// checkIn runs the shared check-in transaction. locate narrows the ledger
// query to the row the caller addressed; both paths apply the same
// open-rental predicate.
func (s *Service) checkIn(ctx context.Context, locate func(tx *gorm.DB) *gorm.DB, actorID string) (*CheckInResult, error) {
	today := s.Today()
	actor := s.actor(actorID)

	var result CheckInResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pre model.Rental
		if err := locate(tx).
			Where("available = ? AND return_date IS NULL", false).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&pre).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveRental
			}
			return fmt.Errorf("failed to load open rental: %w", err)
		}

		res := tx.Model(&model.Rental{}).
			Where("id = ? AND available = ? AND return_date IS NULL", pre.ID, false).
			Updates(map[string]any{
				"available":   true,
				"return_date": today,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to check in %s: %w", pre.AssetID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNoActiveRental
		}

		if err := record(tx, returnEntry(&pre, today, actor, s.opts.Now().UTC())); err != nil {
			return err
		}

		result = CheckInResult{
			RentalID:   pre.ID,
			AssetID:    pre.AssetID,
			ReturnDate: today,
		}
		if pre.BorrowerID != nil {
			result.BorrowerID = *pre.BorrowerID
			name, err := borrowerName(tx, *pre.BorrowerID)
			if err != nil {
				return err
			}
			result.BorrowerName = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Asset %s checked in by %s (borrower %s)", result.AssetID, actor, result.BorrowerID)
	return &result, nil
}

func (s *Service) actor(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return s.opts.FallbackActor
}

// borrowerName resolves a display name. An unknown borrower is not an error.
func borrowerName(tx *gorm.DB, employeeID string) (string, error) {
	var user model.User
	err := tx.Select("name").Where("employee_id = ?", employeeID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up borrower %s: %w", employeeID, err)
	}
	return user.Name, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
