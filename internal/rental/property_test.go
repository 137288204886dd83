package rental

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"device-lending-backend/internal/model"
)

type modelAsset struct {
	rented   bool
	borrower string
	rentedOn time.Time
	due      time.Time
}

// TestLedgerStateMachine drives random check-outs, check-ins and clock moves
// against a fresh database and compares the ledger to a simple model.
func TestLedgerStateMachine(t *testing.T) {
	assets := []string{"PC001", "PC002"}
	borrowers := []string{"A1001", "A1002", "A1003"}

	rapid.Check(t, func(rt *rapid.T) {
		db := openTestDB(rt, "ledger_sm")
		sqlDB, _ := db.DB()
		defer sqlDB.Close()

		clock := &testClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)}
		svc := NewService(db, Options{Location: time.UTC, Now: clock.Now})
		ctx := context.Background()

		state := make(map[string]*modelAsset, len(assets))
		for _, id := range assets {
			seedDevice(rt, db, model.Device{AssetID: id})
			state[id] = &modelAsset{}
		}
		returns := 0

		rt.Repeat(map[string]func(*rapid.T){
			"checkout": func(rt *rapid.T) {
				id := rapid.SampledFrom(assets).Draw(rt, "asset")
				who := rapid.SampledFrom(borrowers).Draw(rt, "borrower")
				due := svc.Today().AddDate(0, 0, rapid.IntRange(-3, 14).Draw(rt, "dueOffset"))

				before := ledgerRow(rt, db, id)
				_, err := svc.CheckOut(ctx, CheckOutRequest{AssetID: id, BorrowerID: who, DueDate: due})
				if state[id].rented {
					require.ErrorIs(rt, err, ErrNotRentable)
					require.Equal(rt, before, ledgerRow(rt, db, id))
					return
				}
				require.NoError(rt, err)
				state[id] = &modelAsset{rented: true, borrower: who, rentedOn: svc.Today(), due: due}
			},
			"checkin": func(rt *rapid.T) {
				id := rapid.SampledFrom(assets).Draw(rt, "asset")
				pre := ledgerRow(rt, db, id)
				auditsBefore := len(auditRows(rt, db, id))

				res, err := svc.CheckIn(ctx, CheckInRequest{AssetID: id})
				if !state[id].rented {
					require.ErrorIs(rt, err, ErrNoActiveRental)
					require.Equal(rt, pre, ledgerRow(rt, db, id))
					require.Len(rt, auditRows(rt, db, id), auditsBefore)
					return
				}
				require.NoError(rt, err)
				returns++
				state[id].rented = false
				require.Equal(rt, state[id].borrower, res.BorrowerID)

				audits := auditRows(rt, db, id)
				require.Len(rt, audits, auditsBefore+1)
				last := audits[len(audits)-1]
				require.Equal(rt, *pre.BorrowerID, *last.BorrowerBefore)
				require.True(rt, pre.RentalDate.Equal(*last.RentalDateBefore))
				require.True(rt, pre.DueDate.Equal(*last.DueDateBefore))
			},
			"advance": func(rt *rapid.T) {
				days := rapid.IntRange(1, 5).Draw(rt, "days")
				clock.Set(clock.Now().AddDate(0, 0, days))
			},
			"": func(rt *rapid.T) {
				var total int64
				require.NoError(rt, db.Model(&model.RentalHistory{}).Count(&total).Error)
				require.EqualValues(rt, returns, total)

				rows, err := svc.StatusBoard(ctx)
				require.NoError(rt, err)
				today := svc.Today()
				for _, row := range rows {
					m := state[row.AssetID]
					require.Equal(rt, !m.rented, row.Available, row.AssetID)

					var open int64
					require.NoError(rt, db.Model(&model.Rental{}).
						Where("asset_id = ? AND available = ? AND return_date IS NULL", row.AssetID, false).
						Count(&open).Error)
					require.LessOrEqual(rt, open, int64(1))

					if m.borrower != "" {
						require.Equal(rt, m.borrower, *row.BorrowerID)
						require.True(rt, m.rentedOn.Equal(*row.RentalDate))
						require.True(rt, m.due.Equal(*row.DueDate))
					}
					require.Equal(rt, m.rented && m.due.Before(today), row.IsOverdue)
				}
			},
		})
	})
}
