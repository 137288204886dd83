package rental

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusByAsset(rows []StatusRow) map[string]StatusRow {
	out := make(map[string]StatusRow, len(rows))
	for _, r := range rows {
		out[r.AssetID] = r
	}
	return out
}

func TestStatusBoard(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.CheckOut(ctx, CheckOutRequest{AssetID: "PC001", BorrowerID: "A1001", DueDate: date(2025, 12, 1)})
	require.NoError(t, err)

	rows, err := f.svc.StatusBoard(ctx)
	require.NoError(t, err)

	// PC004 is soft-deleted.
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"PC001", "PC002", "PC003"}, []string{rows[0].AssetID, rows[1].AssetID, rows[2].AssetID})

	byAsset := statusByAsset(rows)
	pc1 := byAsset["PC001"]
	assert.False(t, pc1.Available)
	assert.Equal(t, "Sato", pc1.BorrowerName)
	assert.Equal(t, "R&D", pc1.Department)
	assert.Equal(t, "Lenovo", pc1.Manufacturer)
	assert.False(t, pc1.IsOverdue)
	require.NotNil(t, pc1.DueDate)
	assert.Equal(t, date(2025, 12, 1), *pc1.DueDate)

	pc3 := byAsset["PC003"]
	assert.True(t, pc3.Available)
	assert.True(t, pc3.IsBroken)
	assert.Empty(t, pc3.BorrowerName)
}

func TestStatusBoard_Overdue(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	_, err := f.svc.CheckOut(ctx, CheckOutRequest{AssetID: "PC001", BorrowerID: "A1001", DueDate: date(2025, 12, 1)})
	require.NoError(t, err)

	// Due today is not overdue yet.
	f.clock.Set(time.Date(2025, 12, 1, 23, 59, 0, 0, time.UTC))
	rows, err := f.svc.StatusBoard(ctx)
	require.NoError(t, err)
	assert.False(t, statusByAsset(rows)["PC001"].IsOverdue)

	f.clock.Set(time.Date(2025, 12, 2, 0, 1, 0, 0, time.UTC))
	rows, err = f.svc.StatusBoard(ctx)
	require.NoError(t, err)
	assert.True(t, statusByAsset(rows)["PC001"].IsOverdue)
	assert.False(t, statusByAsset(rows)["PC002"].IsOverdue)

	// Returned devices are never overdue and no longer show the borrower name.
	_, err = f.svc.CheckIn(ctx, CheckInRequest{AssetID: "PC001"})
	require.NoError(t, err)
	rows, err = f.svc.StatusBoard(ctx)
	require.NoError(t, err)
	pc1 := statusByAsset(rows)["PC001"]
	assert.False(t, pc1.IsOverdue)
	assert.Empty(t, pc1.BorrowerName)
	require.NotNil(t, pc1.BorrowerID)
	assert.Equal(t, "A1001", *pc1.BorrowerID)
}

func TestActiveRentalFor(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	active, err := f.svc.ActiveRentalFor(ctx, "A1001")
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = f.svc.CheckOut(ctx, CheckOutRequest{AssetID: "PC002", BorrowerID: "A1001", DueDate: date(2025, 11, 1)})
	require.NoError(t, err)

	active, err = f.svc.ActiveRentalFor(ctx, "A1001")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "PC002", active.AssetID)
	assert.Equal(t, "Dell", active.Manufacturer)
	assert.True(t, active.IsOverdue)

	_, err = f.svc.CheckIn(ctx, CheckInRequest{AssetID: "PC002"})
	require.NoError(t, err)
	active, err = f.svc.ActiveRentalFor(ctx, "A1001")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	cycle := func(assetID, borrowerID string, day int) {
		f.clock.Set(time.Date(2025, 11, day, 9, 0, 0, 0, time.UTC))
		_, err := f.svc.CheckOut(ctx, CheckOutRequest{AssetID: assetID, BorrowerID: borrowerID, DueDate: date(2025, 12, 1)})
		require.NoError(t, err)
		f.clock.Set(time.Date(2025, 11, day+1, 9, 0, 0, 0, time.UTC))
		_, err = f.svc.CheckIn(ctx, CheckInRequest{AssetID: assetID, ActorID: borrowerID})
		require.NoError(t, err)
	}
	cycle("PC001", "A1001", 1)
	cycle("PC002", "A1002", 3)
	cycle("PC001", "A1002", 5)

	all, err := f.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "PC001", all[0].AssetID)
	assert.Equal(t, "Suzuki", *all[0].BorrowerName)
	assert.Equal(t, date(2025, 11, 5), *all[0].RentalDate)
	assert.Equal(t, date(2025, 11, 6), *all[0].ReturnDate)
	assert.Equal(t, "PC002", all[1].AssetID)
	assert.Equal(t, "PC001", all[2].AssetID)
	assert.Equal(t, "A1001", *all[2].BorrowerID)

	one, err := f.svc.AssetHistory(ctx, "PC001")
	require.NoError(t, err)
	require.Len(t, one, 2)
	assert.True(t, one[0].ChangedAt.After(one[1].ChangedAt))

	none, err := f.svc.AssetHistory(ctx, "PC003")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQueries_ReadFailure(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.svc.StatusBoard(ctx)
	assert.ErrorIs(t, err, ErrReadFailed)
	_, err = f.svc.ActiveRentalFor(ctx, "A1001")
	assert.ErrorIs(t, err, ErrReadFailed)
	_, err = f.svc.History(ctx)
	assert.ErrorIs(t, err, ErrReadFailed)
	_, err = f.svc.AssetHistory(ctx, "PC001")
	assert.ErrorIs(t, err, ErrReadFailed)
}
