package rental

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	now := time.Date(2025, 11, 25, 9, 0, 0, 0, time.UTC)
	return NewService(gormDB, Options{Location: time.UTC, Now: func() time.Time { return now }}), mock
}

func TestCheckInByID_AuditFailureRollsBackLedger(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "rentals" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "asset_id", "borrower_id", "rental_date", "due_date", "return_date", "inventory_date", "remarks", "available",
		}).AddRow(7, "PC001", "A1001", date(2025, 11, 20), date(2025, 12, 1), nil, nil, "", false))
	mock.ExpectExec(`UPDATE "rentals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "rental_histories"`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.CheckInByID(context.Background(), 7, "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckIn_LostRaceIsPreconditionFailure(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "rentals" WHERE .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "asset_id", "available"}).AddRow(7, "PC001", false))
	mock.ExpectExec(`UPDATE "rentals" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.CheckIn(context.Background(), CheckInRequest{AssetID: "PC001"})
	assert.ErrorIs(t, err, ErrNoActiveRental)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckOut_StorageErrorRollsBack(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "devices" WHERE asset_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"asset_id", "is_broken", "is_deleted"}).AddRow("PC001", false, false))
	mock.ExpectExec(`UPDATE "rentals" SET`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.CheckOut(context.Background(), CheckOutRequest{AssetID: "PC001", BorrowerID: "A1001", DueDate: date(2025, 12, 1)})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotRentable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
