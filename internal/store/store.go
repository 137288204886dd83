package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"device-lending-backend/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when creating a record whose key is taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrDeviceRented is returned when deleting a device that is currently lent out.
	ErrDeviceRented = errors.New("device is currently rented")
)

// Store defines the interface for all directory and subscription persistence.
// Rental transitions live in the rental package and share the same *gorm.DB.
type Store interface {
	DB() *gorm.DB

	CreateDevice(ctx context.Context, device *model.Device) error
	GetDevice(ctx context.Context, assetID string) (*model.Device, error)
	ListDevices(ctx context.Context, includeDeleted bool) ([]model.Device, error)
	UpdateDevice(ctx context.Context, device *model.Device) error
	DeleteDevice(ctx context.Context, assetID string) error

	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, employeeID string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, employeeID string) error
	CountUsers(ctx context.Context) (int64, error)

	PutSubscription(ctx context.Context, sub *model.PushSubscription, assetIDs []string) error
	GetSubscribedDevices(ctx context.Context, endpoint string) ([]string, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
