package store

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"device-lending-backend/internal/model"
)

// CreateDevice registers a device and provisions its ledger row in one transaction.
func (s *gormStore) CreateDevice(ctx context.Context, device *model.Device) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Device{}).Where("asset_id = ?", device.AssetID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check device %s: %w", device.AssetID, err)
		}
		if count > 0 {
			return ErrAlreadyExists
		}

		if err := tx.Create(device).Error; err != nil {
			return fmt.Errorf("failed to create device %s: %w", device.AssetID, err)
		}

		ledger := model.Rental{AssetID: device.AssetID, Available: true}
		if err := tx.Create(&ledger).Error; err != nil {
			return fmt.Errorf("failed to provision ledger row for %s: %w", device.AssetID, err)
		}

		log.Printf("Registered device %s", device.AssetID)
		return nil
	})
}

// GetDevice returns a device by asset id, including soft-deleted ones.
func (s *gormStore) GetDevice(ctx context.Context, assetID string) (*model.Device, error) {
	var device model.Device
	if err := s.db.WithContext(ctx).First(&device, "asset_id = ?", assetID).Error; err != nil {
		return nil, notFound(err)
	}
	return &device, nil
}

func (s *gormStore) ListDevices(ctx context.Context, includeDeleted bool) ([]model.Device, error) {
	q := s.db.WithContext(ctx).Order("asset_id")
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}

	var devices []model.Device
	if err := q.Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// UpdateDevice overwrites the editable fields of an existing device.
func (s *gormStore) UpdateDevice(ctx context.Context, device *model.Device) error {
	res := s.db.WithContext(ctx).
		Model(&model.Device{AssetID: device.AssetID}).
		Select("manufacturer", "operating_system", "memory", "storage", "graphics_card",
			"location", "is_broken", "lease_start", "lease_end", "remarks").
		Updates(device)
	if res.Error != nil {
		return fmt.Errorf("failed to update device %s: %w", device.AssetID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDevice soft-deletes a device. A device that is lent out stays put.
func (s *gormStore) DeleteDevice(ctx context.Context, assetID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var device model.Device
		if err := tx.First(&device, "asset_id = ?", assetID).Error; err != nil {
			return notFound(err)
		}
		if device.IsDeleted {
			return nil
		}

		var rented int64
		if err := tx.Model(&model.Rental{}).
			Where("asset_id = ? AND available = ?", assetID, false).
			Count(&rented).Error; err != nil {
			return fmt.Errorf("failed to check ledger for %s: %w", assetID, err)
		}
		if rented > 0 {
			return ErrDeviceRented
		}

		if err := tx.Model(&device).Update("is_deleted", true).Error; err != nil {
			return fmt.Errorf("failed to delete device %s: %w", assetID, err)
		}
		return nil
	})
}
