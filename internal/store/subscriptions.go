package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"device-lending-backend/internal/model"
)

// PutSubscription creates or replaces a subscription and its device list.
func (s *gormStore) PutSubscription(ctx context.Context, sub *model.PushSubscription, assetIDs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(sub).Error; err != nil {
			return err
		}

		devices := []model.Device{}
		if len(assetIDs) > 0 {
			if err := tx.Where("asset_id IN ? AND is_deleted = ?", assetIDs, false).Find(&devices).Error; err != nil {
				return err
			}
		}

		return tx.Model(sub).Association("Devices").Replace(&devices)
	})
}

// GetSubscribedDevices lists the asset ids a subscription is watching.
func (s *gormStore) GetSubscribedDevices(ctx context.Context, endpoint string) ([]string, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).Preload("Devices").First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, notFound(err)
	}

	assetIDs := make([]string, len(sub.Devices))
	for i, d := range sub.Devices {
		assetIDs[i] = d.AssetID
	}
	return assetIDs, nil
}

// DeleteSubscription removes a subscription together with its device mappings.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).
		Select("Devices").
		Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}
