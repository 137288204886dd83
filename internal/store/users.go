package store

import (
	"context"
	"fmt"

	"device-lending-backend/internal/model"
)

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("employee_id = ?", user.EmployeeID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check user %s: %w", user.EmployeeID, err)
	}
	if count > 0 {
		return ErrAlreadyExists
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.EmployeeID, err)
	}
	return nil
}

// GetUser returns an active (not soft-deleted) user.
func (s *gormStore) GetUser(ctx context.Context, employeeID string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).
		Where("employee_id = ? AND is_deleted = ?", employeeID, false).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("employee_id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) DeleteUser(ctx context.Context, employeeID string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("employee_id = ? AND is_deleted = ?", employeeID, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", employeeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountUsers counts every user row, deleted or not.
func (s *gormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}
