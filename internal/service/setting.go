package service

import (
	"context"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

// SettingService defines the interface for administrative settings
type SettingService interface {
	Upsert(ctx context.Context, key, value, updatedBy string) (*model.SystemSetting, error)
	GetByKey(ctx context.Context, key string) (*model.SystemSetting, error)
	FindAll(ctx context.Context) ([]*model.SystemSetting, error)
	Delete(ctx context.Context, key string) error
}

// settingService implements SettingService
type settingService struct {
	repo repository.SettingRepository
}

// NewSettingService creates a new setting service
func NewSettingService(repo repository.SettingRepository) SettingService {
	return &settingService{repo: repo}
}

// Upsert creates or updates a setting by key
func (s *settingService) Upsert(ctx context.Context, key, value, updatedBy string) (*model.SystemSetting, error) {
	setting := &model.SystemSetting{
		Key:       key,
		Value:     value,
		UpdatedBy: updatedBy,
	}
	return s.repo.Upsert(ctx, setting)
}

// GetByKey gets a setting by key
func (s *settingService) GetByKey(ctx context.Context, key string) (*model.SystemSetting, error) {
	return s.repo.GetByKey(ctx, key)
}

// FindAll lists all settings
func (s *settingService) FindAll(ctx context.Context) ([]*model.SystemSetting, error) {
	return s.repo.FindAll(ctx)
}

// Delete removes a setting by key
func (s *settingService) Delete(ctx context.Context, key string) error {
	return s.repo.DeleteByKey(ctx, key)
}
