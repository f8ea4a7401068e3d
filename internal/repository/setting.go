package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// SettingRepository defines the interface for system setting repository
type SettingRepository interface {
	Upsert(ctx context.Context, setting *model.SystemSetting) (*model.SystemSetting, error)
	GetByKey(ctx context.Context, key string) (*model.SystemSetting, error)
	FindAll(ctx context.Context) ([]*model.SystemSetting, error)
	DeleteByKey(ctx context.Context, key string) error
}

// settingRepository implements SettingRepository
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Upsert creates or updates a setting by key
func (r *settingRepository) Upsert(ctx context.Context, setting *model.SystemSetting) (*model.SystemSetting, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
		}).
		Create(setting).Error
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// GetByKey gets a setting by key
func (r *settingRepository) GetByKey(ctx context.Context, key string) (*model.SystemSetting, error) {
	var setting model.SystemSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// FindAll finds all settings
func (r *settingRepository) FindAll(ctx context.Context) ([]*model.SystemSetting, error) {
	var settings []*model.SystemSetting
	if err := r.db.WithContext(ctx).Order("key").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// DeleteByKey deletes a setting by key
func (r *settingRepository) DeleteByKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.SystemSetting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
