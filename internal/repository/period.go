package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// PeriodRepository defines the interface for operational period repository
type PeriodRepository interface {
	Create(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error)
	Update(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error)
	GetByID(ctx context.Context, id string) (*model.OperationalPeriod, error)
	GetCurrentByEvent(ctx context.Context, eventID string) (*model.OperationalPeriod, error)
	FindByEvent(ctx context.Context, eventID string) ([]*model.OperationalPeriod, error)
	PromoteCurrent(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error)
	DeleteAndDetach(ctx context.Context, id string) error
}

// periodRepository implements PeriodRepository
type periodRepository struct {
	db *gorm.DB
}

// NewPeriodRepository creates a new operational period repository
func NewPeriodRepository(db *gorm.DB) PeriodRepository {
	return &periodRepository{db: db}
}

// Create creates a new operational period
func (r *periodRepository) Create(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	if err := r.db.WithContext(ctx).Create(period).Error; err != nil {
		return nil, err
	}
	return period, nil
}

// Update updates an operational period
func (r *periodRepository) Update(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	if err := r.db.WithContext(ctx).Updates(period).Error; err != nil {
		return nil, err
	}
	return period, nil
}

// GetByID gets an operational period by ID
func (r *periodRepository) GetByID(ctx context.Context, id string) (*model.OperationalPeriod, error) {
	var period model.OperationalPeriod
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&period).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &period, nil
}

// GetCurrentByEvent gets the current operational period for an event
func (r *periodRepository) GetCurrentByEvent(ctx context.Context, eventID string) (*model.OperationalPeriod, error) {
	var period model.OperationalPeriod
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND is_current = ?", eventID, true).
		First(&period).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &period, nil
}

// FindByEvent finds all operational periods for an event, newest first
func (r *periodRepository) FindByEvent(ctx context.Context, eventID string) ([]*model.OperationalPeriod, error) {
	var periods []*model.OperationalPeriod
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("start_time DESC").
		Find(&periods).Error
	if err != nil {
		return nil, err
	}
	return periods, nil
}

// PromoteCurrent creates a period as the event's current one, demoting any
// previous current period inside the same transaction.
func (r *periodRepository) PromoteCurrent(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	period.IsCurrent = true
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OperationalPeriod{}).
			Where("event_id = ? AND is_current = ?", period.EventID, true).
			Update("is_current", false).Error; err != nil {
			return err
		}
		return tx.Create(period).Error
	})
	if err != nil {
		return nil, err
	}
	return period, nil
}

// DeleteAndDetach deletes a period and detaches its checklists. Checklists
// are never cascaded: their period reference is cleared so they fall into
// the incident-level bucket.
func (r *periodRepository) DeleteAndDetach(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ChecklistInstance{}).
			Where("operational_period_id = ?", id).
			Update("operational_period_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("uuid = ?", id).Delete(&model.OperationalPeriod{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
