package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// EventRepository defines the interface for event repository
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	FindActive(ctx context.Context) ([]*model.Event, error)
	CreatePosition(ctx context.Context, position *model.Position) (*model.Position, error)
	UpdatePosition(ctx context.Context, position *model.Position) (*model.Position, error)
	DeletePosition(ctx context.Context, id string) error
	FindPositionsByEvent(ctx context.Context, eventID string) ([]*model.Position, error)
}

// eventRepository implements EventRepository
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Update updates an event
func (r *eventRepository) Update(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := r.db.WithContext(ctx).Updates(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// GetByID gets an event by ID with its periods preloaded
func (r *eventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Periods", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("start_time DESC")
		}).
		Preload("Positions").
		Where("uuid = ?", id).
		First(&event).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindActive finds all active events
func (r *eventRepository) FindActive(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CreatePosition creates a new position
func (r *eventRepository) CreatePosition(ctx context.Context, position *model.Position) (*model.Position, error) {
	if err := r.db.WithContext(ctx).Create(position).Error; err != nil {
		return nil, err
	}
	return position, nil
}

// UpdatePosition updates a position
func (r *eventRepository) UpdatePosition(ctx context.Context, position *model.Position) (*model.Position, error) {
	if err := r.db.WithContext(ctx).Updates(position).Error; err != nil {
		return nil, err
	}
	return position, nil
}

// DeletePosition deletes a position
func (r *eventRepository) DeletePosition(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("uuid = ?", id).Delete(&model.Position{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPositionsByEvent finds all positions for an event
func (r *eventRepository) FindPositionsByEvent(ctx context.Context, eventID string) ([]*model.Position, error) {
	var positions []*model.Position
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("name").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}
