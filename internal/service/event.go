package service

import (
	"context"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

// EventService defines the interface for event operations
type EventService interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) (*model.Event, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	FindActive(ctx context.Context) ([]*model.Event, error)
	Deactivate(ctx context.Context, id string) (*model.Event, error)
	CreatePosition(ctx context.Context, position *model.Position) (*model.Position, error)
	UpdatePosition(ctx context.Context, position *model.Position) (*model.Position, error)
	DeletePosition(ctx context.Context, id string) error
	FindPositionsByEvent(ctx context.Context, eventID string) ([]*model.Position, error)
}

// eventService implements EventService
type eventService struct {
	repo repository.EventRepository
}

// NewEventService creates a new event service
func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

// Create creates a new event
func (s *eventService) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	event.Active = true
	return s.repo.Create(ctx, event)
}

// Update updates an existing event
func (s *eventService) Update(ctx context.Context, event *model.Event) (*model.Event, error) {
	return s.repo.Update(ctx, event)
}

// GetByID gets an event by ID with its periods and positions
func (s *eventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	return s.repo.GetByID(ctx, id)
}

// FindActive finds all active events
func (s *eventService) FindActive(ctx context.Context) ([]*model.Event, error) {
	return s.repo.FindActive(ctx)
}

// Deactivate soft-deactivates an event
func (s *eventService) Deactivate(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Active = false
	return s.repo.Update(ctx, event)
}

// CreatePosition creates a position for an event
func (s *eventService) CreatePosition(ctx context.Context, position *model.Position) (*model.Position, error) {
	if _, err := s.repo.GetByID(ctx, position.EventID); err != nil {
		return nil, err
	}
	return s.repo.CreatePosition(ctx, position)
}

// UpdatePosition updates a position
func (s *eventService) UpdatePosition(ctx context.Context, position *model.Position) (*model.Position, error) {
	return s.repo.UpdatePosition(ctx, position)
}

// DeletePosition deletes a position
func (s *eventService) DeletePosition(ctx context.Context, id string) error {
	return s.repo.DeletePosition(ctx, id)
}

// FindPositionsByEvent finds all positions for an event
func (s *eventService) FindPositionsByEvent(ctx context.Context, eventID string) ([]*model.Position, error) {
	return s.repo.FindPositionsByEvent(ctx, eventID)
}
