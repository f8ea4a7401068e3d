package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/cache"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

// PeriodService defines the interface for operational period operations
type PeriodService interface {
	Promote(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error)
	Update(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error)
	GetByID(ctx context.Context, id string) (*model.OperationalPeriod, error)
	GetCurrent(ctx context.Context, eventID string) (*model.OperationalPeriod, error)
	FindByEvent(ctx context.Context, eventID string) ([]*model.OperationalPeriod, error)
	Close(ctx context.Context, id string) (*model.OperationalPeriod, error)
	Delete(ctx context.Context, id string) error
}

// periodService implements PeriodService
type periodService struct {
	repo  repository.PeriodRepository
	cache cache.CacheClient
	log   *logrus.Logger
}

// NewPeriodService creates a new operational period service
func NewPeriodService(repo repository.PeriodRepository, cache cache.CacheClient, log *logrus.Logger) PeriodService {
	return &periodService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Promote creates a new period and makes it the current one for its event.
// The demotion of the previously current period happens in the same
// transaction as the insert.
func (s *periodService) Promote(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	if period.StartTime.IsZero() {
		period.StartTime = time.Now().UTC()
	}
	period.IsCurrent = true

	created, err := s.repo.PromoteCurrent(ctx, period)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, created.EventID)
	return created, nil
}

// Update updates a period
func (s *periodService) Update(ctx context.Context, period *model.OperationalPeriod) (*model.OperationalPeriod, error) {
	updated, err := s.repo.Update(ctx, period)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.EventID)
	return updated, nil
}

// GetByID gets a period by ID
func (s *periodService) GetByID(ctx context.Context, id string) (*model.OperationalPeriod, error) {
	return s.repo.GetByID(ctx, id)
}

// GetCurrent gets the current period for an event, checking the cache first
func (s *periodService) GetCurrent(ctx context.Context, eventID string) (*model.OperationalPeriod, error) {
	if cached, err := s.cache.GetCurrentPeriod(ctx, eventID); err == nil && cached != nil {
		return cached, nil
	}

	period, err := s.repo.GetCurrentByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCurrentPeriod(ctx, eventID, period); err != nil {
		s.log.WithError(err).Warn("Failed to cache current period")
	}

	return period, nil
}

// FindByEvent finds all periods for an event
func (s *periodService) FindByEvent(ctx context.Context, eventID string) ([]*model.OperationalPeriod, error) {
	return s.repo.FindByEvent(ctx, eventID)
}

// Close marks a period finished. A closed current period stops being
// current, so checklists referencing it fall into the previous sections.
func (s *periodService) Close(ctx context.Context, id string) (*model.OperationalPeriod, error) {
	period, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	period.EndTime = &now
	period.IsCurrent = false

	updated, err := s.repo.Update(ctx, period)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, updated.EventID)
	return updated, nil
}

// Delete removes a period and detaches its checklists rather than
// deleting them
func (s *periodService) Delete(ctx context.Context, id string) error {
	period, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAndDetach(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, period.EventID)
	return nil
}

func (s *periodService) invalidate(ctx context.Context, eventID string) {
	if err := s.cache.InvalidateCurrentPeriod(ctx, eventID); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate current period cache")
	}
	if err := s.cache.InvalidateEventSections(ctx, eventID); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate event sections cache")
	}
}
