package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/cache"
	"github.com/dynamisinc/cobra-poc-sub007/internal/checklist"
	"github.com/dynamisinc/cobra-poc-sub007/internal/messagebus"
	"github.com/dynamisinc/cobra-poc-sub007/internal/metrics"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

// ChecklistUpdate is the payload published to the update queue after a
// checklist changes
type ChecklistUpdate struct {
	ID                     string  `json:"id"`
	EventID                string  `json:"event_id"`
	Name                   string  `json:"name"`
	TotalItems             int     `json:"total_items"`
	CompletedItems         int     `json:"completed_items"`
	ProgressPercentage     float64 `json:"progress_percentage"`
	RequiredItems          int     `json:"required_items"`
	RequiredItemsCompleted int     `json:"required_items_completed"`
	IsArchived             bool    `json:"is_archived"`
	UpdatedAt              string  `json:"updated_at"`
}

// ChecklistService defines the interface for checklist instance operations
type ChecklistService interface {
	CreateFromTemplate(ctx context.Context, eventID, templateID string, periodID *string, name, createdBy string) (*model.ChecklistInstance, error)
	GetByID(ctx context.Context, id string) (*model.ChecklistInstance, error)
	GetEventSections(ctx context.Context, eventID string) ([]checklist.Section, error)
	ToggleItem(ctx context.Context, instanceID, itemID string, completed bool, actor string) (*model.ChecklistInstance, error)
	SetItemStatus(ctx context.Context, instanceID, itemID, status string) (*model.ChecklistInstance, error)
	AddItem(ctx context.Context, instanceID string, item *model.ChecklistItem) (*model.ChecklistInstance, error)
	RemoveItem(ctx context.Context, instanceID, itemID string) (*model.ChecklistInstance, error)
	UpdateItemNotes(ctx context.Context, instanceID, itemID, notes string) (*model.ChecklistInstance, error)
	Archive(ctx context.Context, id, archivedBy string) (*model.ChecklistInstance, error)
	ReconcileProgress(ctx context.Context) (int, error)
}

// checklistService implements ChecklistService
type checklistService struct {
	repo        repository.ChecklistRepository
	periodRepo  repository.PeriodRepository
	templates   repository.TemplateRepository
	cache       cache.CacheClient
	bus         messagebus.Client
	updateQueue string
	log         *logrus.Logger
}

// NewChecklistService creates a new checklist service
func NewChecklistService(
	repo repository.ChecklistRepository,
	periodRepo repository.PeriodRepository,
	templates repository.TemplateRepository,
	cacheClient cache.CacheClient,
	bus messagebus.Client,
	updateQueue string,
	log *logrus.Logger,
) ChecklistService {
	return &checklistService{
		repo:        repo,
		periodRepo:  periodRepo,
		templates:   templates,
		cache:       cacheClient,
		bus:         bus,
		updateQueue: updateQueue,
		log:         log,
	}
}

// CreateFromTemplate creates a checklist instance from a template. Items
// are copied by value at creation time, so later template edits never
// reach the instance.
func (s *checklistService) CreateFromTemplate(ctx context.Context, eventID, templateID string, periodID *string, name, createdBy string) (*model.ChecklistInstance, error) {
	startTime := time.Now()

	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.Active {
		return nil, fmt.Errorf("template %s is not active", templateID)
	}

	if name == "" {
		name = template.Name
	}

	items := make([]model.ChecklistItem, 0, len(template.Items))
	for _, templateItem := range template.Items {
		items = append(items, model.ItemFromTemplate(templateItem))
	}

	instance := &model.ChecklistInstance{
		EventID:             eventID,
		OperationalPeriodID: periodID,
		TemplateID:          &templateID,
		Name:                name,
		CreatedBy:           createdBy,
		Items:               items,
	}

	progress, err := checklist.ComputeProgress(items)
	if err != nil {
		return nil, err
	}
	checklist.Stamp(instance, progress)

	created, err := s.repo.Create(ctx, instance)
	if err != nil {
		return nil, err
	}

	collector := metrics.GetMetricsCollector()
	collector.IncrementCounter(metrics.CounterChecklistsCreated, 1)
	collector.RecordOperation(metrics.OperationTypeCreate, time.Since(startTime))

	s.notify(ctx, created)
	return created, nil
}

// GetByID gets a checklist instance by ID with its items
func (s *checklistService) GetByID(ctx context.Context, id string) (*model.ChecklistInstance, error) {
	return s.repo.GetByID(ctx, id)
}

// GetEventSections returns the grouped checklist sections for an event:
// the current period's checklists, event-wide checklists, then one
// section per previous period ordered by recency.
func (s *checklistService) GetEventSections(ctx context.Context, eventID string) ([]checklist.Section, error) {
	startTime := time.Now()

	if cached, err := s.cache.GetEventSections(ctx, eventID); err == nil && cached != nil {
		return cached, nil
	}

	checklists, err := s.repo.FindActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var currentPeriodID *string
	current, err := s.periodRepo.GetCurrentByEvent(ctx, eventID)
	switch {
	case err == nil:
		currentPeriodID = &current.UUID
	case errors.Is(err, repository.ErrNotFound):
		// No current period: every period-scoped checklist groups as previous.
	default:
		return nil, err
	}

	sections := checklist.BuildSections(checklists, currentPeriodID)

	collector := metrics.GetMetricsCollector()
	collector.IncrementCounter(metrics.CounterSectionsBuilt, 1)
	collector.RecordOperation(metrics.OperationTypeSectionBuild, time.Since(startTime))

	if err := s.cache.SetEventSections(ctx, eventID, sections); err != nil {
		s.log.WithError(err).Warn("Failed to cache event sections")
	}

	return sections, nil
}

// ToggleItem sets a checkbox item's completion state and restamps the
// checklist counters in the same transaction
func (s *checklistService) ToggleItem(ctx context.Context, instanceID, itemID string, completed bool, actor string) (*model.ChecklistInstance, error) {
	return s.mutateItem(ctx, instanceID, func(txRepo repository.ChecklistRepository) error {
		item, err := txRepo.GetItem(ctx, instanceID, itemID)
		if err != nil {
			return err
		}
		if item.ItemType != model.CheckboxItemType {
			return fmt.Errorf("item %s is not a checkbox item", itemID)
		}

		item.IsCompleted = &completed
		if completed {
			now := time.Now().UTC()
			item.CompletedBy = &actor
			item.CompletedAt = &now
		} else {
			item.CompletedBy = nil
			item.CompletedAt = nil
		}

		return txRepo.UpdateItem(ctx, item)
	})
}

// SetItemStatus sets a status item's current status. The status must be
// one of the item's own options.
func (s *checklistService) SetItemStatus(ctx context.Context, instanceID, itemID, status string) (*model.ChecklistInstance, error) {
	return s.mutateItem(ctx, instanceID, func(txRepo repository.ChecklistRepository) error {
		item, err := txRepo.GetItem(ctx, instanceID, itemID)
		if err != nil {
			return err
		}
		if item.ItemType != model.StatusItemType {
			return fmt.Errorf("item %s is not a status item", itemID)
		}

		found := false
		for _, option := range item.StatusOptions {
			if option.Label == status {
				found = true
				break
			}
		}
		if !found {
			return checklist.ErrStatusNotInOptions
		}

		item.CurrentStatus = &status
		return txRepo.UpdateItem(ctx, item)
	})
}

// AddItem adds an ad-hoc item to a checklist instance
func (s *checklistService) AddItem(ctx context.Context, instanceID string, item *model.ChecklistItem) (*model.ChecklistInstance, error) {
	return s.mutateItem(ctx, instanceID, func(txRepo repository.ChecklistRepository) error {
		item.ChecklistInstanceID = instanceID
		_, err := txRepo.CreateItem(ctx, item)
		return err
	})
}

// RemoveItem removes an item from a checklist instance
func (s *checklistService) RemoveItem(ctx context.Context, instanceID, itemID string) (*model.ChecklistInstance, error) {
	return s.mutateItem(ctx, instanceID, func(txRepo repository.ChecklistRepository) error {
		return txRepo.DeleteItem(ctx, instanceID, itemID)
	})
}

// UpdateItemNotes updates the free-form notes on an item
func (s *checklistService) UpdateItemNotes(ctx context.Context, instanceID, itemID, notes string) (*model.ChecklistInstance, error) {
	return s.mutateItem(ctx, instanceID, func(txRepo repository.ChecklistRepository) error {
		item, err := txRepo.GetItem(ctx, instanceID, itemID)
		if err != nil {
			return err
		}

		item.Notes = notes
		return txRepo.UpdateItem(ctx, item)
	})
}

// mutateItem runs an item mutation and the counter recompute in one
// transaction, then publishes the update and invalidates the section
// cache once the transaction commits.
func (s *checklistService) mutateItem(ctx context.Context, instanceID string, mutate func(txRepo repository.ChecklistRepository) error) (*model.ChecklistInstance, error) {
	startTime := time.Now()
	collector := metrics.GetMetricsCollector()

	var instance *model.ChecklistInstance
	err := s.repo.Transaction(ctx, func(txRepo repository.ChecklistRepository) error {
		current, err := txRepo.GetByID(ctx, instanceID)
		if err != nil {
			return err
		}
		if current.IsArchived {
			return fmt.Errorf("checklist %s is archived", instanceID)
		}

		if err := mutate(txRepo); err != nil {
			return err
		}

		// Reload inside the transaction so the recompute sees the mutation
		instance, err = txRepo.GetByID(ctx, instanceID)
		if err != nil {
			return err
		}

		progress, err := checklist.ComputeProgress(instance.Items)
		if err != nil {
			collector.RecordError(metrics.ErrorTypeIntegrity)
			return err
		}
		checklist.Stamp(instance, progress)

		return txRepo.UpdateCounters(ctx, instance)
	})
	if err != nil {
		collector.RecordOperation(metrics.OperationTypeFailed, time.Since(startTime))
		return nil, err
	}

	collector.IncrementCounter(metrics.CounterItemsMutated, 1)
	collector.RecordOperation(metrics.OperationTypeItemMutation, time.Since(startTime))

	s.notify(ctx, instance)
	return instance, nil
}

// Archive soft-archives a checklist instance
func (s *checklistService) Archive(ctx context.Context, id, archivedBy string) (*model.ChecklistInstance, error) {
	startTime := time.Now()

	instance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if instance.IsArchived {
		return instance, nil
	}

	now := time.Now().UTC()
	instance.IsArchived = true
	instance.ArchivedBy = &archivedBy
	instance.ArchivedAt = &now

	if err := s.repo.Archive(ctx, instance); err != nil {
		return nil, err
	}

	collector := metrics.GetMetricsCollector()
	collector.RecordOperation(metrics.OperationTypeArchive, time.Since(startTime))

	s.notify(ctx, instance)
	return instance, nil
}

// ReconcileProgress recomputes counters for every active checklist and
// repairs any that drifted from their item state. It returns the number
// of repaired checklists.
func (s *checklistService) ReconcileProgress(ctx context.Context) (int, error) {
	startTime := time.Now()

	checklists, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, instance := range checklists {
		progress, err := checklist.ComputeProgress(instance.Items)
		if err != nil {
			s.log.WithError(err).WithField("checklist_id", instance.UUID).
				Error("Skipping checklist with inconsistent item state")
			metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeIntegrity)
			continue
		}

		if progressMatches(instance, progress) {
			continue
		}

		checklist.Stamp(instance, progress)
		if err := s.repo.UpdateCounters(ctx, instance); err != nil {
			s.log.WithError(err).WithField("checklist_id", instance.UUID).
				Error("Failed to repair checklist counters")
			continue
		}

		s.log.WithFields(logrus.Fields{
			"checklist_id":    instance.UUID,
			"total_items":     progress.TotalItems,
			"completed_items": progress.CompletedItems,
		}).Info("Repaired drifted checklist counters")

		s.invalidateSections(ctx, instance.EventID)
		repaired++
	}

	collector := metrics.GetMetricsCollector()
	collector.RecordOperation(metrics.OperationTypeReconciliation, time.Since(startTime))
	collector.SetActiveChecklists(len(checklists))

	return repaired, nil
}

// progressMatches reports whether the stored counters agree with a
// freshly computed progress
func progressMatches(instance *model.ChecklistInstance, p checklist.Progress) bool {
	return instance.TotalItems == p.TotalItems &&
		instance.CompletedItems == p.CompletedItems &&
		instance.ProgressPercentage == p.ProgressPercentage &&
		instance.RequiredItems == p.RequiredItems &&
		instance.RequiredItemsCompleted == p.RequiredItemsCompleted
}

// notify publishes the checklist update and drops the cached sections
// for its event. Both are best effort: the transaction already
// committed, so failures here are logged and swallowed.
func (s *checklistService) notify(ctx context.Context, instance *model.ChecklistInstance) {
	update := ChecklistUpdate{
		ID:                     instance.UUID,
		EventID:                instance.EventID,
		Name:                   instance.Name,
		TotalItems:             instance.TotalItems,
		CompletedItems:         instance.CompletedItems,
		ProgressPercentage:     instance.ProgressPercentage,
		RequiredItems:          instance.RequiredItems,
		RequiredItemsCompleted: instance.RequiredItemsCompleted,
		IsArchived:             instance.IsArchived,
		UpdatedAt:              instance.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if s.bus != nil {
		err := messagebus.RetryWithBackoff(ctx, func() error {
			return s.bus.PublishMessage(ctx, update, s.updateQueue)
		}, 3)
		if err != nil {
			s.log.WithError(err).WithField("checklist_id", instance.UUID).
				Warn("Failed to publish checklist update")
			metrics.GetMetricsCollector().RecordError(metrics.ErrorTypeMessageBus)
		}
	}

	s.invalidateSections(ctx, instance.EventID)
}

func (s *checklistService) invalidateSections(ctx context.Context, eventID string) {
	if err := s.cache.InvalidateEventSections(ctx, eventID); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate event sections cache")
	}
}
