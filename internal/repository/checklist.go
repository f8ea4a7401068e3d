package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// ChecklistRepository defines the interface for checklist instance repository
type ChecklistRepository interface {
	Create(ctx context.Context, instance *model.ChecklistInstance) (*model.ChecklistInstance, error)
	GetByID(ctx context.Context, id string) (*model.ChecklistInstance, error)
	FindActiveByEvent(ctx context.Context, eventID string) ([]*model.ChecklistInstance, error)
	FindAllActive(ctx context.Context) ([]*model.ChecklistInstance, error)
	UpdateCounters(ctx context.Context, instance *model.ChecklistInstance) error
	Archive(ctx context.Context, instance *model.ChecklistInstance) error
	GetItem(ctx context.Context, instanceID, itemID string) (*model.ChecklistItem, error)
	CreateItem(ctx context.Context, item *model.ChecklistItem) (*model.ChecklistItem, error)
	UpdateItem(ctx context.Context, item *model.ChecklistItem) error
	DeleteItem(ctx context.Context, instanceID, itemID string) error
	Transaction(ctx context.Context, fn func(txRepo ChecklistRepository) error) error
}

// checklistRepository implements ChecklistRepository
type checklistRepository struct {
	db *gorm.DB
}

// NewChecklistRepository creates a new checklist repository
func NewChecklistRepository(db *gorm.DB) ChecklistRepository {
	return &checklistRepository{db: db}
}

// itemOrder applies the presentation ordering for items: display order
// ascending, creation time breaking ties so the sort stays stable.
func itemOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("display_order ASC, created_at ASC")
}

// Create creates a new checklist instance with its items
func (r *checklistRepository) Create(ctx context.Context, instance *model.ChecklistInstance) (*model.ChecklistInstance, error) {
	if err := r.db.WithContext(ctx).Create(instance).Error; err != nil {
		return nil, err
	}
	return instance, nil
}

// GetByID gets a checklist instance by ID with items and period preloaded
func (r *checklistRepository) GetByID(ctx context.Context, id string) (*model.ChecklistInstance, error) {
	var instance model.ChecklistInstance
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Preload("OperationalPeriod").
		Where("uuid = ?", id).
		First(&instance).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &instance, nil
}

// FindActiveByEvent finds all non-archived checklists for an event with
// items eagerly populated, ready for progress and grouping computation.
func (r *checklistRepository) FindActiveByEvent(ctx context.Context, eventID string) ([]*model.ChecklistInstance, error) {
	var instances []*model.ChecklistInstance
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Preload("OperationalPeriod").
		Where("event_id = ? AND is_archived = ?", eventID, false).
		Order("created_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// FindAllActive finds all non-archived checklists across events, used by
// the reconciliation job.
func (r *checklistRepository) FindAllActive(ctx context.Context) ([]*model.ChecklistInstance, error) {
	var instances []*model.ChecklistInstance
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("is_archived = ?", false).
		Order("created_at ASC").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// UpdateCounters persists the cached progress counters onto an instance
func (r *checklistRepository) UpdateCounters(ctx context.Context, instance *model.ChecklistInstance) error {
	return r.db.WithContext(ctx).
		Model(&model.ChecklistInstance{}).
		Where("uuid = ?", instance.UUID).
		Updates(map[string]interface{}{
			"total_items":              instance.TotalItems,
			"completed_items":          instance.CompletedItems,
			"progress_percentage":      instance.ProgressPercentage,
			"required_items":           instance.RequiredItems,
			"required_items_completed": instance.RequiredItemsCompleted,
		}).Error
}

// Archive soft-deletes a checklist instance
func (r *checklistRepository) Archive(ctx context.Context, instance *model.ChecklistInstance) error {
	return r.db.WithContext(ctx).
		Model(&model.ChecklistInstance{}).
		Where("uuid = ?", instance.UUID).
		Updates(map[string]interface{}{
			"is_archived": true,
			"archived_by": instance.ArchivedBy,
			"archived_at": instance.ArchivedAt,
		}).Error
}

// GetItem gets a single item scoped to its owning instance
func (r *checklistRepository) GetItem(ctx context.Context, instanceID, itemID string) (*model.ChecklistItem, error) {
	var item model.ChecklistItem
	err := r.db.WithContext(ctx).
		Where("uuid = ? AND checklist_instance_id = ?", itemID, instanceID).
		First(&item).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem creates a new item on an instance
func (r *checklistRepository) CreateItem(ctx context.Context, item *model.ChecklistItem) (*model.ChecklistItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem persists an item's mutable fields
func (r *checklistRepository) UpdateItem(ctx context.Context, item *model.ChecklistItem) error {
	return r.db.WithContext(ctx).
		Model(&model.ChecklistItem{}).
		Where("uuid = ?", item.UUID).
		Updates(map[string]interface{}{
			"notes":          item.Notes,
			"is_completed":   item.IsCompleted,
			"completed_by":   item.CompletedBy,
			"completed_at":   item.CompletedAt,
			"current_status": item.CurrentStatus,
			"display_order":  item.DisplayOrder,
		}).Error
}

// DeleteItem deletes an item scoped to its owning instance
func (r *checklistRepository) DeleteItem(ctx context.Context, instanceID, itemID string) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ? AND checklist_instance_id = ?", itemID, instanceID).
		Delete(&model.ChecklistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Transaction runs fn against a repository bound to a single transaction.
// Item mutation and counter recompute share one transaction so concurrent
// recomputations never interleave their counter writes.
func (r *checklistRepository) Transaction(ctx context.Context, fn func(txRepo ChecklistRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&checklistRepository{db: tx})
	})
}
