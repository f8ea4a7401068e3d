package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dynamisinc/cobra-poc-sub007/internal/db"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
)

// TemplateRepository defines the interface for checklist template repository
type TemplateRepository interface {
	Create(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error)
	Update(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error)
	GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error)
	FindActive(ctx context.Context) ([]*model.ChecklistTemplate, error)
	CreateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error)
	UpdateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error)
	DeleteItem(ctx context.Context, templateID, itemID string) error
}

// templateRepository implements TemplateRepository
type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a new checklist template
func (r *templateRepository) Create(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// Update updates a checklist template
func (r *templateRepository) Update(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	if err := r.db.WithContext(ctx).Updates(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// GetByID gets a template by ID with its items in display order
func (r *templateRepository) GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error) {
	var template model.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		Where("uuid = ?", id).
		First(&template).Error
	if err != nil {
		if db.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindActive finds all active templates
func (r *templateRepository) FindActive(ctx context.Context) ([]*model.ChecklistTemplate, error) {
	var templates []*model.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// CreateItem creates a new template item
func (r *templateRepository) CreateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem updates a template item
func (r *templateRepository) UpdateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error) {
	if err := r.db.WithContext(ctx).Updates(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem deletes a template item scoped to its template
func (r *templateRepository) DeleteItem(ctx context.Context, templateID, itemID string) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ? AND template_id = ?", itemID, templateID).
		Delete(&model.TemplateItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
