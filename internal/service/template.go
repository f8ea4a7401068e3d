package service

import (
	"context"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
)

// TemplateService defines the interface for checklist template operations
type TemplateService interface {
	Create(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error)
	Update(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error)
	GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error)
	FindActive(ctx context.Context) ([]*model.ChecklistTemplate, error)
	Deactivate(ctx context.Context, id string) (*model.ChecklistTemplate, error)
	AddItem(ctx context.Context, templateID string, item *model.TemplateItem) (*model.TemplateItem, error)
	UpdateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error)
	RemoveItem(ctx context.Context, templateID, itemID string) error
}

// templateService implements TemplateService
type templateService struct {
	repo repository.TemplateRepository
}

// NewTemplateService creates a new template service
func NewTemplateService(repo repository.TemplateRepository) TemplateService {
	return &templateService{repo: repo}
}

// Create creates a new template
func (s *templateService) Create(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	template.Active = true
	return s.repo.Create(ctx, template)
}

// Update updates a template
func (s *templateService) Update(ctx context.Context, template *model.ChecklistTemplate) (*model.ChecklistTemplate, error) {
	return s.repo.Update(ctx, template)
}

// GetByID gets a template by ID with its items ordered for display
func (s *templateService) GetByID(ctx context.Context, id string) (*model.ChecklistTemplate, error) {
	return s.repo.GetByID(ctx, id)
}

// FindActive finds all active templates
func (s *templateService) FindActive(ctx context.Context) ([]*model.ChecklistTemplate, error) {
	return s.repo.FindActive(ctx)
}

// Deactivate soft-deactivates a template so it cannot seed new
// checklists. Existing instances keep their copied items.
func (s *templateService) Deactivate(ctx context.Context, id string) (*model.ChecklistTemplate, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template.Active = false
	return s.repo.Update(ctx, template)
}

// AddItem adds an item to a template
func (s *templateService) AddItem(ctx context.Context, templateID string, item *model.TemplateItem) (*model.TemplateItem, error) {
	if _, err := s.repo.GetByID(ctx, templateID); err != nil {
		return nil, err
	}

	item.TemplateID = templateID
	return s.repo.CreateItem(ctx, item)
}

// UpdateItem updates a template item
func (s *templateService) UpdateItem(ctx context.Context, item *model.TemplateItem) (*model.TemplateItem, error) {
	return s.repo.UpdateItem(ctx, item)
}

// RemoveItem removes an item from a template
func (s *templateService) RemoveItem(ctx context.Context, templateID, itemID string) error {
	return s.repo.DeleteItem(ctx, templateID, itemID)
}
