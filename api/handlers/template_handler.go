package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// TemplateHandler handles checklist template requests
type TemplateHandler struct {
	service service.TemplateService
	log     *logrus.Logger
}

// NewTemplateHandler creates a new TemplateHandler instance
func NewTemplateHandler(svc service.TemplateService, log *logrus.Logger) *TemplateHandler {
	return &TemplateHandler{
		service: svc,
		log:     log,
	}
}

// validateItem checks the variant-specific fields of a template item
func validateItem(item *model.TemplateItem) string {
	switch item.ItemType {
	case model.CheckboxItemType:
		if len(item.StatusOptions) > 0 {
			return "Checkbox items cannot carry status options"
		}
	case model.StatusItemType:
		if len(item.StatusOptions) == 0 {
			return "Status items require at least one status option"
		}
	default:
		return "Unknown item type"
	}
	return ""
}

// CreateTemplate handles template creation
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var template model.ChecklistTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid template format",
		})
		return
	}
	if template.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Template name is required",
		})
		return
	}
	for i := range template.Items {
		if msg := validateItem(&template.Items[i]); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
	}

	created, err := h.service.Create(c.Request.Context(), &template)
	if err != nil {
		h.log.WithError(err).Error("Failed to create template")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create template",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListTemplates handles listing active templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.service.FindActive(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list templates")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list templates",
		})
		return
	}

	c.JSON(http.StatusOK, templates)
}

// GetTemplate handles template retrieval
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to get template")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get template",
		})
		return
	}

	c.JSON(http.StatusOK, template)
}

// UpdateTemplate handles template updates
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var template model.ChecklistTemplate
	if err := c.ShouldBindJSON(&template); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid template format",
		})
		return
	}
	template.UUID = c.Param("id")

	updated, err := h.service.Update(c.Request.Context(), &template)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to update template")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update template",
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeactivateTemplate handles soft-deactivating a template
func (h *TemplateHandler) DeactivateTemplate(c *gin.Context) {
	template, err := h.service.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to deactivate template")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to deactivate template",
		})
		return
	}

	c.JSON(http.StatusOK, template)
}

// AddTemplateItem handles adding an item to a template
func (h *TemplateHandler) AddTemplateItem(c *gin.Context) {
	var item model.TemplateItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item format",
		})
		return
	}
	if msg := validateItem(&item); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	created, err := h.service.AddItem(c.Request.Context(), c.Param("id"), &item)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to add template item")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add template item",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateTemplateItem handles updating a template item
func (h *TemplateHandler) UpdateTemplateItem(c *gin.Context) {
	var item model.TemplateItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item format",
		})
		return
	}
	item.UUID = c.Param("itemId")
	item.TemplateID = c.Param("id")

	updated, err := h.service.UpdateItem(c.Request.Context(), &item)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template item not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to update template item")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update template item",
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTemplateItem handles removing an item from a template
func (h *TemplateHandler) DeleteTemplateItem(c *gin.Context) {
	if err := h.service.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template item not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to delete template item")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete template item",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
