package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/checklist"
	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// ChecklistHandler handles checklist instance requests
type ChecklistHandler struct {
	service service.ChecklistService
	log     *logrus.Logger
}

// NewChecklistHandler creates a new ChecklistHandler instance
func NewChecklistHandler(svc service.ChecklistService, log *logrus.Logger) *ChecklistHandler {
	return &ChecklistHandler{
		service: svc,
		log:     log,
	}
}

type createChecklistRequest struct {
	TemplateID          string  `json:"template_id" binding:"required"`
	OperationalPeriodID *string `json:"operational_period_id"`
	Name                string  `json:"name"`
	CreatedBy           string  `json:"created_by"`
}

type toggleItemRequest struct {
	Completed *bool  `json:"completed" binding:"required"`
	Actor     string `json:"actor"`
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

type archiveRequest struct {
	ArchivedBy string `json:"archived_by"`
}

// CreateChecklist handles creating a checklist instance from a template
func (h *ChecklistHandler) CreateChecklist(c *gin.Context) {
	var req createChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid checklist format",
		})
		return
	}

	instance, err := h.service.CreateFromTemplate(
		c.Request.Context(),
		c.Param("id"),
		req.TemplateID,
		req.OperationalPeriodID,
		req.Name,
		req.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Template not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to create checklist")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create checklist",
		})
		return
	}

	c.JSON(http.StatusCreated, instance)
}

// GetEventChecklists handles the grouped sections payload for an event
func (h *ChecklistHandler) GetEventChecklists(c *gin.Context) {
	sections, err := h.service.GetEventSections(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("Failed to build checklist sections")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load checklists",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// GetChecklist handles checklist retrieval
func (h *ChecklistHandler) GetChecklist(c *gin.Context) {
	instance, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Checklist not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to get checklist")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get checklist",
		})
		return
	}

	c.JSON(http.StatusOK, instance)
}

// ArchiveChecklist handles soft-archiving a checklist
func (h *ChecklistHandler) ArchiveChecklist(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid archive request",
		})
		return
	}

	instance, err := h.service.Archive(c.Request.Context(), c.Param("id"), req.ArchivedBy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Checklist not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to archive checklist")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to archive checklist",
		})
		return
	}

	c.JSON(http.StatusOK, instance)
}

// AddItem handles adding an ad-hoc item to a checklist
func (h *ChecklistHandler) AddItem(c *gin.Context) {
	var item model.ChecklistItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid item format",
		})
		return
	}
	if item.ItemType != model.CheckboxItemType && item.ItemType != model.StatusItemType {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown item type",
		})
		return
	}
	if item.ItemType == model.StatusItemType && len(item.StatusOptions) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status items require at least one status option",
		})
		return
	}

	instance, err := h.service.AddItem(c.Request.Context(), c.Param("id"), &item)
	if err != nil {
		h.respondMutationError(c, err, "Failed to add item")
		return
	}

	c.JSON(http.StatusCreated, instance)
}

// ToggleItem handles setting a checkbox item's completion state
func (h *ChecklistHandler) ToggleItem(c *gin.Context) {
	var req toggleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Completed flag is required",
		})
		return
	}

	instance, err := h.service.ToggleItem(
		c.Request.Context(),
		c.Param("id"),
		c.Param("itemId"),
		*req.Completed,
		req.Actor,
	)
	if err != nil {
		h.respondMutationError(c, err, "Failed to toggle item")
		return
	}

	c.JSON(http.StatusOK, instance)
}

// SetItemStatus handles setting a status item's current status
func (h *ChecklistHandler) SetItemStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status is required",
		})
		return
	}

	instance, err := h.service.SetItemStatus(
		c.Request.Context(),
		c.Param("id"),
		c.Param("itemId"),
		req.Status,
	)
	if err != nil {
		h.respondMutationError(c, err, "Failed to set item status")
		return
	}

	c.JSON(http.StatusOK, instance)
}

// UpdateItemNotes handles updating the notes on an item
func (h *ChecklistHandler) UpdateItemNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid notes format",
		})
		return
	}

	instance, err := h.service.UpdateItemNotes(
		c.Request.Context(),
		c.Param("id"),
		c.Param("itemId"),
		req.Notes,
	)
	if err != nil {
		h.respondMutationError(c, err, "Failed to update item notes")
		return
	}

	c.JSON(http.StatusOK, instance)
}

// RemoveItem handles removing an item from a checklist
func (h *ChecklistHandler) RemoveItem(c *gin.Context) {
	instance, err := h.service.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.respondMutationError(c, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, instance)
}

// respondMutationError maps item mutation errors to responses
func (h *ChecklistHandler) respondMutationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Checklist or item not found",
		})
	case errors.Is(err, checklist.ErrStatusNotInOptions):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Status is not one of the item's options",
		})
	default:
		h.log.WithError(err).Error(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fallback,
		})
	}
}
