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

// EventHandler handles event and position requests
type EventHandler struct {
	service service.EventService
	log     *logrus.Logger
}

// NewEventHandler creates a new EventHandler instance
func NewEventHandler(svc service.EventService, log *logrus.Logger) *EventHandler {
	return &EventHandler{
		service: svc,
		log:     log,
	}
}

// CreateEvent handles event creation
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var event model.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		h.log.WithError(err).Warn("Invalid event format")
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event format",
		})
		return
	}
	if event.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Event name is required",
		})
		return
	}

	created, err := h.service.Create(c.Request.Context(), &event)
	if err != nil {
		h.log.WithError(err).Error("Failed to create event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create event",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListEvents handles listing active events
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.service.FindActive(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list events")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list events",
		})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent handles event retrieval
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to get event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get event",
		})
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEvent handles event updates
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var event model.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid event format",
		})
		return
	}
	event.UUID = c.Param("id")

	updated, err := h.service.Update(c.Request.Context(), &event)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to update event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update event",
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeactivateEvent handles soft-deactivating an event
func (h *EventHandler) DeactivateEvent(c *gin.Context) {
	event, err := h.service.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to deactivate event")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to deactivate event",
		})
		return
	}

	c.JSON(http.StatusOK, event)
}

// CreatePosition handles creating a position within an event
func (h *EventHandler) CreatePosition(c *gin.Context) {
	var position model.Position
	if err := c.ShouldBindJSON(&position); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid position format",
		})
		return
	}
	position.EventID = c.Param("id")

	created, err := h.service.CreatePosition(c.Request.Context(), &position)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Event not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to create position")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create position",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListPositions handles listing positions for an event
func (h *EventHandler) ListPositions(c *gin.Context) {
	positions, err := h.service.FindPositionsByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("Failed to list positions")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list positions",
		})
		return
	}

	c.JSON(http.StatusOK, positions)
}

// UpdatePosition handles updating a position
func (h *EventHandler) UpdatePosition(c *gin.Context) {
	var position model.Position
	if err := c.ShouldBindJSON(&position); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid position format",
		})
		return
	}
	position.UUID = c.Param("positionId")
	position.EventID = c.Param("id")

	updated, err := h.service.UpdatePosition(c.Request.Context(), &position)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Position not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to update position")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update position",
		})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePosition handles deleting a position
func (h *EventHandler) DeletePosition(c *gin.Context) {
	if err := h.service.DeletePosition(c.Request.Context(), c.Param("positionId")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Position not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to delete position")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete position",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
