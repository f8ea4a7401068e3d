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

// PeriodHandler handles operational period requests
type PeriodHandler struct {
	service service.PeriodService
	log     *logrus.Logger
}

// NewPeriodHandler creates a new PeriodHandler instance
func NewPeriodHandler(svc service.PeriodService, log *logrus.Logger) *PeriodHandler {
	return &PeriodHandler{
		service: svc,
		log:     log,
	}
}

// CreatePeriod handles creating a period and promoting it to current
func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
	var period model.OperationalPeriod
	if err := c.ShouldBindJSON(&period); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid period format",
		})
		return
	}
	period.EventID = c.Param("id")
	if period.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Period name is required",
		})
		return
	}

	created, err := h.service.Promote(c.Request.Context(), &period)
	if err != nil {
		h.log.WithError(err).Error("Failed to create period")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create period",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListPeriods handles listing all periods for an event
func (h *PeriodHandler) ListPeriods(c *gin.Context) {
	periods, err := h.service.FindByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("Failed to list periods")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list periods",
		})
		return
	}

	c.JSON(http.StatusOK, periods)
}

// GetCurrentPeriod handles retrieving the current period of an event
func (h *PeriodHandler) GetCurrentPeriod(c *gin.Context) {
	period, err := h.service.GetCurrent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No current period",
			})
			return
		}
		h.log.WithError(err).Error("Failed to get current period")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get current period",
		})
		return
	}

	c.JSON(http.StatusOK, period)
}

// ClosePeriod handles closing a period
func (h *PeriodHandler) ClosePeriod(c *gin.Context) {
	period, err := h.service.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Period not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to close period")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to close period",
		})
		return
	}

	c.JSON(http.StatusOK, period)
}

// DeletePeriod handles deleting a period. Checklists referencing it are
// detached, not deleted.
func (h *PeriodHandler) DeletePeriod(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Period not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to delete period")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete period",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
