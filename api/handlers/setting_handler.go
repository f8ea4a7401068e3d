package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/repository"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// SettingHandler handles administrative setting requests
type SettingHandler struct {
	service service.SettingService
	log     *logrus.Logger
}

// NewSettingHandler creates a new SettingHandler instance
func NewSettingHandler(svc service.SettingService, log *logrus.Logger) *SettingHandler {
	return &SettingHandler{
		service: svc,
		log:     log,
	}
}

type upsertSettingRequest struct {
	Key       string `json:"key" binding:"required"`
	Value     string `json:"value"`
	UpdatedBy string `json:"updated_by"`
}

// UpsertSetting handles creating or updating a setting
func (h *SettingHandler) UpsertSetting(c *gin.Context) {
	var req upsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Setting key is required",
		})
		return
	}

	setting, err := h.service.Upsert(c.Request.Context(), req.Key, req.Value, req.UpdatedBy)
	if err != nil {
		h.log.WithError(err).Error("Failed to save setting")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save setting",
		})
		return
	}

	c.JSON(http.StatusOK, setting)
}

// ListSettings handles listing all settings
func (h *SettingHandler) ListSettings(c *gin.Context) {
	settings, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list settings")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list settings",
		})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// GetSetting handles retrieving a setting by key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.service.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Setting not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to get setting")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get setting",
		})
		return
	}

	c.JSON(http.StatusOK, setting)
}

// DeleteSetting handles deleting a setting by key
func (h *SettingHandler) DeleteSetting(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Setting not found",
			})
			return
		}
		h.log.WithError(err).Error("Failed to delete setting")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete setting",
		})
		return
	}

	c.Status(http.StatusNoContent)
}
