package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dynamisinc/cobra-poc-sub007/internal/model"
	"github.com/dynamisinc/cobra-poc-sub007/internal/service"
)

// ChatHandler handles chat message requests
type ChatHandler struct {
	service service.ChatService
	log     *logrus.Logger
}

// NewChatHandler creates a new ChatHandler instance
func NewChatHandler(svc service.ChatService, log *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		log:     log,
	}
}

// PostMessage handles posting a message from the web client
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var message model.ChatMessage
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid message format",
		})
		return
	}
	message.EventID = c.Param("id")
	if message.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Message body is required",
		})
		return
	}

	created, err := h.service.PostMessage(c.Request.Context(), &message)
	if err != nil {
		h.log.WithError(err).Error("Failed to post message")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to post message",
		})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListMessages handles listing recent messages for an event
func (h *ChatHandler) ListMessages(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	messages, err := h.service.ListMessages(c.Request.Context(), c.Param("id"), c.Query("channel"), limit)
	if err != nil {
		h.log.WithError(err).Error("Failed to list messages")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list messages",
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SearchMessages handles full-text search over an event's messages
func (h *ChatHandler) SearchMessages(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Search query is required",
		})
		return
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	results, err := h.service.SearchMessages(c.Request.Context(), c.Param("id"), query, limit)
	if err != nil {
		h.log.WithError(err).Error("Failed to search messages")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to search messages",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
