// File: handlers/notification.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"tutorhive/services/notification"
	"tutorhive/utils"
)

// NotificationHandler serves the recipient-facing notification endpoints.
type NotificationHandler struct {
	Service notification.FanoutService
	Logger  *zap.Logger
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(svc notification.FanoutService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{Service: svc, Logger: logger}
}

// ListNotificationsHandler handles GET /api/notifications.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	notifications, err := h.Service.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkSeenHandler handles PATCH /api/notifications/:id/seen.
func (h *NotificationHandler) MarkSeenHandler(c *gin.Context) {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notificationID := c.Param("id")
	err := h.Service.MarkSeen(c.Request.Context(), userID, notificationID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(c, http.StatusNotFound, "Not found", "notification not found")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"seen": notificationID})
}
