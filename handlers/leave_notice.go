// File: handlers/leave_notice.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutorhive/services/cancellation"
	"tutorhive/utils"
)

// LeaveNoticeHandler serves cancellation endpoints.
type LeaveNoticeHandler struct {
	Service cancellation.CancellationService
	Logger  *zap.Logger
}

// NewLeaveNoticeHandler constructs a LeaveNoticeHandler.
func NewLeaveNoticeHandler(svc cancellation.CancellationService, logger *zap.Logger) *LeaveNoticeHandler {
	return &LeaveNoticeHandler{Service: svc, Logger: logger}
}

// CreateLeaveNoticeHandler handles POST /api/leave-notices (roles: student, tutor).
func (h *LeaveNoticeHandler) CreateLeaveNoticeHandler(c *gin.Context) {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		FlexibleLessonID string `json:"flexibleLessonId"`
		FixedLessonID    string `json:"fixedLessonId"`
		Reason           string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	notice, err := h.Service.CreateLeaveNotice(c.Request.Context(), cancellation.CreateLeaveNoticeRequest{
		RequesterRole:    role,
		RequesterID:      userID,
		FlexibleLessonID: req.FlexibleLessonID,
		FixedLessonID:    req.FixedLessonID,
		Reason:           req.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"leaveNotice": notice})
}

// ListLeaveNoticesHandler handles GET /api/leave-notices for the caller.
func (h *LeaveNoticeHandler) ListLeaveNoticesHandler(c *gin.Context) {
	userID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	notices, err := h.Service.ListLeaveNotices(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaveNotices": notices})
}
