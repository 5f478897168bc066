// File: handlers/schedule.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutorhive/models"
	"tutorhive/services/schedule"
	"tutorhive/utils"
)

// ScheduleHandler serves availability management and calendar reads.
type ScheduleHandler struct {
	Service schedule.ScheduleService
	Logger  *zap.Logger
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(svc schedule.ScheduleService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Logger: logger}
}

// DeclareAvailabilityHandler handles POST /api/schedules/tutor-available-schedule.
func (h *ScheduleHandler) DeclareAvailabilityHandler(c *gin.Context) {
	tutorID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		Slots []models.SlotInput `json:"slots" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	slots, err := h.Service.Declare(c.Request.Context(), tutorID, req.Slots)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

// RemoveAvailabilityHandler handles DELETE /api/schedules/tutor-available-schedule.
// Only unconsumed slots can be removed.
func (h *ScheduleHandler) RemoveAvailabilityHandler(c *gin.Context) {
	tutorID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	slotID := c.Query("slotId")
	if slotID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "missing slotId")
		return
	}

	if err := h.Service.Remove(c.Request.Context(), tutorID, slotID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": slotID})
}

// AvailabilityHandler handles GET /api/schedules/tutor-available-schedule:
// the unconsumed slots of one tutor in a date range. Open to any
// authenticated caller so students can browse before booking.
func (h *ScheduleHandler) AvailabilityHandler(c *gin.Context) {
	tutorID := c.Query("tutorId")
	if tutorID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "missing tutorId")
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	slots, svcErr := h.Service.Availability(c.Request.Context(), tutorID, from, to)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// GetScheduleHandler handles GET /api/schedules: the caller's merged
// flexible+fixed calendar, ordered by start time.
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	from, to, err := parseRange(c)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	entries, svcErr := h.Service.Schedule(c.Request.Context(), userID, role, from, to)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schedule": entries})
}

// DetailScheduleHandler handles GET /api/schedules/detail-schedule.
func (h *ScheduleHandler) DetailScheduleHandler(c *gin.Context) {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	lessonID := c.Query("lessonId")
	if lessonID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "missing lessonId")
		return
	}

	lesson, err := h.Service.Detail(c.Request.Context(), lessonID, role, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lesson": lesson})
}

// parseRange reads from/to query params (RFC 3339), defaulting to the coming
// month.
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from, to := now, now.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}
	return from, to, nil
}
