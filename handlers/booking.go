// File: handlers/booking.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	lessonRepo "tutorhive/database/repository/lesson"
	"tutorhive/models"
	"tutorhive/services/booking"
	"tutorhive/utils"
)

// BookingHandler serves the flexible-lesson endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBookingHandler handles POST /api/flexible-lessons (role: student).
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	studentID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req struct {
		TutorID string   `json:"tutorId" binding:"required"`
		SlotIDs []string `json:"slotIds" binding:"required"`
		Info    string   `json:"info"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	result, err := h.Service.CreateBooking(c.Request.Context(), booking.CreateBookingRequest{
		StudentID: studentID,
		TutorID:   req.TutorID,
		SlotIDs:   req.SlotIDs,
		Info:      req.Info,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListLessonsHandler handles GET /api/flexible-lessons. Visibility follows
// the caller's role: students and tutors see their own lessons, staff can
// filter freely.
func (h *BookingHandler) ListLessonsHandler(c *gin.Context) {
	userID, role, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	filter := lessonRepo.LessonFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}
	switch role {
	case models.RoleStudent:
		filter.StudentID = userID
	case models.RoleTutor:
		filter.TutorID = userID
	default:
		filter.StudentID = c.Query("studentId")
		filter.TutorID = c.Query("tutorId")
	}

	lessons, total, err := h.Service.ListLessons(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lessons": lessons,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}
