// File: handlers/calendar.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	userRepo "tutorhive/database/repository/user"
	"tutorhive/services/meeting"
	"tutorhive/utils"
)

// CalendarHandler drives the tutor calendar-linking OAuth flow.
type CalendarHandler struct {
	Meetings meeting.MeetingService
	Users    userRepo.UserRepository
	Logger   *zap.Logger
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(meetings meeting.MeetingService, users userRepo.UserRepository, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Meetings: meetings, Users: users, Logger: logger}
}

// AuthURLHandler handles GET /api/calendar/auth-url (role: tutor). The state
// parameter carries the tutor id so the callback can attach the credential.
func (h *CalendarHandler) AuthURLHandler(c *gin.Context) {
	tutorID, _, ok := requesterFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": h.Meetings.GenerateAuthURL(tutorID)})
}

// CallbackHandler handles GET /api/calendar/callback: exchanges the consent
// code and stores the credential on the tutor record.
func (h *CalendarHandler) CallbackHandler(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", "missing code or state")
		return
	}

	token, err := h.Meetings.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		h.Logger.Error("calendar code exchange failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "External service failed", err.Error())
		return
	}

	if err := h.Users.UpdateCalendarCredential(c.Request.Context(), state, token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"linked": true})
}
