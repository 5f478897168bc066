// File: handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorhive/services/booking"
	"tutorhive/services/cancellation"
	"tutorhive/services/schedule"
	"tutorhive/utils"
)

// respondServiceError translates a core-service error into the HTTP taxonomy:
// validation/conflict/funds/external failures are 400, missing entities 404,
// anything unrecognized 500. A TutorNotLinkedError is not an error at this
// layer: the client gets the consent URL to redirect to.
func respondServiceError(c *gin.Context, err error) {
	var notLinked *booking.TutorNotLinkedError
	if errors.As(err, &notLinked) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "TUTOR_NOT_LINKED",
			"authUrl": notLinked.AuthURL,
		})
		return
	}

	switch {
	case errors.Is(err, booking.ErrNoSlotsSelected),
		errors.Is(err, cancellation.ErrNoLessonSpecified),
		errors.Is(err, cancellation.ErrTwoLessonTypesSpecified),
		errors.Is(err, schedule.ErrNoSlots),
		errors.Is(err, schedule.ErrNotQuantum):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())

	case errors.Is(err, booking.ErrTutorNotFound),
		errors.Is(err, booking.ErrScheduleNotFound),
		errors.Is(err, cancellation.ErrLessonNotFound),
		errors.Is(err, schedule.ErrSlotNotFound),
		errors.Is(err, schedule.ErrLessonNotFound):
		utils.JSONError(c, http.StatusNotFound, "Not found", err.Error())

	case errors.Is(err, booking.ErrScheduleAlreadyExists),
		errors.Is(err, booking.ErrScheduleNotContinuous),
		errors.Is(err, booking.ErrSameScheduleConflict),
		errors.Is(err, cancellation.ErrNoticeAlreadyExists),
		errors.Is(err, schedule.ErrDuplicateSlot),
		errors.Is(err, schedule.ErrSlotOverlap),
		errors.Is(err, schedule.ErrCrossMonth):
		utils.JSONError(c, http.StatusBadRequest, "Conflict", err.Error())

	case errors.Is(err, booking.ErrInsufficientPoints):
		utils.JSONError(c, http.StatusBadRequest, "Insufficient points", err.Error())

	case errors.Is(err, booking.ErrMeetingLinkFailed):
		utils.JSONError(c, http.StatusBadRequest, "External service failed", err.Error())

	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

// requesterFromContext reads the identity set by the auth middleware.
func requesterFromContext(c *gin.Context) (userID, role string, ok bool) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		return "", "", false
	}
	roleValue, exists := c.Get("role")
	if !exists {
		return "", "", false
	}
	userID, _ = userIDValue.(string)
	role, _ = roleValue.(string)
	return userID, role, userID != "" && role != ""
}
