// File: services/booking/errors.go
package booking

import "errors"

var (
	// ErrNoSlotsSelected is returned when the request names no slots.
	ErrNoSlotsSelected = errors.New("no slots selected")
	// ErrTutorNotFound is returned when the tutor does not exist.
	ErrTutorNotFound = errors.New("tutor not found")
	// ErrScheduleNotFound is returned when a requested slot is missing,
	// consumed, or belongs to another tutor.
	ErrScheduleNotFound = errors.New("availability slot not found")
	// ErrScheduleAlreadyExists is returned when another booking already
	// references one of the requested slots.
	ErrScheduleAlreadyExists = errors.New("slot already booked")
	// ErrScheduleNotContinuous is returned when the selected slots are not
	// strictly contiguous 15-minute quanta.
	ErrScheduleNotContinuous = errors.New("selected slots are not contiguous")
	// ErrSameScheduleConflict is returned when the booking envelope overlaps
	// the student's own calendar.
	ErrSameScheduleConflict = errors.New("booking conflicts with the student's schedule")
	// ErrInsufficientPoints is returned when the wallet balance cannot cover
	// the lesson price.
	ErrInsufficientPoints = errors.New("insufficient wallet points")
	// ErrMeetingLinkFailed is returned when the calendar collaborator could
	// not produce a meeting link. No state has been mutated at that point.
	ErrMeetingLinkFailed = errors.New("meeting link creation failed")
)

// TutorNotLinkedError signals that the tutor holds no calendar credential.
// The HTTP layer treats this as a redirect-to-consent outcome, not a failure.
type TutorNotLinkedError struct {
	AuthURL string
}

func (e *TutorNotLinkedError) Error() string {
	return "tutor has not linked a calendar account"
}
