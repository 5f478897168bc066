// File: services/cancellation/errors.go
package cancellation

import "errors"

var (
	// ErrNoLessonSpecified is returned when neither lesson id is present.
	ErrNoLessonSpecified = errors.New("no lesson specified")
	// ErrTwoLessonTypesSpecified is returned when both lesson ids are present.
	ErrTwoLessonTypesSpecified = errors.New("both flexible and fixed lesson specified")
	// ErrLessonNotFound is returned when the lesson is absent, outside the
	// requester's visibility, or already started.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrNoticeAlreadyExists is returned when a leave notice for the same
	// (tutor, student, lesson) triple already exists.
	ErrNoticeAlreadyExists = errors.New("leave notice already exists")
)
