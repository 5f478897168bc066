package models

import "time"

// Leave-notice types, derived from the requester's role.
const (
	LeaveStudentCancel = "STUDENT_CANCEL"
	LeaveTutorCancel   = "TUTOR_CANCEL"
)

// LeaveNotice records a cancellation against one lesson. Exactly one of
// FlexibleLessonID/FixedLessonID is set. Immutable after creation; at most one
// notice may exist per (tutor, student, lesson) triple.
type LeaveNotice struct {
	ID               string    `bson:"id" json:"id"`
	FlexibleLessonID string    `bson:"flexibleLessonId,omitempty" json:"flexibleLessonId,omitempty"`
	FixedLessonID    string    `bson:"fixedLessonId,omitempty" json:"fixedLessonId,omitempty"`
	StudentID        string    `bson:"studentId" json:"studentId"`
	TutorID          string    `bson:"tutorId" json:"tutorId"`
	Type             string    `bson:"type" json:"type"`
	Reason           string    `bson:"reason,omitempty" json:"reason,omitempty"`
	IsValid          bool      `bson:"isValid" json:"isValid"`
	IsRefund         bool      `bson:"isRefund" json:"isRefund"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}
