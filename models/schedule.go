package models

import "time"

// Schedule entry kinds.
const (
	KindFlexible = "flexible"
	KindFixed    = "fixed"
)

// ScheduleEntry is one row of a merged calendar view: a flexible booking or a
// fixed-course occurrence, tagged with its kind.
type ScheduleEntry struct {
	Kind        string    `json:"kind"`
	LessonID    string    `json:"lessonId"`
	TutorID     string    `json:"tutorId"`
	StudentID   string    `json:"studentId,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Status      string    `json:"status"`
	MeetingLink string    `json:"meetingLink,omitempty"`
}

// BookedInterval is the normalized view every lesson kind reduces to for
// overlap checks.
type BookedInterval struct {
	Start time.Time
	End   time.Time
}

// MeetingEvent is the calendar-collaborator input for creating a meeting link.
type MeetingEvent struct {
	StartTime   time.Time
	EndTime     time.Time
	Description string
}
