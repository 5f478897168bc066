package models

import "time"

// Flexible-lesson lifecycle states. CANCEL, MISS and FINISH are terminal.
const (
	LessonOpen       = "OPEN"
	LessonRegistered = "REGISTERED"
	LessonInProgress = "INPROGRESS"
	LessonCancel     = "CANCEL"
	LessonMiss       = "MISS"
	LessonFinish     = "FINISH"
)

// FlexibleLesson is a one-off session booked from contiguous availability
// slots of a single tutor. StartTime/EndTime are the envelope of its slots.
type FlexibleLesson struct {
	ID          string    `bson:"id" json:"id"`
	TutorID     string    `bson:"tutorId" json:"tutorId"`
	StudentID   string    `bson:"studentId,omitempty" json:"studentId,omitempty"`
	SlotIDs     []string  `bson:"slotIds" json:"slotIds"`
	Status      string    `bson:"status" json:"status"`
	Price       float64   `bson:"price" json:"price"`
	StartTime   time.Time `bson:"startTime" json:"startTime"`
	EndTime     time.Time `bson:"endTime" json:"endTime"`
	MeetingLink string    `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	Info        string    `bson:"info,omitempty" json:"info,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FixedLesson is a single occurrence of a recurring course session. The core
// reads these for conflict checks and calendar views only.
type FixedLesson struct {
	ID         string    `bson:"id" json:"id"`
	CourseID   string    `bson:"courseId" json:"courseId"`
	TutorID    string    `bson:"tutorId" json:"tutorId"`
	StudentIDs []string  `bson:"studentIds" json:"studentIds"`
	StartTime  time.Time `bson:"startTime" json:"startTime"`
	EndTime    time.Time `bson:"endTime" json:"endTime"`
	Status     string    `bson:"status" json:"status"`
	Price      float64   `bson:"price,omitempty" json:"price,omitempty"`
}
