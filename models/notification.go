package models

import "time"

// Notification titles understood by clients.
const (
	NotifyRegisterFlexibleLesson = "REGISTER_FLEXIBLE_LESSON"
	NotifyLeaveNotice            = "LEAVE_NOTICE"
	NotifyLessonReminder         = "LESSON_REMINDER"
)

// Notification is the shared payload of one event. TitleID references the
// entity that triggered it (lesson id, leave-notice id).
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	TitleID   string    `bson:"titleId" json:"titleId"`
	Owner     string    `bson:"owner" json:"owner"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// NotificationRecipient is one user's copy of a notification. IsSeen and
// IsActive are flipped later by the recipient's client.
type NotificationRecipient struct {
	ID             string    `bson:"id" json:"id"`
	UserID         string    `bson:"userId" json:"userId"`
	NotificationID string    `bson:"notificationId" json:"notificationId"`
	IsSeen         bool      `bson:"isSeen" json:"isSeen"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// ReminderPayload is the queued task body for a scheduled lesson reminder.
type ReminderPayload struct {
	LessonID   string    `json:"lessonId"`
	TutorID    string    `json:"tutorId"`
	StudentIDs []string  `json:"studentIds"`
	StartTime  time.Time `json:"startTime"`
}

// NotificationEvent is the structured payload pushed over a live connection.
type NotificationEvent struct {
	Type           string `json:"type"`
	NotificationID string `json:"notificationId"`
	Title          string `json:"title"`
	TitleID        string `json:"titleId"`
}
