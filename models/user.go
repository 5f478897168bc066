package models

import (
	"time"

	"golang.org/x/oauth2"
)

// User roles.
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleStaff   = "staff"
)

// User represents any account on the platform. Tutors carry an hourly rate
// and, once linked, a stored calendar credential used to create meeting links.
type User struct {
	ID           string `bson:"id" json:"id"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"passwordHash" json:"-"`
	Name         string `bson:"name" json:"name"`
	Role         string `bson:"role" json:"role"`
	TimeZone     string `bson:"timeZone,omitempty" json:"timeZone,omitempty"`

	// Tutor-only fields.
	HourlyRate         float64       `bson:"hourlyRate,omitempty" json:"hourlyRate,omitempty"`
	CalendarCredential *oauth2.Token `bson:"calendarCredential,omitempty" json:"-"`

	FCMToken  string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasCalendarCredential reports whether the tutor has completed the calendar
// OAuth flow.
func (u *User) HasCalendarCredential() bool {
	return u.CalendarCredential != nil && u.CalendarCredential.RefreshToken != ""
}
