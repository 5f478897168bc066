// File: services/booking/interface.go
package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	lessonRepo "tutorhive/database/repository/lesson"
	slotRepo "tutorhive/database/repository/slot"
	userRepo "tutorhive/database/repository/user"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/models"
	"tutorhive/services/meeting"
	"tutorhive/services/notification"
)

// CalendarSource supplies the student's booked intervals for the
// same-schedule conflict check.
type CalendarSource interface {
	StudentBookedIntervals(ctx context.Context, studentID string, from, to time.Time) ([]models.BookedInterval, error)
}

// ReminderScheduler queues the pre-lesson reminder for a booked lesson.
type ReminderScheduler interface {
	ScheduleLessonReminder(payload models.ReminderPayload) error
}

// CreateBookingRequest is the typed request object for a booking attempt.
type CreateBookingRequest struct {
	StudentID string
	TutorID   string
	SlotIDs   []string
	Info      string
}

// BookingResult is what a successful booking returns to the caller.
type BookingResult struct {
	LessonID    string  `json:"lessonId"`
	Status      string  `json:"status"`
	Price       float64 `json:"price"`
	MeetingLink string  `json:"meetingLink"`
}

// BookingService orchestrates slot validation, conflict detection, pricing,
// meeting-link creation, wallet debit and persistence of a flexible lesson.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error)
	ListLessons(ctx context.Context, filter lessonRepo.LessonFilter) ([]models.FlexibleLesson, int64, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Slots    slotRepo.SlotRepository
	Lessons  lessonRepo.LessonRepository
	Wallets  walletRepo.WalletRepository
	Users    userRepo.UserRepository
	Calendar CalendarSource
	Meetings meeting.MeetingService
	Notifier notification.FanoutService
	// Reminders is optional; a nil scheduler skips pre-lesson reminders.
	Reminders ReminderScheduler
	Logger    *zap.Logger
}

func (s *DefaultBookingService) ListLessons(ctx context.Context, filter lessonRepo.LessonFilter) ([]models.FlexibleLesson, int64, error) {
	return s.Lessons.ListPaged(ctx, filter)
}
