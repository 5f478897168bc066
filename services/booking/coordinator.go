// File: services/booking/coordinator.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	slotRepo "tutorhive/database/repository/slot"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/models"
	"tutorhive/services/schedule"
)

// CreateBooking admits a flexible-lesson booking: resolve and validate the
// requested slots, check conflicts, price the lesson, create the meeting
// link, then commit lesson + wallet debit + slot consumption. The slot claim
// is the serialization point: each slot is claimed with a conditional update,
// and a lost race rolls back everything committed so far.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingResult, error) {
	if len(req.SlotIDs) == 0 {
		return nil, ErrNoSlotsSelected
	}

	tutor, err := s.Users.GetTutor(ctx, req.TutorID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTutorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tutor: %w", err)
	}

	slots, err := s.resolveSlots(ctx, req.TutorID, req.SlotIDs)
	if err != nil {
		return nil, err
	}

	if err := s.checkSlotReferences(ctx, req.SlotIDs); err != nil {
		return nil, err
	}

	if !tutor.HasCalendarCredential() {
		return nil, &TutorNotLinkedError{
			AuthURL: s.Meetings.GenerateAuthURL(req.TutorID),
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	for i := 1; i < len(slots); i++ {
		if slots[i].StartTime.Sub(slots[i-1].StartTime) != models.SlotQuantum {
			return nil, ErrScheduleNotContinuous
		}
	}

	envStart := slots[0].StartTime
	envEnd := slots[len(slots)-1].EndTime

	if err := s.checkStudentConflict(ctx, req.StudentID, envStart, envEnd); err != nil {
		return nil, err
	}

	price := LessonPrice(tutor.HourlyRate, len(slots))

	link, err := s.Meetings.CreateMeeting(ctx, models.MeetingEvent{
		StartTime:   envStart,
		EndTime:     envEnd,
		Description: req.Info,
	}, tutor.CalendarCredential)
	if err != nil || link == "" {
		s.Logger.Warn("meeting link creation failed",
			zap.String("tutorId", req.TutorID), zap.Error(err))
		return nil, ErrMeetingLinkFailed
	}

	wallet, err := s.Wallets.GetByStudentID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if wallet.Points < price {
		return nil, ErrInsufficientPoints
	}

	lesson := &models.FlexibleLesson{
		TutorID:     req.TutorID,
		StudentID:   req.StudentID,
		SlotIDs:     req.SlotIDs,
		Status:      models.LessonRegistered,
		Price:       price,
		StartTime:   envStart,
		EndTime:     envEnd,
		MeetingLink: link,
		Info:        req.Info,
	}
	if err := s.commit(ctx, lesson, price); err != nil {
		return nil, err
	}

	s.Logger.Info("flexible lesson booked",
		zap.String("lessonId", lesson.ID),
		zap.String("studentId", req.StudentID),
		zap.String("tutorId", req.TutorID),
		zap.Float64("price", price))

	s.notifyBooked(lesson, tutor.ID)

	return &BookingResult{
		LessonID:    lesson.ID,
		Status:      lesson.Status,
		Price:       price,
		MeetingLink: link,
	}, nil
}

// resolveSlots loads every requested slot concurrently, scoped to the tutor
// and requiring it to still be unconsumed.
func (s *DefaultBookingService) resolveSlots(ctx context.Context, tutorID string, slotIDs []string) ([]models.AvailabilitySlot, error) {
	group, gctx := errgroup.WithContext(ctx)
	slots := make([]models.AvailabilitySlot, len(slotIDs))

	for i, slotID := range slotIDs {
		group.Go(func() error {
			slot, err := s.Slots.GetByIDForTutor(gctx, tutorID, slotID)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrScheduleNotFound
			}
			if err != nil {
				return fmt.Errorf("failed to resolve slot %s: %w", slotID, err)
			}
			if slot.Consumed {
				return ErrScheduleNotFound
			}
			slots[i] = *slot
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

// checkSlotReferences rejects the booking when any non-cancelled flexible
// lesson already references one of the requested slots.
func (s *DefaultBookingService) checkSlotReferences(ctx context.Context, slotIDs []string) error {
	existing, err := s.Lessons.FindActiveBySlotIDs(ctx, slotIDs)
	if err != nil {
		return fmt.Errorf("failed to check slot references: %w", err)
	}
	if existing != nil {
		return ErrScheduleAlreadyExists
	}
	return nil
}

// checkStudentConflict runs the student-vs-student overlap check against the
// student's calendar for the booking day.
func (s *DefaultBookingService) checkStudentConflict(ctx context.Context, studentID string, start, end time.Time) error {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	booked, err := s.Calendar.StudentBookedIntervals(ctx, studentID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("failed to load student calendar: %w", err)
	}
	if schedule.OverlapsAny(start, end, booked) {
		return ErrSameScheduleConflict
	}
	return nil
}

// commit performs the multi-record write sequence: create the lesson, debit
// the wallet conditionally, then claim each slot with a conditional update.
// Partial failure rolls back everything already written.
func (s *DefaultBookingService) commit(ctx context.Context, lesson *models.FlexibleLesson, price float64) error {
	if err := s.Lessons.Insert(ctx, lesson); err != nil {
		return fmt.Errorf("failed to persist lesson: %w", err)
	}

	if err := s.Wallets.Debit(ctx, lesson.StudentID, price); err != nil {
		if delErr := s.Lessons.Delete(ctx, lesson.ID); delErr != nil {
			s.Logger.Error("rollback failed: orphan lesson",
				zap.String("lessonId", lesson.ID), zap.Error(delErr))
		}
		if errors.Is(err, walletRepo.ErrInsufficientPoints) {
			return ErrInsufficientPoints
		}
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	var claimed []string
	for _, slotID := range lesson.SlotIDs {
		if err := s.Slots.MarkConsumed(ctx, slotID); err != nil {
			s.rollback(ctx, lesson, claimed, price)
			if errors.Is(err, slotRepo.ErrSlotTaken) {
				return ErrScheduleAlreadyExists
			}
			return fmt.Errorf("failed to consume slot %s: %w", slotID, err)
		}
		claimed = append(claimed, slotID)
	}
	return nil
}

// rollback compensates a partially committed booking: release claimed slots,
// refund the debit, delete the lesson row.
func (s *DefaultBookingService) rollback(ctx context.Context, lesson *models.FlexibleLesson, claimed []string, price float64) {
	for _, slotID := range claimed {
		if err := s.Slots.Release(ctx, slotID); err != nil {
			s.Logger.Error("rollback failed: slot still consumed",
				zap.String("slotId", slotID), zap.Error(err))
		}
	}
	if err := s.Wallets.Credit(ctx, lesson.StudentID, price, 0); err != nil {
		s.Logger.Error("rollback failed: wallet not refunded",
			zap.String("studentId", lesson.StudentID), zap.Error(err))
	}
	if err := s.Lessons.Delete(ctx, lesson.ID); err != nil {
		s.Logger.Error("rollback failed: orphan lesson",
			zap.String("lessonId", lesson.ID), zap.Error(err))
	}
}

// notifyBooked fans out the registration notification to customer service and
// the assigned tutor. Runs detached from the request; delivery failures only
// log.
func (s *DefaultBookingService) notifyBooked(lesson *models.FlexibleLesson, tutorUserID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		recipients := append(s.Notifier.StaffRecipients(ctx), tutorUserID)
		n := models.Notification{
			Title:   models.NotifyRegisterFlexibleLesson,
			TitleID: lesson.ID,
			Owner:   lesson.StudentID,
		}
		if err := s.Notifier.Dispatch(ctx, n, recipients, s.Notifier.Room()); err != nil {
			s.Logger.Warn("booking notification fan-out failed",
				zap.String("lessonId", lesson.ID), zap.Error(err))
		}

		if s.Reminders == nil {
			return
		}
		err := s.Reminders.ScheduleLessonReminder(models.ReminderPayload{
			LessonID:   lesson.ID,
			TutorID:    tutorUserID,
			StudentIDs: []string{lesson.StudentID},
			StartTime:  lesson.StartTime,
		})
		if err != nil {
			s.Logger.Warn("lesson reminder enqueue failed",
				zap.String("lessonId", lesson.ID), zap.Error(err))
		}
	}()
}
