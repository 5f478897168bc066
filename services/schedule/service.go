// File: services/schedule/service.go
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	lessonRepo "tutorhive/database/repository/lesson"
	slotRepo "tutorhive/database/repository/slot"
	"tutorhive/models"
)

// ScheduleService covers tutor availability management and calendar reads.
type ScheduleService interface {
	// Declare validates and persists a batch of candidate availability slots.
	// The whole batch is rejected if any candidate fails validation.
	Declare(ctx context.Context, tutorID string, candidates []models.SlotInput) ([]models.AvailabilitySlot, error)
	// Remove deletes one of the tutor's unconsumed slots.
	Remove(ctx context.Context, tutorID, slotID string) error
	// Availability returns the tutor's unconsumed slots intersecting the range.
	Availability(ctx context.Context, tutorID string, from, to time.Time) ([]models.AvailabilitySlot, error)
	// Schedule returns the person's merged flexible+fixed calendar, ordered
	// by start time ascending, CANCEL excluded.
	Schedule(ctx context.Context, personID, role string, from, to time.Time) ([]models.ScheduleEntry, error)
	// Detail resolves a single flexible lesson within the requester's visibility.
	Detail(ctx context.Context, lessonID, role, requesterID string) (*models.FlexibleLesson, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Slots   slotRepo.SlotRepository
	Lessons lessonRepo.LessonRepository
	Logger  *zap.Logger
}

func (s *DefaultScheduleService) Declare(ctx context.Context, tutorID string, candidates []models.SlotInput) ([]models.AvailabilitySlot, error) {
	if len(candidates) == 0 {
		return nil, ErrNoSlots
	}

	// Every candidate must be one exact quantum, and the batch must stay
	// inside a single calendar month.
	firstYear, firstMonth, _ := candidates[0].StartTime.Date()
	for _, cand := range candidates {
		if cand.EndTime.Sub(cand.StartTime) != models.SlotQuantum {
			return nil, ErrNotQuantum
		}
		year, month, _ := cand.StartTime.Date()
		if year != firstYear || month != firstMonth {
			return nil, ErrCrossMonth
		}
	}

	// Duplicates and overlaps within the batch itself. Candidates are all one
	// quantum long, so sorted adjacent pairs cover every overlapping pair.
	ordered := make([]models.SlotInput, len(candidates))
	copy(ordered, candidates)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})
	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		if cur.StartTime.Equal(prev.StartTime) {
			return nil, ErrDuplicateSlot
		}
		if Overlaps(prev.StartTime, prev.EndTime, cur.StartTime, cur.EndTime) {
			return nil, ErrSlotOverlap
		}
	}

	batchStart, batchEnd := candidates[0].StartTime, candidates[0].EndTime
	for _, cand := range candidates[1:] {
		if cand.StartTime.Before(batchStart) {
			batchStart = cand.StartTime
		}
		if cand.EndTime.After(batchEnd) {
			batchEnd = cand.EndTime
		}
	}

	existing, err := s.Slots.GetByTutorInRange(ctx, tutorID, batchStart, batchEnd, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing slots: %w", err)
	}

	booked, err := s.tutorBookedIntervals(ctx, tutorID, batchStart, batchEnd)
	if err != nil {
		return nil, err
	}

	for _, cand := range candidates {
		for _, ex := range existing {
			if cand.StartTime.Equal(ex.StartTime) && cand.EndTime.Equal(ex.EndTime) && cand.TimeZone == ex.TimeZone {
				return nil, ErrDuplicateSlot
			}
			if Overlaps(cand.StartTime, cand.EndTime, ex.StartTime, ex.EndTime) {
				return nil, ErrSlotOverlap
			}
		}
		if OverlapsAny(cand.StartTime, cand.EndTime, booked) {
			return nil, ErrSlotOverlap
		}
	}

	slots := make([]models.AvailabilitySlot, len(candidates))
	for i, cand := range candidates {
		slots[i] = models.AvailabilitySlot{
			TutorID:   tutorID,
			StartTime: cand.StartTime,
			EndTime:   cand.EndTime,
			TimeZone:  cand.TimeZone,
		}
	}

	ids, err := s.Slots.CreateMany(ctx, slots)
	if err != nil {
		return nil, fmt.Errorf("failed to persist slots: %w", err)
	}
	for i := range slots {
		slots[i].ID = ids[i]
	}

	s.Logger.Info("availability declared",
		zap.String("tutorId", tutorID), zap.Int("slots", len(slots)))
	return slots, nil
}

func (s *DefaultScheduleService) Remove(ctx context.Context, tutorID, slotID string) error {
	err := s.Slots.DeleteUnconsumed(ctx, tutorID, slotID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrSlotNotFound
	}
	return err
}

func (s *DefaultScheduleService) Availability(ctx context.Context, tutorID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	return s.Slots.GetByTutorInRange(ctx, tutorID, from, to, true)
}

// tutorBookedIntervals merges the tutor's fixed-course sessions and
// non-cancelled flexible lessons into the normalized interval view.
func (s *DefaultScheduleService) tutorBookedIntervals(ctx context.Context, tutorID string, from, to time.Time) ([]models.BookedInterval, error) {
	flex, err := s.Lessons.ListByTutorInRange(ctx, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load tutor flexible lessons: %w", err)
	}
	fixed, err := s.Lessons.FixedByTutorInRange(ctx, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load tutor fixed lessons: %w", err)
	}
	return append(FlexibleIntervals(flex), FixedIntervals(fixed)...), nil
}

// StudentBookedIntervals merges a student's calendar into the normalized
// interval view. Used by the booking conflict check.
func (s *DefaultScheduleService) StudentBookedIntervals(ctx context.Context, studentID string, from, to time.Time) ([]models.BookedInterval, error) {
	flex, err := s.Lessons.ListByStudentInRange(ctx, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load student flexible lessons: %w", err)
	}
	fixed, err := s.Lessons.FixedByStudentInRange(ctx, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load student fixed lessons: %w", err)
	}
	return append(FlexibleIntervals(flex), FixedIntervals(fixed)...), nil
}
