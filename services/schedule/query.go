// File: services/schedule/query.go
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"tutorhive/models"
)

// Schedule merges flexible bookings and fixed-course occurrences into one
// ordered calendar view. Read-only; identical calls return identical output.
func (s *DefaultScheduleService) Schedule(ctx context.Context, personID, role string, from, to time.Time) ([]models.ScheduleEntry, error) {
	var (
		flex  []models.FlexibleLesson
		fixed []models.FixedLesson
		err   error
	)

	switch role {
	case models.RoleTutor:
		flex, err = s.Lessons.ListByTutorInRange(ctx, personID, from, to)
		if err == nil {
			fixed, err = s.Lessons.FixedByTutorInRange(ctx, personID, from, to)
		}
	default:
		flex, err = s.Lessons.ListByStudentInRange(ctx, personID, from, to)
		if err == nil {
			fixed, err = s.Lessons.FixedByStudentInRange(ctx, personID, from, to)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	now := time.Now()
	entries := make([]models.ScheduleEntry, 0, len(flex)+len(fixed))
	for _, l := range flex {
		if l.Status == models.LessonCancel {
			continue
		}
		entries = append(entries, models.ScheduleEntry{
			Kind:        models.KindFlexible,
			LessonID:    l.ID,
			TutorID:     l.TutorID,
			StudentID:   l.StudentID,
			StartTime:   l.StartTime,
			EndTime:     l.EndTime,
			Status:      deriveStatus(l.Status, l.EndTime, now),
			MeetingLink: l.MeetingLink,
		})
	}
	for _, l := range fixed {
		if l.Status == models.LessonCancel {
			continue
		}
		entries = append(entries, models.ScheduleEntry{
			Kind:      models.KindFixed,
			LessonID:  l.ID,
			TutorID:   l.TutorID,
			StartTime: l.StartTime,
			EndTime:   l.EndTime,
			Status:    l.Status,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
	return entries, nil
}

// Detail resolves one flexible lesson within the requester's visibility.
func (s *DefaultScheduleService) Detail(ctx context.Context, lessonID, role, requesterID string) (*models.FlexibleLesson, error) {
	lesson, err := s.Lessons.GetVisible(ctx, lessonID, role, requesterID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson: %w", err)
	}
	lesson.Status = deriveStatus(lesson.Status, lesson.EndTime, time.Now())
	return lesson, nil
}

// deriveStatus surfaces REGISTERED lessons whose end time has passed as
// FINISH. The transition is derived at query time, never persisted.
func deriveStatus(status string, end, now time.Time) string {
	if status == models.LessonRegistered && end.Before(now) {
		return models.LessonFinish
	}
	return status
}
