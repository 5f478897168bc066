// File: services/schedule/overlap.go
package schedule

import (
	"time"

	"tutorhive/models"
)

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// OverlapsAny reports whether [start,end) intersects any booked interval.
func OverlapsAny(start, end time.Time, booked []models.BookedInterval) bool {
	for _, iv := range booked {
		if Overlaps(start, end, iv.Start, iv.End) {
			return true
		}
	}
	return false
}

// FlexibleIntervals reduces flexible lessons to booked intervals.
func FlexibleIntervals(lessons []models.FlexibleLesson) []models.BookedInterval {
	intervals := make([]models.BookedInterval, 0, len(lessons))
	for _, l := range lessons {
		if l.Status == models.LessonCancel {
			continue
		}
		intervals = append(intervals, models.BookedInterval{Start: l.StartTime, End: l.EndTime})
	}
	return intervals
}

// FixedIntervals reduces fixed-course occurrences to booked intervals.
func FixedIntervals(lessons []models.FixedLesson) []models.BookedInterval {
	intervals := make([]models.BookedInterval, 0, len(lessons))
	for _, l := range lessons {
		if l.Status == models.LessonCancel {
			continue
		}
		intervals = append(intervals, models.BookedInterval{Start: l.StartTime, End: l.EndTime})
	}
	return intervals
}
