// File: services/schedule/overlap_test.go
package schedule

import (
	"testing"
	"time"

	"tutorhive/models"
)

func at(h, m int) time.Time {
	return time.Date(2026, time.September, 3, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint before", at(9, 0), at(9, 30), at(10, 0), at(10, 30), false},
		{"disjoint after", at(11, 0), at(11, 30), at(10, 0), at(10, 30), false},
		{"touching endpoints", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching reversed", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"partial overlap", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"containment", at(9, 0), at(11, 0), at(9, 30), at(10, 0), true},
		{"identical", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"one minute overlap", at(9, 0), at(10, 1), at(10, 0), at(11, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Errorf("Overlaps(%v,%v,%v,%v) = %v, want %v",
					tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestOverlapsAny(t *testing.T) {
	booked := []models.BookedInterval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(14, 0), End: at(15, 0)},
	}

	if OverlapsAny(at(10, 0), at(11, 0), booked) {
		t.Error("interval touching a booked end reported as overlapping")
	}
	if !OverlapsAny(at(14, 30), at(16, 0), booked) {
		t.Error("interval crossing a booked slot reported as free")
	}
	if OverlapsAny(at(10, 0), at(11, 0), nil) {
		t.Error("empty booked list reported an overlap")
	}
}

func TestFlexibleIntervalsSkipsCancelled(t *testing.T) {
	lessons := []models.FlexibleLesson{
		{StartTime: at(9, 0), EndTime: at(10, 0), Status: models.LessonRegistered},
		{StartTime: at(10, 0), EndTime: at(11, 0), Status: models.LessonCancel},
		{StartTime: at(11, 0), EndTime: at(12, 0), Status: models.LessonFinish},
	}
	got := FlexibleIntervals(lessons)
	if len(got) != 2 {
		t.Fatalf("got %d intervals, want 2", len(got))
	}
	if !got[0].Start.Equal(at(9, 0)) || !got[1].Start.Equal(at(11, 0)) {
		t.Errorf("cancelled lesson leaked into intervals: %v", got)
	}
}

func TestDeriveStatus(t *testing.T) {
	now := at(12, 0)

	if got := deriveStatus(models.LessonRegistered, at(11, 0), now); got != models.LessonFinish {
		t.Errorf("past registered lesson = %q, want FINISH", got)
	}
	if got := deriveStatus(models.LessonRegistered, at(13, 0), now); got != models.LessonRegistered {
		t.Errorf("future registered lesson = %q, want REGISTERED", got)
	}
	if got := deriveStatus(models.LessonCancel, at(11, 0), now); got != models.LessonCancel {
		t.Errorf("cancelled lesson = %q, want CANCEL", got)
	}
}
