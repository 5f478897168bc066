// File: services/schedule/errors.go
package schedule

import "errors"

var (
	// ErrNoSlots is returned when a declaration batch is empty.
	ErrNoSlots = errors.New("no slots in declaration batch")
	// ErrNotQuantum is returned when a candidate slot is not exactly one
	// 15-minute quantum.
	ErrNotQuantum = errors.New("slot duration must be exactly 15 minutes")
	// ErrCrossMonth is returned when a batch spans more than one calendar month.
	ErrCrossMonth = errors.New("slot batch spans more than one calendar month")
	// ErrDuplicateSlot is returned when a candidate duplicates an existing
	// slot for the tutor or another candidate in the same batch.
	ErrDuplicateSlot = errors.New("slot duplicates an existing declaration")
	// ErrSlotOverlap is returned when a candidate overlaps an existing booked
	// interval for the tutor.
	ErrSlotOverlap = errors.New("slot overlaps a booked interval")
	// ErrSlotNotFound is returned when removing a slot that does not exist or
	// is already consumed.
	ErrSlotNotFound = errors.New("availability slot not found or already consumed")
	// ErrLessonNotFound is returned by detail lookups outside the requester's
	// visibility.
	ErrLessonNotFound = errors.New("lesson not found")
)
