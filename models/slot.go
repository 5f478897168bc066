package models

import "time"

// SlotQuantum is the fixed duration of a single availability slot. Pricing and
// contiguity checks both assume this granularity.
const SlotQuantum = 15 * time.Minute

// AvailabilitySlot is one 15-minute unit of tutor-declared free time. The
// consumed flag flips to true when a booking claims the slot and back to false
// when the booking is cancelled.
type AvailabilitySlot struct {
	ID        string    `bson:"id" json:"id"`
	TutorID   string    `bson:"tutorId" json:"tutorId"`
	StartTime time.Time `bson:"startTime" json:"startTime"`
	EndTime   time.Time `bson:"endTime" json:"endTime"`
	TimeZone  string    `bson:"timeZone" json:"timeZone"`
	Consumed  bool      `bson:"consumed" json:"consumed"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SlotInput is a candidate slot in a declaration request.
type SlotInput struct {
	StartTime time.Time `json:"startTime" binding:"required"`
	EndTime   time.Time `json:"endTime" binding:"required"`
	TimeZone  string    `json:"timeZone" binding:"required"`
}
