// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"tutorhive/database"
	"tutorhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotTaken is returned by MarkConsumed when the slot was consumed by a
// competing booking between the availability check and the claim.
var ErrSlotTaken = errors.New("availability slot already consumed")

// SlotRepository is the storage contract for tutor availability slots.
type SlotRepository interface {
	CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error)
	GetByIDForTutor(ctx context.Context, tutorID, slotID string) (*models.AvailabilitySlot, error)
	GetByTutorInRange(ctx context.Context, tutorID string, from, to time.Time, onlyUnconsumed bool) ([]models.AvailabilitySlot, error)
	GetByIDs(ctx context.Context, slotIDs []string) ([]models.AvailabilitySlot, error)
	// MarkConsumed conditionally claims a single unconsumed slot. It returns
	// ErrSlotTaken when the slot exists but is already consumed, so callers
	// can roll back slots claimed earlier in the same batch.
	MarkConsumed(ctx context.Context, slotID string) error
	// Release returns a slot to the unconsumed pool.
	Release(ctx context.Context, slotID string) error
	// DeleteUnconsumed removes a tutor's slot only while no booking holds it.
	DeleteUnconsumed(ctx context.Context, tutorID, slotID string) error
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{
		coll: database.DB().Collection("availability_slots"),
	}
}
