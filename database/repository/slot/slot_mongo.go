// File: database/repository/slot/slot_mongo.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhive/models"
)

func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.Consumed = false
		slot.CreatedAt = now
		docs[i] = slot
		ids[i] = slot.ID
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, fmt.Errorf("failed to insert availability slots: %w", err)
	}
	return ids, nil
}

func (r *mongoSlotRepo) GetByIDForTutor(ctx context.Context, tutorID, slotID string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "tutorId": tutorID}
	var slot models.AvailabilitySlot
	if err := r.coll.FindOne(ctx, filter).Decode(&slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *mongoSlotRepo) GetByTutorInRange(ctx context.Context, tutorID string, from, to time.Time, onlyUnconsumed bool) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Intersection with [from,to): a slot straddling either boundary still
	// counts, so overlap screening sees it.
	filter := bson.M{
		"tutorId":   tutorID,
		"startTime": bson.M{"$lt": to},
		"endTime":   bson.M{"$gt": from},
	}
	if onlyUnconsumed {
		filter["consumed"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query slots for tutor %s: %w", tutorID, err)
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

func (r *mongoSlotRepo) GetByIDs(ctx context.Context, slotIDs []string) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": slotIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to query slots by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode slots: %w", err)
	}
	return slots, nil
}

// MarkConsumed claims the slot with a single conditional update: the filter
// requires consumed=false, so two competing bookings can never both match.
func (r *mongoSlotRepo) MarkConsumed(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "consumed": false}
	update := bson.M{"$set": bson.M{"consumed": true}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark slot %s consumed: %w", slotID, err)
	}
	if res.MatchedCount == 0 {
		return ErrSlotTaken
	}
	return nil
}

func (r *mongoSlotRepo) Release(ctx context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"consumed": false}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": slotID}, update); err != nil {
		return fmt.Errorf("failed to release slot %s: %w", slotID, err)
	}
	return nil
}

func (r *mongoSlotRepo) DeleteUnconsumed(ctx context.Context, tutorID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "tutorId": tutorID, "consumed": false}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", slotID, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
