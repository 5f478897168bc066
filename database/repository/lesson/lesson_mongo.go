// File: database/repository/lesson/lesson_mongo.go
package lessonRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tutorhive/models"
)

func (r *mongoLessonRepo) Insert(ctx context.Context, lesson *models.FlexibleLesson) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if lesson.ID == "" {
		lesson.ID = uuid.New().String()
	}
	now := time.Now()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	if _, err := r.flexColl.InsertOne(ctx, lesson); err != nil {
		return fmt.Errorf("failed to insert flexible lesson: %w", err)
	}
	return nil
}

func (r *mongoLessonRepo) Delete(ctx context.Context, lessonID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.flexColl.DeleteOne(ctx, bson.M{"id": lessonID}); err != nil {
		return fmt.Errorf("failed to delete flexible lesson %s: %w", lessonID, err)
	}
	return nil
}

func (r *mongoLessonRepo) GetByID(ctx context.Context, lessonID string) (*models.FlexibleLesson, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lesson models.FlexibleLesson
	if err := r.flexColl.FindOne(ctx, bson.M{"id": lessonID}).Decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *mongoLessonRepo) GetVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FlexibleLesson, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": lessonID}
	switch role {
	case models.RoleStudent:
		filter["studentId"] = requesterID
	case models.RoleTutor:
		filter["tutorId"] = requesterID
	}

	var lesson models.FlexibleLesson
	if err := r.flexColl.FindOne(ctx, filter).Decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *mongoLessonRepo) SetStatus(ctx context.Context, lessonID, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.flexColl.UpdateOne(ctx, bson.M{"id": lessonID}, update)
	if err != nil {
		return fmt.Errorf("failed to update lesson %s status: %w", lessonID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoLessonRepo) FindActiveBySlotIDs(ctx context.Context, slotIDs []string) (*models.FlexibleLesson, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"slotIds": bson.M{"$in": slotIDs},
		"status":  bson.M{"$ne": models.LessonCancel},
	}
	var lesson models.FlexibleLesson
	err := r.flexColl.FindOne(ctx, filter).Decode(&lesson)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons by slot ids: %w", err)
	}
	return &lesson, nil
}

func (r *mongoLessonRepo) ListByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FlexibleLesson, error) {
	return r.listInRange(ctx, bson.M{"studentId": studentID}, from, to)
}

func (r *mongoLessonRepo) ListByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FlexibleLesson, error) {
	return r.listInRange(ctx, bson.M{"tutorId": tutorID}, from, to)
}

func (r *mongoLessonRepo) listInRange(ctx context.Context, base bson.M, from, to time.Time) ([]models.FlexibleLesson, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	base["status"] = bson.M{"$ne": models.LessonCancel}
	base["startTime"] = bson.M{"$lt": to}
	base["endTime"] = bson.M{"$gt": from}

	cursor, err := r.flexColl.Find(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to query flexible lessons: %w", err)
	}
	defer cursor.Close(ctx)

	var lessons []models.FlexibleLesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode flexible lessons: %w", err)
	}
	return lessons, nil
}
