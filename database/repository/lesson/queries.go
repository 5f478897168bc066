// File: database/repository/lesson/queries.go
package lessonRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhive/models"
)

func (r *mongoLessonRepo) ListPaged(ctx context.Context, filter LessonFilter) ([]models.FlexibleLesson, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.StudentID != "" {
		query["studentId"] = filter.StudentID
	}
	if filter.TutorID != "" {
		query["tutorId"] = filter.TutorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	total, err := r.flexColl.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count flexible lessons: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "startTime", Value: 1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.flexColl.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flexible lessons: %w", err)
	}
	defer cursor.Close(ctx)

	var lessons []models.FlexibleLesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, 0, fmt.Errorf("failed to decode flexible lessons: %w", err)
	}
	return lessons, total, nil
}

func (r *mongoLessonRepo) FixedByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FixedLesson, error) {
	return r.fixedInRange(ctx, bson.M{"studentIds": studentID}, from, to)
}

func (r *mongoLessonRepo) FixedByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FixedLesson, error) {
	return r.fixedInRange(ctx, bson.M{"tutorId": tutorID}, from, to)
}

func (r *mongoLessonRepo) fixedInRange(ctx context.Context, base bson.M, from, to time.Time) ([]models.FixedLesson, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	base["status"] = bson.M{"$ne": models.LessonCancel}
	base["startTime"] = bson.M{"$lt": to}
	base["endTime"] = bson.M{"$gt": from}

	cursor, err := r.fixedColl.Find(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixed lessons: %w", err)
	}
	defer cursor.Close(ctx)

	var lessons []models.FixedLesson
	if err := cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode fixed lessons: %w", err)
	}
	return lessons, nil
}

func (r *mongoLessonRepo) GetFixedVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FixedLesson, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": lessonID}
	switch role {
	case models.RoleStudent:
		filter["studentIds"] = requesterID
	case models.RoleTutor:
		filter["tutorId"] = requesterID
	}

	var lesson models.FixedLesson
	if err := r.fixedColl.FindOne(ctx, filter).Decode(&lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

// EnsureIndexes creates indexes on both lesson collections.
func (r *mongoLessonRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	flexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "slotIds", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("slot_status_idx"),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("student_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "tutorId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("tutor_start_idx"),
		},
	}
	if _, err := r.flexColl.Indexes().CreateMany(ctx, flexModels); err != nil {
		return fmt.Errorf("failed to create flexible lesson indexes: %w", err)
	}

	fixedModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "tutorId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("tutor_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "studentIds", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("student_start_idx"),
		},
	}
	if _, err := r.fixedColl.Indexes().CreateMany(ctx, fixedModels); err != nil {
		return fmt.Errorf("failed to create fixed lesson indexes: %w", err)
	}
	return nil
}
