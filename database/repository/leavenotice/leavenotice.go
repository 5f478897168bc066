// File: database/repository/leavenotice/leavenotice.go
package leaveNoticeRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhive/database"
	"tutorhive/models"
)

// ErrDuplicateNotice is returned when a leave notice already exists for the
// same (tutor, student, lesson) triple.
var ErrDuplicateNotice = errors.New("leave notice already exists for this lesson")

// LeaveNoticeRepository persists cancellation notices. Notices are immutable
// after creation.
type LeaveNoticeRepository interface {
	Insert(ctx context.Context, notice *models.LeaveNotice) error
	Exists(ctx context.Context, tutorID, studentID, lessonID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.LeaveNotice, error)
	EnsureIndexes() error
}

type mongoLeaveNoticeRepo struct {
	coll *mongo.Collection
}

// NewMongoLeaveNoticeRepo constructs a new MongoDB LeaveNoticeRepository.
func NewMongoLeaveNoticeRepo() LeaveNoticeRepository {
	return &mongoLeaveNoticeRepo{
		coll: database.DB().Collection("leave_notices"),
	}
}

func (r *mongoLeaveNoticeRepo) Insert(ctx context.Context, notice *models.LeaveNotice) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if notice.ID == "" {
		notice.ID = uuid.New().String()
	}
	notice.CreatedAt = time.Now()

	if _, err := r.coll.InsertOne(ctx, notice); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateNotice
		}
		return fmt.Errorf("failed to insert leave notice: %w", err)
	}
	return nil
}

func (r *mongoLeaveNoticeRepo) Exists(ctx context.Context, tutorID, studentID, lessonID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"tutorId":   tutorID,
		"studentId": studentID,
		"$or": bson.A{
			bson.M{"flexibleLessonId": lessonID},
			bson.M{"fixedLessonId": lessonID},
		},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check leave notice existence: %w", err)
	}
	return count > 0, nil
}

func (r *mongoLeaveNoticeRepo) ListByUser(ctx context.Context, userID string) ([]models.LeaveNotice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"studentId": userID},
		bson.M{"tutorId": userID},
	}}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list leave notices: %w", err)
	}
	defer cursor.Close(ctx)

	var notices []models.LeaveNotice
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, fmt.Errorf("failed to decode leave notices: %w", err)
	}
	return notices, nil
}

// EnsureIndexes creates the unique compound index backing duplicate rejection.
func (r *mongoLeaveNoticeRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{
				{Key: "tutorId", Value: 1},
				{Key: "studentId", Value: 1},
				{Key: "flexibleLessonId", Value: 1},
				{Key: "fixedLessonId", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("unique_tutor_student_lesson"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create leave notice indexes: %w", err)
	}
	return nil
}
