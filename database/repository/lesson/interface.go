// File: database/repository/lesson/interface.go
package lessonRepo

import (
	"context"
	"time"

	"tutorhive/database"
	"tutorhive/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// LessonFilter is the typed filter value object for paginated listings.
// Empty fields are ignored.
type LessonFilter struct {
	StudentID string
	TutorID   string
	Status    string
	Page      int64
	Limit     int64
}

// LessonRepository covers flexible-lesson writes and the read-only view of
// fixed-course occurrences the core needs for conflict checks and calendars.
type LessonRepository interface {
	Insert(ctx context.Context, lesson *models.FlexibleLesson) error
	Delete(ctx context.Context, lessonID string) error
	GetByID(ctx context.Context, lessonID string) (*models.FlexibleLesson, error)
	// GetVisible scopes the lookup to the requester: students only see their
	// own bookings, tutors only lessons they teach, staff see everything.
	GetVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FlexibleLesson, error)
	SetStatus(ctx context.Context, lessonID, status string) error
	// FindActiveBySlotIDs returns any non-CANCEL flexible lesson referencing
	// one of the given slot ids, or nil when none does.
	FindActiveBySlotIDs(ctx context.Context, slotIDs []string) (*models.FlexibleLesson, error)
	ListByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FlexibleLesson, error)
	ListByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FlexibleLesson, error)
	ListPaged(ctx context.Context, filter LessonFilter) ([]models.FlexibleLesson, int64, error)

	FixedByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FixedLesson, error)
	FixedByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FixedLesson, error)
	GetFixedVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FixedLesson, error)

	EnsureIndexes() error
}

type mongoLessonRepo struct {
	flexColl  *mongo.Collection
	fixedColl *mongo.Collection
}

// NewMongoLessonRepo constructs a new MongoDB LessonRepository.
func NewMongoLessonRepo() LessonRepository {
	db := database.DB()
	return &mongoLessonRepo{
		flexColl:  db.Collection("flexible_lessons"),
		fixedColl: db.Collection("fixed_lessons"),
	}
}
