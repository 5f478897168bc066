// File: database/repository/notification/notification.go
package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhive/database"
	"tutorhive/models"
)

// NotificationRepository persists notifications and their per-recipient rows.
type NotificationRepository interface {
	InsertNotification(ctx context.Context, n *models.Notification) error
	InsertRecipients(ctx context.Context, notificationID string, userIDs []string) ([]models.NotificationRecipient, error)
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkSeen(ctx context.Context, userID, notificationID string) error
	EnsureIndexes() error
}

type mongoNotificationRepo struct {
	notifColl *mongo.Collection
	recipColl *mongo.Collection
}

// NewMongoNotificationRepo constructs a new MongoDB NotificationRepository.
func NewMongoNotificationRepo() NotificationRepository {
	db := database.DB()
	return &mongoNotificationRepo{
		notifColl: db.Collection("notifications"),
		recipColl: db.Collection("notification_recipients"),
	}
}

func (r *mongoNotificationRepo) InsertNotification(ctx context.Context, n *models.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()

	if _, err := r.notifColl.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *mongoNotificationRepo) InsertRecipients(ctx context.Context, notificationID string, userIDs []string) ([]models.NotificationRecipient, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	recipients := make([]models.NotificationRecipient, len(userIDs))
	docs := make([]interface{}, len(userIDs))
	for i, userID := range userIDs {
		recipients[i] = models.NotificationRecipient{
			ID:             uuid.New().String(),
			UserID:         userID,
			NotificationID: notificationID,
			IsSeen:         false,
			IsActive:       false,
			CreatedAt:      now,
		}
		docs[i] = recipients[i]
	}

	if _, err := r.recipColl.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert notification recipients: %w", err)
	}
	return recipients, nil
}

func (r *mongoNotificationRepo) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit < 1 {
		limit = 50
	}

	cursor, err := r.recipColl.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notification recipients: %w", err)
	}
	defer cursor.Close(ctx)

	var recipients []models.NotificationRecipient
	if err := cursor.All(ctx, &recipients); err != nil {
		return nil, fmt.Errorf("failed to decode recipients: %w", err)
	}
	if len(recipients) == 0 {
		return []models.Notification{}, nil
	}

	ids := make([]string, len(recipients))
	for i, rec := range recipients {
		ids[i] = rec.NotificationID
	}

	nCursor, err := r.notifColl.Find(ctx,
		bson.M{"id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer nCursor.Close(ctx)

	var notifications []models.Notification
	if err := nCursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *mongoNotificationRepo) MarkSeen(ctx context.Context, userID, notificationID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "notificationId": notificationID}
	update := bson.M{"$set": bson.M{"isSeen": true, "isActive": true}}
	res, err := r.recipColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// EnsureIndexes creates indexes on both notification collections.
func (r *mongoNotificationRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.notifColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}); err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	if _, err := r.recipColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_created_idx"),
	}); err != nil {
		return fmt.Errorf("failed to create recipient indexes: %w", err)
	}
	return nil
}
