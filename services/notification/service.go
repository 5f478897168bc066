// File: services/notification/service.go
package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	notificationRepo "tutorhive/database/repository/notification"
	userRepo "tutorhive/database/repository/user"
	"tutorhive/models"
	"tutorhive/realtime"
	"tutorhive/utils"
)

// FanoutService persists a notification plus one recipient row per target
// user and pushes a live event to every connected recipient.
type FanoutService interface {
	Dispatch(ctx context.Context, n models.Notification, recipientUserIDs []string, room string) error
	ListForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	MarkSeen(ctx context.Context, userID, notificationID string) error
	// StaffRecipients resolves the customer-service accounts every fan-out
	// includes.
	StaffRecipients(ctx context.Context) []string
	// Room is the live-push room notifications are delivered into.
	Room() string
}

// DefaultFanoutService is the production implementation.
type DefaultFanoutService struct {
	Repo     notificationRepo.NotificationRepository
	Users    userRepo.UserRepository
	Registry *realtime.ConnectionRegistry
	FCM      *messaging.Client
	Logger   *zap.Logger
}

// Dispatch persists the fan-out and delivers at-most-once: a live push for
// connected recipients, a best-effort FCM push for the rest. No delivery
// failure propagates to the caller.
func (s *DefaultFanoutService) Dispatch(ctx context.Context, n models.Notification, recipientUserIDs []string, room string) error {
	if err := s.Repo.InsertNotification(ctx, &n); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}
	if _, err := s.Repo.InsertRecipients(ctx, n.ID, recipientUserIDs); err != nil {
		return fmt.Errorf("failed to persist recipients: %w", err)
	}

	event := models.NotificationEvent{
		Type:           "NOTIFICATION",
		NotificationID: n.ID,
		Title:          n.Title,
		TitleID:        n.TitleID,
	}

	for _, userID := range recipientUserIDs {
		if s.Registry.Send(room, userID, event) {
			continue
		}
		// Not connected: push via FCM when the user has a token. Disconnected
		// recipients without one see the notification on next poll.
		s.pushFCM(ctx, userID, n)
	}
	return nil
}

func (s *DefaultFanoutService) pushFCM(ctx context.Context, userID string, n models.Notification) {
	if s.FCM == nil {
		return
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil || user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
		},
		Data: map[string]string{
			"notificationId": n.ID,
			"titleId":        n.TitleID,
		},
	}
	if _, err := s.FCM.Send(ctx, msg); err != nil {
		s.Logger.Warn("FCM push failed",
			zap.String("userId", userID), zap.String("notificationId", n.ID), zap.Error(err))
	}
}

func (s *DefaultFanoutService) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	return s.Repo.ListForUser(ctx, userID, limit)
}

func (s *DefaultFanoutService) MarkSeen(ctx context.Context, userID, notificationID string) error {
	return s.Repo.MarkSeen(ctx, userID, notificationID)
}

// StaffRecipients returns the user ids of all customer-service accounts.
func (s *DefaultFanoutService) StaffRecipients(ctx context.Context) []string {
	staff, err := s.Users.ListByRole(ctx, models.RoleStaff)
	if err != nil {
		s.Logger.Warn("failed to resolve staff recipients", zap.Error(err))
		return nil
	}
	ids := make([]string, len(staff))
	for i, u := range staff {
		ids[i] = u.ID
	}
	return ids
}

// Room returns the live-push room notifications are delivered into.
func (s *DefaultFanoutService) Room() string {
	return utils.NotificationRoom
}
