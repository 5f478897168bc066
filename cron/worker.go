// File: cron/worker.go
package cron

import (
	"context"
	"encoding/json"
	"time"

	"tutorhive/config"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/models"
	"tutorhive/services/notification"
	"tutorhive/services/tasks"
	"tutorhive/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker starts the background consumer for queued lesson
// reminders. Each task fans out a LESSON_REMINDER notification to the tutor
// and every enrolled student.
func InitReminderWorker(fanout notification.FanoutService) {
	logger := utils.GetLogger().Named("reminder-worker")

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLessonRemind, handleReminderTask(fanout, logger))

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("reminder worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Fatal("reminder worker gave up after max attempts")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

func handleReminderTask(fanout notification.FanoutService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		n := models.Notification{
			ID:        uuid.NewString(),
			Title:     models.NotifyLessonReminder,
			TitleID:   p.LessonID,
			Owner:     p.TutorID,
			CreatedAt: time.Now(),
		}
		recipients := append([]string{p.TutorID}, p.StudentIDs...)

		if err := fanout.Dispatch(ctx, n, recipients, fanout.Room()); err != nil {
			logger.Error("reminder fan-out failed",
				zap.String("lessonId", p.LessonID), zap.Error(err))
			return err
		}
		logger.Info("lesson reminder delivered",
			zap.String("lessonId", p.LessonID),
			zap.Int("recipients", len(recipients)))
		return nil
	}
}

// InitWalletSweep runs a daily pass zeroing wallet balances whose expiration
// date has passed.
func InitWalletSweep(wallets walletRepo.WalletRepository) {
	logger := utils.GetLogger().Named("wallet-sweep")

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		sweep := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			cleared, err := wallets.ClearExpired(ctx, time.Now())
			if err != nil {
				logger.Error("wallet sweep failed", zap.Error(err))
				return
			}
			if cleared > 0 {
				logger.Info("expired wallet balances cleared", zap.Int64("count", cleared))
			}
		}

		sweep()
		for range ticker.C {
			sweep()
		}
	}()
}
