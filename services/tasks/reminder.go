// File: services/tasks/reminder.go
package tasks

import (
	"encoding/json"
	"time"

	"tutorhive/config"
	"tutorhive/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeLessonRemind = "lesson:remind"

// reminderLead is how long before the lesson start the reminder fires.
const reminderLead = 30 * time.Minute

// NewLessonReminderTask builds the delayed reminder task for a booked lesson.
func NewLessonReminderTask(payload models.ReminderPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeLessonRemind, b)
	opts := []asynq.Option{asynq.ProcessAt(payload.StartTime.Add(-reminderLead))}
	return task, opts, nil
}

// ReminderQueue enqueues lesson reminders onto the Redis-backed task queue.
type ReminderQueue struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewReminderQueue(logger *zap.Logger) *ReminderQueue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &ReminderQueue{client: client, logger: logger}
}

// ScheduleLessonReminder queues a reminder to fire shortly before the lesson
// starts. Lessons already inside the lead window get no reminder.
func (q *ReminderQueue) ScheduleLessonReminder(payload models.ReminderPayload) error {
	if time.Until(payload.StartTime) <= reminderLead {
		return nil
	}
	task, opts, err := NewLessonReminderTask(payload)
	if err != nil {
		return err
	}
	info, err := q.client.Enqueue(task, opts...)
	if err != nil {
		return err
	}
	q.logger.Debug("lesson reminder queued",
		zap.String("lessonId", payload.LessonID),
		zap.String("taskId", info.ID),
		zap.Time("startTime", payload.StartTime))
	return nil
}

func (q *ReminderQueue) Close() error {
	return q.client.Close()
}
