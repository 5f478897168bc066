// File: services/cancellation/service.go
package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	leaveNoticeRepo "tutorhive/database/repository/leavenotice"
	lessonRepo "tutorhive/database/repository/lesson"
	slotRepo "tutorhive/database/repository/slot"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/models"
	"tutorhive/services/notification"
)

// refundNoticeWindow is the minimum notice a student must give for a refund.
// Tutor-initiated cancellations always refund regardless of notice.
const refundNoticeWindow = 24 * time.Hour

// CreateLeaveNoticeRequest is the typed request object for a cancellation.
type CreateLeaveNoticeRequest struct {
	RequesterRole    string
	RequesterID      string
	FlexibleLessonID string
	FixedLessonID    string
	Reason           string
}

// CancellationService orchestrates leave-notice creation, refund-policy
// evaluation, wallet credit and slot release.
type CancellationService interface {
	CreateLeaveNotice(ctx context.Context, req CreateLeaveNoticeRequest) (*models.LeaveNotice, error)
	ListLeaveNotices(ctx context.Context, userID string) ([]models.LeaveNotice, error)
}

// DefaultCancellationService is the production implementation.
type DefaultCancellationService struct {
	Lessons  lessonRepo.LessonRepository
	Slots    slotRepo.SlotRepository
	Wallets  walletRepo.WalletRepository
	Notices  leaveNoticeRepo.LeaveNoticeRepository
	Notifier notification.FanoutService
	Logger   *zap.Logger
}

func (s *DefaultCancellationService) CreateLeaveNotice(ctx context.Context, req CreateLeaveNoticeRequest) (*models.LeaveNotice, error) {
	if req.FlexibleLessonID == "" && req.FixedLessonID == "" {
		return nil, ErrNoLessonSpecified
	}
	if req.FlexibleLessonID != "" && req.FixedLessonID != "" {
		return nil, ErrTwoLessonTypesSpecified
	}

	var (
		flexLesson *models.FlexibleLesson
		lessonID   string
		tutorID    string
		studentID  string
		// refundStudents receives the credit when isRefund; for a
		// tutor-cancelled fixed occurrence that is every enrolled seat.
		refundStudents []string
		startTime      time.Time
		price          float64
	)

	if req.FlexibleLessonID != "" {
		lesson, err := s.Lessons.GetVisible(ctx, req.FlexibleLessonID, req.RequesterRole, req.RequesterID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLessonNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load flexible lesson: %w", err)
		}
		if lesson.Status == models.LessonCancel {
			return nil, ErrLessonNotFound
		}
		flexLesson = lesson
		lessonID = lesson.ID
		tutorID = lesson.TutorID
		studentID = lesson.StudentID
		refundStudents = []string{lesson.StudentID}
		startTime = lesson.StartTime
		price = lesson.Price
	} else {
		lesson, err := s.Lessons.GetFixedVisible(ctx, req.FixedLessonID, req.RequesterRole, req.RequesterID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrLessonNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load fixed lesson: %w", err)
		}
		lessonID = lesson.ID
		tutorID = lesson.TutorID
		// A fixed occurrence carries multiple students: a student requester
		// cancels their own seat, a tutor cancels every enrolled seat.
		if req.RequesterRole == models.RoleStudent {
			studentID = req.RequesterID
			refundStudents = []string{req.RequesterID}
		} else {
			refundStudents = lesson.StudentIDs
		}
		startTime = lesson.StartTime
		price = lesson.Price
	}

	if !startTime.After(time.Now()) {
		return nil, ErrLessonNotFound
	}

	isRefund := s.refundDecision(req.RequesterRole, startTime)

	exists, err := s.Notices.Exists(ctx, tutorID, studentID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing notices: %w", err)
	}
	if exists {
		return nil, ErrNoticeAlreadyExists
	}

	noticeType := models.LeaveStudentCancel
	if req.RequesterRole == models.RoleTutor {
		noticeType = models.LeaveTutorCancel
	}

	notice := &models.LeaveNotice{
		FlexibleLessonID: req.FlexibleLessonID,
		FixedLessonID:    req.FixedLessonID,
		StudentID:        studentID,
		TutorID:          tutorID,
		Type:             noticeType,
		Reason:           req.Reason,
		IsValid:          true,
		IsRefund:         isRefund,
	}
	if err := s.Notices.Insert(ctx, notice); err != nil {
		if errors.Is(err, leaveNoticeRepo.ErrDuplicateNotice) {
			return nil, ErrNoticeAlreadyExists
		}
		return nil, fmt.Errorf("failed to persist leave notice: %w", err)
	}

	if isRefund {
		for _, sid := range refundStudents {
			if sid == "" {
				continue
			}
			if err := s.Wallets.Credit(ctx, sid, price, 0); err != nil {
				s.Logger.Error("refund credit failed",
					zap.String("studentId", sid),
					zap.String("lessonId", lessonID), zap.Error(err))
			}
		}
	}

	if flexLesson != nil {
		for _, slotID := range flexLesson.SlotIDs {
			if err := s.Slots.Release(ctx, slotID); err != nil {
				s.Logger.Error("slot release failed",
					zap.String("slotId", slotID), zap.Error(err))
			}
		}
		if err := s.Lessons.SetStatus(ctx, lessonID, models.LessonCancel); err != nil {
			s.Logger.Error("lesson status update failed",
				zap.String("lessonId", lessonID), zap.Error(err))
		}
	}

	s.Logger.Info("leave notice created",
		zap.String("noticeId", notice.ID),
		zap.String("lessonId", lessonID),
		zap.String("type", noticeType),
		zap.Bool("refund", isRefund))

	s.notifyCancelled(notice, req.RequesterRole, refundStudents)

	return notice, nil
}

func (s *DefaultCancellationService) ListLeaveNotices(ctx context.Context, userID string) ([]models.LeaveNotice, error) {
	return s.Notices.ListByUser(ctx, userID)
}

// refundDecision encodes the refund policy: students refund only with more
// than 24 hours notice, tutors always refund the student.
func (s *DefaultCancellationService) refundDecision(role string, startTime time.Time) bool {
	if role == models.RoleTutor {
		return true
	}
	return time.Until(startTime) > refundNoticeWindow
}

// notifyCancelled fans out to customer service plus the counterparty side:
// the tutor when a student cancelled, every affected student when a tutor did.
func (s *DefaultCancellationService) notifyCancelled(notice *models.LeaveNotice, requesterRole string, students []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		counterparties := []string{notice.TutorID}
		owner := notice.StudentID
		if requesterRole == models.RoleTutor {
			counterparties = students
			owner = notice.TutorID
		}

		recipients := s.Notifier.StaffRecipients(ctx)
		for _, id := range counterparties {
			if id != "" {
				recipients = append(recipients, id)
			}
		}

		n := models.Notification{
			Title:   models.NotifyLeaveNotice,
			TitleID: notice.ID,
			Owner:   owner,
		}
		if err := s.Notifier.Dispatch(ctx, n, recipients, s.Notifier.Room()); err != nil {
			s.Logger.Warn("cancellation notification fan-out failed",
				zap.String("noticeId", notice.ID), zap.Error(err))
		}
	}()
}
