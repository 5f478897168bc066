// File: services/booking/fakes_test.go
package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"

	lessonRepo "tutorhive/database/repository/lesson"
	slotRepo "tutorhive/database/repository/slot"
	walletRepo "tutorhive/database/repository/wallet"
	"tutorhive/models"
)

// memSlotRepo mirrors the conditional-claim semantics of the Mongo
// implementation: MarkConsumed only flips an unconsumed slot.
type memSlotRepo struct {
	mu    sync.Mutex
	slots map[string]models.AvailabilitySlot
	// failSlot makes MarkConsumed report a lost race for one slot id.
	failSlot string
}

func newMemSlotRepo() *memSlotRepo {
	return &memSlotRepo{slots: make(map[string]models.AvailabilitySlot)}
}

func (f *memSlotRepo) add(slot models.AvailabilitySlot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[slot.ID] = slot
}

func (f *memSlotRepo) consumed(slotID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slots[slotID].Consumed
}

func (f *memSlotRepo) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(slots))
	for i, s := range slots {
		if s.ID == "" {
			s.ID = fmt.Sprintf("slot-%d", len(f.slots)+1)
		}
		f.slots[s.ID] = s
		ids[i] = s.ID
	}
	return ids, nil
}

func (f *memSlotRepo) GetByIDForTutor(ctx context.Context, tutorID, slotID string) (*models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok || s.TutorID != tutorID {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (f *memSlotRepo) GetByTutorInRange(ctx context.Context, tutorID string, from, to time.Time, onlyUnconsumed bool) ([]models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range f.slots {
		if s.TutorID != tutorID || (onlyUnconsumed && s.Consumed) {
			continue
		}
		if s.StartTime.Before(to) && s.EndTime.After(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *memSlotRepo) GetByIDs(ctx context.Context, slotIDs []string) ([]models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, id := range slotIDs {
		if s, ok := f.slots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *memSlotRepo) MarkConsumed(ctx context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slotID == f.failSlot {
		return slotRepo.ErrSlotTaken
	}
	s, ok := f.slots[slotID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if s.Consumed {
		return slotRepo.ErrSlotTaken
	}
	s.Consumed = true
	f.slots[slotID] = s
	return nil
}

func (f *memSlotRepo) Release(ctx context.Context, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.Consumed = false
	f.slots[slotID] = s
	return nil
}

func (f *memSlotRepo) DeleteUnconsumed(ctx context.Context, tutorID, slotID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.slots[slotID]
	if !ok || s.TutorID != tutorID || s.Consumed {
		return mongo.ErrNoDocuments
	}
	delete(f.slots, slotID)
	return nil
}

func (f *memSlotRepo) EnsureIndexes() error { return nil }

// memLessonRepo keeps flexible lessons in memory.
type memLessonRepo struct {
	mu     sync.Mutex
	flex   map[string]models.FlexibleLesson
	nextID int
}

func newMemLessonRepo() *memLessonRepo {
	return &memLessonRepo{flex: make(map[string]models.FlexibleLesson)}
}

func (f *memLessonRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.flex)
}

func (f *memLessonRepo) Insert(ctx context.Context, lesson *models.FlexibleLesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lesson.ID == "" {
		f.nextID++
		lesson.ID = fmt.Sprintf("lesson-%d", f.nextID)
	}
	f.flex[lesson.ID] = *lesson
	return nil
}

func (f *memLessonRepo) Delete(ctx context.Context, lessonID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.flex[lessonID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.flex, lessonID)
	return nil
}

func (f *memLessonRepo) GetByID(ctx context.Context, lessonID string) (*models.FlexibleLesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.flex[lessonID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &l, nil
}

func (f *memLessonRepo) GetVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FlexibleLesson, error) {
	return f.GetByID(ctx, lessonID)
}

func (f *memLessonRepo) SetStatus(ctx context.Context, lessonID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.flex[lessonID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	l.Status = status
	f.flex[lessonID] = l
	return nil
}

func (f *memLessonRepo) FindActiveBySlotIDs(ctx context.Context, slotIDs []string) (*models.FlexibleLesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[string]bool, len(slotIDs))
	for _, id := range slotIDs {
		want[id] = true
	}
	for _, l := range f.flex {
		if l.Status == models.LessonCancel {
			continue
		}
		for _, id := range l.SlotIDs {
			if want[id] {
				return &l, nil
			}
		}
	}
	return nil, nil
}

func (f *memLessonRepo) ListByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FlexibleLesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FlexibleLesson
	for _, l := range f.flex {
		if l.StudentID == studentID && l.Status != models.LessonCancel &&
			l.StartTime.Before(to) && l.EndTime.After(from) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *memLessonRepo) ListByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FlexibleLesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FlexibleLesson
	for _, l := range f.flex {
		if l.TutorID == tutorID && l.Status != models.LessonCancel &&
			l.StartTime.Before(to) && l.EndTime.After(from) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *memLessonRepo) ListPaged(ctx context.Context, filter lessonRepo.LessonFilter) ([]models.FlexibleLesson, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.FlexibleLesson
	for _, l := range f.flex {
		if filter.StudentID != "" && l.StudentID != filter.StudentID {
			continue
		}
		if filter.TutorID != "" && l.TutorID != filter.TutorID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *memLessonRepo) FixedByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FixedLesson, error) {
	return nil, nil
}

func (f *memLessonRepo) FixedByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FixedLesson, error) {
	return nil, nil
}

func (f *memLessonRepo) GetFixedVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FixedLesson, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *memLessonRepo) EnsureIndexes() error { return nil }

// memWalletRepo mirrors the conditional-debit guarantee: the balance can
// never go below zero, even under concurrent debits.
type memWalletRepo struct {
	mu      sync.Mutex
	balance map[string]float64
}

func newMemWalletRepo() *memWalletRepo {
	return &memWalletRepo{balance: make(map[string]float64)}
}

func (f *memWalletRepo) points(studentID string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance[studentID]
}

func (f *memWalletRepo) Create(ctx context.Context, studentID string) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance[studentID] = 0
	return &models.Wallet{StudentID: studentID}, nil
}

func (f *memWalletRepo) GetByStudentID(ctx context.Context, studentID string) (*models.Wallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	points, ok := f.balance[studentID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &models.Wallet{StudentID: studentID, Points: points}, nil
}

func (f *memWalletRepo) Debit(ctx context.Context, studentID string, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balance[studentID] < amount {
		return walletRepo.ErrInsufficientPoints
	}
	f.balance[studentID] -= amount
	return nil
}

func (f *memWalletRepo) Credit(ctx context.Context, studentID string, amount float64, extendDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balance[studentID] += amount
	return nil
}

func (f *memWalletRepo) ClearExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (f *memWalletRepo) EnsureIndexes() error { return nil }

// memUserRepo serves a static user set.
type memUserRepo struct {
	users map[string]models.User
}

func (f *memUserRepo) Insert(ctx context.Context, user *models.User) error { return nil }

func (f *memUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (f *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, mongo.ErrNoDocuments
}

func (f *memUserRepo) GetTutor(ctx context.Context, tutorID string) (*models.User, error) {
	u, ok := f.users[tutorID]
	if !ok || u.Role != models.RoleTutor {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (f *memUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *memUserRepo) UpdateCalendarCredential(ctx context.Context, userID string, token *oauth2.Token) error {
	return nil
}

func (f *memUserRepo) UpdateFCMToken(ctx context.Context, userID, token string) error { return nil }

func (f *memUserRepo) EnsureIndexes() error { return nil }

// stubCalendar returns canned booked intervals.
type stubCalendar struct {
	booked []models.BookedInterval
}

func (s *stubCalendar) StudentBookedIntervals(ctx context.Context, studentID string, from, to time.Time) ([]models.BookedInterval, error) {
	return s.booked, nil
}

// stubMeetings returns a canned meeting link or error.
type stubMeetings struct {
	link string
	err  error
}

func (s *stubMeetings) CreateMeeting(ctx context.Context, event models.MeetingEvent, credential *oauth2.Token) (string, error) {
	return s.link, s.err
}

func (s *stubMeetings) GenerateAuthURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (s *stubMeetings) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return nil, nil
}

// stubFanout records dispatched notifications.
type stubFanout struct {
	mu         sync.Mutex
	dispatched []models.Notification
}

func (s *stubFanout) Dispatch(ctx context.Context, n models.Notification, recipientUserIDs []string, room string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched = append(s.dispatched, n)
	return nil
}

func (s *stubFanout) ListForUser(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	return nil, nil
}

func (s *stubFanout) MarkSeen(ctx context.Context, userID, notificationID string) error { return nil }

func (s *stubFanout) StaffRecipients(ctx context.Context) []string { return []string{"staff-1"} }

func (s *stubFanout) Room() string { return "notifications" }
