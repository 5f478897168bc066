// File: services/schedule/service_test.go
package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	lessonRepo "tutorhive/database/repository/lesson"
	"tutorhive/models"
)

// fakeSlotRepo is an in-memory SlotRepository for service-level tests.
type fakeSlotRepo struct {
	slots  map[string]models.AvailabilitySlot
	nextID int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]models.AvailabilitySlot)}
}

func (f *fakeSlotRepo) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	ids := make([]string, len(slots))
	for i, s := range slots {
		f.nextID++
		s.ID = fmt.Sprintf("slot-%d", f.nextID)
		f.slots[s.ID] = s
		ids[i] = s.ID
	}
	return ids, nil
}

func (f *fakeSlotRepo) GetByIDForTutor(ctx context.Context, tutorID, slotID string) (*models.AvailabilitySlot, error) {
	s, ok := f.slots[slotID]
	if !ok || s.TutorID != tutorID {
		return nil, mongo.ErrNoDocuments
	}
	return &s, nil
}

func (f *fakeSlotRepo) GetByTutorInRange(ctx context.Context, tutorID string, from, to time.Time, onlyUnconsumed bool) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, s := range f.slots {
		if s.TutorID != tutorID {
			continue
		}
		if onlyUnconsumed && s.Consumed {
			continue
		}
		if s.StartTime.Before(to) && s.EndTime.After(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) GetByIDs(ctx context.Context, slotIDs []string) ([]models.AvailabilitySlot, error) {
	var out []models.AvailabilitySlot
	for _, id := range slotIDs {
		if s, ok := f.slots[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) MarkConsumed(ctx context.Context, slotID string) error {
	s, ok := f.slots[slotID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if s.Consumed {
		return errors.New("already consumed")
	}
	s.Consumed = true
	f.slots[slotID] = s
	return nil
}

func (f *fakeSlotRepo) Release(ctx context.Context, slotID string) error {
	s, ok := f.slots[slotID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	s.Consumed = false
	f.slots[slotID] = s
	return nil
}

func (f *fakeSlotRepo) DeleteUnconsumed(ctx context.Context, tutorID, slotID string) error {
	s, ok := f.slots[slotID]
	if !ok || s.TutorID != tutorID || s.Consumed {
		return mongo.ErrNoDocuments
	}
	delete(f.slots, slotID)
	return nil
}

func (f *fakeSlotRepo) EnsureIndexes() error { return nil }

// fakeLessonRepo is an in-memory LessonRepository. Range queries mirror the
// production filters: overlap with [from,to) and status != CANCEL.
type fakeLessonRepo struct {
	flex  []models.FlexibleLesson
	fixed []models.FixedLesson
}

func inRange(start, end, from, to time.Time) bool {
	return start.Before(to) && end.After(from)
}

func (f *fakeLessonRepo) Insert(ctx context.Context, lesson *models.FlexibleLesson) error {
	if lesson.ID == "" {
		lesson.ID = fmt.Sprintf("lesson-%d", len(f.flex)+1)
	}
	f.flex = append(f.flex, *lesson)
	return nil
}

func (f *fakeLessonRepo) Delete(ctx context.Context, lessonID string) error {
	for i, l := range f.flex {
		if l.ID == lessonID {
			f.flex = append(f.flex[:i], f.flex[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLessonRepo) GetByID(ctx context.Context, lessonID string) (*models.FlexibleLesson, error) {
	for _, l := range f.flex {
		if l.ID == lessonID {
			return &l, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeLessonRepo) GetVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FlexibleLesson, error) {
	for _, l := range f.flex {
		if l.ID != lessonID {
			continue
		}
		switch role {
		case models.RoleStudent:
			if l.StudentID != requesterID {
				return nil, mongo.ErrNoDocuments
			}
		case models.RoleTutor:
			if l.TutorID != requesterID {
				return nil, mongo.ErrNoDocuments
			}
		}
		return &l, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeLessonRepo) SetStatus(ctx context.Context, lessonID, status string) error {
	for i, l := range f.flex {
		if l.ID == lessonID {
			f.flex[i].Status = status
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLessonRepo) FindActiveBySlotIDs(ctx context.Context, slotIDs []string) (*models.FlexibleLesson, error) {
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

func (f *fakeLessonRepo) ListByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FlexibleLesson, error) {
	var out []models.FlexibleLesson
	for _, l := range f.flex {
		if l.StudentID == studentID && l.Status != models.LessonCancel && inRange(l.StartTime, l.EndTime, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) ListByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FlexibleLesson, error) {
	var out []models.FlexibleLesson
	for _, l := range f.flex {
		if l.TutorID == tutorID && l.Status != models.LessonCancel && inRange(l.StartTime, l.EndTime, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) ListPaged(ctx context.Context, filter lessonRepo.LessonFilter) ([]models.FlexibleLesson, int64, error) {
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

func (f *fakeLessonRepo) FixedByStudentInRange(ctx context.Context, studentID string, from, to time.Time) ([]models.FixedLesson, error) {
	var out []models.FixedLesson
	for _, l := range f.fixed {
		if l.Status == models.LessonCancel || !inRange(l.StartTime, l.EndTime, from, to) {
			continue
		}
		for _, id := range l.StudentIDs {
			if id == studentID {
				out = append(out, l)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) FixedByTutorInRange(ctx context.Context, tutorID string, from, to time.Time) ([]models.FixedLesson, error) {
	var out []models.FixedLesson
	for _, l := range f.fixed {
		if l.TutorID == tutorID && l.Status != models.LessonCancel && inRange(l.StartTime, l.EndTime, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLessonRepo) GetFixedVisible(ctx context.Context, lessonID, role, requesterID string) (*models.FixedLesson, error) {
	for _, l := range f.fixed {
		if l.ID == lessonID {
			return &l, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeLessonRepo) EnsureIndexes() error { return nil }

func newScheduleService() (*DefaultScheduleService, *fakeSlotRepo, *fakeLessonRepo) {
	slots := newFakeSlotRepo()
	lessons := &fakeLessonRepo{}
	svc := &DefaultScheduleService{
		Slots:   slots,
		Lessons: lessons,
		Logger:  zap.NewNop(),
	}
	return svc, slots, lessons
}

func quantumInput(start time.Time) models.SlotInput {
	return models.SlotInput{
		StartTime: start,
		EndTime:   start.Add(models.SlotQuantum),
		TimeZone:  "UTC",
	}
}

func TestDeclareValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		candidates []models.SlotInput
		wantErr    error
	}{
		{
			name:    "empty batch",
			wantErr: ErrNoSlots,
		},
		{
			name: "not a quantum",
			candidates: []models.SlotInput{
				{StartTime: at(9, 0), EndTime: at(9, 20), TimeZone: "UTC"},
			},
			wantErr: ErrNotQuantum,
		},
		{
			name: "cross month batch",
			candidates: []models.SlotInput{
				quantumInput(time.Date(2026, time.September, 30, 23, 45, 0, 0, time.UTC)),
				quantumInput(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)),
			},
			wantErr: ErrCrossMonth,
		},
		{
			name: "duplicate within batch",
			candidates: []models.SlotInput{
				quantumInput(at(9, 0)),
				quantumInput(at(9, 0)),
			},
			wantErr: ErrDuplicateSlot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newScheduleService()
			_, err := svc.Declare(ctx, "tutor-1", tt.candidates)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Declare() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeclareRejectsOverlapWithinBatch(t *testing.T) {
	ctx := context.Background()
	svc, slots, _ := newScheduleService()

	// Two quanta with different starts that still overlap each other.
	_, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{
		{StartTime: at(10, 0), EndTime: at(10, 15), TimeZone: "UTC"},
		{StartTime: at(10, 5), EndTime: at(10, 20), TimeZone: "UTC"},
	})
	if !errors.Is(err, ErrSlotOverlap) {
		t.Errorf("overlapping batch: error = %v, want ErrSlotOverlap", err)
	}
	if len(slots.slots) != 0 {
		t.Errorf("rejected batch persisted %d slots", len(slots.slots))
	}

	// Order independence: the same pair reversed is rejected too.
	_, err = svc.Declare(ctx, "tutor-1", []models.SlotInput{
		{StartTime: at(10, 5), EndTime: at(10, 20), TimeZone: "UTC"},
		{StartTime: at(10, 0), EndTime: at(10, 15), TimeZone: "UTC"},
	})
	if !errors.Is(err, ErrSlotOverlap) {
		t.Errorf("reversed overlapping batch: error = %v, want ErrSlotOverlap", err)
	}
}

func TestDeclareRejectsOverlapStraddlingBatchWindow(t *testing.T) {
	ctx := context.Background()
	svc, slots, _ := newScheduleService()

	// An existing slot that starts before the batch window but reaches into it.
	if _, err := slots.CreateMany(ctx, []models.AvailabilitySlot{{
		TutorID:   "tutor-1",
		StartTime: at(9, 50),
		EndTime:   at(10, 5),
		TimeZone:  "UTC",
	}}); err != nil {
		t.Fatalf("seeding slot failed: %v", err)
	}

	_, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{quantumInput(at(10, 0))})
	if !errors.Is(err, ErrSlotOverlap) {
		t.Errorf("straddling slot: error = %v, want ErrSlotOverlap", err)
	}
}

func TestDeclareRejectsDuplicateOfExistingSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleService()

	if _, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{quantumInput(at(9, 0))}); err != nil {
		t.Fatalf("first Declare failed: %v", err)
	}
	_, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{quantumInput(at(9, 0))})
	if !errors.Is(err, ErrDuplicateSlot) {
		t.Errorf("redeclared identical slot: error = %v, want ErrDuplicateSlot", err)
	}
}

func TestDeclareRejectsOverlapWithBookedLesson(t *testing.T) {
	ctx := context.Background()
	svc, _, lessons := newScheduleService()
	lessons.flex = append(lessons.flex, models.FlexibleLesson{
		ID:        "lesson-1",
		TutorID:   "tutor-1",
		StudentID: "student-1",
		Status:    models.LessonRegistered,
		StartTime: at(9, 0),
		EndTime:   at(10, 0),
	})

	_, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{quantumInput(at(9, 30))})
	if !errors.Is(err, ErrSlotOverlap) {
		t.Errorf("slot inside booked lesson: error = %v, want ErrSlotOverlap", err)
	}

	// Touching the lesson boundary is allowed.
	if _, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{quantumInput(at(10, 0))}); err != nil {
		t.Errorf("slot touching lesson end rejected: %v", err)
	}
}

func TestDeclareAssignsIDs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newScheduleService()

	created, err := svc.Declare(ctx, "tutor-1", []models.SlotInput{
		quantumInput(at(9, 0)),
		quantumInput(at(9, 15)),
	})
	if err != nil {
		t.Fatalf("Declare failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created %d slots, want 2", len(created))
	}
	for _, s := range created {
		if s.ID == "" {
			t.Error("created slot has empty id")
		}
		if s.TutorID != "tutor-1" {
			t.Errorf("created slot tutorId = %q", s.TutorID)
		}
	}
}

func TestRemoveUnknownSlot(t *testing.T) {
	svc, _, _ := newScheduleService()
	err := svc.Remove(context.Background(), "tutor-1", "missing")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("Remove() error = %v, want ErrSlotNotFound", err)
	}
}

func TestScheduleMergesAndOrders(t *testing.T) {
	ctx := context.Background()
	svc, _, lessons := newScheduleService()

	future := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	lessons.flex = append(lessons.flex, models.FlexibleLesson{
		ID: "flex-1", TutorID: "tutor-1", StudentID: "student-1",
		Status:    models.LessonRegistered,
		StartTime: future.Add(2 * time.Hour), EndTime: future.Add(3 * time.Hour),
	})
	lessons.fixed = append(lessons.fixed, models.FixedLesson{
		ID: "fixed-1", TutorID: "tutor-1", StudentIDs: []string{"student-1"},
		Status:    models.LessonRegistered,
		StartTime: future, EndTime: future.Add(time.Hour),
	})
	lessons.flex = append(lessons.flex, models.FlexibleLesson{
		ID: "flex-cancelled", TutorID: "tutor-1", StudentID: "student-1",
		Status:    models.LessonCancel,
		StartTime: future.Add(time.Hour), EndTime: future.Add(2 * time.Hour),
	})

	entries, err := svc.Schedule(ctx, "student-1", models.RoleStudent, future.Add(-time.Hour), future.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (cancelled excluded)", len(entries))
	}
	if entries[0].Kind != models.KindFixed || entries[1].Kind != models.KindFlexible {
		t.Errorf("entries not ordered by start time: %v then %v", entries[0].Kind, entries[1].Kind)
	}
	if !entries[0].StartTime.Before(entries[1].StartTime) {
		t.Error("entries out of chronological order")
	}

	// Identical query, identical output.
	again, err := svc.Schedule(ctx, "student-1", models.RoleStudent, future.Add(-time.Hour), future.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("second Schedule failed: %v", err)
	}
	if len(again) != len(entries) {
		t.Errorf("repeated query changed result size: %d vs %d", len(again), len(entries))
	}
}

func TestSchedulePastRegisteredSurfacesAsFinish(t *testing.T) {
	ctx := context.Background()
	svc, _, lessons := newScheduleService()

	past := time.Now().Add(-48 * time.Hour).Truncate(time.Hour)
	lessons.flex = append(lessons.flex, models.FlexibleLesson{
		ID: "flex-1", TutorID: "tutor-1", StudentID: "student-1",
		Status:    models.LessonRegistered,
		StartTime: past, EndTime: past.Add(time.Hour),
	})

	entries, err := svc.Schedule(ctx, "student-1", models.RoleStudent, past.Add(-time.Hour), past.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Status != models.LessonFinish {
		t.Errorf("past registered lesson status = %q, want FINISH", entries[0].Status)
	}

	// Derived only: the stored status stays REGISTERED.
	if lessons.flex[0].Status != models.LessonRegistered {
		t.Errorf("stored status mutated to %q", lessons.flex[0].Status)
	}
}

func TestDetailVisibility(t *testing.T) {
	ctx := context.Background()
	svc, _, lessons := newScheduleService()
	lessons.flex = append(lessons.flex, models.FlexibleLesson{
		ID: "flex-1", TutorID: "tutor-1", StudentID: "student-1",
		Status:    models.LessonRegistered,
		StartTime: time.Now().Add(time.Hour), EndTime: time.Now().Add(2 * time.Hour),
	})

	if _, err := svc.Detail(ctx, "flex-1", models.RoleStudent, "student-1"); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if _, err := svc.Detail(ctx, "flex-1", models.RoleStudent, "student-2"); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("stranger error = %v, want ErrLessonNotFound", err)
	}
	if _, err := svc.Detail(ctx, "missing", models.RoleStaff, "staff-1"); !errors.Is(err, ErrLessonNotFound) {
		t.Errorf("missing lesson error = %v, want ErrLessonNotFound", err)
	}
}
