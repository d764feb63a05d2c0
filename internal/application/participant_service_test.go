package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type participantRepoStub struct {
	insertErr error
	inserted  Participant

	bySchedule map[string]Participant
	getErr     error

	updateErr error
	updated   Participant

	deleteErr error
	deletedID string

	list    []Participant
	listErr error
}

func (r *participantRepoStub) InsertParticipant(ctx context.Context, participant Participant) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = participant
	return nil
}

func (r *participantRepoStub) GetParticipantForSchedule(ctx context.Context, participantID, scheduleID string) (Participant, error) {
	if r.getErr != nil {
		return Participant{}, r.getErr
	}
	participant, ok := r.bySchedule[participantID]
	if !ok || participant.ScheduleID != scheduleID {
		return Participant{}, ErrNotFound
	}
	return participant, nil
}

func (r *participantRepoStub) UpdateParticipant(ctx context.Context, participant Participant) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = participant
	return nil
}

func (r *participantRepoStub) ListParticipantsForSchedule(ctx context.Context, scheduleID string) ([]Participant, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Participant, len(r.list))
	copy(out, r.list)
	return out, nil
}

func (r *participantRepoStub) DeleteParticipantForSchedule(ctx context.Context, participantID, scheduleID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = participantID
	return nil
}

func TestParticipantService_UpsertParticipant(t *testing.T) {
	t.Parallel()

	baseTime := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

	ownedSchedule := func() *scheduleRepoStub {
		return &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
	}

	t.Run("validates required attributes", func(t *testing.T) {
		t.Parallel()

		svc := NewParticipantService(ownedSchedule(), &participantRepoStub{}, nil, nil)

		_, err := svc.UpsertParticipant(context.Background(), UpsertParticipantParams{
			Principal: Principal{UserID: "user-1"},
			Input: ParticipantInput{
				ScheduleID: "sched-1",
				Name:       "  ",
				TimeZone:   "",
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["name"]; !ok {
			t.Fatalf("expected name validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["time_zone"]; !ok {
			t.Fatalf("expected time_zone validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("hides schedules owned by other users", func(t *testing.T) {
		t.Parallel()

		repo := &participantRepoStub{}
		svc := NewParticipantService(ownedSchedule(), repo, nil, nil)

		_, err := svc.UpsertParticipant(context.Background(), UpsertParticipantParams{
			Principal: Principal{UserID: "user-2"},
			Input: ParticipantInput{
				ScheduleID: "sched-1",
				Name:       "Aiko",
				TimeZone:   "Asia/Tokyo",
			},
		})

		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if repo.inserted.ID != "" {
			t.Fatalf("expected no insert for foreign schedule, got %+v", repo.inserted)
		}
	})

	t.Run("creates a participant when no id is provided", func(t *testing.T) {
		t.Parallel()

		schedules := ownedSchedule()
		repo := &participantRepoStub{list: []Participant{{ID: "part-1", ScheduleID: "sched-1"}}}
		svc := NewParticipantService(schedules, repo, func() string { return "part-1" }, func() time.Time { return baseTime })

		participants, err := svc.UpsertParticipant(context.Background(), UpsertParticipantParams{
			Principal: Principal{UserID: "user-1"},
			Input: ParticipantInput{
				ScheduleID:       "sched-1",
				Name:             "  Aiko  ",
				TimeZone:         "Asia/Tokyo",
				AvailabilityJSON: strPtr(`{"mon":["09:00-12:00"]}`),
			},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.inserted.ID != "part-1" {
			t.Fatalf("expected repository to receive generated ID, got %q", repo.inserted.ID)
		}
		if repo.inserted.Name != "Aiko" {
			t.Fatalf("expected name to be trimmed, got %q", repo.inserted.Name)
		}
		if !repo.inserted.CreatedAt.Equal(baseTime) {
			t.Fatalf("expected created at from injected clock, got %v", repo.inserted.CreatedAt)
		}
		if schedules.touchCount != 1 || schedules.touchedID != "sched-1" {
			t.Fatalf("expected parent schedule to be touched once, got count=%d id=%q", schedules.touchCount, schedules.touchedID)
		}
		if len(participants) != 1 {
			t.Fatalf("expected refreshed list with one participant, got %d", len(participants))
		}
	})

	t.Run("updates in place when an id is provided", func(t *testing.T) {
		t.Parallel()

		schedules := ownedSchedule()
		repo := &participantRepoStub{
			bySchedule: map[string]Participant{
				"part-1": {
					ID:         "part-1",
					ScheduleID: "sched-1",
					Name:       "Aiko",
					TimeZone:   "Asia/Tokyo",
					CreatedAt:  baseTime,
				},
			},
		}
		svc := NewParticipantService(schedules, repo, func() string { return "never-used" }, func() time.Time { return baseTime.Add(time.Hour) })

		_, err := svc.UpsertParticipant(context.Background(), UpsertParticipantParams{
			Principal: Principal{UserID: "user-1"},
			Input: ParticipantInput{
				ID:         strPtr("part-1"),
				ScheduleID: "sched-1",
				Name:       "Aiko Tanaka",
				TimeZone:   "Europe/Berlin",
			},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.updated.ID != "part-1" {
			t.Fatalf("expected id to be preserved, got %q", repo.updated.ID)
		}
		if repo.updated.ScheduleID != "sched-1" {
			t.Fatalf("expected schedule id to be preserved, got %q", repo.updated.ScheduleID)
		}
		if !repo.updated.CreatedAt.Equal(baseTime) {
			t.Fatalf("expected created at to be preserved, got %v", repo.updated.CreatedAt)
		}
		if repo.updated.Name != "Aiko Tanaka" || repo.updated.TimeZone != "Europe/Berlin" {
			t.Fatalf("expected mutable fields to change, got %+v", repo.updated)
		}
		if repo.inserted.ID != "" {
			t.Fatalf("expected no insert on update path, got %+v", repo.inserted)
		}
	})

	t.Run("rejects an id from another schedule", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
			"sched-2": {ID: "sched-2", OwnerUserID: "user-1"},
		}}
		repo := &participantRepoStub{
			bySchedule: map[string]Participant{
				"part-1": {ID: "part-1", ScheduleID: "sched-2"},
			},
		}
		svc := NewParticipantService(schedules, repo, nil, nil)

		_, err := svc.UpsertParticipant(context.Background(), UpsertParticipantParams{
			Principal: Principal{UserID: "user-1"},
			Input: ParticipantInput{
				ID:         strPtr("part-1"),
				ScheduleID: "sched-1",
				Name:       "Aiko",
				TimeZone:   "Asia/Tokyo",
			},
		})

		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if schedules.touchCount != 0 {
			t.Fatalf("expected no touch on failed upsert, got %d", schedules.touchCount)
		}
	})
}

func TestParticipantService_DeleteParticipant(t *testing.T) {
	t.Parallel()

	t.Run("hides schedules owned by other users", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
		repo := &participantRepoStub{}
		svc := NewParticipantService(schedules, repo, nil, nil)

		err := svc.DeleteParticipant(context.Background(), Principal{UserID: "user-2"}, "sched-1", "part-1")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if repo.deletedID != "" {
			t.Fatalf("expected no delete for foreign schedule, got %q", repo.deletedID)
		}
	})

	t.Run("deletes and touches the parent schedule", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
		repo := &participantRepoStub{}
		later := time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)
		svc := NewParticipantService(schedules, repo, nil, func() time.Time { return later })

		if err := svc.DeleteParticipant(context.Background(), Principal{UserID: "user-1"}, "sched-1", "part-1"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if repo.deletedID != "part-1" {
			t.Fatalf("expected delete to reach repository, got %q", repo.deletedID)
		}
		if schedules.touchCount != 1 || !schedules.touchedAt.Equal(later) {
			t.Fatalf("expected parent schedule touched at %v, got count=%d at=%v", later, schedules.touchCount, schedules.touchedAt)
		}
	})

	t.Run("propagates a missing participant", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
		repo := &participantRepoStub{deleteErr: ErrNotFound}
		svc := NewParticipantService(schedules, repo, nil, nil)

		err := svc.DeleteParticipant(context.Background(), Principal{UserID: "user-1"}, "sched-1", "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if schedules.touchCount != 0 {
			t.Fatalf("expected no touch on failed delete, got %d", schedules.touchCount)
		}
	})
}
