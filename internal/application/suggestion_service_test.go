package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type suggestionRepoStub struct {
	insertErr error
	inserted  Suggestion

	bySchedule map[string]Suggestion
	getErr     error

	updateErr error
	updated   Suggestion

	deleteErr error
	deletedID string

	list    []Suggestion
	listErr error
}

func (r *suggestionRepoStub) InsertSuggestion(ctx context.Context, suggestion Suggestion) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = suggestion
	return nil
}

func (r *suggestionRepoStub) GetSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) (Suggestion, error) {
	if r.getErr != nil {
		return Suggestion{}, r.getErr
	}
	suggestion, ok := r.bySchedule[suggestionID]
	if !ok || suggestion.ScheduleID != scheduleID {
		return Suggestion{}, ErrNotFound
	}
	return suggestion, nil
}

func (r *suggestionRepoStub) UpdateSuggestion(ctx context.Context, suggestion Suggestion) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = suggestion
	return nil
}

func (r *suggestionRepoStub) ListSuggestionsForSchedule(ctx context.Context, scheduleID string) ([]Suggestion, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]Suggestion, len(r.list))
	copy(out, r.list)
	return out, nil
}

func (r *suggestionRepoStub) DeleteSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deletedID = suggestionID
	return nil
}

func TestSuggestionService_UpsertSuggestion(t *testing.T) {
	t.Parallel()

	startAt := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	endAt := startAt.Add(time.Hour)

	ownedSchedule := func() *scheduleRepoStub {
		return &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
	}

	t.Run("validates the suggested window", func(t *testing.T) {
		t.Parallel()

		svc := NewSuggestionService(ownedSchedule(), &suggestionRepoStub{}, nil, nil)

		_, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
			Principal: Principal{UserID: "user-1"},
			Input: SuggestionInput{
				ScheduleID:        "sched-1",
				SuggestedStartUTC: endAt,
				SuggestedEndUTC:   startAt,
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["time"]; !ok {
			t.Fatalf("expected time validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects a window that does not advance", func(t *testing.T) {
		t.Parallel()

		svc := NewSuggestionService(ownedSchedule(), &suggestionRepoStub{}, nil, nil)

		_, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
			Principal: Principal{UserID: "user-1"},
			Input: SuggestionInput{
				ScheduleID:        "sched-1",
				SuggestedStartUTC: startAt,
				SuggestedEndUTC:   startAt,
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects scores outside the accepted range", func(t *testing.T) {
		t.Parallel()

		for _, score := range []int{-1, 101} {
			svc := NewSuggestionService(ownedSchedule(), &suggestionRepoStub{}, nil, nil)

			_, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
				Principal: Principal{UserID: "user-1"},
				Input: SuggestionInput{
					ScheduleID:        "sched-1",
					SuggestedStartUTC: startAt,
					SuggestedEndUTC:   endAt,
					Score:             intPtr(score),
				},
			})

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("score %d: expected ValidationError, got %v", score, err)
			}
			if _, ok := vErr.FieldErrors["score"]; !ok {
				t.Fatalf("score %d: expected score validation error, got %v", score, vErr.FieldErrors)
			}
		}
	})

	t.Run("hides schedules owned by other users", func(t *testing.T) {
		t.Parallel()

		repo := &suggestionRepoStub{}
		svc := NewSuggestionService(ownedSchedule(), repo, nil, nil)

		_, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
			Principal: Principal{UserID: "user-2"},
			Input: SuggestionInput{
				ScheduleID:        "sched-1",
				SuggestedStartUTC: startAt,
				SuggestedEndUTC:   endAt,
			},
		})

		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if repo.inserted.ID != "" {
			t.Fatalf("expected no insert for foreign schedule, got %+v", repo.inserted)
		}
	})

	t.Run("creates a suggestion when no id is provided", func(t *testing.T) {
		t.Parallel()

		schedules := ownedSchedule()
		repo := &suggestionRepoStub{list: []Suggestion{{ID: "sugg-1", ScheduleID: "sched-1"}}}
		svc := NewSuggestionService(schedules, repo, func() string { return "sugg-1" }, func() time.Time { return startAt })

		local := time.FixedZone("JST", 9*60*60)
		suggestions, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
			Principal: Principal{UserID: "user-1"},
			Input: SuggestionInput{
				ScheduleID:        "sched-1",
				SuggestedStartUTC: startAt.In(local),
				SuggestedEndUTC:   endAt.In(local),
				Score:             intPtr(80),
				Notes:             strPtr("works for everyone"),
			},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.inserted.ID != "sugg-1" {
			t.Fatalf("expected repository to receive generated ID, got %q", repo.inserted.ID)
		}
		if repo.inserted.SuggestedStartUTC.Location() != time.UTC {
			t.Fatalf("expected start time normalized to UTC, got %v", repo.inserted.SuggestedStartUTC.Location())
		}
		if !repo.inserted.SuggestedStartUTC.Equal(startAt) || !repo.inserted.SuggestedEndUTC.Equal(endAt) {
			t.Fatalf("expected window to be preserved, got start=%v end=%v", repo.inserted.SuggestedStartUTC, repo.inserted.SuggestedEndUTC)
		}
		if schedules.touchCount != 1 || schedules.touchedID != "sched-1" {
			t.Fatalf("expected parent schedule to be touched once, got count=%d id=%q", schedules.touchCount, schedules.touchedID)
		}
		if len(suggestions) != 1 {
			t.Fatalf("expected refreshed list with one suggestion, got %d", len(suggestions))
		}
	})

	t.Run("updates in place when an id is provided", func(t *testing.T) {
		t.Parallel()

		schedules := ownedSchedule()
		createdAt := startAt.Add(-24 * time.Hour)
		repo := &suggestionRepoStub{
			bySchedule: map[string]Suggestion{
				"sugg-1": {
					ID:                "sugg-1",
					ScheduleID:        "sched-1",
					SuggestedStartUTC: startAt,
					SuggestedEndUTC:   endAt,
					CreatedAt:         createdAt,
				},
			},
		}
		svc := NewSuggestionService(schedules, repo, func() string { return "never-used" }, func() time.Time { return endAt })

		_, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
			Principal: Principal{UserID: "user-1"},
			Input: SuggestionInput{
				ID:                strPtr("sugg-1"),
				ScheduleID:        "sched-1",
				SuggestedStartUTC: startAt.Add(time.Hour),
				SuggestedEndUTC:   endAt.Add(time.Hour),
				Score:             intPtr(55),
			},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if repo.updated.ID != "sugg-1" || repo.updated.ScheduleID != "sched-1" {
			t.Fatalf("expected identity fields preserved, got %+v", repo.updated)
		}
		if !repo.updated.CreatedAt.Equal(createdAt) {
			t.Fatalf("expected created at preserved, got %v", repo.updated.CreatedAt)
		}
		if !repo.updated.SuggestedStartUTC.Equal(startAt.Add(time.Hour)) {
			t.Fatalf("expected window to move, got %v", repo.updated.SuggestedStartUTC)
		}
		if repo.updated.Score == nil || *repo.updated.Score != 55 {
			t.Fatalf("expected score to change, got %v", repo.updated.Score)
		}
	})

	t.Run("rejects an id from another schedule", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
		repo := &suggestionRepoStub{
			bySchedule: map[string]Suggestion{
				"sugg-1": {ID: "sugg-1", ScheduleID: "sched-2"},
			},
		}
		svc := NewSuggestionService(schedules, repo, nil, nil)

		_, err := svc.UpsertSuggestion(context.Background(), UpsertSuggestionParams{
			Principal: Principal{UserID: "user-1"},
			Input: SuggestionInput{
				ID:                strPtr("sugg-1"),
				ScheduleID:        "sched-1",
				SuggestedStartUTC: startAt,
				SuggestedEndUTC:   endAt,
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

func TestSuggestionService_DeleteSuggestion(t *testing.T) {
	t.Parallel()

	t.Run("hides schedules owned by other users", func(t *testing.T) {
		t.Parallel()

		schedules := &scheduleRepoStub{byOwner: map[string]Schedule{
			"sched-1": {ID: "sched-1", OwnerUserID: "user-1"},
		}}
		repo := &suggestionRepoStub{}
		svc := NewSuggestionService(schedules, repo, nil, nil)

		err := svc.DeleteSuggestion(context.Background(), Principal{UserID: "user-2"}, "sched-1", "sugg-1")
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
		repo := &suggestionRepoStub{}
		later := time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)
		svc := NewSuggestionService(schedules, repo, nil, func() time.Time { return later })

		if err := svc.DeleteSuggestion(context.Background(), Principal{UserID: "user-1"}, "sched-1", "sugg-1"); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if repo.deletedID != "sugg-1" {
			t.Fatalf("expected delete to reach repository, got %q", repo.deletedID)
		}
		if schedules.touchCount != 1 || !schedules.touchedAt.Equal(later) {
			t.Fatalf("expected parent schedule touched at %v, got count=%d at=%v", later, schedules.touchCount, schedules.touchedAt)
		}
	})
}
