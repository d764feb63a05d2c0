package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/meetsync/internal/persistence"
)

func insertTestSuggestion(t *testing.T, store *Store, id, scheduleID string) persistence.Suggestion {
	t.Helper()

	suggestion := persistence.Suggestion{
		ID:                id,
		ScheduleID:        scheduleID,
		SuggestedStartUTC: testTime(0),
		SuggestedEndUTC:   testTime(3600),
		CreatedAt:         testTime(0),
	}
	if err := store.Suggestions.InsertSuggestion(context.Background(), suggestion); err != nil {
		t.Fatalf("Failed to insert suggestion %s: %v", id, err)
	}
	return suggestion
}

func TestSuggestionRepository_InsertAndGet(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	insertTestSchedule(t, store, "schedule1", "user1")

	participants := `["part1","part2"]`
	score := 85
	notes := "best overlap"
	start := testTime(0)
	end := testTime(3600)

	suggestion := persistence.Suggestion{
		ID:                "sugg1",
		ScheduleID:        "schedule1",
		SuggestedStartUTC: start,
		SuggestedEndUTC:   end,
		ParticipantsJSON:  &participants,
		Score:             &score,
		Notes:             &notes,
		CreatedAt:         start,
	}

	if err := store.Suggestions.InsertSuggestion(ctx, suggestion); err != nil {
		t.Fatalf("InsertSuggestion failed: %v", err)
	}

	retrieved, err := store.Suggestions.GetSuggestionForSchedule(ctx, "sugg1", "schedule1")
	if err != nil {
		t.Fatalf("GetSuggestionForSchedule failed: %v", err)
	}
	if !retrieved.SuggestedStartUTC.Equal(start) || !retrieved.SuggestedEndUTC.Equal(end) {
		t.Errorf("Expected window %v-%v, got %v-%v", start, end, retrieved.SuggestedStartUTC, retrieved.SuggestedEndUTC)
	}
	if retrieved.Score == nil || *retrieved.Score != 85 {
		t.Errorf("Expected score 85, got %v", retrieved.Score)
	}
	if retrieved.Notes == nil || *retrieved.Notes != notes {
		t.Errorf("Expected notes %q, got %v", notes, retrieved.Notes)
	}
}

func TestSuggestionRepository_InsertInvalidWindow(t *testing.T) {
	t.Parallel()

	store := setupStore(t)

	insertTestSchedule(t, store, "schedule1", "user1")

	err := store.Suggestions.InsertSuggestion(context.Background(), persistence.Suggestion{
		ID:                "sugg1",
		ScheduleID:        "schedule1",
		SuggestedStartUTC: testTime(3600),
		SuggestedEndUTC:   testTime(0),
		CreatedAt:         testTime(0),
	})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("Expected ErrConstraintViolation, got %v", err)
	}
}

func TestSuggestionRepository_InsertInvalidScore(t *testing.T) {
	t.Parallel()

	store := setupStore(t)

	insertTestSchedule(t, store, "schedule1", "user1")

	score := 101
	err := store.Suggestions.InsertSuggestion(context.Background(), persistence.Suggestion{
		ID:                "sugg1",
		ScheduleID:        "schedule1",
		SuggestedStartUTC: testTime(0),
		SuggestedEndUTC:   testTime(3600),
		Score:             &score,
		CreatedAt:         testTime(0),
	})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("Expected ErrConstraintViolation, got %v", err)
	}
}

func TestSuggestionRepository_SubSecondWindow(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	insertTestSchedule(t, store, "schedule1", "user1")

	// A window shorter than one second is valid and must survive both the
	// start-before-end CHECK and a round trip without losing precision.
	start := testTime(0).Add(200 * time.Millisecond)
	end := testTime(0).Add(800 * time.Millisecond)
	err := store.Suggestions.InsertSuggestion(ctx, persistence.Suggestion{
		ID:                "sugg1",
		ScheduleID:        "schedule1",
		SuggestedStartUTC: start,
		SuggestedEndUTC:   end,
		CreatedAt:         start,
	})
	if err != nil {
		t.Fatalf("InsertSuggestion failed: %v", err)
	}

	retrieved, err := store.Suggestions.GetSuggestionForSchedule(ctx, "sugg1", "schedule1")
	if err != nil {
		t.Fatalf("GetSuggestionForSchedule failed: %v", err)
	}
	if !retrieved.SuggestedStartUTC.Equal(start) || !retrieved.SuggestedEndUTC.Equal(end) {
		t.Errorf("Expected window %v-%v, got %v-%v", start, end, retrieved.SuggestedStartUTC, retrieved.SuggestedEndUTC)
	}

	// A fractional end on a whole-second start crosses the second boundary
	// in the stored text, so the ordering CHECK must still accept it.
	err = store.Suggestions.InsertSuggestion(ctx, persistence.Suggestion{
		ID:                "sugg2",
		ScheduleID:        "schedule1",
		SuggestedStartUTC: testTime(0),
		SuggestedEndUTC:   testTime(0).Add(500 * time.Millisecond),
		CreatedAt:         testTime(0),
	})
	if err != nil {
		t.Fatalf("InsertSuggestion with fractional end failed: %v", err)
	}
}

func TestSuggestionRepository_GetFiltersSchedule(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	insertTestSchedule(t, store, "schedule1", "user1")
	insertTestSchedule(t, store, "schedule2", "user1")
	insertTestSuggestion(t, store, "sugg1", "schedule1")

	_, err := store.Suggestions.GetSuggestionForSchedule(ctx, "sugg1", "schedule2")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for wrong schedule, got %v", err)
	}
}

func TestSuggestionRepository_Update(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	insertTestSchedule(t, store, "schedule1", "user1")
	suggestion := insertTestSuggestion(t, store, "sugg1", "schedule1")

	score := 42
	suggestion.SuggestedStartUTC = testTime(7200)
	suggestion.SuggestedEndUTC = testTime(10800)
	suggestion.Score = &score
	if err := store.Suggestions.UpdateSuggestion(ctx, suggestion); err != nil {
		t.Fatalf("UpdateSuggestion failed: %v", err)
	}

	retrieved, err := store.Suggestions.GetSuggestionForSchedule(ctx, "sugg1", "schedule1")
	if err != nil {
		t.Fatalf("GetSuggestionForSchedule failed: %v", err)
	}
	if !retrieved.SuggestedStartUTC.Equal(testTime(7200)) {
		t.Errorf("Expected moved window, got %v", retrieved.SuggestedStartUTC)
	}
	if retrieved.Score == nil || *retrieved.Score != 42 {
		t.Errorf("Expected score 42, got %v", retrieved.Score)
	}
	if !retrieved.CreatedAt.Equal(testTime(0)) {
		t.Errorf("Expected created_at untouched, got %v", retrieved.CreatedAt)
	}
}

func TestSuggestionRepository_ListOrdered(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	insertTestSchedule(t, store, "schedule1", "user1")
	insertTestSchedule(t, store, "schedule2", "user1")

	for i, id := range []string{"suggB", "suggA"} {
		err := store.Suggestions.InsertSuggestion(ctx, persistence.Suggestion{
			ID:                id,
			ScheduleID:        "schedule1",
			SuggestedStartUTC: testTime(0),
			SuggestedEndUTC:   testTime(3600),
			CreatedAt:         testTime(i * 60),
		})
		if err != nil {
			t.Fatalf("InsertSuggestion %s failed: %v", id, err)
		}
	}
	insertTestSuggestion(t, store, "other", "schedule2")

	suggestions, err := store.Suggestions.ListSuggestionsForSchedule(ctx, "schedule1")
	if err != nil {
		t.Fatalf("ListSuggestionsForSchedule failed: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("Expected 2 suggestions, got %d", len(suggestions))
	}
	if suggestions[0].ID != "suggB" || suggestions[1].ID != "suggA" {
		t.Errorf("Expected created_at order suggB,suggA, got %s,%s", suggestions[0].ID, suggestions[1].ID)
	}
}

func TestSuggestionRepository_Delete(t *testing.T) {
	t.Parallel()

	store := setupStore(t)
	ctx := context.Background()

	insertTestSchedule(t, store, "schedule1", "user1")
	insertTestSchedule(t, store, "schedule2", "user1")
	insertTestSuggestion(t, store, "sugg1", "schedule1")

	if err := store.Suggestions.DeleteSuggestionForSchedule(ctx, "sugg1", "schedule2"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for wrong schedule, got %v", err)
	}

	if err := store.Suggestions.DeleteSuggestionForSchedule(ctx, "sugg1", "schedule1"); err != nil {
		t.Fatalf("DeleteSuggestionForSchedule failed: %v", err)
	}

	if _, err := store.Suggestions.GetSuggestionForSchedule(ctx, "sugg1", "schedule1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("Expected suggestion to be gone, got %v", err)
	}
}
