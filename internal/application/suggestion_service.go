package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SuggestionRepository captures the persistence operations needed by the
// suggestion service. Lookups and deletes are filtered by both suggestion id
// and schedule id so an id belonging to another schedule is never reachable.
type SuggestionRepository interface {
	InsertSuggestion(ctx context.Context, suggestion Suggestion) error
	GetSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) (Suggestion, error)
	UpdateSuggestion(ctx context.Context, suggestion Suggestion) error
	ListSuggestionsForSchedule(ctx context.Context, scheduleID string) ([]Suggestion, error)
	DeleteSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) error
}

// SuggestionService orchestrates validation, authorization, and persistence
// for suggested meeting windows attached to a schedule. Windows are stored as
// supplied; no overlap computation happens here.
type SuggestionService struct {
	schedules   ParentScheduleStore
	suggestions SuggestionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSuggestionService wires dependencies for suggestion operations.
func NewSuggestionService(schedules ParentScheduleStore, suggestions SuggestionRepository, idGenerator func() string, now func() time.Time) *SuggestionService {
	return NewSuggestionServiceWithLogger(schedules, suggestions, idGenerator, now, nil)
}

// NewSuggestionServiceWithLogger constructs a suggestion service with a specified logger.
func NewSuggestionServiceWithLogger(schedules ParentScheduleStore, suggestions SuggestionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SuggestionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SuggestionService{
		schedules:   schedules,
		suggestions: suggestions,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SuggestionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SuggestionService", operation, attrs...)
}

// UpsertSuggestion creates or updates a suggestion under a schedule owned by
// the caller and returns the full refreshed suggestion list for that schedule.
func (s *SuggestionService) UpsertSuggestion(ctx context.Context, params UpsertSuggestionParams) (suggestions []Suggestion, err error) {
	if s == nil {
		err = fmt.Errorf("SuggestionService is nil")
		return
	}
	if s.suggestions == nil {
		err = fmt.Errorf("suggestion repository not configured")
		return
	}

	input := params.Input
	logger := s.loggerWith(ctx, "UpsertSuggestion",
		"principal_id", params.Principal.UserID,
		"schedule_id", input.ScheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to upsert suggestion", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(suggestions)).InfoContext(ctx, "suggestion upserted")
	}()

	vErr := validateSuggestionInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = requireOwnedSchedule(ctx, s.schedules, params.Principal, input.ScheduleID); err != nil {
		return
	}

	if input.ID != nil {
		var existing Suggestion
		existing, err = s.suggestions.GetSuggestionForSchedule(ctx, *input.ID, input.ScheduleID)
		if err != nil {
			err = mapRepoError(err)
			return
		}

		// Identity fields (id, schedule id, created at) stay untouched.
		updated := existing
		updated.SuggestedStartUTC = input.SuggestedStartUTC.UTC()
		updated.SuggestedEndUTC = input.SuggestedEndUTC.UTC()
		updated.ParticipantsJSON = input.ParticipantsJSON
		updated.Score = input.Score
		updated.Notes = input.Notes

		if err = s.suggestions.UpdateSuggestion(ctx, updated); err != nil {
			err = mapRepoError(err)
			return
		}
	} else {
		suggestion := Suggestion{
			ID:                s.idGenerator(),
			ScheduleID:        input.ScheduleID,
			SuggestedStartUTC: input.SuggestedStartUTC.UTC(),
			SuggestedEndUTC:   input.SuggestedEndUTC.UTC(),
			ParticipantsJSON:  input.ParticipantsJSON,
			Score:             input.Score,
			Notes:             input.Notes,
			CreatedAt:         s.now(),
		}
		if err = s.suggestions.InsertSuggestion(ctx, suggestion); err != nil {
			err = mapRepoError(err)
			return
		}
	}

	if err = s.schedules.TouchSchedule(ctx, input.ScheduleID, s.now()); err != nil {
		err = mapRepoError(err)
		return
	}

	suggestions, err = s.suggestions.ListSuggestionsForSchedule(ctx, input.ScheduleID)
	if err != nil {
		err = mapRepoError(err)
		suggestions = nil
		return
	}

	return suggestions, nil
}

// DeleteSuggestion removes one suggestion from a schedule owned by the caller.
func (s *SuggestionService) DeleteSuggestion(ctx context.Context, principal Principal, scheduleID, suggestionID string) (err error) {
	if s == nil {
		return fmt.Errorf("SuggestionService is nil")
	}
	if s.suggestions == nil {
		return fmt.Errorf("suggestion repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteSuggestion",
		"principal_id", principal.UserID,
		"schedule_id", scheduleID,
		"suggestion_id", suggestionID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete suggestion", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "suggestion deleted")
	}()

	if _, err = requireOwnedSchedule(ctx, s.schedules, principal, scheduleID); err != nil {
		return
	}

	if err = s.suggestions.DeleteSuggestionForSchedule(ctx, suggestionID, scheduleID); err != nil {
		err = mapRepoError(err)
		return
	}

	if err = s.schedules.TouchSchedule(ctx, scheduleID, s.now()); err != nil {
		err = mapRepoError(err)
		return
	}

	return nil
}

func validateSuggestionInput(input SuggestionInput) *ValidationError {
	vErr := &ValidationError{}

	if input.SuggestedStartUTC.IsZero() {
		vErr.add("suggested_start_utc", "start time is required")
	}
	if input.SuggestedEndUTC.IsZero() {
		vErr.add("suggested_end_utc", "end time is required")
	}
	if !input.SuggestedStartUTC.IsZero() && !input.SuggestedEndUTC.IsZero() && !input.SuggestedStartUTC.Before(input.SuggestedEndUTC) {
		vErr.add("time", "end time must be after start time")
	}
	if input.Score != nil && (*input.Score < 0 || *input.Score > 100) {
		vErr.add("score", "score must be between 0 and 100")
	}

	return vErr
}
