package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/meetsync/internal/persistence"
)

// SuggestionRepository implements persistence.SuggestionRepository using SQLite.
type SuggestionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSuggestionRepository creates a new SQLite suggestion repository.
func NewSuggestionRepository(pool *ConnectionPool) *SuggestionRepository {
	return &SuggestionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertSuggestion inserts a new suggestion row. Window bounds are persisted
// in UTC.
func (r *SuggestionRepository) InsertSuggestion(ctx context.Context, suggestion persistence.Suggestion) error {
	if suggestion.ID == "" || suggestion.ScheduleID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO suggestions (id, schedule_id, suggested_start_utc, suggested_end_utc, participants_json, score, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		suggestion.ID,
		suggestion.ScheduleID,
		formatTime(suggestion.SuggestedStartUTC),
		formatTime(suggestion.SuggestedEndUTC),
		nullString(suggestion.ParticipantsJSON),
		nullInt(suggestion.Score),
		nullString(suggestion.Notes),
		formatTime(suggestion.CreatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetSuggestionForSchedule retrieves a suggestion filtered by both id and
// schedule id.
func (r *SuggestionRepository) GetSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) (persistence.Suggestion, error) {
	if suggestionID == "" || scheduleID == "" {
		return persistence.Suggestion{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, schedule_id, suggested_start_utc, suggested_end_utc, participants_json, score, notes, created_at
		FROM suggestions
		WHERE id = ? AND schedule_id = ?
	`

	row := r.helper.QueryRow(ctx, query, suggestionID, scheduleID)
	suggestion, err := scanSuggestion(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Suggestion{}, persistence.ErrNotFound
		}
		return persistence.Suggestion{}, r.mapper.MapError(err)
	}

	return suggestion, nil
}

// UpdateSuggestion updates the mutable columns of a suggestion. Identity
// columns (id, schedule_id, created_at) are never written.
func (r *SuggestionRepository) UpdateSuggestion(ctx context.Context, suggestion persistence.Suggestion) error {
	if suggestion.ID == "" || suggestion.ScheduleID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE suggestions
		SET suggested_start_utc = ?, suggested_end_utc = ?, participants_json = ?, score = ?, notes = ?
		WHERE id = ? AND schedule_id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		formatTime(suggestion.SuggestedStartUTC),
		formatTime(suggestion.SuggestedEndUTC),
		nullString(suggestion.ParticipantsJSON),
		nullInt(suggestion.Score),
		nullString(suggestion.Notes),
		suggestion.ID,
		suggestion.ScheduleID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

// ListSuggestionsForSchedule lists all suggestions of one schedule ordered by
// created_at then id.
func (r *SuggestionRepository) ListSuggestionsForSchedule(ctx context.Context, scheduleID string) ([]persistence.Suggestion, error) {
	query := `
		SELECT id, schedule_id, suggested_start_utc, suggested_end_utc, participants_json, score, notes, created_at
		FROM suggestions
		WHERE schedule_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var suggestions []persistence.Suggestion
	for rows.Next() {
		suggestion, err := scanSuggestion(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		suggestions = append(suggestions, suggestion)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return suggestions, nil
}

// DeleteSuggestionForSchedule removes one suggestion filtered by both id and
// schedule id.
func (r *SuggestionRepository) DeleteSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) error {
	if suggestionID == "" || scheduleID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM suggestions WHERE id = ? AND schedule_id = ?", suggestionID, scheduleID)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func scanSuggestion(scan func(dest ...interface{}) error) (persistence.Suggestion, error) {
	var suggestion persistence.Suggestion
	var startStr, endStr, createdAtStr string
	var participantsJSON, notes sql.NullString
	var score sql.NullInt64

	err := scan(
		&suggestion.ID,
		&suggestion.ScheduleID,
		&startStr,
		&endStr,
		&participantsJSON,
		&score,
		&notes,
		&createdAtStr,
	)
	if err != nil {
		return persistence.Suggestion{}, err
	}

	suggestion.ParticipantsJSON = stringPtr(participantsJSON)
	suggestion.Score = intPtr(score)
	suggestion.Notes = stringPtr(notes)

	if suggestion.SuggestedStartUTC, err = parseTime(startStr, "suggested_start_utc"); err != nil {
		return persistence.Suggestion{}, err
	}
	if suggestion.SuggestedEndUTC, err = parseTime(endStr, "suggested_end_utc"); err != nil {
		return persistence.Suggestion{}, err
	}
	if suggestion.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return persistence.Suggestion{}, err
	}

	return suggestion, nil
}
