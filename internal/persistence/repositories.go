package persistence

import (
	"context"
	"time"
)

// ScheduleRepository stores aggregate root rows. Owner-scoped methods filter
// by both schedule id and owner id in a single predicate, so a missing row and
// a row owned by someone else are indistinguishable to callers.
type ScheduleRepository interface {
	InsertSchedule(ctx context.Context, schedule Schedule) error
	GetScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) (Schedule, error)
	UpdateScheduleForOwner(ctx context.Context, schedule Schedule) error
	// DeleteScheduleForOwner removes the schedule's suggestions, then its
	// participants, then the schedule row itself, in one transaction.
	DeleteScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) error
	// ListSchedulesForOwner returns rows ordered by created_at then id.
	ListSchedulesForOwner(ctx context.Context, ownerUserID string, offset, limit int) ([]Schedule, error)
	CountSchedulesForOwner(ctx context.Context, ownerUserID string) (int, error)
	// TouchSchedule updates only the updated_at column, unconditionally.
	TouchSchedule(ctx context.Context, scheduleID string, updatedAt time.Time) error
}

// ParticipantRepository stores participant rows. Point operations filter by
// both participant id and schedule id.
type ParticipantRepository interface {
	InsertParticipant(ctx context.Context, participant Participant) error
	GetParticipantForSchedule(ctx context.Context, participantID, scheduleID string) (Participant, error)
	UpdateParticipant(ctx context.Context, participant Participant) error
	ListParticipantsForSchedule(ctx context.Context, scheduleID string) ([]Participant, error)
	DeleteParticipantForSchedule(ctx context.Context, participantID, scheduleID string) error
}

// SuggestionRepository stores suggestion rows. Point operations filter by
// both suggestion id and schedule id.
type SuggestionRepository interface {
	InsertSuggestion(ctx context.Context, suggestion Suggestion) error
	GetSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) (Suggestion, error)
	UpdateSuggestion(ctx context.Context, suggestion Suggestion) error
	ListSuggestionsForSchedule(ctx context.Context, scheduleID string) ([]Suggestion, error)
	DeleteSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) error
}
