package main

import (
	"context"
	"time"

	"github.com/example/meetsync/internal/application"
	"github.com/example/meetsync/internal/persistence"
)

// The application layer speaks in domain models while the repositories speak
// in persistence rows; these adapters translate between the two.

type scheduleRepositoryAdapter struct {
	repo persistence.ScheduleRepository
}

func newScheduleRepositoryAdapter(repo persistence.ScheduleRepository) *scheduleRepositoryAdapter {
	return &scheduleRepositoryAdapter{repo: repo}
}

func (a *scheduleRepositoryAdapter) InsertSchedule(ctx context.Context, schedule application.Schedule) error {
	return a.repo.InsertSchedule(ctx, toPersistenceSchedule(schedule))
}

func (a *scheduleRepositoryAdapter) GetScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) (application.Schedule, error) {
	row, err := a.repo.GetScheduleForOwner(ctx, scheduleID, ownerUserID)
	if err != nil {
		return application.Schedule{}, err
	}
	return toApplicationSchedule(row), nil
}

func (a *scheduleRepositoryAdapter) UpdateScheduleForOwner(ctx context.Context, schedule application.Schedule) error {
	return a.repo.UpdateScheduleForOwner(ctx, toPersistenceSchedule(schedule))
}

func (a *scheduleRepositoryAdapter) DeleteScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) error {
	return a.repo.DeleteScheduleForOwner(ctx, scheduleID, ownerUserID)
}

func (a *scheduleRepositoryAdapter) ListSchedulesForOwner(ctx context.Context, ownerUserID string, offset, limit int) ([]application.Schedule, error) {
	rows, err := a.repo.ListSchedulesForOwner(ctx, ownerUserID, offset, limit)
	if err != nil {
		return nil, err
	}
	schedules := make([]application.Schedule, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, toApplicationSchedule(row))
	}
	return schedules, nil
}

func (a *scheduleRepositoryAdapter) CountSchedulesForOwner(ctx context.Context, ownerUserID string) (int, error) {
	return a.repo.CountSchedulesForOwner(ctx, ownerUserID)
}

func (a *scheduleRepositoryAdapter) TouchSchedule(ctx context.Context, scheduleID string, updatedAt time.Time) error {
	return a.repo.TouchSchedule(ctx, scheduleID, updatedAt)
}

type participantRepositoryAdapter struct {
	repo persistence.ParticipantRepository
}

func newParticipantRepositoryAdapter(repo persistence.ParticipantRepository) *participantRepositoryAdapter {
	return &participantRepositoryAdapter{repo: repo}
}

func (a *participantRepositoryAdapter) InsertParticipant(ctx context.Context, participant application.Participant) error {
	return a.repo.InsertParticipant(ctx, toPersistenceParticipant(participant))
}

func (a *participantRepositoryAdapter) GetParticipantForSchedule(ctx context.Context, participantID, scheduleID string) (application.Participant, error) {
	row, err := a.repo.GetParticipantForSchedule(ctx, participantID, scheduleID)
	if err != nil {
		return application.Participant{}, err
	}
	return toApplicationParticipant(row), nil
}

func (a *participantRepositoryAdapter) UpdateParticipant(ctx context.Context, participant application.Participant) error {
	return a.repo.UpdateParticipant(ctx, toPersistenceParticipant(participant))
}

func (a *participantRepositoryAdapter) ListParticipantsForSchedule(ctx context.Context, scheduleID string) ([]application.Participant, error) {
	rows, err := a.repo.ListParticipantsForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	participants := make([]application.Participant, 0, len(rows))
	for _, row := range rows {
		participants = append(participants, toApplicationParticipant(row))
	}
	return participants, nil
}

func (a *participantRepositoryAdapter) DeleteParticipantForSchedule(ctx context.Context, participantID, scheduleID string) error {
	return a.repo.DeleteParticipantForSchedule(ctx, participantID, scheduleID)
}

type suggestionRepositoryAdapter struct {
	repo persistence.SuggestionRepository
}

func newSuggestionRepositoryAdapter(repo persistence.SuggestionRepository) *suggestionRepositoryAdapter {
	return &suggestionRepositoryAdapter{repo: repo}
}

func (a *suggestionRepositoryAdapter) InsertSuggestion(ctx context.Context, suggestion application.Suggestion) error {
	return a.repo.InsertSuggestion(ctx, toPersistenceSuggestion(suggestion))
}

func (a *suggestionRepositoryAdapter) GetSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) (application.Suggestion, error) {
	row, err := a.repo.GetSuggestionForSchedule(ctx, suggestionID, scheduleID)
	if err != nil {
		return application.Suggestion{}, err
	}
	return toApplicationSuggestion(row), nil
}

func (a *suggestionRepositoryAdapter) UpdateSuggestion(ctx context.Context, suggestion application.Suggestion) error {
	return a.repo.UpdateSuggestion(ctx, toPersistenceSuggestion(suggestion))
}

func (a *suggestionRepositoryAdapter) ListSuggestionsForSchedule(ctx context.Context, scheduleID string) ([]application.Suggestion, error) {
	rows, err := a.repo.ListSuggestionsForSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	suggestions := make([]application.Suggestion, 0, len(rows))
	for _, row := range rows {
		suggestions = append(suggestions, toApplicationSuggestion(row))
	}
	return suggestions, nil
}

func (a *suggestionRepositoryAdapter) DeleteSuggestionForSchedule(ctx context.Context, suggestionID, scheduleID string) error {
	return a.repo.DeleteSuggestionForSchedule(ctx, suggestionID, scheduleID)
}

func toPersistenceSchedule(schedule application.Schedule) persistence.Schedule {
	return persistence.Schedule{
		ID:              schedule.ID,
		OwnerUserID:     schedule.OwnerUserID,
		Name:            schedule.Name,
		Description:     schedule.Description,
		BaseTimeZone:    schedule.BaseTimeZone,
		DurationMinutes: schedule.DurationMinutes,
		CreatedAt:       schedule.CreatedAt,
		UpdatedAt:       schedule.UpdatedAt,
	}
}

func toApplicationSchedule(row persistence.Schedule) application.Schedule {
	return application.Schedule{
		ID:              row.ID,
		OwnerUserID:     row.OwnerUserID,
		Name:            row.Name,
		Description:     row.Description,
		BaseTimeZone:    row.BaseTimeZone,
		DurationMinutes: row.DurationMinutes,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func toPersistenceParticipant(participant application.Participant) persistence.Participant {
	return persistence.Participant{
		ID:               participant.ID,
		ScheduleID:       participant.ScheduleID,
		Name:             participant.Name,
		TimeZone:         participant.TimeZone,
		AvailabilityJSON: participant.AvailabilityJSON,
		CreatedAt:        participant.CreatedAt,
	}
}

func toApplicationParticipant(row persistence.Participant) application.Participant {
	return application.Participant{
		ID:               row.ID,
		ScheduleID:       row.ScheduleID,
		Name:             row.Name,
		TimeZone:         row.TimeZone,
		AvailabilityJSON: row.AvailabilityJSON,
		CreatedAt:        row.CreatedAt,
	}
}

func toPersistenceSuggestion(suggestion application.Suggestion) persistence.Suggestion {
	return persistence.Suggestion{
		ID:                suggestion.ID,
		ScheduleID:        suggestion.ScheduleID,
		SuggestedStartUTC: suggestion.SuggestedStartUTC,
		SuggestedEndUTC:   suggestion.SuggestedEndUTC,
		ParticipantsJSON:  suggestion.ParticipantsJSON,
		Score:             suggestion.Score,
		Notes:             suggestion.Notes,
		CreatedAt:         suggestion.CreatedAt,
	}
}

func toApplicationSuggestion(row persistence.Suggestion) application.Suggestion {
	return application.Suggestion{
		ID:                row.ID,
		ScheduleID:        row.ScheduleID,
		SuggestedStartUTC: row.SuggestedStartUTC,
		SuggestedEndUTC:   row.SuggestedEndUTC,
		ParticipantsJSON:  row.ParticipantsJSON,
		Score:             row.Score,
		Notes:             row.Notes,
		CreatedAt:         row.CreatedAt,
	}
}
