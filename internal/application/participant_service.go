package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ParticipantRepository captures the persistence operations needed by the
// participant service. Lookups and deletes are filtered by both participant id
// and schedule id so an id belonging to another schedule is never reachable.
type ParticipantRepository interface {
	InsertParticipant(ctx context.Context, participant Participant) error
	GetParticipantForSchedule(ctx context.Context, participantID, scheduleID string) (Participant, error)
	UpdateParticipant(ctx context.Context, participant Participant) error
	ListParticipantsForSchedule(ctx context.Context, scheduleID string) ([]Participant, error)
	DeleteParticipantForSchedule(ctx context.Context, participantID, scheduleID string) error
}

// ParticipantService orchestrates validation, authorization, and persistence
// for participants attached to a schedule.
type ParticipantService struct {
	schedules    ParentScheduleStore
	participants ParticipantRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewParticipantService wires dependencies for participant operations.
func NewParticipantService(schedules ParentScheduleStore, participants ParticipantRepository, idGenerator func() string, now func() time.Time) *ParticipantService {
	return NewParticipantServiceWithLogger(schedules, participants, idGenerator, now, nil)
}

// NewParticipantServiceWithLogger constructs a participant service with a specified logger.
func NewParticipantServiceWithLogger(schedules ParentScheduleStore, participants ParticipantRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ParticipantService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ParticipantService{
		schedules:    schedules,
		participants: participants,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ParticipantService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ParticipantService", operation, attrs...)
}

// UpsertParticipant creates or updates a participant under a schedule owned by
// the caller and returns the full refreshed participant list for that schedule.
// A provided id updates the existing participant in place; an absent id creates
// a new participant with a fresh id.
func (s *ParticipantService) UpsertParticipant(ctx context.Context, params UpsertParticipantParams) (participants []Participant, err error) {
	if s == nil {
		err = fmt.Errorf("ParticipantService is nil")
		return
	}
	if s.participants == nil {
		err = fmt.Errorf("participant repository not configured")
		return
	}

	input := params.Input
	logger := s.loggerWith(ctx, "UpsertParticipant",
		"principal_id", params.Principal.UserID,
		"schedule_id", input.ScheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to upsert participant", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(participants)).InfoContext(ctx, "participant upserted")
	}()

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if strings.TrimSpace(input.TimeZone) == "" {
		vErr.add("time_zone", "time zone is required")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, err = requireOwnedSchedule(ctx, s.schedules, params.Principal, input.ScheduleID); err != nil {
		return
	}

	writeAt := s.now()
	if input.ID != nil {
		var existing Participant
		existing, err = s.participants.GetParticipantForSchedule(ctx, *input.ID, input.ScheduleID)
		if err != nil {
			err = mapRepoError(err)
			return
		}

		// Identity fields (id, schedule id, created at) stay untouched.
		updated := existing
		updated.Name = strings.TrimSpace(input.Name)
		updated.TimeZone = strings.TrimSpace(input.TimeZone)
		updated.AvailabilityJSON = input.AvailabilityJSON

		if err = s.participants.UpdateParticipant(ctx, updated); err != nil {
			err = mapRepoError(err)
			return
		}
	} else {
		participant := Participant{
			ID:               s.idGenerator(),
			ScheduleID:       input.ScheduleID,
			Name:             strings.TrimSpace(input.Name),
			TimeZone:         strings.TrimSpace(input.TimeZone),
			AvailabilityJSON: input.AvailabilityJSON,
			CreatedAt:        writeAt,
		}
		if err = s.participants.InsertParticipant(ctx, participant); err != nil {
			err = mapRepoError(err)
			return
		}
	}

	if err = s.schedules.TouchSchedule(ctx, input.ScheduleID, s.now()); err != nil {
		err = mapRepoError(err)
		return
	}

	participants, err = s.participants.ListParticipantsForSchedule(ctx, input.ScheduleID)
	if err != nil {
		err = mapRepoError(err)
		participants = nil
		return
	}

	return participants, nil
}

// DeleteParticipant removes one participant from a schedule owned by the caller.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, principal Principal, scheduleID, participantID string) (err error) {
	if s == nil {
		return fmt.Errorf("ParticipantService is nil")
	}
	if s.participants == nil {
		return fmt.Errorf("participant repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteParticipant",
		"principal_id", principal.UserID,
		"schedule_id", scheduleID,
		"participant_id", participantID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete participant", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "participant deleted")
	}()

	if _, err = requireOwnedSchedule(ctx, s.schedules, principal, scheduleID); err != nil {
		return
	}

	if err = s.participants.DeleteParticipantForSchedule(ctx, participantID, scheduleID); err != nil {
		err = mapRepoError(err)
		return
	}

	if err = s.schedules.TouchSchedule(ctx, scheduleID, s.now()); err != nil {
		err = mapRepoError(err)
		return
	}

	return nil
}
