package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Pagination bounds applied to schedule listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ScheduleRepository captures the persistence interactions needed by the
// schedule service. Every owner-scoped method filters by both schedule id and
// owner so a mismatch is indistinguishable from a missing record.
type ScheduleRepository interface {
	InsertSchedule(ctx context.Context, schedule Schedule) error
	GetScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) (Schedule, error)
	UpdateScheduleForOwner(ctx context.Context, schedule Schedule) error
	// DeleteScheduleForOwner removes the schedule's suggestions, then its
	// participants, then the schedule row itself. The schedule row goes last so
	// an interrupted delete can never leave dangling children.
	DeleteScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) error
	ListSchedulesForOwner(ctx context.Context, ownerUserID string, offset, limit int) ([]Schedule, error)
	CountSchedulesForOwner(ctx context.Context, ownerUserID string) (int, error)
	TouchSchedule(ctx context.Context, scheduleID string, updatedAt time.Time) error
}

// ScheduleService orchestrates validation, authorization, and persistence for
// schedule lifecycle operations.
type ScheduleService struct {
	schedules    ScheduleRepository
	participants ParticipantRepository
	suggestions  SuggestionRepository
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewScheduleService wires dependencies for schedule operations.
func NewScheduleService(schedules ScheduleRepository, participants ParticipantRepository, suggestions SuggestionRepository, idGenerator func() string, now func() time.Time) *ScheduleService {
	return NewScheduleServiceWithLogger(schedules, participants, suggestions, idGenerator, now, nil)
}

// NewScheduleServiceWithLogger constructs a schedule service with a specified logger.
func NewScheduleServiceWithLogger(schedules ScheduleRepository, participants ParticipantRepository, suggestions SuggestionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ScheduleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		schedules:    schedules,
		participants: participants,
		suggestions:  suggestions,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// CreateSchedule validates input and persists a new schedule owned by the caller.
func (s *ScheduleService) CreateSchedule(ctx context.Context, params CreateScheduleParams) (schedule Schedule, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateSchedule", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("schedule_id", schedule.ID).InfoContext(ctx, "schedule created")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	vErr := &ValidationError{}
	validateScheduleFields(strings.TrimSpace(params.Input.Name) == "", params.Input.DurationMinutes, params.Input.BaseTimeZone, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	createdAt := s.now()
	schedule = Schedule{
		ID:              s.idGenerator(),
		OwnerUserID:     params.Principal.UserID,
		Name:            strings.TrimSpace(params.Input.Name),
		Description:     params.Input.Description,
		BaseTimeZone:    params.Input.BaseTimeZone,
		DurationMinutes: params.Input.DurationMinutes,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	if s.schedules == nil {
		return schedule, nil
	}

	if err = s.schedules.InsertSchedule(ctx, schedule); err != nil {
		err = mapRepoError(err)
		schedule = Schedule{}
		return
	}

	return schedule, nil
}

// UpdateSchedule applies the provided fields to a schedule owned by the caller
// and returns a fresh read of the updated record.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, params UpdateScheduleParams) (schedule Schedule, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateSchedule",
		"principal_id", params.Principal.UserID,
		"schedule_id", params.ScheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule updated")
	}()

	input := params.Input

	// The empty update is a caller error, reported before any store access.
	vErr := &ValidationError{}
	if input.Name == nil && input.Description == nil && input.BaseTimeZone == nil && input.DurationMinutes == nil {
		vErr.add("input", "at least one field must be provided")
	}
	nameMissing := input.Name != nil && strings.TrimSpace(*input.Name) == ""
	validateScheduleFields(nameMissing, input.DurationMinutes, input.BaseTimeZone, vErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	existing, err := requireOwnedSchedule(ctx, s.schedules, params.Principal, params.ScheduleID)
	if err != nil {
		return
	}

	updated := existing
	if input.Name != nil {
		updated.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updated.Description = input.Description
	}
	if input.BaseTimeZone != nil {
		updated.BaseTimeZone = input.BaseTimeZone
	}
	if input.DurationMinutes != nil {
		updated.DurationMinutes = input.DurationMinutes
	}
	updated.UpdatedAt = s.now()

	// The write is filtered by id and owner again, mirroring the guard.
	if err = s.schedules.UpdateScheduleForOwner(ctx, updated); err != nil {
		err = mapRepoError(err)
		return
	}

	schedule, err = s.schedules.GetScheduleForOwner(ctx, params.ScheduleID, params.Principal.UserID)
	if err != nil {
		err = mapRepoError(err)
		schedule = Schedule{}
		return
	}

	return schedule, nil
}

// DeleteSchedule removes a schedule owned by the caller together with all of
// its participants and suggestions.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, principal Principal, scheduleID string) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteSchedule",
		"principal_id", principal.UserID,
		"schedule_id", scheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete schedule", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "schedule deleted")
	}()

	if _, err = requireOwnedSchedule(ctx, s.schedules, principal, scheduleID); err != nil {
		return
	}

	if err = s.schedules.DeleteScheduleForOwner(ctx, scheduleID, principal.UserID); err != nil {
		err = mapRepoError(err)
		return
	}

	return nil
}

// ListSchedules returns one page of the caller's schedules along with the
// owner-scoped total. Out-of-range paging inputs fall back to the defaults.
func (s *ScheduleService) ListSchedules(ctx context.Context, params ListSchedulesParams) (page SchedulePage, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}
	if s.schedules == nil {
		err = fmt.Errorf("schedule repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "ListSchedules", "principal_id", params.Principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list schedules", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(page.Items), "total", page.Total).InfoContext(ctx, "schedules listed")
	}()

	if params.Principal.UserID == "" {
		err = ErrUnauthorized
		return
	}

	pageNumber, pageSize := normalizePaging(params.Page, params.PageSize)
	offset := (pageNumber - 1) * pageSize

	items, err := s.schedules.ListSchedulesForOwner(ctx, params.Principal.UserID, offset, pageSize)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	total, err := s.schedules.CountSchedulesForOwner(ctx, params.Principal.UserID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	page = SchedulePage{
		Items:    items,
		Total:    total,
		Page:     pageNumber,
		PageSize: pageSize,
	}
	return page, nil
}

// GetScheduleDetails returns a schedule owned by the caller along with all of
// its participants and suggestions. The two child reads run concurrently; they
// have no ordering dependency and are merged only at the response boundary.
func (s *ScheduleService) GetScheduleDetails(ctx context.Context, principal Principal, scheduleID string) (details ScheduleDetails, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}

	logger := s.loggerWith(ctx, "GetScheduleDetails",
		"principal_id", principal.UserID,
		"schedule_id", scheduleID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to fetch schedule details", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	schedule, err := requireOwnedSchedule(ctx, s.schedules, principal, scheduleID)
	if err != nil {
		return
	}

	var (
		wg             sync.WaitGroup
		participants   []Participant
		suggestions    []Suggestion
		participantErr error
		suggestionErr  error
	)

	if s.participants != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			participants, participantErr = s.participants.ListParticipantsForSchedule(ctx, scheduleID)
		}()
	}
	if s.suggestions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suggestions, suggestionErr = s.suggestions.ListSuggestionsForSchedule(ctx, scheduleID)
		}()
	}
	wg.Wait()

	if participantErr != nil {
		err = mapRepoError(participantErr)
		return
	}
	if suggestionErr != nil {
		err = mapRepoError(suggestionErr)
		return
	}

	details = ScheduleDetails{
		Schedule:     schedule,
		Participants: participants,
		Suggestions:  suggestions,
	}
	return details, nil
}

func validateScheduleFields(nameMissing bool, durationMinutes *int, baseTimeZone *string, vErr *ValidationError) {
	if nameMissing {
		vErr.add("name", "name is required")
	}
	if durationMinutes != nil && *durationMinutes <= 0 {
		vErr.add("duration_minutes", "duration must be a positive integer")
	}
	if baseTimeZone != nil && strings.TrimSpace(*baseTimeZone) == "" {
		vErr.add("base_time_zone", "time zone must not be empty")
	}
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
