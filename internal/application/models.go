package application

import "time"

// Principal represents the authenticated caller invoking a service method.
type Principal struct {
	UserID string
}

// Schedule is the owner-scoped aggregate root for a meeting-coordination effort.
type Schedule struct {
	ID              string
	OwnerUserID     string
	Name            string
	Description     *string
	BaseTimeZone    *string
	DurationMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Participant holds a person's home time zone and availability data attached to a schedule.
type Participant struct {
	ID               string
	ScheduleID       string
	Name             string
	TimeZone         string
	AvailabilityJSON *string
	CreatedAt        time.Time
}

// Suggestion is a candidate meeting window with coverage and score metadata.
// The window bounds are absolute UTC instants; the participants payload is
// stored opaquely and never interpreted by this service.
type Suggestion struct {
	ID                string
	ScheduleID        string
	SuggestedStartUTC time.Time
	SuggestedEndUTC   time.Time
	ParticipantsJSON  *string
	Score             *int
	Notes             *string
	CreatedAt         time.Time
}

// CreateScheduleInput captures caller provided fields for a new schedule.
type CreateScheduleInput struct {
	Name            string
	Description     *string
	BaseTimeZone    *string
	DurationMinutes *int
}

// UpdateScheduleInput captures the optional fields of a schedule update.
// At least one field must be present.
type UpdateScheduleInput struct {
	Name            *string
	Description     *string
	BaseTimeZone    *string
	DurationMinutes *int
}

// CreateScheduleParams wraps the data required to create a schedule.
type CreateScheduleParams struct {
	Principal Principal
	Input     CreateScheduleInput
}

// UpdateScheduleParams wraps the data required to update an existing schedule.
type UpdateScheduleParams struct {
	Principal  Principal
	ScheduleID string
	Input      UpdateScheduleInput
}

// ListSchedulesParams wraps the data required to list the caller's schedules.
type ListSchedulesParams struct {
	Principal Principal
	Page      int
	PageSize  int
}

// SchedulePage is one page of the caller's schedules together with the
// owner-scoped total and the echoed paging inputs.
type SchedulePage struct {
	Items    []Schedule
	Total    int
	Page     int
	PageSize int
}

// ScheduleDetails bundles a schedule with all of its children.
type ScheduleDetails struct {
	Schedule     Schedule
	Participants []Participant
	Suggestions  []Suggestion
}

// ParticipantInput captures caller provided participant fields. A nil ID
// requests creation; a non-nil ID requests an in-place update of the
// participant with that ID under the given schedule.
type ParticipantInput struct {
	ID               *string
	ScheduleID       string
	Name             string
	TimeZone         string
	AvailabilityJSON *string
}

// UpsertParticipantParams wraps the data required to upsert a participant.
type UpsertParticipantParams struct {
	Principal Principal
	Input     ParticipantInput
}

// SuggestionInput captures caller provided suggestion fields. ID semantics
// match ParticipantInput.
type SuggestionInput struct {
	ID                *string
	ScheduleID        string
	SuggestedStartUTC time.Time
	SuggestedEndUTC   time.Time
	ParticipantsJSON  *string
	Score             *int
	Notes             *string
}

// UpsertSuggestionParams wraps the data required to upsert a suggestion.
type UpsertSuggestionParams struct {
	Principal Principal
	Input     SuggestionInput
}
