package persistence

import "time"

// Schedule is a stored aggregate root row. OwnerUserID never changes after insert.
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

// Participant is a stored child row referencing exactly one schedule.
type Participant struct {
	ID               string
	ScheduleID       string
	Name             string
	TimeZone         string
	AvailabilityJSON *string
	CreatedAt        time.Time
}

// Suggestion is a stored child row referencing exactly one schedule. The
// window bounds are persisted in UTC; the participants payload is opaque.
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
