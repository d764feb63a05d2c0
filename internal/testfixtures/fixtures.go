package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/meetsync/internal/application"
	"github.com/example/meetsync/internal/persistence"
)

var (
	scheduleCounter    uint64
	participantCounter uint64
	suggestionCounter  uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// --------------------------- Schedule fixtures ---------------------------

// ScheduleFixture represents a deterministic schedule record that can be
// materialised for application or persistence tests.
type ScheduleFixture struct {
	ID              string
	OwnerUserID     string
	Name            string
	Description     *string
	BaseTimeZone    *string
	DurationMinutes *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScheduleOption configures the generated schedule fixture.
type ScheduleOption func(*ScheduleFixture)

// NewScheduleFixture returns a deterministic schedule fixture with optional overrides.
func NewScheduleFixture(opts ...ScheduleOption) ScheduleFixture {
	idx := atomic.AddUint64(&scheduleCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := ScheduleFixture{
		ID:          fmt.Sprintf("schedule-%03d", idx),
		OwnerUserID: "user-001",
		Name:        fmt.Sprintf("Schedule %03d", idx),
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithScheduleID overrides the generated schedule ID.
func WithScheduleID(id string) ScheduleOption {
	return func(f *ScheduleFixture) { f.ID = id }
}

// WithScheduleOwner overrides the owner of the schedule.
func WithScheduleOwner(ownerUserID string) ScheduleOption {
	return func(f *ScheduleFixture) { f.OwnerUserID = ownerUserID }
}

// WithScheduleName overrides the generated schedule name.
func WithScheduleName(name string) ScheduleOption {
	return func(f *ScheduleFixture) { f.Name = name }
}

// WithScheduleTimeZone sets the base time zone of the schedule.
func WithScheduleTimeZone(zone string) ScheduleOption {
	return func(f *ScheduleFixture) { f.BaseTimeZone = &zone }
}

// WithScheduleDuration sets the default meeting duration in minutes.
func WithScheduleDuration(minutes int) ScheduleOption {
	return func(f *ScheduleFixture) { f.DurationMinutes = &minutes }
}

// WithScheduleCreatedAt overrides both timestamps of the schedule.
func WithScheduleCreatedAt(at time.Time) ScheduleOption {
	return func(f *ScheduleFixture) {
		f.CreatedAt = at
		f.UpdatedAt = at
	}
}

// Application materialises the fixture as an application model.
func (f ScheduleFixture) Application() application.Schedule {
	return application.Schedule{
		ID:              f.ID,
		OwnerUserID:     f.OwnerUserID,
		Name:            f.Name,
		Description:     f.Description,
		BaseTimeZone:    f.BaseTimeZone,
		DurationMinutes: f.DurationMinutes,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// Persistence materialises the fixture as a persistence row.
func (f ScheduleFixture) Persistence() persistence.Schedule {
	return persistence.Schedule{
		ID:              f.ID,
		OwnerUserID:     f.OwnerUserID,
		Name:            f.Name,
		Description:     f.Description,
		BaseTimeZone:    f.BaseTimeZone,
		DurationMinutes: f.DurationMinutes,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// ------------------------- Participant fixtures --------------------------

// ParticipantFixture represents a deterministic participant record.
type ParticipantFixture struct {
	ID               string
	ScheduleID       string
	Name             string
	TimeZone         string
	AvailabilityJSON *string
	CreatedAt        time.Time
}

// ParticipantOption configures the generated participant fixture.
type ParticipantOption func(*ParticipantFixture)

// NewParticipantFixture returns a deterministic participant fixture with optional overrides.
func NewParticipantFixture(scheduleID string, opts ...ParticipantOption) ParticipantFixture {
	idx := atomic.AddUint64(&participantCounter, 1)
	fixture := ParticipantFixture{
		ID:         fmt.Sprintf("participant-%03d", idx),
		ScheduleID: scheduleID,
		Name:       fmt.Sprintf("Participant %03d", idx),
		TimeZone:   "UTC",
		CreatedAt:  referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithParticipantID overrides the generated participant ID.
func WithParticipantID(id string) ParticipantOption {
	return func(f *ParticipantFixture) { f.ID = id }
}

// WithParticipantName overrides the generated participant name.
func WithParticipantName(name string) ParticipantOption {
	return func(f *ParticipantFixture) { f.Name = name }
}

// WithParticipantTimeZone overrides the participant's home time zone.
func WithParticipantTimeZone(zone string) ParticipantOption {
	return func(f *ParticipantFixture) { f.TimeZone = zone }
}

// WithParticipantAvailability sets the opaque availability payload.
func WithParticipantAvailability(payload string) ParticipantOption {
	return func(f *ParticipantFixture) { f.AvailabilityJSON = &payload }
}

// Application materialises the fixture as an application model.
func (f ParticipantFixture) Application() application.Participant {
	return application.Participant{
		ID:               f.ID,
		ScheduleID:       f.ScheduleID,
		Name:             f.Name,
		TimeZone:         f.TimeZone,
		AvailabilityJSON: f.AvailabilityJSON,
		CreatedAt:        f.CreatedAt,
	}
}

// Persistence materialises the fixture as a persistence row.
func (f ParticipantFixture) Persistence() persistence.Participant {
	return persistence.Participant{
		ID:               f.ID,
		ScheduleID:       f.ScheduleID,
		Name:             f.Name,
		TimeZone:         f.TimeZone,
		AvailabilityJSON: f.AvailabilityJSON,
		CreatedAt:        f.CreatedAt,
	}
}

// -------------------------- Suggestion fixtures --------------------------

// SuggestionFixture represents a deterministic suggestion record.
type SuggestionFixture struct {
	ID                string
	ScheduleID        string
	SuggestedStartUTC time.Time
	SuggestedEndUTC   time.Time
	ParticipantsJSON  *string
	Score             *int
	Notes             *string
	CreatedAt         time.Time
}

// SuggestionOption configures the generated suggestion fixture.
type SuggestionOption func(*SuggestionFixture)

// NewSuggestionFixture returns a deterministic suggestion fixture with optional overrides.
func NewSuggestionFixture(scheduleID string, opts ...SuggestionOption) SuggestionFixture {
	idx := atomic.AddUint64(&suggestionCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := SuggestionFixture{
		ID:                fmt.Sprintf("suggestion-%03d", idx),
		ScheduleID:        scheduleID,
		SuggestedStartUTC: start,
		SuggestedEndUTC:   start.Add(30 * time.Minute),
		CreatedAt:         referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSuggestionID overrides the generated suggestion ID.
func WithSuggestionID(id string) SuggestionOption {
	return func(f *SuggestionFixture) { f.ID = id }
}

// WithSuggestionWindow sets the window bounds of the suggestion.
func WithSuggestionWindow(start, end time.Time) SuggestionOption {
	return func(f *SuggestionFixture) {
		f.SuggestedStartUTC = start
		f.SuggestedEndUTC = end
	}
}

// WithSuggestionScore sets the suitability score.
func WithSuggestionScore(score int) SuggestionOption {
	return func(f *SuggestionFixture) { f.Score = &score }
}

// WithSuggestionNotes sets the free-form notes.
func WithSuggestionNotes(notes string) SuggestionOption {
	return func(f *SuggestionFixture) { f.Notes = &notes }
}

// Application materialises the fixture as an application model.
func (f SuggestionFixture) Application() application.Suggestion {
	return application.Suggestion{
		ID:                f.ID,
		ScheduleID:        f.ScheduleID,
		SuggestedStartUTC: f.SuggestedStartUTC,
		SuggestedEndUTC:   f.SuggestedEndUTC,
		ParticipantsJSON:  f.ParticipantsJSON,
		Score:             f.Score,
		Notes:             f.Notes,
		CreatedAt:         f.CreatedAt,
	}
}

// Persistence materialises the fixture as a persistence row.
func (f SuggestionFixture) Persistence() persistence.Suggestion {
	return persistence.Suggestion{
		ID:                f.ID,
		ScheduleID:        f.ScheduleID,
		SuggestedStartUTC: f.SuggestedStartUTC,
		SuggestedEndUTC:   f.SuggestedEndUTC,
		ParticipantsJSON:  f.ParticipantsJSON,
		Score:             f.Score,
		Notes:             f.Notes,
		CreatedAt:         f.CreatedAt,
	}
}
