package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/meetsync/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// ScheduleServiceDeps captures dependencies for constructing a schedule service.
type ScheduleServiceDeps struct {
	Schedules    application.ScheduleRepository
	Participants application.ParticipantRepository
	Suggestions  application.SuggestionRepository
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewScheduleService builds a schedule service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewScheduleService(deps ScheduleServiceDeps) *application.ScheduleService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewScheduleServiceWithLogger(
		deps.Schedules,
		deps.Participants,
		deps.Suggestions,
		idGen,
		now,
		deps.Logger,
	)
}

// ParticipantServiceDeps captures dependencies for constructing a participant service.
type ParticipantServiceDeps struct {
	Schedules    application.ParentScheduleStore
	Participants application.ParticipantRepository
	IDGenerator  func() string
	Now          func() time.Time
	Logger       *slog.Logger
}

// NewParticipantService builds a participant service using the supplied dependencies.
func (f *ServiceFactory) NewParticipantService(deps ParticipantServiceDeps) *application.ParticipantService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewParticipantServiceWithLogger(
		deps.Schedules,
		deps.Participants,
		idGen,
		now,
		deps.Logger,
	)
}

// SuggestionServiceDeps captures dependencies for constructing a suggestion service.
type SuggestionServiceDeps struct {
	Schedules   application.ParentScheduleStore
	Suggestions application.SuggestionRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewSuggestionService builds a suggestion service using the supplied dependencies.
func (f *ServiceFactory) NewSuggestionService(deps SuggestionServiceDeps) *application.SuggestionService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewSuggestionServiceWithLogger(
		deps.Schedules,
		deps.Suggestions,
		idGen,
		now,
		deps.Logger,
	)
}
