package sqlite

import (
	"context"
	"fmt"
)

// Store bundles the SQLite-backed repositories behind a single handle.
type Store struct {
	pool *ConnectionPool

	Schedules    *ScheduleRepository
	Participants *ParticipantRepository
	Suggestions  *SuggestionRepository
}

// Open opens (creating if necessary) the SQLite database at the given DSN and
// returns a store exposing the repositories.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}

	return &Store{
		pool:         pool,
		Schedules:    NewScheduleRepository(pool),
		Participants: NewParticipantRepository(pool),
		Suggestions:  NewSuggestionRepository(pool),
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Ping tests the underlying database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate creates the schema when it does not exist yet. The schema is three
// fixed tables, so idempotent creation replaces a versioned migration chain.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schedules (
			id TEXT PRIMARY KEY,
			owner_user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			base_time_zone TEXT,
			duration_minutes INTEGER CHECK (duration_minutes IS NULL OR duration_minutes > 0),
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedules_owner ON schedules(owner_user_id)`,
		`CREATE TABLE IF NOT EXISTS participants (
			id TEXT PRIMARY KEY,
			schedule_id TEXT NOT NULL REFERENCES schedules(id),
			name TEXT NOT NULL,
			time_zone TEXT NOT NULL,
			availability_json TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_schedule ON participants(schedule_id)`,
		`CREATE TABLE IF NOT EXISTS suggestions (
			id TEXT PRIMARY KEY,
			schedule_id TEXT NOT NULL REFERENCES schedules(id),
			suggested_start_utc TEXT NOT NULL,
			suggested_end_utc TEXT NOT NULL,
			participants_json TEXT,
			score INTEGER CHECK (score IS NULL OR (score >= 0 AND score <= 100)),
			notes TEXT,
			created_at TEXT NOT NULL,
			CHECK (suggested_start_utc < suggested_end_utc)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_schedule ON suggestions(schedule_id)`,
	}

	for _, statement := range statements {
		if _, err := s.pool.DB().ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return nil
}
