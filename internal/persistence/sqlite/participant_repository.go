package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/meetsync/internal/persistence"
)

// ParticipantRepository implements persistence.ParticipantRepository using SQLite.
type ParticipantRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewParticipantRepository creates a new SQLite participant repository.
func NewParticipantRepository(pool *ConnectionPool) *ParticipantRepository {
	return &ParticipantRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertParticipant inserts a new participant row.
func (r *ParticipantRepository) InsertParticipant(ctx context.Context, participant persistence.Participant) error {
	if participant.ID == "" || participant.ScheduleID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO participants (id, schedule_id, name, time_zone, availability_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		participant.ID,
		participant.ScheduleID,
		participant.Name,
		participant.TimeZone,
		nullString(participant.AvailabilityJSON),
		formatTime(participant.CreatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetParticipantForSchedule retrieves a participant filtered by both id and
// schedule id, so an id valid under a different schedule is unreachable.
func (r *ParticipantRepository) GetParticipantForSchedule(ctx context.Context, participantID, scheduleID string) (persistence.Participant, error) {
	if participantID == "" || scheduleID == "" {
		return persistence.Participant{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, schedule_id, name, time_zone, availability_json, created_at
		FROM participants
		WHERE id = ? AND schedule_id = ?
	`

	row := r.helper.QueryRow(ctx, query, participantID, scheduleID)
	participant, err := scanParticipant(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Participant{}, persistence.ErrNotFound
		}
		return persistence.Participant{}, r.mapper.MapError(err)
	}

	return participant, nil
}

// UpdateParticipant updates the mutable columns of a participant. Identity
// columns (id, schedule_id, created_at) are never written.
func (r *ParticipantRepository) UpdateParticipant(ctx context.Context, participant persistence.Participant) error {
	if participant.ID == "" || participant.ScheduleID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE participants
		SET name = ?, time_zone = ?, availability_json = ?
		WHERE id = ? AND schedule_id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		participant.Name,
		participant.TimeZone,
		nullString(participant.AvailabilityJSON),
		participant.ID,
		participant.ScheduleID,
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

// ListParticipantsForSchedule lists all participants of one schedule ordered
// by created_at then id.
func (r *ParticipantRepository) ListParticipantsForSchedule(ctx context.Context, scheduleID string) ([]persistence.Participant, error) {
	query := `
		SELECT id, schedule_id, name, time_zone, availability_json, created_at
		FROM participants
		WHERE schedule_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.helper.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var participants []persistence.Participant
	for rows.Next() {
		participant, err := scanParticipant(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		participants = append(participants, participant)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return participants, nil
}

// DeleteParticipantForSchedule removes one participant filtered by both id and
// schedule id.
func (r *ParticipantRepository) DeleteParticipantForSchedule(ctx context.Context, participantID, scheduleID string) error {
	if participantID == "" || scheduleID == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, "DELETE FROM participants WHERE id = ? AND schedule_id = ?", participantID, scheduleID)
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

func scanParticipant(scan func(dest ...interface{}) error) (persistence.Participant, error) {
	var participant persistence.Participant
	var createdAtStr string
	var availabilityJSON sql.NullString

	err := scan(
		&participant.ID,
		&participant.ScheduleID,
		&participant.Name,
		&participant.TimeZone,
		&availabilityJSON,
		&createdAtStr,
	)
	if err != nil {
		return persistence.Participant{}, err
	}

	participant.AvailabilityJSON = stringPtr(availabilityJSON)

	if participant.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return persistence.Participant{}, err
	}

	return participant, nil
}
