package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/meetsync/internal/persistence"
)

// ScheduleRepository implements persistence.ScheduleRepository using SQLite.
type ScheduleRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(pool *ConnectionPool) *ScheduleRepository {
	return &ScheduleRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// InsertSchedule inserts a new schedule row.
func (r *ScheduleRepository) InsertSchedule(ctx context.Context, schedule persistence.Schedule) error {
	if schedule.ID == "" || schedule.OwnerUserID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO schedules (id, owner_user_id, name, description, base_time_zone, duration_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		schedule.ID,
		schedule.OwnerUserID,
		schedule.Name,
		nullString(schedule.Description),
		nullString(schedule.BaseTimeZone),
		nullInt(schedule.DurationMinutes),
		formatTime(schedule.CreatedAt),
		formatTime(schedule.UpdatedAt),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	return nil
}

// GetScheduleForOwner retrieves a schedule filtered by both id and owner.
func (r *ScheduleRepository) GetScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) (persistence.Schedule, error) {
	if scheduleID == "" || ownerUserID == "" {
		return persistence.Schedule{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, owner_user_id, name, description, base_time_zone, duration_minutes, created_at, updated_at
		FROM schedules
		WHERE id = ? AND owner_user_id = ?
	`

	row := r.helper.QueryRow(ctx, query, scheduleID, ownerUserID)
	schedule, err := scanSchedule(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Schedule{}, persistence.ErrNotFound
		}
		return persistence.Schedule{}, r.mapper.MapError(err)
	}

	return schedule, nil
}

// UpdateScheduleForOwner updates the mutable columns of a schedule, filtered
// by both id and owner. The owner column itself is never written.
func (r *ScheduleRepository) UpdateScheduleForOwner(ctx context.Context, schedule persistence.Schedule) error {
	if schedule.ID == "" || schedule.OwnerUserID == "" {
		return persistence.ErrNotFound
	}

	query := `
		UPDATE schedules
		SET name = ?, description = ?, base_time_zone = ?, duration_minutes = ?, updated_at = ?
		WHERE id = ? AND owner_user_id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		schedule.Name,
		nullString(schedule.Description),
		nullString(schedule.BaseTimeZone),
		nullInt(schedule.DurationMinutes),
		formatTime(schedule.UpdatedAt),
		schedule.ID,
		schedule.OwnerUserID,
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

// DeleteScheduleForOwner removes a schedule and its children in one
// transaction. Children go first and the schedule row last, so an interrupted
// delete can never leave dangling child rows.
func (r *ScheduleRepository) DeleteScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) error {
	if scheduleID == "" || ownerUserID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx, "DELETE FROM suggestions WHERE schedule_id = ?", scheduleID); err != nil {
			return r.mapper.MapError(err)
		}

		if _, err := r.helper.ExecTx(tx, "DELETE FROM participants WHERE schedule_id = ?", scheduleID); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM schedules WHERE id = ? AND owner_user_id = ?", scheduleID, ownerUserID)
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
	})
}

// ListSchedulesForOwner lists one page of an owner's schedules ordered by
// created_at then id for deterministic paging.
func (r *ScheduleRepository) ListSchedulesForOwner(ctx context.Context, ownerUserID string, offset, limit int) ([]persistence.Schedule, error) {
	query := `
		SELECT id, owner_user_id, name, description, base_time_zone, duration_minutes, created_at, updated_at
		FROM schedules
		WHERE owner_user_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`

	rows, err := r.helper.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var schedules []persistence.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows.Scan)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	return schedules, nil
}

// CountSchedulesForOwner counts all schedules owned by the given user.
func (r *ScheduleRepository) CountSchedulesForOwner(ctx context.Context, ownerUserID string) (int, error) {
	var count int
	err := r.helper.QueryRow(ctx, "SELECT COUNT(*) FROM schedules WHERE owner_user_id = ?", ownerUserID).Scan(&count)
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return count, nil
}

// TouchSchedule refreshes only the updated_at column. No ownership filter is
// applied: the caller is already authorized by the preceding guard in the same
// request.
func (r *ScheduleRepository) TouchSchedule(ctx context.Context, scheduleID string, updatedAt time.Time) error {
	_, err := r.helper.Exec(ctx, "UPDATE schedules SET updated_at = ? WHERE id = ?", formatTime(updatedAt), scheduleID)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func scanSchedule(scan func(dest ...interface{}) error) (persistence.Schedule, error) {
	var schedule persistence.Schedule
	var createdAtStr, updatedAtStr string
	var description, baseTimeZone sql.NullString
	var durationMinutes sql.NullInt64

	err := scan(
		&schedule.ID,
		&schedule.OwnerUserID,
		&schedule.Name,
		&description,
		&baseTimeZone,
		&durationMinutes,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Schedule{}, err
	}

	schedule.Description = stringPtr(description)
	schedule.BaseTimeZone = stringPtr(baseTimeZone)
	schedule.DurationMinutes = intPtr(durationMinutes)

	if schedule.CreatedAt, err = parseTime(createdAtStr, "created_at"); err != nil {
		return persistence.Schedule{}, err
	}
	if schedule.UpdatedAt, err = parseTime(updatedAtStr, "updated_at"); err != nil {
		return persistence.Schedule{}, err
	}

	return schedule, nil
}

// Timestamps are stored as UTC text with fixed-width nanoseconds. The fixed
// width matters: RFC3339Nano drops trailing fractional zeros, which would make
// "09:00:00Z" sort after "09:00:00.5Z" and break both the window CHECK and the
// created_at ordering. With a constant width, lexicographic order equals
// chronological order.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeFormat)
}

func parseTime(value, column string) (time.Time, error) {
	// Accept any fractional width on read so rows written before the
	// fixed-width format still load.
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	value := v.String
	return &value
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	value := int(v.Int64)
	return &value
}
