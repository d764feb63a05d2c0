package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/meetsync/internal/persistence"
)

// ParentScheduleStore exposes the schedule operations the child services need:
// the ownership-checked lookup and the freshness touch.
type ParentScheduleStore interface {
	GetScheduleForOwner(ctx context.Context, scheduleID, ownerUserID string) (Schedule, error)
	TouchSchedule(ctx context.Context, scheduleID string, updatedAt time.Time) error
}

// requireOwnedSchedule is the single authorization checkpoint. It resolves the
// caller, then loads the schedule filtered by both id and owner. A missing
// schedule and a schedule owned by someone else both surface as ErrNotFound.
func requireOwnedSchedule(ctx context.Context, store ParentScheduleStore, principal Principal, scheduleID string) (Schedule, error) {
	if principal.UserID == "" {
		return Schedule{}, ErrUnauthorized
	}
	if store == nil {
		return Schedule{}, fmt.Errorf("schedule store not configured")
	}

	schedule, err := store.GetScheduleForOwner(ctx, scheduleID, principal.UserID)
	if err != nil {
		return Schedule{}, mapRepoError(err)
	}
	return schedule, nil
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
