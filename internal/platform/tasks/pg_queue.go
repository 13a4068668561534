package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DB is the slice of pgxpool.Pool the queue needs. Narrowed to an interface
// so tests can drive the claim and completion paths without a database.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// claimLease bounds how long a claimed task may sit unexecuted. A worker
// that crashes after claiming leaves claimed_at set; once the lease passes,
// the task is eligible for claiming again.
const claimLease = 5 * time.Minute

// PGQueue is a durable Scheduler backed by the deferred_tasks table. Tasks
// survive process restarts; any task whose due time passed while no worker
// was running is picked up on the next poll. Claims use FOR UPDATE SKIP
// LOCKED so multiple workers can poll the same table, and execution is
// at-least-once: a task whose handler fails is released for retry, and a
// claim abandoned by a dead worker expires after claimLease.
type PGQueue struct {
	db       DB
	registry *Registry
	logger   zerolog.Logger
	interval time.Duration
	lease    time.Duration
}

func NewPGQueue(db DB, registry *Registry, logger zerolog.Logger, pollInterval time.Duration) *PGQueue {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &PGQueue{
		db:       db,
		registry: registry,
		logger:   logger,
		interval: pollInterval,
		lease:    claimLease,
	}
}

// ScheduleOnce persists a task due after delay.
func (q *PGQueue) ScheduleOnce(ctx context.Context, taskType string, resourceID uuid.UUID, delay time.Duration) error {
	dueAt := time.Now().Add(delay)
	_, err := q.db.Exec(ctx,
		`INSERT INTO deferred_tasks (id, task_type, resource_id, due_at) VALUES ($1, $2, $3, $4)`,
		uuid.New(), taskType, resourceID, dueAt,
	)
	if err != nil {
		return fmt.Errorf("schedule task %s: %w", taskType, err)
	}
	return nil
}

// Run polls for due tasks until ctx is cancelled. An immediate poll runs on
// startup so tasks that came due while the process was down fire right away.
func (q *PGQueue) Run(ctx context.Context) {
	q.logger.Info().Dur("poll_interval", q.interval).Msg("deferred task worker started")

	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	q.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			q.logger.Info().Msg("deferred task worker stopped")
			return
		case <-ticker.C:
			q.poll(ctx)
		}
	}
}

// poll claims and executes due tasks one at a time until none remain.
func (q *PGQueue) poll(ctx context.Context) {
	for {
		found, err := q.runOne(ctx)
		if err != nil {
			q.logger.Error().Err(err).Msg("deferred task poll failed")
			return
		}
		if !found {
			return
		}
	}
}

// runOne claims a single due task, dispatches it, and marks the outcome.
// Returns false when no due task was available. The outcome updates run on a
// context detached from ctx: a shutdown that cancels the worker mid-dispatch
// must still be able to release the claim, otherwise the task would stay
// claimed until the lease expires.
func (q *PGQueue) runOne(ctx context.Context) (bool, error) {
	tx, err := q.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var taskID, resourceID uuid.UUID
	var taskType string
	err = tx.QueryRow(ctx, `
		SELECT id, task_type, resource_id
		FROM deferred_tasks
		WHERE executed_at IS NULL
		  AND (claimed_at IS NULL OR claimed_at < NOW() - make_interval(secs => $1))
		  AND due_at <= NOW()
		ORDER BY due_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`,
		q.lease.Seconds(),
	).Scan(&taskID, &taskType, &resourceID)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("claim due task: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE deferred_tasks SET claimed_at = NOW(), attempts = attempts + 1 WHERE id = $1`,
		taskID,
	); err != nil {
		return false, fmt.Errorf("mark task claimed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit claim: %w", err)
	}

	done := context.WithoutCancel(ctx)

	if err := q.registry.Dispatch(ctx, taskType, resourceID); err != nil {
		q.logger.Error().
			Err(err).
			Str("task_type", taskType).
			Str("task_id", taskID.String()).
			Str("resource_id", resourceID.String()).
			Msg("deferred task failed, releasing for retry")

		if _, rerr := q.db.Exec(done,
			`UPDATE deferred_tasks SET claimed_at = NULL, last_error = $2 WHERE id = $1`,
			taskID, err.Error(),
		); rerr != nil {
			return true, fmt.Errorf("release failed task: %w", rerr)
		}
		return true, nil
	}

	if _, err := q.db.Exec(done,
		`UPDATE deferred_tasks SET executed_at = NOW() WHERE id = $1`,
		taskID,
	); err != nil {
		return true, fmt.Errorf("mark task executed: %w", err)
	}

	q.logger.Info().
		Str("task_type", taskType).
		Str("task_id", taskID.String()).
		Str("resource_id", resourceID.String()).
		Msg("deferred task executed")

	return true, nil
}
