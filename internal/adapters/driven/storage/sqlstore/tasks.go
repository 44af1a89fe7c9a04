package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
)

// taskStore implements driven.SchedulerStore. Tasks are global, not per
// tenant: one sweep walks every tenant.
type taskStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*taskStore)(nil)

const (
	taskColumns   = `id, name, interval_seconds, last_run, next_run, last_error, last_success, enabled`
	resultColumns = `task_id, started_at, ended_at, success, error, items_processed`

	upsertTask = `
		INSERT INTO scheduled_tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			interval_seconds = excluded.interval_seconds,
			last_run = excluded.last_run,
			next_run = excluded.next_run,
			last_error = excluded.last_error,
			last_success = excluded.last_success,
			enabled = excluded.enabled`

	// newest first; id breaks ties between runs started in the same second
	resultOrder = ` ORDER BY started_at DESC, id DESC`

	// trimTask deletes everything but the newest rows of one task.
	trimTask = `
		DELETE FROM task_results
		WHERE task_id = ? AND id NOT IN (
			SELECT id FROM (
				SELECT id FROM task_results WHERE task_id = ?` + resultOrder + ` LIMIT ?
			) newest
		)`
)

// GetTask returns nil, nil for an unknown ID so the scheduler can create it.
func (s *taskStore) GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error) {
	task, err := queryOne(ctx, s.store, scanTask,
		`SELECT `+taskColumns+` FROM scheduled_tasks WHERE id = ?`, taskID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, wrap("reading task "+taskID, err)
	}
	return task, nil
}

// ListTasks returns every task ordered by ID.
func (s *taskStore) ListTasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	tasks, err := queryAll(ctx, s.store, scanTask,
		`SELECT `+taskColumns+` FROM scheduled_tasks ORDER BY id`)
	return tasks, wrap("listing tasks", err)
}

func (s *taskStore) SaveTask(ctx context.Context, task *domain.ScheduledTask) error {
	if task == nil {
		return domain.Invalid("task", "is nil")
	}
	err := s.store.exec(ctx, upsertTask,
		task.ID, task.Name, int64(task.Interval/time.Second),
		formatNullableTime(task.LastRun), formatNullableTime(task.NextRun),
		nullString(task.LastError), formatNullableTime(task.LastSuccess),
		task.Enabled)
	return saveError("task "+task.ID, err)
}

// DeleteTask leaves the task's history in place; PruneHistory still trims it.
func (s *taskStore) DeleteTask(ctx context.Context, taskID string) error {
	return deleteError("task "+taskID,
		s.store.exec(ctx, `DELETE FROM scheduled_tasks WHERE id = ?`, taskID))
}

func (s *taskStore) RecordResult(ctx context.Context, result *domain.TaskResult) error {
	if result == nil {
		return domain.Invalid("result", "is nil")
	}
	err := s.store.exec(ctx,
		`INSERT INTO task_results (`+resultColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		result.TaskID, formatTime(result.StartedAt), formatTime(result.EndedAt),
		result.Success, nullString(result.Error), result.ItemsProcessed)
	return saveError("result of "+result.TaskID, err)
}

// GetTaskHistory returns up to limit runs of taskID, newest first.
// A limit of zero or less returns every stored run.
func (s *taskStore) GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	query := `SELECT ` + resultColumns + ` FROM task_results WHERE task_id = ?` + resultOrder
	args := []any{taskID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	results, err := queryAll(ctx, s.store, scanResult, query, args...)
	return results, wrap("reading history of "+taskID, err)
}

// PruneHistory trims each task to its newest keep runs in one transaction.
func (s *taskStore) PruneHistory(ctx context.Context, keep int) error {
	if keep < 1 {
		return domain.Invalid("keep", "must be at least 1, got %d", keep)
	}
	rebind := s.store.dialect.rebind
	err := s.store.withTx(ctx, func(tx *sql.Tx) error {
		ids, err := distinctTaskIDs(ctx, tx, rebind)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, rebind(trimTask), id, id, keep); err != nil {
				return wrap("trimming "+id, err)
			}
		}
		return nil
	})
	return wrap("pruning task history", err)
}

func distinctTaskIDs(ctx context.Context, tx *sql.Tx, rebind func(string) string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, rebind(`SELECT DISTINCT task_id FROM task_results`))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanTask(row scanner) (*domain.ScheduledTask, error) {
	var (
		t                 domain.ScheduledTask
		seconds           int64
		lastRun, nextRun  sql.NullString
		lastOK, lastError sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &seconds, &lastRun, &nextRun, &lastError, &lastOK, &t.Enabled)
	if err != nil {
		return nil, err
	}
	t.Interval = time.Duration(seconds) * time.Second
	var ts stamps
	t.LastRun = ts.nullable("last_run", lastRun)
	t.NextRun = ts.nullable("next_run", nextRun)
	t.LastSuccess = ts.nullable("last_success", lastOK)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning task %s: %w", t.ID, ts.err)
	}
	t.LastError = lastError.String
	return &t, nil
}

func scanResult(row scanner) (*domain.TaskResult, error) {
	var (
		r              domain.TaskResult
		started, ended string
		message        sql.NullString
	)
	if err := row.Scan(&r.TaskID, &started, &ended, &r.Success, &message, &r.ItemsProcessed); err != nil {
		return nil, err
	}
	var ts stamps
	r.StartedAt = ts.at("started_at", started)
	r.EndedAt = ts.at("ended_at", ended)
	if ts.err != nil {
		return nil, fmt.Errorf("scanning result of task %s: %w", r.TaskID, ts.err)
	}
	r.Error = message.String
	return &r, nil
}
