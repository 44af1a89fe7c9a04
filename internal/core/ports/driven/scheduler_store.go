package driven

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// SchedulerStore keeps task state and run history across restarts, so a
// daily low-stock report does not fire again after every deploy.
type SchedulerStore interface {
	// GetTask returns (nil, nil) for a task that was never saved.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)
	// SaveTask upserts by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error
	DeleteTask(ctx context.Context, taskID string) error

	RecordResult(ctx context.Context, result *domain.TaskResult) error
	// GetTaskHistory is newest first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
	// PruneHistory keeps the newest keep results of each task.
	PruneHistory(ctx context.Context, keep int) error
}
