package driving

import (
	"context"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// Scheduler runs the clinic's recurring jobs: the no-show sweep, the
// low-stock report and the calendar push.
type Scheduler interface {
	// Start runs due tasks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error
	// Stop waits for in-flight tasks and ends Start.
	Stop() error

	// Tasks lists every built-in task with its persisted state.
	Tasks(ctx context.Context) ([]domain.ScheduledTask, error)
	// RunNow runs one task immediately, whether or not it is due or enabled.
	RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error)
	// History returns a task's latest results, newest first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)
}
