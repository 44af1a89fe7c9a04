package domain

import "time"

// Built-in background tasks.
const (
	TaskIDNoShowSweep    = "no-show-sweep"
	TaskIDLowStockReport = "low-stock-report"
	TaskIDCalendarPush   = "calendar-push"
)

// NoShowGrace is how long after an appointment ends before it is marked as a no-show.
const NoShowGrace = 2 * time.Hour

var taskNames = map[string]string{
	TaskIDNoShowSweep:    "No-show sweep",
	TaskIDLowStockReport: "Low stock report",
	TaskIDCalendarPush:   "Calendar push",
}

// TaskIDs lists the built-in tasks in display order.
func TaskIDs() []string {
	return []string{TaskIDNoShowSweep, TaskIDLowStockReport, TaskIDCalendarPush}
}

// TaskName returns the display name of a built-in task, or "" if id is unknown.
func TaskName(id string) string {
	return taskNames[id]
}

// IsKnownTask reports whether id names a built-in task.
func IsKnownTask(id string) bool {
	_, ok := taskNames[id]
	return ok
}

// ScheduledTask is the persisted state of one recurring task.
type ScheduledTask struct {
	ID       string
	Name     string
	Interval time.Duration
	Enabled  bool

	LastRun     time.Time
	LastSuccess time.Time
	LastError   string // empty after a successful run
	NextRun     time.Time
}

// Due reports whether an enabled task should run at now.
// A task that never ran is due immediately.
func (t ScheduledTask) Due(now time.Time) bool {
	return t.Enabled && (t.NextRun.IsZero() || !t.NextRun.After(now))
}

// TaskResult records one run of a task.
type TaskResult struct {
	TaskID    string
	StartedAt time.Time
	EndedAt   time.Time
	Success   bool
	Error     string

	// ItemsProcessed counts appointments swept, low-stock items or events pushed.
	ItemsProcessed int
}

// Duration is how long the run took.
func (r TaskResult) Duration() time.Duration {
	if r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// SchedulerConfig is the master switch plus per-task settings keyed by task ID.
type SchedulerConfig struct {
	Enabled     bool
	TaskConfigs map[string]TaskConfig
}

// TaskConfig enables a task and sets its interval.
type TaskConfig struct {
	Enabled  bool
	Interval time.Duration
}

// GetTaskConfig returns the settings for taskID; the zero value when absent.
func (c *SchedulerConfig) GetTaskConfig(taskID string) TaskConfig {
	return c.TaskConfigs[taskID]
}

// DefaultSchedulerConfig sweeps no-shows every 15 minutes, pushes to the
// calendar every 10 minutes and reports low stock once a day.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]TaskConfig{
			TaskIDNoShowSweep:    {Enabled: true, Interval: 15 * time.Minute},
			TaskIDLowStockReport: {Enabled: true, Interval: 24 * time.Hour},
			TaskIDCalendarPush:   {Enabled: true, Interval: 10 * time.Minute},
		},
	}
}
