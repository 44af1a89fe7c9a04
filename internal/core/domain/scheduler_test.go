package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSchedulerConfig(t *testing.T) {
	config := DefaultSchedulerConfig()
	assert.True(t, config.Enabled)

	want := map[string]time.Duration{
		TaskIDNoShowSweep:    15 * time.Minute,
		TaskIDLowStockReport: 24 * time.Hour,
		TaskIDCalendarPush:   10 * time.Minute,
	}
	assert.Len(t, config.TaskConfigs, len(want))
	for id, interval := range want {
		cfg := config.GetTaskConfig(id)
		assert.True(t, cfg.Enabled, id)
		assert.Equal(t, interval, cfg.Interval, id)
	}
}

func TestSchedulerConfig_GetTaskConfig_Missing(t *testing.T) {
	for _, config := range []SchedulerConfig{DefaultSchedulerConfig(), {Enabled: true}} {
		cfg := config.GetTaskConfig("reindex")
		assert.Equal(t, TaskConfig{}, cfg)
	}
}

func TestTaskIDs(t *testing.T) {
	ids := TaskIDs()
	assert.Equal(t, []string{TaskIDNoShowSweep, TaskIDLowStockReport, TaskIDCalendarPush}, ids)
	for _, id := range ids {
		assert.True(t, IsKnownTask(id), id)
		assert.NotEmpty(t, TaskName(id), id)
	}
	assert.False(t, IsKnownTask("reindex"))
	assert.Empty(t, TaskName("reindex"))
}

func TestScheduledTask_Due(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task ScheduledTask
		want bool
	}{
		{"never ran", ScheduledTask{Enabled: true}, true},
		{"next run passed", ScheduledTask{Enabled: true, NextRun: now.Add(-time.Minute)}, true},
		{"next run is now", ScheduledTask{Enabled: true, NextRun: now}, true},
		{"next run ahead", ScheduledTask{Enabled: true, NextRun: now.Add(time.Minute)}, false},
		{"disabled", ScheduledTask{NextRun: now.Add(-time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Due(now))
		})
	}
}

func TestTaskResult_Duration(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, 3*time.Second, TaskResult{StartedAt: start, EndedAt: start.Add(3 * time.Second)}.Duration())
	assert.Zero(t, TaskResult{StartedAt: start}.Duration())
}
