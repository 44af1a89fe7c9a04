package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driven"
	"github.com/custodia-labs/vetdesk/internal/core/ports/driving"
	"github.com/custodia-labs/vetdesk/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

const (
	// calendarPushBatch caps how many appointments one calendar push sends.
	calendarPushBatch = 50

	// historyKeep is how many results are kept per task.
	historyKeep = 100
)

// Scheduler runs the clinic's recurring jobs on a one-minute tick. Task
// state lives in a SchedulerStore, so intervals survive restarts.
type Scheduler struct {
	config    domain.SchedulerConfig
	store     driven.SchedulerStore
	appts     driving.AppointmentService
	inventory driving.InventoryService
	tenants   driven.TenantStore
	log       *zap.SugaredLogger
	tick      time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// busy holds the IDs of tasks currently executing.
	busy sync.Map
}

// NewScheduler creates a scheduler with configuration.
// appts and inventory may be nil, in which case their tasks do nothing.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	appts driving.AppointmentService,
	inventory driving.InventoryService,
	tenants driven.TenantStore,
) *Scheduler {
	return &Scheduler{
		config:    config,
		store:     store,
		appts:     appts,
		inventory: inventory,
		tenants:   tenants,
		log:       logger.Named("scheduler"),
		tick:      time.Minute,
		now:       time.Now,
	}
}

// Start runs due tasks until ctx is cancelled or Stop is called.
// It returns immediately when the scheduler is disabled or already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.log.Infow("scheduler disabled")
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	if err := s.syncTasks(ctx); err != nil {
		s.log.Errorw("failed to initialise tasks", "error", err)
	}
	return s.loop(ctx, stopCh)
}

// Stop ends the loop and waits for in-flight tasks.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Tasks lists the built-in tasks in display order, creating any that were
// never stored.
func (s *Scheduler) Tasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.syncTasks(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.ScheduledTask, 0, len(domain.TaskIDs()))
	for _, id := range domain.TaskIDs() {
		task, err := s.store.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if task != nil {
			out = append(out, *task)
		}
	}
	return out, nil
}

// RunNow executes one task synchronously and records the result like a
// scheduled run. Disabled tasks run too.
func (s *Scheduler) RunNow(ctx context.Context, taskID string) (*domain.TaskResult, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if !domain.IsKnownTask(taskID) {
		return nil, domain.Invalid("task", "unknown task %q (known: %s)", taskID, strings.Join(domain.TaskIDs(), ", "))
	}
	if err := s.ensureTask(ctx, taskID); err != nil {
		return nil, err
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}
	if _, taken := s.busy.LoadOrStore(taskID, struct{}{}); taken {
		return nil, fmt.Errorf("task %s is already running: %w", taskID, domain.ErrAlreadyExists)
	}
	defer s.busy.Delete(taskID)

	return s.execute(ctx, task), nil
}

// History returns a task's latest results, newest first.
func (s *Scheduler) History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if !domain.IsKnownTask(taskID) {
		return nil, domain.Invalid("task", "unknown task %q", taskID)
	}
	if limit <= 0 {
		limit = 10
	}
	return s.store.GetTaskHistory(ctx, taskID, limit)
}

// syncTasks brings every stored task in line with the configuration.
func (s *Scheduler) syncTasks(ctx context.Context) error {
	var errs []error
	for _, id := range domain.TaskIDs() {
		if err := s.ensureTask(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ensureTask creates a missing task, or updates its enabled flag and
// interval. A changed interval restarts the countdown from now.
func (s *Scheduler) ensureTask(ctx context.Context, id string) error {
	cfg := s.config.GetTaskConfig(id)
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case task == nil:
		task = &domain.ScheduledTask{
			ID:       id,
			Name:     domain.TaskName(id),
			Interval: cfg.Interval,
			Enabled:  cfg.Enabled,
			NextRun:  s.now().Add(cfg.Interval),
		}
	case task.Interval != cfg.Interval:
		task.Interval = cfg.Interval
		task.NextRun = s.now().Add(cfg.Interval)
		task.Enabled = cfg.Enabled
	case task.Enabled != cfg.Enabled:
		task.Enabled = cfg.Enabled
	default:
		return nil
	}
	return s.store.SaveTask(ctx, task)
}

func (s *Scheduler) loop(ctx context.Context, stopCh <-chan struct{}) error {
	s.dispatchDue(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.dispatchDue(ctx)
		}
	}
}

// dispatchDue starts every due task that is not already running.
func (s *Scheduler) dispatchDue(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.log.Errorw("failed to list tasks", "error", err)
		return
	}

	now := s.now()
	for i := range tasks {
		task := tasks[i]
		if !domain.IsKnownTask(task.ID) || !task.Due(now) {
			continue
		}
		if _, taken := s.busy.LoadOrStore(task.ID, struct{}{}); taken {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.busy.Delete(task.ID)
			s.execute(ctx, &task)
		}()
	}
}

// execute runs task, then saves its state, records the result and prunes
// old history.
func (s *Scheduler) execute(ctx context.Context, task *domain.ScheduledTask) *domain.TaskResult {
	result := &domain.TaskResult{TaskID: task.ID, StartedAt: s.now()}

	var err error
	switch task.ID {
	case domain.TaskIDNoShowSweep:
		result.ItemsProcessed, err = s.runNoShowSweep(ctx)
	case domain.TaskIDLowStockReport:
		result.ItemsProcessed, err = s.runLowStockReport(ctx)
	case domain.TaskIDCalendarPush:
		result.ItemsProcessed, err = s.runCalendarPush(ctx)
	default:
		err = fmt.Errorf("no runner for task %q", task.ID)
	}
	result.EndedAt = s.now()

	if err != nil {
		result.Error = err.Error()
		task.LastError = err.Error()
		s.log.Warnw("task failed", "task", task.ID, "error", err)
	} else {
		result.Success = true
		task.LastError = ""
		task.LastSuccess = result.EndedAt
		s.log.Debugw("task finished", "task", task.ID, "items", result.ItemsProcessed, "took", result.Duration())
	}
	task.LastRun = result.StartedAt
	task.NextRun = result.EndedAt.Add(task.Interval)

	if err := s.store.SaveTask(ctx, task); err != nil {
		s.log.Errorw("failed to save task", "task", task.ID, "error", err)
	}
	if err := s.store.RecordResult(ctx, result); err != nil {
		s.log.Errorw("failed to record result", "task", task.ID, "error", err)
	}
	if err := s.store.PruneHistory(ctx, historyKeep); err != nil {
		s.log.Errorw("failed to prune history", "error", err)
	}
	return result
}

func (s *Scheduler) runNoShowSweep(ctx context.Context) (int, error) {
	if s.appts == nil {
		return 0, nil
	}
	return s.appts.SweepNoShows(ctx, s.now())
}

func (s *Scheduler) runCalendarPush(ctx context.Context) (int, error) {
	if s.appts == nil {
		return 0, nil
	}
	return s.appts.PublishPending(ctx, calendarPushBatch)
}

// runLowStockReport logs every tenant's items at or below minimum stock.
func (s *Scheduler) runLowStockReport(ctx context.Context) (int, error) {
	if s.inventory == nil || s.tenants == nil {
		return 0, nil
	}
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	var errs []error
	for i := range tenants {
		low, err := s.inventory.LowStock(ctx, tenants[i].ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(low) == 0 {
			continue
		}
		skus := make([]string, len(low))
		for j := range low {
			skus[j] = low[j].SKU
		}
		s.log.Warnw("low stock", "tenant", tenants[i].Slug, "items", len(low), "skus", strings.Join(skus, ","))
		total += len(low)
	}
	return total, errors.Join(errs...)
}
