// Package scheduler exposes the task scheduling operations consumed
// by the HTTP layer: calendar-driven task generation, batch task
// mutation, and dependency graph management.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agroplan/farmtask/internal/generate"
	"github.com/agroplan/farmtask/internal/model"
	"github.com/agroplan/farmtask/internal/store"
)

// Notifier delivers task-assignment notifications. Delivery is best
// effort: the scheduler logs and swallows notifier errors so a failed
// notification never fails the task mutation that triggered it.
type Notifier interface {
	TaskAssigned(ctx context.Context, task model.Task) error
}

// Scheduler wires the task store, the crop task generator, and the
// notifier into the caller-facing operation surface.
type Scheduler struct {
	store     store.Store
	generator *generate.Generator
	notifier  Notifier
	logger    *slog.Logger

	maxBatchSize       int
	notifyOnAssignment bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithGenerator replaces the default generator (built-in calendars).
func WithGenerator(g *generate.Generator) Option {
	return func(s *Scheduler) { s.generator = g }
}

// WithNotifier sets the assignment notifier. Without one, assignment
// notifications are skipped.
func WithNotifier(n Notifier) Option {
	return func(s *Scheduler) { s.notifier = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithConfig applies scheduling settings from the app configuration.
func WithConfig(cfg model.SchedulingConfig) Option {
	return func(s *Scheduler) {
		if cfg.MaxBatchSize > 0 && cfg.MaxBatchSize <= model.MaxBatchCeiling {
			s.maxBatchSize = cfg.MaxBatchSize
		}
		s.notifyOnAssignment = cfg.NotifyOnAssignment
	}
}

// New creates a Scheduler backed by st.
func New(st store.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:              st,
		generator:          generate.New(),
		logger:             slog.Default(),
		maxBatchSize:       model.MaxBatchCeiling,
		notifyOnAssignment: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateTasksForCropPlan expands crop plan calendars into persisted
// tasks. When cropPlanID is empty, every crop plan under the farm
// plan is expanded, each against its own planting date. A zero
// plantingDate falls back to the crop plan's planting date, then to
// the current time.
func (s *Scheduler) GenerateTasksForCropPlan(ctx context.Context, farmPlanID, cropPlanID string, plantingDate time.Time) ([]model.Task, error) {
	if farmPlanID == "" {
		return nil, &store.ValidationError{Field: "farm_plan_id", Reason: "is required"}
	}

	var plans []model.CropPlan
	if cropPlanID != "" {
		plan, err := s.store.GetCropPlanByID(ctx, cropPlanID)
		if err != nil {
			return nil, err
		}
		if plan.FarmPlanID != farmPlanID {
			return nil, fmt.Errorf("crop plan %s: %w", cropPlanID, store.ErrNotFound)
		}
		plans = []model.CropPlan{*plan}
	} else {
		var err error
		plans, err = s.store.ListCropPlans(ctx, farmPlanID)
		if err != nil {
			return nil, err
		}
		if len(plans) == 0 {
			return nil, fmt.Errorf("no crop plans under farm plan %s: %w", farmPlanID, store.ErrNotFound)
		}
	}

	var created []model.Task
	for _, plan := range plans {
		planting := plantingDate
		if planting.IsZero() {
			if plan.PlantingDate != nil {
				planting = *plan.PlantingDate
			} else {
				planting = time.Now().UTC()
			}
		}

		drafts := s.generator.Generate(plan.CropName, plan.Hectares, planting)

		cropPlanRef := plan.ID
		tasks := make([]model.Task, len(drafts))
		for i, d := range drafts {
			due := d.DueDate
			tasks[i] = model.Task{
				FarmPlanID:  farmPlanID,
				CropPlanID:  &cropPlanRef,
				Title:       d.Title,
				Description: d.Description,
				Status:      model.StatusPending,
				Priority:    d.Priority,
				Category:    d.Category,
				DueDate:     &due,
			}
		}

		// The store caps batch size, so persist in chunks.
		for start := 0; start < len(tasks); start += s.maxBatchSize {
			end := start + s.maxBatchSize
			if end > len(tasks) {
				end = len(tasks)
			}
			batch, err := s.store.CreateTasks(ctx, tasks[start:end])
			if err != nil {
				return nil, fmt.Errorf("persisting generated tasks for crop plan %s: %w", plan.ID, err)
			}
			created = append(created, batch...)
		}

		s.logger.Info("generated crop tasks",
			"farm_plan_id", farmPlanID,
			"crop_plan_id", plan.ID,
			"crop", plan.CropName,
			"count", len(tasks),
		)
	}

	return created, nil
}

// CreateTasksBatch creates up to the configured batch size of tasks
// atomically and fires assignment notifications for tasks assigned to
// someone other than their creator.
func (s *Scheduler) CreateTasksBatch(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	if len(tasks) > s.maxBatchSize {
		return nil, &store.ValidationError{
			Reason: fmt.Sprintf("batch exceeds maximum of %d items", s.maxBatchSize),
		}
	}

	created, err := s.store.CreateTasks(ctx, tasks)
	if err != nil {
		return nil, err
	}

	for _, task := range created {
		s.notifyAssignment(ctx, task)
	}
	return created, nil
}

// UpdateTasksBatch applies a batch of partial updates atomically.
// Items with nothing valid to apply are skipped, not failed.
func (s *Scheduler) UpdateTasksBatch(ctx context.Context, updates []model.BatchTaskUpdate) ([]model.Task, error) {
	if len(updates) > s.maxBatchSize {
		return nil, &store.ValidationError{
			Reason: fmt.Sprintf("batch exceeds maximum of %d items", s.maxBatchSize),
		}
	}
	return s.store.UpdateTasks(ctx, updates)
}

// DeleteTasksBatch deletes the given task ids in one transaction and
// returns the count actually removed. Missing ids are not an error.
func (s *Scheduler) DeleteTasksBatch(ctx context.Context, ids []string) (int64, error) {
	if len(ids) > s.maxBatchSize {
		return 0, &store.ValidationError{
			Reason: fmt.Sprintf("batch exceeds maximum of %d items", s.maxBatchSize),
		}
	}
	return s.store.DeleteTasks(ctx, ids)
}

// AddTaskDependency records that taskID depends on dependsOnTaskID
// and appends an audit entry. Self-references and cycle-forming edges
// are rejected before anything is written.
func (s *Scheduler) AddTaskDependency(ctx context.Context, taskID, dependsOnTaskID, depType string, lagDays int, actor *string) (model.TaskDependency, error) {
	dep, err := s.store.AddDependency(ctx, taskID, dependsOnTaskID, depType, lagDays)
	if err != nil {
		return model.TaskDependency{}, err
	}

	s.appendChange(ctx, model.ChangeEntry{
		TargetType:  "task",
		TargetID:    taskID,
		Action:      "add_dependency",
		Actor:       actor,
		Description: fmt.Sprintf("Added %s dependency on task %s", dep.DependencyType, dependsOnTaskID),
	})
	return dep, nil
}

// RemoveTaskDependency deletes a dependency edge and appends an audit
// entry describing what was removed.
func (s *Scheduler) RemoveTaskDependency(ctx context.Context, id string, actor *string) error {
	dep, err := s.store.GetDependencyByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.RemoveDependency(ctx, id); err != nil {
		return err
	}

	s.appendChange(ctx, model.ChangeEntry{
		TargetType:  "task",
		TargetID:    dep.TaskID,
		Action:      "remove_dependency",
		Actor:       actor,
		Description: fmt.Sprintf("Removed dependency on task %s", dep.DependsOnTaskID),
	})
	return nil
}

// ListDependenciesForTask returns one task's dependencies enriched
// with both referenced tasks' display fields.
func (s *Scheduler) ListDependenciesForTask(ctx context.Context, taskID string) ([]model.DependencyRow, error) {
	return s.store.ListDependenciesForTask(ctx, taskID)
}

// ListDependenciesForFarmPlan returns every dependency in a farm plan
// in scheduling-table order.
func (s *Scheduler) ListDependenciesForFarmPlan(ctx context.Context, farmPlanID string) ([]model.DependencyRow, error) {
	return s.store.ListDependenciesForFarmPlan(ctx, farmPlanID)
}

// notifyAssignment fires a best-effort assignment notification when a
// task is assigned to someone other than its creator. Errors are
// logged, never propagated.
func (s *Scheduler) notifyAssignment(ctx context.Context, task model.Task) {
	if !s.notifyOnAssignment || s.notifier == nil {
		return
	}
	if task.AssignedTo == nil {
		return
	}
	if task.CreatedBy != nil && *task.CreatedBy == *task.AssignedTo {
		return
	}

	if err := s.notifier.TaskAssigned(ctx, task); err != nil {
		s.logger.Warn("task assignment notification failed",
			"task_id", task.ID,
			"assigned_to", *task.AssignedTo,
			"error", err,
		)
	}
}

// appendChange writes an audit entry. Audit failures are logged and
// swallowed; they must not fail the mutation they describe.
func (s *Scheduler) appendChange(ctx context.Context, entry model.ChangeEntry) {
	if err := s.store.AppendChange(ctx, entry); err != nil {
		s.logger.Warn("appending change log entry failed",
			"target_id", entry.TargetID,
			"action", entry.Action,
			"error", err,
		)
	}
}
