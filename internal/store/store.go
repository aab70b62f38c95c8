package store

import (
	"context"

	"github.com/agroplan/farmtask/internal/model"
)

// TaskFilter controls filtering for task list queries. Results are
// always ordered for triage: soonest due date first (tasks without a
// due date last), then highest priority, then newest.
type TaskFilter struct {
	FarmPlanID *string
	Status     *string
	Priority   *string
}

// Store defines the persistence interface for farm plans, tasks, and
// the task dependency graph.
type Store interface {
	// === Tasks ===

	CreateTask(ctx context.Context, task model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, id string, update model.TaskUpdate) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error)

	// === Task batches (each call is one transaction) ===

	CreateTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error)
	UpdateTasks(ctx context.Context, updates []model.BatchTaskUpdate) ([]model.Task, error)
	DeleteTasks(ctx context.Context, ids []string) (int64, error)

	// === Dependencies ===

	AddDependency(ctx context.Context, taskID, dependsOnTaskID, depType string, lagDays int) (model.TaskDependency, error)
	RemoveDependency(ctx context.Context, id string) error
	GetDependencyByID(ctx context.Context, id string) (*model.TaskDependency, error)
	ListDependenciesForTask(ctx context.Context, taskID string) ([]model.DependencyRow, error)
	ListDependenciesForFarmPlan(ctx context.Context, farmPlanID string) ([]model.DependencyRow, error)
	WouldCreateCycle(ctx context.Context, taskID, dependsOnTaskID string) (bool, error)

	// === Farm and crop plans ===

	CreateFarmPlan(ctx context.Context, plan model.FarmPlan) (model.FarmPlan, error)
	CreateCropPlan(ctx context.Context, plan model.CropPlan) (model.CropPlan, error)
	GetCropPlanByID(ctx context.Context, id string) (*model.CropPlan, error)
	ListCropPlans(ctx context.Context, farmPlanID string) ([]model.CropPlan, error)

	// === Audit and notifications ===

	AppendChange(ctx context.Context, entry model.ChangeEntry) error
	ListChanges(ctx context.Context, targetType, targetID string) ([]model.ChangeEntry, error)
	CreateNotification(ctx context.Context, n model.Notification) error
	GetUnreadNotifications(ctx context.Context, recipient string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
