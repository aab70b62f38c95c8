package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agroplan/farmtask/internal/model"
)

// taskColumns is the column list used by every task SELECT so scans
// stay aligned with the schema.
const taskColumns = `id, farm_plan_id, crop_plan_id, title, description, status, priority,
	category, due_date, assigned_to, assigned_by, created_by,
	estimated_duration, actual_duration, requires_approval, notes,
	completed_at, created_at, updated_at`

// validateNewTask checks required fields and applies creation defaults.
func validateNewTask(task *model.Task) error {
	if strings.TrimSpace(task.FarmPlanID) == "" {
		return &ValidationError{Field: "farm_plan_id", Reason: "is required"}
	}
	if strings.TrimSpace(task.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if task.Status == "" {
		task.Status = model.StatusPending
	} else if !model.ValidStatus(task.Status) {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", task.Status)}
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	} else if !model.ValidPriority(task.Priority) {
		return &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", task.Priority)}
	}
	return nil
}

// CreateTask inserts a new task. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	var zero model.Task
	if err := validateNewTask(&task); err != nil {
		return zero, err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := insertTask(ctx, s.db, task); err != nil {
		return zero, err
	}
	return task, nil
}

// execer covers both *sqlx.DB and *sqlx.Tx so single and batched
// inserts share one code path.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func insertTask(ctx context.Context, e execer, task model.Task) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO tasks (
			id, farm_plan_id, crop_plan_id, title, description,
			status, priority, category, due_date,
			assigned_to, assigned_by, created_by,
			estimated_duration, actual_duration, requires_approval, notes,
			completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.FarmPlanID, task.CropPlanID, task.Title, task.Description,
		task.Status, task.Priority, task.Category, task.DueDate,
		task.AssignedTo, task.AssignedBy, task.CreatedBy,
		task.EstimatedDuration, task.ActualDuration,
		boolToInt(task.RequiresApproval), task.Notes,
		task.CompletedAt, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating task %s: %w", task.ID, err)
	}
	return nil
}

// buildTaskUpdate renders a TaskUpdate into SET clauses and args.
// Only the allow-listed fields of TaskUpdate can appear; when status
// moves to completed and no explicit completion time was given,
// completed_at is filled in the same statement (only if still unset).
// updated_at is always refreshed.
func buildTaskUpdate(update model.TaskUpdate, now time.Time) (setClauses []string, args []interface{}, err error) {
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		setClauses = append(setClauses, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Status != nil {
		if !model.ValidStatus(*update.Status) {
			return nil, nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", *update.Status)}
		}
		setClauses = append(setClauses, "status = ?")
		args = append(args, *update.Status)

		if *update.Status == model.StatusCompleted {
			completedAt := now
			if update.CompletedAt != nil {
				completedAt = update.CompletedAt.UTC()
			}
			setClauses = append(setClauses, "completed_at = COALESCE(completed_at, ?)")
			args = append(args, completedAt)
		}
	}
	if update.Priority != nil {
		if !model.ValidPriority(*update.Priority) {
			return nil, nil, &ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", *update.Priority)}
		}
		setClauses = append(setClauses, "priority = ?")
		args = append(args, *update.Priority)
	}
	if update.Category != nil {
		setClauses = append(setClauses, "category = ?")
		args = append(args, *update.Category)
	}
	if update.DueDate != nil {
		setClauses = append(setClauses, "due_date = ?")
		args = append(args, update.DueDate.UTC())
	}
	if update.AssignedTo != nil {
		setClauses = append(setClauses, "assigned_to = ?")
		args = append(args, *update.AssignedTo)
	}
	if update.EstimatedDuration != nil {
		setClauses = append(setClauses, "estimated_duration = ?")
		args = append(args, *update.EstimatedDuration)
	}
	if update.ActualDuration != nil {
		setClauses = append(setClauses, "actual_duration = ?")
		args = append(args, *update.ActualDuration)
	}
	if update.Notes != nil {
		setClauses = append(setClauses, "notes = ?")
		args = append(args, *update.Notes)
	}

	if len(setClauses) == 0 {
		return nil, nil, nil
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, now)
	return setClauses, args, nil
}

// UpdateTask applies a partial update to a task and returns the
// refreshed row. An update that patches nothing is a validation
// error; a missing task is ErrNotFound.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id string, update model.TaskUpdate) (model.Task, error) {
	var zero model.Task
	if update.IsZero() {
		return zero, &ValidationError{Reason: "no updatable fields supplied"}
	}

	now := time.Now().UTC()
	setClauses, args, err := buildTaskUpdate(update, now)
	if err != nil {
		return zero, err
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return zero, fmt.Errorf("updating task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return zero, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	updated, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return zero, err
	}
	return *updated, nil
}

// DeleteTask removes a task by ID. Dependency edges referencing it
// are removed by cascade.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTaskByID retrieves a single task by its ID.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)

	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &task, nil
}

// ListTasks retrieves tasks matching the filter, ordered for triage:
// due date ascending with undated tasks last, then priority from
// urgent down, then newest first. This ordering is part of the
// listing contract.
func (s *SQLiteStore) ListTasks(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	var conditions []string
	var args []interface{}

	if filter.FarmPlanID != nil {
		conditions = append(conditions, "farm_plan_id = ?")
		args = append(args, *filter.FarmPlanID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, *filter.Priority)
	}

	query := "SELECT " + taskColumns + " FROM tasks"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY
		due_date IS NULL, due_date ASC,
		CASE priority
			WHEN 'urgent' THEN 4
			WHEN 'high' THEN 3
			WHEN 'medium' THEN 2
			ELSE 1
		END DESC,
		created_at DESC`

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// validateBatchSize enforces the 1..ceiling bound shared by all batch
// operations. The ceiling is a hard validation rule, not a tuning knob.
func validateBatchSize(n int) error {
	if n == 0 {
		return &ValidationError{Reason: "batch must not be empty"}
	}
	if n > model.MaxBatchCeiling {
		return &ValidationError{Reason: fmt.Sprintf("batch exceeds maximum of %d items", model.MaxBatchCeiling)}
	}
	return nil
}

// CreateTasks inserts up to the batch ceiling of tasks in one
// transaction. Any failed insert rolls back the whole batch.
func (s *SQLiteStore) CreateTasks(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	if err := validateBatchSize(len(tasks)); err != nil {
		return nil, err
	}

	// Validate everything up front so a bad item costs no round trips.
	now := time.Now().UTC()
	for i := range tasks {
		if err := validateNewTask(&tasks[i]); err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if tasks[i].ID == "" {
			tasks[i].ID = uuid.New().String()
		}
		tasks[i].CreatedAt = now
		tasks[i].UpdatedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range tasks {
		if err := insertTask(ctx, tx, tasks[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch create: %w", err)
	}
	return tasks, nil
}

// UpdateTasks applies a batch of partial updates in one transaction.
// Items that patch nothing are skipped, not failed; the transaction
// still commits for the rest. Returns the refreshed rows of every
// task actually updated, in input order.
func (s *SQLiteStore) UpdateTasks(ctx context.Context, updates []model.BatchTaskUpdate) ([]model.Task, error) {
	if err := validateBatchSize(len(updates)); err != nil {
		return nil, err
	}
	for i, u := range updates {
		if u.ID == "" {
			return nil, fmt.Errorf("update %d: %w", i, &ValidationError{Field: "id", Reason: "is required"})
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	var updated []model.Task
	for i, u := range updates {
		setClauses, args, err := buildTaskUpdate(u.TaskUpdate, now)
		if err != nil {
			return nil, fmt.Errorf("update %d: %w", i, err)
		}
		if len(setClauses) == 0 {
			// Nothing valid to apply; skip this item.
			continue
		}
		args = append(args, u.ID)

		result, err := tx.ExecContext(ctx,
			"UPDATE tasks SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("updating task %s: %w", u.ID, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			continue
		}

		row := tx.QueryRowxContext(ctx,
			"SELECT "+taskColumns+" FROM tasks WHERE id = ?", u.ID)
		task, err := scanTask(row)
		if err != nil {
			return nil, fmt.Errorf("reloading task %s: %w", u.ID, err)
		}
		updated = append(updated, task)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing batch update: %w", err)
	}
	return updated, nil
}

// DeleteTasks removes all matching tasks in one statement inside one
// transaction and returns the count actually deleted. IDs that do not
// exist are tolerated, so the count may be less than requested.
func (s *SQLiteStore) DeleteTasks(ctx context.Context, ids []string) (int64, error) {
	if err := validateBatchSize(len(ids)); err != nil {
		return 0, err
	}

	query, args, err := sqlx.In("DELETE FROM tasks WHERE id IN (?)", ids)
	if err != nil {
		return 0, fmt.Errorf("building batch delete: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("deleting tasks: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted tasks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing batch delete: %w", err)
	}
	return count, nil
}

// scanTask scans a task row from any sqlx row scanner.
func scanTask(row interface{ Scan(dest ...interface{}) error }) (model.Task, error) {
	var (
		task                 model.Task
		cropPlanID           *string
		dueDate, completedAt *time.Time
		requiresApproval     int
	)

	err := row.Scan(
		&task.ID, &task.FarmPlanID, &cropPlanID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.Category, &dueDate,
		&task.AssignedTo, &task.AssignedBy, &task.CreatedBy,
		&task.EstimatedDuration, &task.ActualDuration, &requiresApproval, &task.Notes,
		&completedAt, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	task.CropPlanID = cropPlanID
	task.DueDate = dueDate
	task.CompletedAt = completedAt
	task.RequiresApproval = requiresApproval != 0
	return task, nil
}
