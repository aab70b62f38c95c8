package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agroplan/farmtask/internal/graph"
	"github.com/agroplan/farmtask/internal/model"
)

// dependencyRowColumns is the enriched SELECT used by the dependency
// listing queries: the edge plus both referenced tasks' display fields.
const dependencyRowColumns = `
	td.id, td.task_id, td.depends_on_task_id, td.dependency_type, td.lag_days, td.created_at,
	t1.title AS task_title, t1.status AS task_status, t1.due_date AS task_due_date,
	t2.title AS depends_on_title, t2.status AS depends_on_status, t2.due_date AS depends_on_due_date`

// planEdges loads the dependency edge set for every task in the farm
// plan that owns taskID. q may be the store handle or an open
// transaction, so the cycle check can run against the same snapshot
// the insert commits into.
func planEdges(ctx context.Context, q sqlx.QueryerContext, taskID string) ([]graph.Edge, error) {
	rows, err := q.QueryxContext(ctx, `
		SELECT td.task_id, td.depends_on_task_id
		FROM task_dependencies td
		JOIN tasks t ON t.id = td.task_id
		WHERE t.farm_plan_id = (SELECT farm_plan_id FROM tasks WHERE id = ?)`,
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying dependency edges: %w", err)
	}
	defer rows.Close()

	var edges []graph.Edge
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.Task, &e.DependsOn); err != nil {
			return nil, fmt.Errorf("scanning dependency edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// WouldCreateCycle reports whether adding the edge "taskID depends on
// dependsOnTaskID" would make the farm plan's task graph cyclic. It
// reads the currently persisted edge set and never mutates state.
func (s *SQLiteStore) WouldCreateCycle(ctx context.Context, taskID, dependsOnTaskID string) (bool, error) {
	if taskID == dependsOnTaskID {
		return true, nil
	}
	edges, err := planEdges(ctx, s.db, taskID)
	if err != nil {
		return false, err
	}
	return graph.WouldCreateCycle(edges, taskID, dependsOnTaskID), nil
}

// AddDependency records that taskID depends on dependsOnTaskID.
// It rejects unknown task ids, self-references, and any edge that
// would create a cycle. The cycle check re-reads the persisted edge
// set inside the insert transaction; SQLite admits a single writer at
// a time, so no other edge can land between the check and the insert.
func (s *SQLiteStore) AddDependency(ctx context.Context, taskID, dependsOnTaskID, depType string, lagDays int) (model.TaskDependency, error) {
	var zero model.TaskDependency

	if taskID == dependsOnTaskID {
		return zero, ErrSelfReference
	}
	if depType == "" {
		depType = model.DepFinishToStart
	}
	if !model.ValidDependencyType(depType) {
		return zero, &ValidationError{Field: "dependency_type", Reason: fmt.Sprintf("unknown type %q", depType)}
	}

	// Both tasks must already exist.
	for _, id := range []string{taskID, dependsOnTaskID} {
		var count int
		if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM tasks WHERE id = ?", id); err != nil {
			return zero, fmt.Errorf("checking task %s: %w", id, err)
		}
		if count == 0 {
			return zero, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
	}

	dep := model.TaskDependency{
		ID:              uuid.New().String(),
		TaskID:          taskID,
		DependsOnTaskID: dependsOnTaskID,
		DependencyType:  depType,
		LagDays:         lagDays,
		CreatedAt:       time.Now().UTC(),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	edges, err := planEdges(ctx, tx, taskID)
	if err != nil {
		return zero, err
	}
	if graph.WouldCreateCycle(edges, taskID, dependsOnTaskID) {
		return zero, fmt.Errorf("task %s -> %s: %w", dependsOnTaskID, taskID, ErrCycle)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO task_dependencies (id, task_id, depends_on_task_id, dependency_type, lag_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		dep.ID, dep.TaskID, dep.DependsOnTaskID, dep.DependencyType, dep.LagDays, dep.CreatedAt,
	)
	if err != nil {
		return zero, fmt.Errorf("creating dependency: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("committing dependency: %w", err)
	}
	return dep, nil
}

// RemoveDependency deletes a dependency edge by ID. Removing an edge
// can never introduce a cycle, so no graph check is made.
func (s *SQLiteStore) RemoveDependency(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM task_dependencies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting dependency %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("dependency %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetDependencyByID retrieves a single dependency edge.
func (s *SQLiteStore) GetDependencyByID(ctx context.Context, id string) (*model.TaskDependency, error) {
	var dep model.TaskDependency
	err := s.db.QueryRowxContext(ctx, `
		SELECT id, task_id, depends_on_task_id, dependency_type, lag_days, created_at
		FROM task_dependencies WHERE id = ?`, id).
		Scan(&dep.ID, &dep.TaskID, &dep.DependsOnTaskID, &dep.DependencyType, &dep.LagDays, &dep.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("dependency %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting dependency %s: %w", id, err)
	}
	return &dep, nil
}

// ListDependenciesForTask returns the dependencies of one task,
// enriched with both tasks' titles, statuses, and due dates, newest
// edge first.
func (s *SQLiteStore) ListDependenciesForTask(ctx context.Context, taskID string) ([]model.DependencyRow, error) {
	return s.queryDependencyRows(ctx, `
		SELECT `+dependencyRowColumns+`
		FROM task_dependencies td
		JOIN tasks t1 ON t1.id = td.task_id
		JOIN tasks t2 ON t2.id = td.depends_on_task_id
		WHERE td.task_id = ?
		ORDER BY td.created_at DESC`,
		taskID)
}

// ListDependenciesForFarmPlan returns every dependency in a farm
// plan, ordered by the dependent task's due date then creation time —
// the order a scheduling table renders.
func (s *SQLiteStore) ListDependenciesForFarmPlan(ctx context.Context, farmPlanID string) ([]model.DependencyRow, error) {
	return s.queryDependencyRows(ctx, `
		SELECT `+dependencyRowColumns+`
		FROM task_dependencies td
		JOIN tasks t1 ON t1.id = td.task_id
		JOIN tasks t2 ON t2.id = td.depends_on_task_id
		WHERE t1.farm_plan_id = ?
		ORDER BY t1.due_date, t1.created_at`,
		farmPlanID)
}

func (s *SQLiteStore) queryDependencyRows(ctx context.Context, query string, arg interface{}) ([]model.DependencyRow, error) {
	rows, err := s.db.QueryxContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	var deps []model.DependencyRow
	for rows.Next() {
		var d model.DependencyRow
		err := rows.Scan(
			&d.ID, &d.TaskID, &d.DependsOnTaskID, &d.DependencyType, &d.LagDays, &d.CreatedAt,
			&d.TaskTitle, &d.TaskStatus, &d.TaskDueDate,
			&d.DependsOnTitle, &d.DependsOnStatus, &d.DependsOnDueDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning dependency row: %w", err)
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}
