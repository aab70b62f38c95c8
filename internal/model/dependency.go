package model

import "time"

// Dependency relationship types. FinishToStart is the default: the
// prerequisite must finish before the dependent task starts.
const (
	DepFinishToStart  = "finish-to-start"
	DepStartToStart   = "start-to-start"
	DepFinishToFinish = "finish-to-finish"
	DepStartToFinish  = "start-to-finish"
)

// ValidDependencyType reports whether t is a known dependency type.
func ValidDependencyType(t string) bool {
	switch t {
	case DepFinishToStart, DepStartToStart, DepFinishToFinish, DepStartToFinish:
		return true
	}
	return false
}

// TaskDependency is a directed edge in a farm plan's task graph:
// TaskID depends on DependsOnTaskID. The edge set for a plan must
// stay acyclic; the store enforces this at insert time.
type TaskDependency struct {
	ID              string `json:"id" db:"id"`
	TaskID          string `json:"task_id" db:"task_id"`
	DependsOnTaskID string `json:"depends_on_task_id" db:"depends_on_task_id"`

	// DependencyType is one of the Dep* constants.
	DependencyType string `json:"dependency_type" db:"dependency_type"`

	// LagDays offsets the relationship; negative values express lead
	// time (the dependent may start before the prerequisite event).
	LagDays int `json:"lag_days" db:"lag_days"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DependencyRow is a dependency enriched with both referenced tasks'
// display fields, as rendered by a scheduling view.
type DependencyRow struct {
	TaskDependency

	TaskTitle        string     `json:"task_title" db:"task_title"`
	TaskStatus       string     `json:"task_status" db:"task_status"`
	TaskDueDate      *time.Time `json:"task_due_date,omitempty" db:"task_due_date"`
	DependsOnTitle   string     `json:"depends_on_title" db:"depends_on_title"`
	DependsOnStatus  string     `json:"depends_on_status" db:"depends_on_status"`
	DependsOnDueDate *time.Time `json:"depends_on_due_date,omitempty" db:"depends_on_due_date"`
}
