package model

import "time"

// Task status constants.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task categories emitted by the crop task generator. Category is a
// free-form label; these are the values the generator uses.
const (
	CategorySoilPreparation = "soil_preparation"
	CategoryProcurement     = "procurement"
	CategoryPlanting        = "planting"
	CategoryIrrigation      = "irrigation"
	CategoryFertilization   = "fertilization"
	CategoryHarvest         = "harvest"
)

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is a known task priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task is a single unit of farm work tied to a farm plan and,
// optionally, to the crop plan that produced it.
type Task struct {
	ID          string  `json:"id" db:"id"`
	FarmPlanID  string  `json:"farm_plan_id" db:"farm_plan_id"`
	CropPlanID  *string `json:"crop_plan_id,omitempty" db:"crop_plan_id"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`

	// Status is one of the Status* constants. New tasks start pending.
	Status string `json:"status" db:"status"`

	// Priority is one of the Priority* constants (default medium).
	Priority string `json:"priority" db:"priority"`

	// Category is a free-form label such as "irrigation" or "harvest".
	Category string     `json:"category" db:"category"`
	DueDate  *time.Time `json:"due_date,omitempty" db:"due_date"`

	AssignedTo *string `json:"assigned_to,omitempty" db:"assigned_to"`
	AssignedBy *string `json:"assigned_by,omitempty" db:"assigned_by"`
	CreatedBy  *string `json:"created_by,omitempty" db:"created_by"`

	// EstimatedDuration and ActualDuration are in hours.
	EstimatedDuration *float64 `json:"estimated_duration,omitempty" db:"estimated_duration"`
	ActualDuration    *float64 `json:"actual_duration,omitempty" db:"actual_duration"`

	RequiresApproval bool   `json:"requires_approval" db:"requires_approval"`
	Notes            string `json:"notes" db:"notes"`

	// CompletedAt is set the first time Status becomes completed.
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskUpdate is a partial update for a task. Only the fields here may
// be patched; a nil field leaves the stored value untouched. Anything
// outside this set (ids, ownership, timestamps) is not updatable.
type TaskUpdate struct {
	Title             *string    `json:"title,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Priority          *string    `json:"priority,omitempty"`
	Category          *string    `json:"category,omitempty"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	AssignedTo        *string    `json:"assigned_to,omitempty"`
	EstimatedDuration *float64   `json:"estimated_duration,omitempty"`
	ActualDuration    *float64   `json:"actual_duration,omitempty"`
	Notes             *string    `json:"notes,omitempty"`

	// CompletedAt may be supplied alongside Status=completed to
	// override the automatic completion timestamp.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// IsZero reports whether the update patches nothing.
func (u TaskUpdate) IsZero() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.Category == nil && u.DueDate == nil &&
		u.AssignedTo == nil && u.EstimatedDuration == nil &&
		u.ActualDuration == nil && u.Notes == nil
}

// BatchTaskUpdate is one entry of a batch update request.
type BatchTaskUpdate struct {
	ID string `json:"id"`
	TaskUpdate
}

// DraftTask is a generator-produced task description. It has no
// identity until persisted through the task store.
type DraftTask struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	DueDate     time.Time `json:"due_date"`
}
