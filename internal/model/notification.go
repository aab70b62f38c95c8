package model

import "time"

// Notification represents an alert surfaced to a user about activity
// on a task, such as being assigned new work.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// TaskID links this notification to the originating task.
	TaskID string `json:"task_id" db:"task_id"`

	// Recipient is the user the notification is addressed to.
	Recipient string `json:"recipient" db:"recipient"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the recipient has seen this notification.
	Read bool `json:"read" db:"read"`

	// CreatedAt is when this notification was generated.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChangeEntry is an audit record of a mutation made to a task or its
// dependency graph.
type ChangeEntry struct {
	ID          string    `json:"id" db:"id"`
	TargetType  string    `json:"target_type" db:"target_type"`
	TargetID    string    `json:"target_id" db:"target_id"`
	Action      string    `json:"action" db:"action"`
	Actor       *string   `json:"actor,omitempty" db:"actor"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
