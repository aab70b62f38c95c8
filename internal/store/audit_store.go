package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agroplan/farmtask/internal/model"
)

// AppendChange records an audit entry for a task or dependency mutation.
func (s *SQLiteStore) AppendChange(ctx context.Context, entry model.ChangeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO change_log (id, target_type, target_id, action, actor, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.TargetType, entry.TargetID, entry.Action,
		entry.Actor, entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("appending change entry: %w", err)
	}
	return nil
}

// ListChanges returns the audit trail for one target, newest first.
func (s *SQLiteStore) ListChanges(ctx context.Context, targetType, targetID string) ([]model.ChangeEntry, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, target_type, target_id, action, actor, description, created_at
		FROM change_log
		WHERE target_type = ? AND target_id = ?
		ORDER BY created_at DESC`,
		targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("querying change log: %w", err)
	}
	defer rows.Close()

	var entries []model.ChangeEntry
	for rows.Next() {
		var e model.ChangeEntry
		err := rows.Scan(&e.ID, &e.TargetType, &e.TargetID, &e.Action,
			&e.Actor, &e.Description, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning change entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateNotification inserts a new notification record.
func (s *SQLiteStore) CreateNotification(ctx context.Context, n model.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, task_id, recipient, message, read, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.TaskID, n.Recipient, n.Message, boolToInt(n.Read), n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

// GetUnreadNotifications retrieves a recipient's unread notifications,
// newest first.
func (s *SQLiteStore) GetUnreadNotifications(ctx context.Context, recipient string) ([]model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, task_id, recipient, message, read, created_at
		FROM notifications
		WHERE recipient = ? AND read = 0
		ORDER BY created_at DESC`,
		recipient)
	if err != nil {
		return nil, fmt.Errorf("querying unread notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var (
			n       model.Notification
			readInt int
		)
		err := rows.Scan(&n.ID, &n.TaskID, &n.Recipient, &n.Message, &readInt, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.Read = readInt != 0
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks a single notification as read.
func (s *SQLiteStore) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}
