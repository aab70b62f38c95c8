package scheduler

import (
	"context"
	"fmt"

	"github.com/agroplan/farmtask/internal/model"
	"github.com/agroplan/farmtask/internal/store"
)

// StoreNotifier records assignment notifications in the store's
// notifications table, where the delivery layer picks them up.
type StoreNotifier struct {
	store store.Store
}

// NewStoreNotifier returns a Notifier writing to st.
func NewStoreNotifier(st store.Store) *StoreNotifier {
	return &StoreNotifier{store: st}
}

// TaskAssigned records a "task assigned" notification for the task's
// assignee.
func (n *StoreNotifier) TaskAssigned(ctx context.Context, task model.Task) error {
	if task.AssignedTo == nil {
		return nil
	}
	return n.store.CreateNotification(ctx, model.Notification{
		TaskID:    task.ID,
		Recipient: *task.AssignedTo,
		Message:   fmt.Sprintf("You have been assigned a new task: %s", task.Title),
	})
}
