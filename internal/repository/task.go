package repository

import (
	"context"

	"github.com/reminderly/reminders-api/internal/model"
)

type TaskRepository interface {
	Create(ctx context.Context, task model.Task) (model.Task, error)
	GetByID(ctx context.Context, userID, taskID string) (model.Task, error)
	Update(ctx context.Context, task model.Task) (model.Task, error)
	// ListByOwner returns every task of the owner, soft-deleted ones included.
	// Bucket filtering and counting happen over the full set.
	ListByOwner(ctx context.Context, userID string) ([]model.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	SoftDeleteMany(ctx context.Context, userID string, taskIDs []string) (int64, error)
	TrashCompleted(ctx context.Context, userID string) (int64, error)
	PurgeDeleted(ctx context.Context, userID string) (int64, error)
}
