package repository

import (
	"context"

	"github.com/reminderly/reminders-api/internal/model"
)

type ListRepository interface {
	Create(ctx context.Context, list model.List) (model.List, error)
	GetByID(ctx context.Context, userID, listID string) (model.List, error)
	ListByOwner(ctx context.Context, userID string) ([]model.List, error)
	Update(ctx context.Context, list model.List) (model.List, error)
	Delete(ctx context.Context, userID, listID string) error
}
