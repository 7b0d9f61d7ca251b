package repository

import (
	"context"

	"github.com/reminderly/reminders-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, userID string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	// GetByEmailOrUsername matches value against the email (lowercased) or the
	// username field, for login by either identifier.
	GetByEmailOrUsername(ctx context.Context, value string) (model.User, error)
	// FindConflict returns an existing user holding the email or the username,
	// for duplicate checks at registration.
	FindConflict(ctx context.Context, email, username string) (model.User, error)
	Update(ctx context.Context, user model.User) (model.User, error)
}
