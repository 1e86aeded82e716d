package repository

import (
	"context"

	"productcatalog/models"
)

// UserRepository is the credential store.
type UserRepository interface {
	// CreateUser persists the user and sets its ID. A duplicate email
	// returns models.ErrEmailTaken.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil, nil when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
