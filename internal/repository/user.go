package repository

import (
	"context"
	"errors"

	"medpredict/internal/domain"
)

var (
	// ErrDuplicateUsername indicates a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUserNotFound indicates no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
