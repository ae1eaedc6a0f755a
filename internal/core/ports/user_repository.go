package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// UserUpdate lists the fields a profile edit may change. Nil means untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

// UserRepository is the credential store. Lookups that match nothing return
// domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByToken(ctx context.Context, token string) (*domain.User, error)
	FindByIDAndToken(ctx context.Context, id, token string) (*domain.User, error)
	// SetToken overwrites the stored token, invalidating the previous one.
	SetToken(ctx context.Context, id, token string) error
	// UpdateByIDAndToken applies the update only when both id and token match
	// and returns the updated record.
	UpdateByIDAndToken(ctx context.Context, id, token string, update UserUpdate) (*domain.User, error)
	DeleteByIDAndToken(ctx context.Context, id, token string) error
	// List returns one page of users, newest first, and the total count.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
}
