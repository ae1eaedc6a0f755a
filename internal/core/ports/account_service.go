package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token  string
	ID     string
	Role   int
	Active int
}

// UserPatch is a partial profile edit. Role and Active are only present so
// that attempts to set them can be refused.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *int
	Active   *int
}

// IsEmpty reports whether the patch touches no field at all.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Role == nil && p.Active == nil
}

// UpdateSelfInput identifies the account being edited and the caller's token.
type UpdateSelfInput struct {
	ID    string
	Token string
	Patch UserPatch
}

// DeleteSelfInput identifies the account being removed.
type DeleteSelfInput struct {
	ID       string
	Token    string
	Password string
}

// UserPage is one page of the user listing.
type UserPage struct {
	Page       int
	PagesCount int
	Total      int64
	Users      []domain.UserView
}

// AccountService defines the account use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	GetSelf(ctx context.Context, token string) (*domain.UserView, error)
	ListUsers(ctx context.Context, page int) (*UserPage, error)
	GetUser(ctx context.Context, id string) (*domain.UserView, error)
	UpdateSelf(ctx context.Context, input UpdateSelfInput) (*domain.UserView, error)
	DeleteSelf(ctx context.Context, input DeleteSelfInput) error
}
