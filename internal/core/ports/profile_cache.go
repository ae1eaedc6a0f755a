package ports

import (
	"context"

	"github.com/userhub/accounts-api/internal/core/domain"
)

// ProfileCache holds GetUser views keyed by user id. A miss is (nil, nil).
type ProfileCache interface {
	Get(ctx context.Context, id string) (*domain.UserView, error)
	Set(ctx context.Context, id string, view domain.UserView) error
	Invalidate(ctx context.Context, id string) error
}
