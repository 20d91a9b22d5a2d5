package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dom/web-ads-backend/internal/adquery"
	"github.com/dom/web-ads-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type RefreshTokenRepository interface {
	// Replace atomically deletes any existing token for the owner and
	// persists the new one.
	Replace(ctx context.Context, token *domain.RefreshToken) error
	GetByToken(ctx context.Context, raw string) (*domain.RefreshToken, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type AdRepository interface {
	Create(ctx context.Context, ad *domain.Ad) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Ad, error)
	// FindPage applies the filter conjunction, orders by post date
	// descending and returns the requested zero-indexed page plus the
	// total match count.
	FindPage(ctx context.Context, filter adquery.Filter, page, size int) ([]*domain.Ad, int64, error)
	Update(ctx context.Context, ad *domain.Ad) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Ad           AdRepository
}
