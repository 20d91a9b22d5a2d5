package service

import (
	"github.com/dom/web-ads-backend/internal/config"
	"github.com/dom/web-ads-backend/internal/repository"
	"github.com/dom/web-ads-backend/internal/token"
)

type Services struct {
	Auth         *AuthService
	RefreshToken *RefreshTokenService
	Ad           *AdService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, publisher AdPublisher) *Services {
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTTL)
	refresh := NewRefreshTokenService(repos.RefreshToken, tokens, cfg.RefreshTTL)

	return &Services{
		Auth:         NewAuthService(repos.User, refresh, tokens),
		RefreshToken: refresh,
		Ad:           NewAdService(repos.Ad, repos.User, publisher),
	}
}
