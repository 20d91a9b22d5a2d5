package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dom/web-ads-backend/internal/apperror"
	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/repository"
	"github.com/dom/web-ads-backend/internal/token"
)

// RefreshTokenService owns the long-lived opaque tokens. A user holds at
// most one: Create supersedes any previous token for that user.
type RefreshTokenService struct {
	tokenRepo repository.RefreshTokenRepository
	tokens    *token.Manager
	ttl       time.Duration
}

func NewRefreshTokenService(tokenRepo repository.RefreshTokenRepository, tokens *token.Manager, ttl time.Duration) *RefreshTokenService {
	return &RefreshTokenService{
		tokenRepo: tokenRepo,
		tokens:    tokens,
		ttl:       ttl,
	}
}

func (s *RefreshTokenService) Create(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		Token:     uuid.New().String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.ttl),
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.Replace(ctx, refreshToken); err != nil {
		return nil, err
	}
	return refreshToken, nil
}

// FindByToken returns (nil, nil) when the token is unknown; the caller
// decides whether that is an error.
func (s *RefreshTokenService) FindByToken(ctx context.Context, raw string) (*domain.RefreshToken, error) {
	refreshToken, err := s.tokenRepo.GetByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return refreshToken, nil
}

// VerifyExpiration deletes a lapsed token and fails with ErrTokenExpired;
// a live token comes back unchanged.
func (s *RefreshTokenService) VerifyExpiration(ctx context.Context, refreshToken *domain.RefreshToken) (*domain.RefreshToken, error) {
	if refreshToken.ExpiresAt.Before(time.Now()) {
		if err := s.tokenRepo.Delete(ctx, refreshToken.ID); err != nil {
			return nil, err
		}
		return nil, apperror.New(apperror.ErrTokenExpired,
			"refresh token %s expired, please sign in again", refreshToken.Token)
	}
	return refreshToken, nil
}

func (s *RefreshTokenService) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token itself is not rotated: the caller keeps using the same
// one until it expires or is revoked.
func (s *RefreshTokenService) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	refreshToken, err := s.FindByToken(ctx, raw)
	if err != nil {
		return nil, err
	}
	if refreshToken == nil {
		return nil, apperror.New(apperror.ErrInvalidToken, "invalid refresh token")
	}

	refreshToken, err = s.VerifyExpiration(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.Issue(refreshToken.User.ID, refreshToken.User.Username)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}
