package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dom/web-ads-backend/internal/apperror"
	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/repository"
	"github.com/dom/web-ads-backend/internal/token"
)

type AuthService struct {
	userRepo repository.UserRepository
	refresh  *RefreshTokenService
	tokens   *token.Manager
}

func NewAuthService(userRepo repository.UserRepository, refresh *RefreshTokenService, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		refresh:  refresh,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Username    string
	Password    string
	PhoneNumber string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		return nil, apperror.New(apperror.ErrConflict, "username '%s' already exists", input.Username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:               uuid.New(),
		Username:         input.Username,
		PasswordHash:     string(hashedPassword),
		PhoneNumber:      input.PhoneNumber,
		RegistrationDate: datatypes.Date(time.Now()),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrAuthFailed, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.New(apperror.ErrAuthFailed, "invalid credentials")
	}

	accessToken, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.refresh.Create(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// Logout revokes the user's refresh token. Idempotent: logging out twice
// is a no-op the second time. The access token stays valid until its TTL
// elapses; the short TTL is the mitigation.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.refresh.DeleteByUser(ctx, userID)
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, "user with id %s not found", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) VerifyAccessToken(raw string) (*token.Claims, error) {
	return s.tokens.Verify(raw)
}
