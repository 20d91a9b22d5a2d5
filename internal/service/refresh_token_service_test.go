package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dom/web-ads-backend/internal/apperror"
	"github.com/dom/web-ads-backend/internal/domain"
	"github.com/dom/web-ads-backend/internal/repository/postgres"
	"github.com/dom/web-ads-backend/internal/service"
	"github.com/dom/web-ads-backend/internal/testutil"
)

func TestRefreshTokenService_Create_SupersedesPrevious(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := services.RefreshToken.Create(ctx, user.ID)
	require.NoError(t, err)

	second, err := services.RefreshToken.Create(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	// Only the newest token refreshes; the old chain is dead.
	_, err = services.RefreshToken.Refresh(ctx, first.Token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)

	pair, err := services.RefreshToken.Refresh(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, second.Token, pair.RefreshToken)
}

func TestRefreshTokenService_Refresh(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithUsername("refresher").Build(t, testDB.DB)

	refreshToken, err := services.RefreshToken.Create(ctx, user.ID)
	require.NoError(t, err)

	pair, err := services.RefreshToken.Refresh(ctx, refreshToken.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, refreshToken.Token, pair.RefreshToken, "refresh token is not rotated on use")

	claims, err := services.Auth.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "refresher", claims.Username)

	// A live token can be used repeatedly
	_, err = services.RefreshToken.Refresh(ctx, refreshToken.Token)
	assert.NoError(t, err)
}

func TestRefreshTokenService_Refresh_Unknown(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)

	_, err := services.RefreshToken.Refresh(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestRefreshTokenService_Refresh_ExpiredIsDeleted(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	expired := &domain.RefreshToken{
		ID:        uuid.New(),
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, testDB.DB.Create(expired).Error)

	_, err := services.RefreshToken.Refresh(ctx, expired.Token)
	assert.ErrorIs(t, err, apperror.ErrTokenExpired)
	assert.Contains(t, err.Error(), expired.Token, "error carries the token for context")

	// The lapsed row was cleaned up, so a second attempt reports unknown.
	_, err = services.RefreshToken.Refresh(ctx, expired.Token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestRefreshTokenService_VerifyExpiration_LiveToken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	created, err := services.RefreshToken.Create(ctx, user.ID)
	require.NoError(t, err)

	got, err := services.RefreshToken.VerifyExpiration(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.Token, got.Token)
}

func TestRefreshTokenService_FindByToken_UnknownIsNotAnError(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, testutil.TestConfig(), nil)

	found, err := services.RefreshToken.FindByToken(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, found)
}
