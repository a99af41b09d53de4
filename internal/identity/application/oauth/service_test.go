package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedCrypto "github.com/lifedash/lifedash/internal/shared/infrastructure/crypto"
)

type memoryTokenRepo struct {
	tokens map[string]StoredToken
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]StoredToken)}
}

func (r *memoryTokenRepo) key(userID uuid.UUID, provider string) string {
	return userID.String() + "/" + provider
}

func (r *memoryTokenRepo) Save(ctx context.Context, token StoredToken) error {
	r.tokens[r.key(token.UserID, token.Provider)] = token
	return nil
}

func (r *memoryTokenRepo) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*StoredToken, error) {
	token, ok := r.tokens[r.key(userID, provider)]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

func (r *memoryTokenRepo) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	delete(r.tokens, r.key(userID, provider))
	return nil
}

func newTestService(t *testing.T, repo TokenRepository, tokenURL string) *Service {
	t.Helper()
	if tokenURL == "" {
		tokenURL = "https://example.com/token"
	}
	svc, err := NewService(
		"google",
		"client-id",
		"client-secret",
		"https://example.com/auth",
		tokenURL,
		"http://localhost:8080/callback",
		[]string{"calendar.readonly"},
		repo,
		sharedCrypto.NoopEncrypter{},
	)
	require.NoError(t, err)
	return svc
}

func TestNewServiceValidation(t *testing.T) {
	_, err := NewService("", "id", "secret", "a", "t", "r", nil, newMemoryTokenRepo(), sharedCrypto.NoopEncrypter{})
	assert.Error(t, err)

	_, err = NewService("google", "", "secret", "a", "t", "r", nil, newMemoryTokenRepo(), sharedCrypto.NoopEncrypter{})
	assert.Error(t, err)

	_, err = NewService("google", "id", "secret", "a", "t", "r", nil, nil, sharedCrypto.NoopEncrypter{})
	assert.Error(t, err)
}

func TestAuthURLRequestsOfflineAccess(t *testing.T) {
	svc := newTestService(t, newMemoryTokenRepo(), "")

	url := svc.AuthURL("state-123")

	assert.Contains(t, url, "https://example.com/auth")
	assert.Contains(t, url, "state=state-123")
	assert.Contains(t, url, "access_type=offline")
}

func TestLoadNotConnected(t *testing.T) {
	svc := newTestService(t, newMemoryTokenRepo(), "")

	_, err := svc.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestEnsureFreshValidToken(t *testing.T) {
	repo := newMemoryTokenRepo()
	svc := newTestService(t, repo, "")
	userID := uuid.New()

	require.NoError(t, repo.Save(context.Background(), StoredToken{
		UserID:      userID,
		Provider:    "google",
		AccessToken: []byte("access-1"),
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	token, err := svc.EnsureFresh(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "access-1", token.AccessToken)
}

func TestEnsureFreshExpiredWithoutRefreshToken(t *testing.T) {
	repo := newMemoryTokenRepo()
	svc := newTestService(t, repo, "")
	userID := uuid.New()

	require.NoError(t, repo.Save(context.Background(), StoredToken{
		UserID:      userID,
		Provider:    "google",
		AccessToken: []byte("stale"),
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(-time.Hour),
	}))

	_, err := svc.EnsureFresh(context.Background(), userID)
	assert.ErrorIs(t, err, ErrAuthExpired)
}

func TestEnsureFreshRefreshesAndPreservesRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Refresh response without a rotated refresh token.
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-2",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	repo := newMemoryTokenRepo()
	svc := newTestService(t, repo, server.URL)
	userID := uuid.New()

	require.NoError(t, repo.Save(context.Background(), StoredToken{
		UserID:       userID,
		Provider:     "google",
		AccessToken:  []byte("stale"),
		RefreshToken: []byte("refresh-1"),
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	token, err := svc.EnsureFresh(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "access-2", token.AccessToken)
	assert.Equal(t, "refresh-1", token.RefreshToken, "stored refresh token survives the refresh")

	stored, err := repo.FindByUserAndProvider(context.Background(), userID, "google")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []byte("access-2"), stored.AccessToken)
	assert.Equal(t, []byte("refresh-1"), stored.RefreshToken)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	repo := newMemoryTokenRepo()
	svc := newTestService(t, repo, "")
	userID := uuid.New()

	require.NoError(t, repo.Save(context.Background(), StoredToken{
		UserID:      userID,
		Provider:    "google",
		AccessToken: []byte("access"),
		Expiry:      time.Now().Add(time.Hour),
	}))

	require.NoError(t, svc.Disconnect(context.Background(), userID))
	require.NoError(t, svc.Disconnect(context.Background(), userID))

	_, err := svc.Load(context.Background(), userID)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestScopesFromEnv(t *testing.T) {
	assert.Nil(t, ScopesFromEnv(""))
	assert.Equal(t, []string{"a", "b"}, ScopesFromEnv("a, b,"))
}
