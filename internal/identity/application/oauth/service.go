package oauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	sharedCrypto "github.com/lifedash/lifedash/internal/shared/infrastructure/crypto"
)

// Session errors surfaced to callers.
var (
	// ErrNotConnected means no token is stored for the user.
	ErrNotConnected = errors.New("calendar account not connected")

	// ErrAuthExpired means the stored session is expired and cannot be
	// refreshed; the user must reconnect.
	ErrAuthExpired = errors.New("calendar session expired, reconnect required")
)

// TokenRepository defines persistence for encrypted OAuth tokens.
type TokenRepository interface {
	Save(ctx context.Context, token StoredToken) error
	FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*StoredToken, error)
	Delete(ctx context.Context, userID uuid.UUID, provider string) error
}

// StoredToken is the encrypted representation of an OAuth token.
type StoredToken struct {
	UserID       uuid.UUID
	Provider     string
	AccessToken  []byte
	RefreshToken []byte
	TokenType    string
	Expiry       time.Time
	Scopes       []string
}

// Service manages the OAuth flow and token storage for one provider.
type Service struct {
	oauthConfig *oauth2.Config
	provider    string
	scopes      []string
	repo        TokenRepository
	encrypter   sharedCrypto.Encrypter
}

// NewService creates a new OAuth service.
func NewService(
	provider string,
	clientID string,
	clientSecret string,
	authURL string,
	tokenURL string,
	redirectURL string,
	scopes []string,
	repo TokenRepository,
	encrypter sharedCrypto.Encrypter,
) (*Service, error) {
	if provider == "" {
		return nil, errors.New("oauth provider is required")
	}
	if clientID == "" || clientSecret == "" || authURL == "" || tokenURL == "" || redirectURL == "" {
		return nil, errors.New("oauth configuration is incomplete")
	}
	if repo == nil || encrypter == nil {
		return nil, errors.New("oauth dependencies are required")
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
		RedirectURL: redirectURL,
		Scopes:      scopes,
	}

	return &Service{
		oauthConfig: cfg,
		provider:    provider,
		scopes:      scopes,
		repo:        repo,
		encrypter:   encrypter,
	}, nil
}

// Provider returns the provider key tokens are stored under.
func (s *Service) Provider() string { return s.provider }

// AuthURL returns the provider authorization URL. Offline access is always
// requested so a refresh token comes back with the first grant.
func (s *Service) AuthURL(state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeAndStore exchanges an authorization code for a token and stores
// it encrypted.
func (s *Service) ExchangeAndStore(ctx context.Context, userID uuid.UUID, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, userID, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Load returns the stored token, decrypted. ErrNotConnected when the user
// never connected or has disconnected.
func (s *Service) Load(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	stored, err := s.repo.FindByUserAndProvider(ctx, userID, s.provider)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrNotConnected
	}

	access, err := s.encrypter.Decrypt(stored.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh := ""
	if len(stored.RefreshToken) > 0 {
		refreshBytes, err := s.encrypter.Decrypt(stored.RefreshToken)
		if err != nil {
			return nil, err
		}
		refresh = string(refreshBytes)
	}

	return &oauth2.Token{
		AccessToken:  string(access),
		RefreshToken: refresh,
		TokenType:    stored.TokenType,
		Expiry:       stored.Expiry,
	}, nil
}

// EnsureFresh returns a valid access token, refreshing through the provider
// when the stored one is expired. A refresh response without a new refresh
// token keeps the stored refresh token, otherwise a single refresh would
// orphan the session. ErrAuthExpired when the token is expired and no
// refresh token exists.
func (s *Service) EnsureFresh(ctx context.Context, userID uuid.UUID) (*oauth2.Token, error) {
	token, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if token.Valid() {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, ErrAuthExpired
	}

	fresh, err := s.oauthConfig.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, err
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}
	if err := s.store(ctx, userID, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Disconnect removes the stored token. Disconnecting an unconnected user is
// a no-op.
func (s *Service) Disconnect(ctx context.Context, userID uuid.UUID) error {
	return s.repo.Delete(ctx, userID, s.provider)
}

// TokenSource returns a token source seeded with a fresh token for the
// given user.
func (s *Service) TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error) {
	token, err := s.EnsureFresh(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.oauthConfig.TokenSource(ctx, token), nil
}

func (s *Service) store(ctx context.Context, userID uuid.UUID, token *oauth2.Token) error {
	accessEnc, err := s.encrypter.Encrypt([]byte(token.AccessToken))
	if err != nil {
		return err
	}
	var refreshEnc []byte
	if token.RefreshToken != "" {
		refreshEnc, err = s.encrypter.Encrypt([]byte(token.RefreshToken))
		if err != nil {
			return err
		}
	}

	return s.repo.Save(ctx, StoredToken{
		UserID:       userID,
		Provider:     s.provider,
		AccessToken:  accessEnc,
		RefreshToken: refreshEnc,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		Scopes:       s.scopes,
	})
}

// ScopesFromEnv parses a comma-separated list of scopes.
func ScopesFromEnv(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			scopes = append(scopes, trimmed)
		}
	}
	return scopes
}
