package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifedash/lifedash/internal/identity/application/oauth"
)

// PostgresOAuthTokenRepository persists encrypted OAuth tokens in PostgreSQL.
type PostgresOAuthTokenRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOAuthTokenRepository creates a new Postgres OAuth token repository.
func NewPostgresOAuthTokenRepository(pool *pgxpool.Pool) *PostgresOAuthTokenRepository {
	return &PostgresOAuthTokenRepository{pool: pool}
}

// Save upserts a token for a user/provider.
func (r *PostgresOAuthTokenRepository) Save(ctx context.Context, token oauth.StoredToken) error {
	query := `
		INSERT INTO oauth_tokens (
			user_id, provider, access_token, refresh_token, token_type, expiry, scopes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			scopes = EXCLUDED.scopes,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		token.UserID,
		token.Provider,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		token.Expiry,
		strings.Join(token.Scopes, ","),
	)
	return err
}

// FindByUserAndProvider fetches a token, or nil when none is stored.
func (r *PostgresOAuthTokenRepository) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*oauth.StoredToken, error) {
	query := `
		SELECT user_id, provider, access_token, refresh_token, token_type, expiry, scopes
		FROM oauth_tokens
		WHERE user_id = $1 AND provider = $2
	`
	var (
		token     oauth.StoredToken
		scopesStr string
	)
	err := r.pool.QueryRow(ctx, query, userID, provider).Scan(
		&token.UserID,
		&token.Provider,
		&token.AccessToken,
		&token.RefreshToken,
		&token.TokenType,
		&token.Expiry,
		&scopesStr,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if scopesStr != "" {
		token.Scopes = strings.Split(scopesStr, ",")
	}
	return &token, nil
}

// Delete removes a token. Deleting a missing token is a no-op.
func (r *PostgresOAuthTokenRepository) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM oauth_tokens WHERE user_id = $1 AND provider = $2`,
		userID, provider,
	)
	return err
}
