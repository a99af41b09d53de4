package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lifedash/lifedash/internal/identity/application/oauth"
)

// SQLiteOAuthTokenRepository persists encrypted OAuth tokens in SQLite.
type SQLiteOAuthTokenRepository struct {
	dbConn *sql.DB
}

// NewSQLiteOAuthTokenRepository creates a new SQLite OAuth token repository.
func NewSQLiteOAuthTokenRepository(dbConn *sql.DB) *SQLiteOAuthTokenRepository {
	return &SQLiteOAuthTokenRepository{dbConn: dbConn}
}

// Save upserts a token for a user/provider.
func (r *SQLiteOAuthTokenRepository) Save(ctx context.Context, token oauth.StoredToken) error {
	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO oauth_tokens (
			user_id, provider, access_token, refresh_token, token_type, expiry, scopes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			scopes = excluded.scopes,
			updated_at = excluded.updated_at
	`
	_, err := r.dbConn.ExecContext(ctx, query,
		token.UserID.String(),
		token.Provider,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		token.Expiry.UTC().Format(time.RFC3339),
		strings.Join(token.Scopes, ","),
		now,
		now,
	)
	return err
}

// FindByUserAndProvider fetches a token, or nil when none is stored.
func (r *SQLiteOAuthTokenRepository) FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*oauth.StoredToken, error) {
	query := `
		SELECT user_id, provider, access_token, refresh_token, token_type, expiry, scopes
		FROM oauth_tokens
		WHERE user_id = ? AND provider = ?
	`
	var (
		token     oauth.StoredToken
		userIDStr string
		refresh   []byte
		expiryStr string
		scopesStr string
	)
	err := r.dbConn.QueryRowContext(ctx, query, userID.String(), provider).Scan(
		&userIDStr,
		&token.Provider,
		&token.AccessToken,
		&refresh,
		&token.TokenType,
		&expiryStr,
		&scopesStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	token.UserID, err = uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	token.RefreshToken = refresh
	token.Expiry, err = time.Parse(time.RFC3339, expiryStr)
	if err != nil {
		return nil, err
	}
	if scopesStr != "" {
		token.Scopes = strings.Split(scopesStr, ",")
	}
	return &token, nil
}

// Delete removes a token. Deleting a missing token is a no-op.
func (r *SQLiteOAuthTokenRepository) Delete(ctx context.Context, userID uuid.UUID, provider string) error {
	_, err := r.dbConn.ExecContext(ctx,
		`DELETE FROM oauth_tokens WHERE user_id = ? AND provider = ?`,
		userID.String(), provider,
	)
	return err
}
