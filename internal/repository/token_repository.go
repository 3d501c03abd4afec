package repository

import (
	"context"
	"database/sql"
	"errors"
)

// TokenRepo persists access tokens (single 'access_token' column). A row
// is a live session: created on login, removed on logout. The lookup is
// the authorization decision — a token with no row is a dead session no
// matter what the string itself says.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a token row for the user.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_tokens (user_id, access_token) VALUES (?,?)",
		userID, token)
	return err
}

// Lookup returns the owning user id for an exact token string, or
// ErrTokenNotFound when no session exists.
func (r *TokenRepo) Lookup(ctx context.Context, token string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM access_tokens WHERE access_token=? LIMIT 1",
		token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// Delete removes the session row for the token. Deleting an already
// removed token is not an error.
func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM access_tokens WHERE access_token=?", token)
	return err
}
