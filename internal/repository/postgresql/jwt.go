package postgresql

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tutorbase/billing-backend-go/internal/pkg/database"
)

// JWTRepository stores refresh tokens so they can be revoked server side.
// Tokens are hashed before they touch the database.
type JWTRepository interface {
	CreateRefreshToken(ctx context.Context, adminID string, token string, expiresAt int64) error
	// IsRefreshTokenRevoked returns the owning admin id along with the
	// revocation state. An unknown token reads as revoked.
	IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type jwtRepositoryImpl struct {
	db *database.DB
}

func NewJWTRepository(db *database.DB) JWTRepository {
	return &jwtRepositoryImpl{db: db}
}

func (j *jwtRepositoryImpl) hashToken(input string) string {
	hash := sha256.Sum256([]byte(input))
	return base64.StdEncoding.EncodeToString(hash[:])
}

func (j *jwtRepositoryImpl) CreateRefreshToken(ctx context.Context, adminID string, token string, expiresAt int64) error {
	q := GetQuerier(ctx, j.db)

	query := `
		INSERT INTO refresh_tokens (admin_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	_, err := q.Exec(ctx, query, adminID, j.hashToken(token), time.Unix(expiresAt, 0).UTC())
	return err
}

func (j *jwtRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	q := GetQuerier(ctx, j.db)

	query := `
		SELECT admin_id, revoked_at, expires_at
		FROM refresh_tokens
		WHERE token_hash = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	var adminID string
	var revokedAt *time.Time
	var expiresAt time.Time

	err := q.QueryRow(ctx, query, j.hashToken(token)).Scan(&adminID, &revokedAt, &expiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", true, nil
		}
		return "", false, err
	}

	if revokedAt != nil || !expiresAt.After(time.Now()) {
		return adminID, true, nil
	}
	return adminID, false, nil
}

func (j *jwtRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	q := GetQuerier(ctx, j.db)

	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL
	`
	_, err := q.Exec(ctx, query, j.hashToken(token))
	return err
}
