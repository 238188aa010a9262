// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *RefreshToken) error
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindByID(ctx context.Context, id string) (*RefreshToken, error)
	MarkAsUsed(ctx context.Context, id, replacedByID string) error
	RevokeByID(ctx context.Context, id string) error
	RevokeByFamilyID(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	GetActiveSessionsForUser(ctx context.Context, userID string) ([]RefreshToken, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const selectToken = `SELECT id, user_id, token_hash, family_id, expires_at,
		created_at, is_used, used_at, revoked_at, replaced_by_id,
		user_agent, ip_address
		FROM refresh_tokens`

func (r *repository) Create(ctx context.Context, t *RefreshToken) error {
	return core.GetOne(ctx, r.db, &t.CreatedAt, "create refresh token", `
		INSERT INTO refresh_tokens (
			id, user_id, token_hash, family_id, expires_at, user_agent, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		t.ID, t.UserID, t.TokenHash, t.FamilyID, t.ExpiresAt, t.UserAgent, t.IPAddress,
	)
}

func (r *repository) FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	return r.findOne(ctx, "token_hash", tokenHash)
}

func (r *repository) FindByID(ctx context.Context, id string) (*RefreshToken, error) {
	return r.findOne(ctx, "id", id)
}

func (r *repository) findOne(ctx context.Context, column, value string) (*RefreshToken, error) {
	var t RefreshToken
	query := selectToken + ` WHERE ` + column + ` = $1`
	if err := core.GetOne(ctx, r.db, &t, "find refresh token", query, value); err != nil {
		return nil, err
	}
	return &t, nil
}

// MarkAsUsed only succeeds once per token; a second rotation of the same
// token reports ErrNotFound.
func (r *repository) MarkAsUsed(ctx context.Context, id, replacedByID string) error {
	return core.ExecOne(ctx, r.db, "mark refresh token used", `
		UPDATE refresh_tokens
		SET is_used = true, used_at = NOW(), replaced_by_id = $2
		WHERE id = $1 AND is_used = false`,
		id, replacedByID,
	)
}

func (r *repository) RevokeByID(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "revoke refresh token", `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL`,
		id,
	)
}

func (r *repository) RevokeByFamilyID(ctx context.Context, familyID string) error {
	return r.revokeWhere(ctx, "revoke token family", "family_id", familyID)
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.revokeWhere(ctx, "revoke user tokens", "user_id", userID)
}

func (r *repository) revokeWhere(ctx context.Context, op, column, value string) error {
	_, err := core.ExecCount(ctx, r.db, op, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE `+column+` = $1 AND revoked_at IS NULL`,
		value,
	)
	return err
}

func (r *repository) GetActiveSessionsForUser(
	ctx context.Context,
	userID string,
) ([]RefreshToken, error) {
	query := selectToken + `
		WHERE user_id = $1
			AND revoked_at IS NULL
			AND is_used = false
			AND expires_at > NOW()
		ORDER BY created_at DESC`

	var tokens []RefreshToken
	if err := core.SelectAll(ctx, r.db, &tokens, "get active sessions", query, userID); err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteExpired purges refresh tokens that expired before the cutoff.
func (r *repository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return core.ExecCount(ctx, r.db, "delete expired tokens",
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
}
