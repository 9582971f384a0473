package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/integration/persistence/model"
)

// tokenRepository stores refresh tokens by their SHA-256 digest; the signed token itself never
// reaches the database. Expiry and revocation times come from the injected clock so they agree
// with the token service.
type tokenRepository struct {
	db    *gorm.DB
	clock adapter.Clock
}

// NewTokenRepository creates a new refresh token repository instance.
func NewTokenRepository(db *gorm.DB, clock adapter.Clock) adapter.RefreshTokenRepository {
	return &tokenRepository{
		db:    db,
		clock: clock,
	}
}

func (r *tokenRepository) Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error {
	record := &model.RefreshTokenModel{
		ID:        uuid.New(),
		TokenHash: hashToken(token),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: r.clock.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsActive(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.active(ctx).
		Where("token_hash = ?", hashToken(token)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return count > 0, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, token string) error {
	err := r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", hashToken(token)).
		Update("revoked_at", r.clock.Now().UTC()).Error
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.active(ctx).
		Where("user_id = ?", userID).
		Update("revoked_at", r.clock.Now().UTC())
	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke user refresh tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// active scopes a query to tokens that are neither revoked nor expired.
func (r *tokenRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.RefreshTokenModel{}).
		Where("revoked_at IS NULL AND expires_at > ?", r.clock.Now().UTC())
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
