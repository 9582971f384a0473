package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenRepository tracks issued refresh tokens so they can be rotated and revoked.
type RefreshTokenRepository interface {
	// Save records a newly issued refresh token.
	Save(ctx context.Context, token string, userID uuid.UUID, expiresAt time.Time) error

	// IsActive reports whether the token was issued, is not revoked and has not expired.
	IsActive(ctx context.Context, token string) (bool, error)

	// Revoke marks a single token as revoked. Unknown tokens are ignored.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser revokes every active token of the user and returns how many were revoked.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
