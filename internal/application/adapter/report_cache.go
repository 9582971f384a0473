package adapter

import (
	"context"

	"github.com/google/uuid"
)

// ReportCache stores computed reports per user. Invalidate drops every entry of the user.
type ReportCache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	// The returned version identifies the cache generation read; pass it back to Set.
	Get(ctx context.Context, userID uuid.UUID, key string, dest any) (version int64, found bool, err error)

	// Set stores value under key for the generation returned by Get. A value computed
	// before an Invalidate is written to a generation that is never read again.
	Set(ctx context.Context, userID uuid.UUID, version int64, key string, value any) error

	// Invalidate drops every cached report of the user.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
