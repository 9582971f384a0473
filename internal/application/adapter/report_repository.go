package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// ReportRepository provides the read-only snapshots the report engine aggregates.
type ReportRepository interface {
	// FindTransactions returns the user's transactions dated within [start, end],
	// optionally restricted to one type.
	FindTransactions(ctx context.Context, userID uuid.UUID, start, end time.Time, txType *entity.TransactionType) ([]*entity.Transaction, error)

	// FindActiveBasicExpenses returns active templates whose range overlaps [start, end].
	FindActiveBasicExpenses(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.BasicExpense, error)

	// FindCategories returns every category of the user.
	FindCategories(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error)
}
