package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// BasicExpenseFilter defines filter options for listing basic expenses.
// Start and End select templates whose date range overlaps that window.
type BasicExpenseFilter struct {
	UserID      uuid.UUID
	IsActive    *bool
	CategoryIDs []uuid.UUID
	Start       *time.Time
	End         *time.Time
}

// BasicExpenseRepository defines the interface for basic expense persistence operations.
type BasicExpenseRepository interface {
	Create(ctx context.Context, basicExpense *entity.BasicExpense) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BasicExpense, error)
	// FindByFilter returns matching templates with their categories, newest first.
	FindByFilter(ctx context.Context, filter BasicExpenseFilter) ([]*entity.BasicExpenseWithCategory, error)
	Update(ctx context.Context, basicExpense *entity.BasicExpense) error
	Delete(ctx context.Context, id uuid.UUID) error
}
