package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// CategoryFilter defines filter options for listing categories.
// RootsOnly selects categories without a parent and takes precedence over ParentID.
type CategoryFilter struct {
	UserID    uuid.UUID
	Type      *entity.CategoryType
	Level     *int
	ParentID  *uuid.UUID
	RootsOnly bool
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByFilter retrieves categories matching the filter, ordered by type then name.
	FindByFilter(ctx context.Context, filter CategoryFilter) ([]*entity.Category, error)

	// Update updates an existing category in the database.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountChildren counts the direct subcategories of a category.
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)

	// IsReferenced reports whether any transaction or basic expense uses the category.
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}
