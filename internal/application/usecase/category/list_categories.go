package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

// ListCategoriesInput represents the input for listing categories.
// TreeView ignores Level, ParentID and RootsOnly. LeafOnly drops every category
// that is the parent of another of the user's categories.
type ListCategoriesInput struct {
	UserID    uuid.UUID
	Type      *entity.CategoryType
	Level     *int
	ParentID  *uuid.UUID
	RootsOnly bool
	TreeView  bool
	LeafOnly  bool
}

// ListCategoriesOutput represents the output of listing categories.
// Tree is only set for tree view requests.
type ListCategoriesOutput struct {
	Categories []*entity.Category
	Tree       []*valueobject.NestedCategory
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	if input.TreeView {
		categories, err := uc.categoryRepo.FindByFilter(ctx, adapter.CategoryFilter{UserID: input.UserID, Type: input.Type})
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return &ListCategoriesOutput{
			Categories: categories,
			Tree:       valueobject.BuildCategoryTree(categories).Nested(),
		}, nil
	}

	categories, err := uc.categoryRepo.FindByFilter(ctx, adapter.CategoryFilter{
		UserID:    input.UserID,
		Type:      input.Type,
		Level:     input.Level,
		ParentID:  input.ParentID,
		RootsOnly: input.RootsOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if input.LeafOnly {
		all, err := uc.categoryRepo.FindByFilter(ctx, adapter.CategoryFilter{UserID: input.UserID})
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		tree := valueobject.BuildCategoryTree(all)

		leaves := categories[:0:0]
		for _, c := range categories {
			if tree.IsLeaf(c.ID) {
				leaves = append(leaves, c)
			}
		}
		categories = leaves
	}

	return &ListCategoriesOutput{
		Categories: categories,
	}, nil
}
