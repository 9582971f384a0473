package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/household-ledger/backend/internal/application/adapter"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
}

// DeleteCategoryOutput represents the output of category deletion.
type DeleteCategoryOutput struct {
	Success bool
}

// DeleteCategoryUseCase deletes childless, unreferenced categories.
type DeleteCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	reportCache  adapter.ReportCache
	logger       *zap.SugaredLogger
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(categoryRepo adapter.CategoryRepository, reportCache adapter.ReportCache, logger *zap.SugaredLogger) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo: categoryRepo,
		reportCache:  reportCache,
		logger:       logger,
	}
}

// Execute performs the category deletion.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
	category, err := findOwned(ctx, uc.categoryRepo, input.CategoryID, input.UserID)
	if err != nil {
		return nil, err
	}

	children, err := uc.categoryRepo.CountChildren(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subcategories: %w", err)
	}
	if children > 0 {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryHasChildren,
			"delete the subcategories first",
			domainerror.ErrCategoryHasChildren,
		)
	}

	referenced, err := uc.categoryRepo.IsReferenced(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category usage: %w", err)
	}
	if referenced {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInUse,
			"category is used by transactions or basic expenses",
			domainerror.ErrCategoryInUse,
		)
	}

	if err := uc.categoryRepo.Delete(ctx, category.ID); err != nil {
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}

	invalidateReports(ctx, uc.reportCache, uc.logger, input.UserID)

	return &DeleteCategoryOutput{
		Success: true,
	}, nil
}
