// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
)

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = 50

// CreateCategoryInput represents the input for category creation.
// Type is required for root categories; children inherit it from the parent.
type CreateCategoryInput struct {
	UserID   uuid.UUID
	Name     string
	ParentID *uuid.UUID
	Type     entity.CategoryType
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	reportCache  adapter.ReportCache
	logger       *zap.SugaredLogger
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository, reportCache adapter.ReportCache, logger *zap.SugaredLogger) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
		reportCache:  reportCache,
		logger:       logger,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	if input.Type != "" && !input.Type.IsValid() {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'expense' or 'income'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	var parent *entity.Category
	if input.ParentID != nil {
		p, err := uc.categoryRepo.FindByID(ctx, *input.ParentID)
		if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to find parent category: %w", err)
		}
		// Foreign parents are reported as missing
		if err != nil || p.UserID != input.UserID {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeParentNotFound,
				"parent category not found",
				domainerror.ErrParentCategoryNotFound,
			)
		}
		if p.Level >= entity.MaxCategoryLevel {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryMaxDepth,
				fmt.Sprintf("categories cannot be nested deeper than %d levels", entity.MaxCategoryLevel),
				domainerror.ErrCategoryMaxDepth,
			)
		}
		if input.Type != "" && input.Type != p.Type {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryTypeMismatch,
				"category type must match its parent",
				domainerror.ErrCategoryTypeMismatch,
			)
		}
		parent = p
	} else if input.Type == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			"type is required for top level categories",
			domainerror.ErrInvalidCategoryType,
		)
	}

	category := entity.NewCategory(input.UserID, name, input.Type, parent)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	invalidateReports(ctx, uc.reportCache, uc.logger, input.UserID)

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}

func validateName(name string) error {
	if name == "" {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			"category name is required",
			nil,
		)
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("category name must not exceed %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}
	return nil
}

// findOwned loads a category and checks it belongs to userID.
func findOwned(ctx context.Context, repo adapter.CategoryRepository, id, userID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if category.UserID != userID {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeNotAuthorizedCategory,
			"not authorized to modify this category",
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}

	return category, nil
}

// invalidateReports drops the user's cached reports. A failure never fails the write;
// stale entries still expire on their TTL.
func invalidateReports(ctx context.Context, cache adapter.ReportCache, logger *zap.SugaredLogger, userID uuid.UUID) {
	if err := cache.Invalidate(ctx, userID); err != nil {
		logger.Warnw("Report cache invalidation failed", "user_id", userID, "error", err)
	}
}
