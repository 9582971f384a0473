// Package basicexpense contains use cases for recurring monthly expense templates.
package basicexpense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
)

// CreateBasicExpenseInput represents the input for basic expense creation.
type CreateBasicExpenseInput struct {
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	Amount      decimal.Decimal
	Description string
	StartDate   time.Time
	EndDate     time.Time
}

// CreateBasicExpenseOutput represents the output of basic expense creation.
type CreateBasicExpenseOutput struct {
	BasicExpense *entity.BasicExpenseWithCategory
}

// CreateBasicExpenseUseCase handles basic expense creation logic.
type CreateBasicExpenseUseCase struct {
	basicExpenseRepo adapter.BasicExpenseRepository
	categoryRepo     adapter.CategoryRepository
	reportCache      adapter.ReportCache
	logger           *zap.SugaredLogger
}

// NewCreateBasicExpenseUseCase creates a new CreateBasicExpenseUseCase instance.
func NewCreateBasicExpenseUseCase(
	basicExpenseRepo adapter.BasicExpenseRepository,
	categoryRepo adapter.CategoryRepository,
	reportCache adapter.ReportCache,
	logger *zap.SugaredLogger,
) *CreateBasicExpenseUseCase {
	return &CreateBasicExpenseUseCase{
		basicExpenseRepo: basicExpenseRepo,
		categoryRepo:     categoryRepo,
		reportCache:      reportCache,
		logger:           logger,
	}
}

// Execute performs the basic expense creation.
func (uc *CreateBasicExpenseUseCase) Execute(ctx context.Context, input CreateBasicExpenseInput) (*CreateBasicExpenseOutput, error) {
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, domainerror.NewBasicExpenseError(
			domainerror.ErrCodeInvalidBasicExpenseDate,
			"start date and end date are required",
			domainerror.ErrInvalidBasicExpenseDateRange,
		)
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	category, err := resolveExpenseCategory(ctx, uc.categoryRepo, input.CategoryID, input.UserID)
	if err != nil {
		return nil, err
	}

	basicExpense := entity.NewBasicExpense(
		input.UserID,
		category.ID,
		input.Amount,
		input.Description,
		input.StartDate.UTC(),
		input.EndDate.UTC(),
	)

	if err := uc.basicExpenseRepo.Create(ctx, basicExpense); err != nil {
		return nil, fmt.Errorf("failed to create basic expense: %w", err)
	}

	invalidateReports(ctx, uc.reportCache, uc.logger, input.UserID)

	return &CreateBasicExpenseOutput{
		BasicExpense: &entity.BasicExpenseWithCategory{BasicExpense: basicExpense, Category: category},
	}, nil
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domainerror.NewBasicExpenseError(
			domainerror.ErrCodeInvalidBasicExpenseAmount,
			"amount must not be negative",
			domainerror.ErrInvalidBasicExpenseAmount,
		)
	}
	return nil
}

func validateRange(start, end time.Time) error {
	if start.After(end) {
		return domainerror.NewBasicExpenseError(
			domainerror.ErrCodeInvalidBasicExpenseRange,
			"start date must not be after end date",
			domainerror.ErrInvalidBasicExpenseDateRange,
		)
	}
	return nil
}

// resolveExpenseCategory loads an owned expense category.
func resolveExpenseCategory(ctx context.Context, repo adapter.CategoryRepository, categoryID, userID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewBasicExpenseError(
				domainerror.ErrCodeBexCategoryNotFound,
				"category not found",
				domainerror.ErrBasicExpenseCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	// Foreign categories are reported as missing.
	if category.UserID != userID {
		return nil, domainerror.NewBasicExpenseError(
			domainerror.ErrCodeBexCategoryNotFound,
			"category not found",
			domainerror.ErrBasicExpenseCategoryNotFound,
		)
	}

	if category.Type != entity.CategoryTypeExpense {
		return nil, domainerror.NewBasicExpenseError(
			domainerror.ErrCodeBexCategoryNotExpense,
			"basic expenses require an expense category",
			domainerror.ErrBasicExpenseCategoryNotExpense,
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
