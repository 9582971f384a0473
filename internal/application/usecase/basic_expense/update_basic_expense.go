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

// UpdateBasicExpenseInput represents a partial update. Nil fields are left unchanged.
type UpdateBasicExpenseInput struct {
	BasicExpenseID uuid.UUID
	UserID         uuid.UUID
	CategoryID     *uuid.UUID
	Amount         *decimal.Decimal
	Description    *string
	IsActive       *bool
	StartDate      *time.Time
	EndDate        *time.Time
}

// UpdateBasicExpenseOutput represents the output of basic expense update.
type UpdateBasicExpenseOutput struct {
	BasicExpense *entity.BasicExpenseWithCategory
}

// UpdateBasicExpenseUseCase handles basic expense update logic.
type UpdateBasicExpenseUseCase struct {
	basicExpenseRepo adapter.BasicExpenseRepository
	categoryRepo     adapter.CategoryRepository
	reportCache      adapter.ReportCache
	logger           *zap.SugaredLogger
}

// NewUpdateBasicExpenseUseCase creates a new UpdateBasicExpenseUseCase instance.
func NewUpdateBasicExpenseUseCase(
	basicExpenseRepo adapter.BasicExpenseRepository,
	categoryRepo adapter.CategoryRepository,
	reportCache adapter.ReportCache,
	logger *zap.SugaredLogger,
) *UpdateBasicExpenseUseCase {
	return &UpdateBasicExpenseUseCase{
		basicExpenseRepo: basicExpenseRepo,
		categoryRepo:     categoryRepo,
		reportCache:      reportCache,
		logger:           logger,
	}
}

// Execute applies the update and re-validates the date range.
func (uc *UpdateBasicExpenseUseCase) Execute(ctx context.Context, input UpdateBasicExpenseInput) (*UpdateBasicExpenseOutput, error) {
	stored, err := findOwned(ctx, uc.basicExpenseRepo, input.BasicExpenseID, input.UserID)
	if err != nil {
		return nil, err
	}
	basicExpense := *stored

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		basicExpense.Amount = *input.Amount
	}
	if input.Description != nil {
		basicExpense.Description = *input.Description
	}
	if input.IsActive != nil {
		basicExpense.IsActive = *input.IsActive
	}
	if input.StartDate != nil {
		basicExpense.StartDate = input.StartDate.UTC()
	}
	if input.EndDate != nil {
		basicExpense.EndDate = input.EndDate.UTC()
	}
	if err := validateRange(basicExpense.StartDate, basicExpense.EndDate); err != nil {
		return nil, err
	}

	categoryID := basicExpense.CategoryID
	if input.CategoryID != nil {
		categoryID = *input.CategoryID
	}
	category, err := resolveExpenseCategory(ctx, uc.categoryRepo, categoryID, input.UserID)
	if err != nil {
		return nil, err
	}
	basicExpense.CategoryID = category.ID
	basicExpense.UpdatedAt = time.Now().UTC()

	if err := uc.basicExpenseRepo.Update(ctx, &basicExpense); err != nil {
		return nil, fmt.Errorf("failed to update basic expense: %w", err)
	}

	invalidateReports(ctx, uc.reportCache, uc.logger, input.UserID)

	return &UpdateBasicExpenseOutput{
		BasicExpense: &entity.BasicExpenseWithCategory{BasicExpense: &basicExpense, Category: category},
	}, nil
}

func findOwned(ctx context.Context, repo adapter.BasicExpenseRepository, id, userID uuid.UUID) (*entity.BasicExpense, error) {
	basicExpense, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrBasicExpenseNotFound) {
			return nil, domainerror.NewBasicExpenseError(
				domainerror.ErrCodeBasicExpenseNotFound,
				"basic expense not found",
				domainerror.ErrBasicExpenseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find basic expense: %w", err)
	}

	if basicExpense.UserID != userID {
		return nil, domainerror.NewBasicExpenseError(
			domainerror.ErrCodeNotAuthorizedBasicExpense,
			"not authorized to modify this basic expense",
			domainerror.ErrNotAuthorizedToModifyBasicExp,
		)
	}

	return basicExpense, nil
}
