package basicexpense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

// ListBasicExpensesInput represents the input for listing basic expenses.
// Year alone selects templates overlapping that year; Year with Month narrows it to the month.
type ListBasicExpensesInput struct {
	UserID     uuid.UUID
	IsActive   *bool
	Year       string
	Month      string
	CategoryID *uuid.UUID
}

// ListBasicExpensesOutput represents the output of listing basic expenses.
type ListBasicExpensesOutput struct {
	BasicExpenses []*entity.BasicExpenseWithCategory
}

// ListBasicExpensesUseCase handles listing basic expenses.
type ListBasicExpensesUseCase struct {
	basicExpenseRepo adapter.BasicExpenseRepository
	categoryRepo     adapter.CategoryRepository
}

// NewListBasicExpensesUseCase creates a new ListBasicExpensesUseCase instance.
func NewListBasicExpensesUseCase(
	basicExpenseRepo adapter.BasicExpenseRepository,
	categoryRepo adapter.CategoryRepository,
) *ListBasicExpensesUseCase {
	return &ListBasicExpensesUseCase{
		basicExpenseRepo: basicExpenseRepo,
		categoryRepo:     categoryRepo,
	}
}

// Execute lists the user's templates, newest first.
func (uc *ListBasicExpensesUseCase) Execute(ctx context.Context, input ListBasicExpensesInput) (*ListBasicExpensesOutput, error) {
	filter := adapter.BasicExpenseFilter{
		UserID:   input.UserID,
		IsActive: input.IsActive,
	}

	if input.Year != "" {
		period, err := resolveWindow(input.Year, input.Month)
		if err != nil {
			return nil, err
		}
		filter.Start = &period.Start
		filter.End = &period.End
	}

	if input.CategoryID != nil {
		categories, err := uc.categoryRepo.FindByFilter(ctx, adapter.CategoryFilter{UserID: input.UserID})
		if err != nil {
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}
		filter.CategoryIDs = valueobject.BuildCategoryTree(categories).Subtree(*input.CategoryID)
	}

	basicExpenses, err := uc.basicExpenseRepo.FindByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list basic expenses: %w", err)
	}

	return &ListBasicExpensesOutput{
		BasicExpenses: basicExpenses,
	}, nil
}

func resolveWindow(year, month string) (valueobject.Period, error) {
	kind := valueobject.PeriodYear
	if month != "" {
		kind = valueobject.PeriodMonth
	}
	query, err := valueobject.ParsePeriodQuery(string(kind), year, month, "")
	if err != nil {
		return valueobject.Period{}, err
	}
	return valueobject.ResolvePeriod(query)
}
