package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// ListTransactionsInput represents the input for listing transactions.
// EndDate is inclusive of the whole day.
type ListTransactionsInput struct {
	UserID               uuid.UUID
	StartDate            *time.Time
	EndDate              *time.Time
	CategoryID           *uuid.UUID
	IncludeSubcategories bool
	Type                 *entity.TransactionType
	Page                 int
	Limit                int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListTransactionsOutput represents the output of listing transactions.
type ListTransactionsOutput struct {
	Transactions []*entity.TransactionWithCategory
	Pagination   PaginationOutput
}

// ListTransactionsUseCase handles listing transactions with filters.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute lists the user's transactions, newest first.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	page := input.Page
	if page < 1 {
		page = defaultPage
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	filter := adapter.TransactionFilter{
		UserID:    input.UserID,
		StartDate: input.StartDate,
		Type:      input.Type,
	}
	if input.EndDate != nil {
		end := valueobject.EndOfDay(*input.EndDate)
		filter.EndDate = &end
	}

	if input.CategoryID != nil {
		ids, err := uc.categoryScope(ctx, input.UserID, *input.CategoryID, input.IncludeSubcategories)
		if err != nil {
			return nil, err
		}
		filter.CategoryIDs = ids
	}

	result, err := uc.transactionRepo.FindByFilter(ctx, filter, adapter.TransactionPagination{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &ListTransactionsOutput{
		Transactions: result.Transactions,
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}, nil
}

func (uc *ListTransactionsUseCase) categoryScope(ctx context.Context, userID, categoryID uuid.UUID, withSubcategories bool) ([]uuid.UUID, error) {
	if !withSubcategories {
		return []uuid.UUID{categoryID}, nil
	}

	categories, err := uc.categoryRepo.FindByFilter(ctx, adapter.CategoryFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	return valueobject.BuildCategoryTree(categories).Subtree(categoryID), nil
}
