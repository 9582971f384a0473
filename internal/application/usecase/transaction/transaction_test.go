package transaction

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
)

type fakeCategoryRepository struct {
	categories map[uuid.UUID]*entity.Category
}

func (r *fakeCategoryRepository) Create(_ context.Context, c *entity.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if c, ok := r.categories[id]; ok {
		return c, nil
	}
	return nil, domainerror.ErrCategoryNotFound
}

func (r *fakeCategoryRepository) FindByFilter(_ context.Context, f adapter.CategoryFilter) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, c := range r.categories {
		if c.UserID == f.UserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepository) Update(context.Context, *entity.Category) error { return nil }
func (r *fakeCategoryRepository) Delete(context.Context, uuid.UUID) error { return nil }
func (r *fakeCategoryRepository) CountChildren(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *fakeCategoryRepository) IsReferenced(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

type fakeTransactionRepository struct {
	transactions map[uuid.UUID]*entity.Transaction
	lastFilter   adapter.TransactionFilter
}

func (r *fakeTransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	r.transactions[t.ID] = t
	return nil
}

func (r *fakeTransactionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	if t, ok := r.transactions[id]; ok {
		return t, nil
	}
	return nil, domainerror.ErrTransactionNotFound
}

func (r *fakeTransactionRepository) FindByFilter(_ context.Context, f adapter.TransactionFilter, p adapter.TransactionPagination) (*adapter.TransactionListResult, error) {
	r.lastFilter = f
	allowed := map[uuid.UUID]bool{}
	for _, id := range f.CategoryIDs {
		allowed[id] = true
	}

	var matched []*entity.TransactionWithCategory
	for _, t := range r.transactions {
		if t.UserID != f.UserID {
			continue
		}
		if f.StartDate != nil && t.Date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && t.Date.After(*f.EndDate) {
			continue
		}
		if f.Type != nil && t.Type != *f.Type {
			continue
		}
		if len(allowed) > 0 && (t.CategoryID == nil || !allowed[*t.CategoryID]) {
			continue
		}
		matched = append(matched, &entity.TransactionWithCategory{Transaction: t})
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Transaction.Date.After(matched[j].Transaction.Date)
	})

	total := int64(len(matched))
	offset := (p.Page - 1) * p.Limit
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if totalPages < 1 {
		totalPages = 1
	}

	return &adapter.TransactionListResult{
		Transactions: matched[offset:end],
		Total:        total,
		Page:         p.Page,
		Limit:        p.Limit,
		TotalPages:   totalPages,
	}, nil
}

func (r *fakeTransactionRepository) Update(_ context.Context, t *entity.Transaction) error {
	r.transactions[t.ID] = t
	return nil
}

func (r *fakeTransactionRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.transactions, id)
	return nil
}

type countingCache struct {
	invalidations int
	err           error
}

func (c *countingCache) Get(context.Context, uuid.UUID, string, any) (int64, bool, error) {
	return 0, false, nil
}
func (c *countingCache) Set(context.Context, uuid.UUID, int64, string, any) error { return nil }
func (c *countingCache) Invalidate(context.Context, uuid.UUID) error {
	c.invalidations++
	return c.err
}

type fixture struct {
	userID     uuid.UUID
	food       *entity.Category
	groceries  *entity.Category
	salary     *entity.Category
	categories *fakeCategoryRepository
	txns       *fakeTransactionRepository
	cache      *countingCache
}

func newFixture() *fixture {
	userID := uuid.New()
	food := entity.NewCategory(userID, "Food", entity.CategoryTypeExpense, nil)
	groceries := entity.NewCategory(userID, "Groceries", entity.CategoryTypeExpense, food)
	salary := entity.NewCategory(userID, "Salary", entity.CategoryTypeIncome, nil)

	categories := &fakeCategoryRepository{categories: map[uuid.UUID]*entity.Category{
		food.ID:      food,
		groceries.ID: groceries,
		salary.ID:    salary,
	}}

	return &fixture{
		userID:     userID,
		food:       food,
		groceries:  groceries,
		salary:     salary,
		categories: categories,
		txns:       &fakeTransactionRepository{transactions: map[uuid.UUID]*entity.Transaction{}},
		cache:      &countingCache{},
	}
}

func transactionCode(t *testing.T, err error) domainerror.TransactionErrorCode {
	t.Helper()
	var txnErr *domainerror.TransactionError
	if !errors.As(err, &txnErr) {
		t.Fatalf("expected TransactionError, got %v", err)
	}
	return txnErr.Code
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDeleteTransactionUseCase_CacheInvalidationFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created, err := NewCreateTransactionUseCase(f.txns, f.categories, f.cache, zap.NewNop().Sugar()).Execute(ctx, CreateTransactionInput{
		UserID:     f.userID,
		CategoryID: f.groceries.ID,
		Amount:     decimal.NewFromInt(10),
		Date:       date(2024, time.March, 2),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	core, logs := observer.New(zap.WarnLevel)
	f.cache.err = errors.New("redis: connection refused")
	del := NewDeleteTransactionUseCase(f.txns, f.cache, zap.New(core).Sugar())
	if _, err := del.Execute(ctx, DeleteTransactionInput{TransactionID: created.Transaction.Transaction.ID, UserID: f.userID}); err != nil {
		t.Fatalf("a cache failure must not fail the delete: %v", err)
	}
	if n := logs.FilterMessage("Report cache invalidation failed").Len(); n != 1 {
		t.Errorf("expected one invalidation warning, got %d", n)
	}
}

func TestCreateTransactionUseCase(t *testing.T) {
	f := newFixture()
	uc := NewCreateTransactionUseCase(f.txns, f.categories, f.cache, zap.NewNop().Sugar())
	ctx := context.Background()

	out, err := uc.Execute(ctx, CreateTransactionInput{
		UserID:      f.userID,
		CategoryID:  f.groceries.ID,
		Amount:      decimal.NewFromInt(42),
		Description: "weekly shop",
		Date:        date(2024, time.March, 2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Transaction.Transaction.Type != entity.TransactionTypeExpense {
		t.Errorf("type should be derived from the category, got %s", out.Transaction.Transaction.Type)
	}
	if out.Transaction.Category.ID != f.groceries.ID {
		t.Error("output should carry the category")
	}
	if f.cache.invalidations != 1 {
		t.Errorf("expected one cache invalidation, got %d", f.cache.invalidations)
	}

	long := make([]byte, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'a'
	}
	foreign := entity.NewCategory(uuid.New(), "Other", entity.CategoryTypeExpense, nil)
	f.categories.categories[foreign.ID] = foreign

	tests := []struct {
		name  string
		input CreateTransactionInput
		code  domainerror.TransactionErrorCode
	}{
		{"zero amount", CreateTransactionInput{UserID: f.userID, CategoryID: f.food.ID, Amount: decimal.Zero, Date: date(2024, 1, 1)}, domainerror.ErrCodeInvalidTransactionAmount},
		{"negative amount", CreateTransactionInput{UserID: f.userID, CategoryID: f.food.ID, Amount: decimal.NewFromInt(-5), Date: date(2024, 1, 1)}, domainerror.ErrCodeInvalidTransactionAmount},
		{"missing date", CreateTransactionInput{UserID: f.userID, CategoryID: f.food.ID, Amount: decimal.NewFromInt(5)}, domainerror.ErrCodeInvalidTransactionDate},
		{"long description", CreateTransactionInput{UserID: f.userID, CategoryID: f.food.ID, Amount: decimal.NewFromInt(5), Date: date(2024, 1, 1), Description: string(long)}, domainerror.ErrCodeDescriptionTooLong},
		{"unknown category", CreateTransactionInput{UserID: f.userID, CategoryID: uuid.New(), Amount: decimal.NewFromInt(5), Date: date(2024, 1, 1)}, domainerror.ErrCodeTxnCategoryNotFound},
		{"foreign category", CreateTransactionInput{UserID: f.userID, CategoryID: foreign.ID, Amount: decimal.NewFromInt(5), Date: date(2024, 1, 1)}, domainerror.ErrCodeTxnCategoryNotOwned},
		{"type mismatch", CreateTransactionInput{UserID: f.userID, CategoryID: f.salary.ID, Amount: decimal.NewFromInt(5), Date: date(2024, 1, 1), Type: entity.TransactionTypeExpense}, domainerror.ErrCodeTransactionTypeMismatch},
		{"invalid type", CreateTransactionInput{UserID: f.userID, CategoryID: f.salary.ID, Amount: decimal.NewFromInt(5), Date: date(2024, 1, 1), Type: "transfer"}, domainerror.ErrCodeInvalidTransactionType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.input)
			if code := transactionCode(t, err); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
		})
	}
}

func TestListTransactionsUseCase(t *testing.T) {
	f := newFixture()
	create := NewCreateTransactionUseCase(f.txns, f.categories, f.cache, zap.NewNop().Sugar())
	list := NewListTransactionsUseCase(f.txns, f.categories)
	ctx := context.Background()

	seed := []CreateTransactionInput{
		{CategoryID: f.food.ID, Amount: decimal.NewFromInt(10), Date: date(2024, time.January, 5)},
		{CategoryID: f.groceries.ID, Amount: decimal.NewFromInt(20), Date: date(2024, time.January, 31)},
		{CategoryID: f.salary.ID, Amount: decimal.NewFromInt(1000), Date: date(2024, time.February, 1)},
	}
	for _, in := range seed {
		in.UserID = f.userID
		if _, err := create.Execute(ctx, in); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	t.Run("subcategories included", func(t *testing.T) {
		out, err := list.Execute(ctx, ListTransactionsInput{UserID: f.userID, CategoryID: &f.food.ID, IncludeSubcategories: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Transactions) != 2 {
			t.Errorf("expected 2 transactions, got %d", len(out.Transactions))
		}
	})

	t.Run("exact category only", func(t *testing.T) {
		out, err := list.Execute(ctx, ListTransactionsInput{UserID: f.userID, CategoryID: &f.food.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Transactions) != 1 {
			t.Errorf("expected 1 transaction, got %d", len(out.Transactions))
		}
	})

	t.Run("end date covers the whole day", func(t *testing.T) {
		end := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
		out, err := list.Execute(ctx, ListTransactionsInput{UserID: f.userID, EndDate: &end})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Pagination.Total != 2 {
			t.Errorf("expected 2 transactions up to Jan 31, got %d", out.Pagination.Total)
		}
	})

	t.Run("pagination defaults and cap", func(t *testing.T) {
		out, err := list.Execute(ctx, ListTransactionsInput{UserID: f.userID, Limit: 1000})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Pagination.Page != 1 || out.Pagination.Limit != maxLimit {
			t.Errorf("unexpected pagination %+v", out.Pagination)
		}
		if !out.Transactions[0].Transaction.Date.Equal(date(2024, time.February, 1)) {
			t.Error("expected newest transaction first")
		}
	})
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	f := newFixture()
	create := NewCreateTransactionUseCase(f.txns, f.categories, f.cache, zap.NewNop().Sugar())
	update := NewUpdateTransactionUseCase(f.txns, f.categories, f.cache, zap.NewNop().Sugar())
	del := NewDeleteTransactionUseCase(f.txns, f.cache, zap.NewNop().Sugar())
	ctx := context.Background()

	created, err := create.Execute(ctx, CreateTransactionInput{
		UserID:     f.userID,
		CategoryID: f.food.ID,
		Amount:     decimal.NewFromInt(10),
		Date:       date(2024, time.May, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created.Transaction.Transaction.ID

	amount := decimal.NewFromInt(15)
	out, err := update.Execute(ctx, UpdateTransactionInput{TransactionID: id, UserID: f.userID, Amount: &amount})
	if err != nil {
		t.Fatalf("update amount: %v", err)
	}
	if !out.Transaction.Transaction.Amount.Equal(amount) {
		t.Errorf("amount = %s, want 15", out.Transaction.Transaction.Amount)
	}

	out, err = update.Execute(ctx, UpdateTransactionInput{TransactionID: id, UserID: f.userID, CategoryID: &f.salary.ID})
	if err != nil {
		t.Fatalf("move category: %v", err)
	}
	if out.Transaction.Transaction.Type != entity.TransactionTypeIncome {
		t.Errorf("moving to an income category should switch the type, got %s", out.Transaction.Transaction.Type)
	}

	expense := entity.TransactionTypeExpense
	_, err = update.Execute(ctx, UpdateTransactionInput{TransactionID: id, UserID: f.userID, Type: &expense})
	if code := transactionCode(t, err); code != domainerror.ErrCodeTransactionTypeMismatch {
		t.Errorf("code = %s, want type mismatch", code)
	}

	_, err = update.Execute(ctx, UpdateTransactionInput{TransactionID: id, UserID: uuid.New(), Amount: &amount})
	if code := transactionCode(t, err); code != domainerror.ErrCodeNotAuthorizedTransaction {
		t.Errorf("code = %s, want not authorized", code)
	}

	_, err = del.Execute(ctx, DeleteTransactionInput{TransactionID: id, UserID: uuid.New()})
	if code := transactionCode(t, err); code != domainerror.ErrCodeNotAuthorizedTransaction {
		t.Errorf("code = %s, want not authorized", code)
	}

	if _, err := del.Execute(ctx, DeleteTransactionInput{TransactionID: id, UserID: f.userID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = del.Execute(ctx, DeleteTransactionInput{TransactionID: id, UserID: f.userID})
	if code := transactionCode(t, err); code != domainerror.ErrCodeTransactionNotFound {
		t.Errorf("code = %s, want not found", code)
	}

	if f.cache.invalidations != 4 {
		t.Errorf("expected 4 cache invalidations, got %d", f.cache.invalidations)
	}
}
