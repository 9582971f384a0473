package report

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
)

func newSummaryFixture() (*fixture, *fakeReportRepository) {
	f := newFixture()
	repo := &fakeReportRepository{
		categories: []*entity.Category{f.salary, f.food, f.groceries, f.fruit, f.rent},
		transactions: []*entity.Transaction{
			f.txn(f.salary, "3000", day(2024, 1, 31)),
			f.txn(f.fruit, "12.5", day(2024, 1, 3)),
			f.txn(f.groceries, "40", day(2024, 2, 10)),
			f.txn(f.food, "99", day(2023, 12, 31)),
		},
		basicExpenses: []*entity.BasicExpense{
			f.basic(f.rent, "900", day(2023, 1, 1), day(2024, 12, 31)),
		},
	}
	return f, repo
}

func TestGetSummaryUseCase_Execute(t *testing.T) {
	f, repo := newSummaryFixture()
	uc := NewGetSummaryUseCase(repo, newMemoryCache(), NewAggregator(nil), zap.NewNop().Sugar())

	out, err := uc.Execute(context.Background(), GetSummaryInput{
		UserID:              f.userID,
		Period:              "quarter",
		Year:                "2024",
		Quarter:             "1",
		IncludeBasicExpense: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := out.Report
	assertAmount(t, "total income", r.TotalIncome, "3000")
	assertAmount(t, "total basic expense", r.TotalBasicExpense, "2700")
	assertAmount(t, "total expense", r.TotalExpense, "2752.5")
	assertAmount(t, "balance", r.Balance, "247.5")
	if r.Period != "2024 Q1" {
		t.Errorf("period = %q", r.Period)
	}
	if len(r.MonthlyData) != 3 {
		t.Errorf("expected 3 monthly rows, got %d", len(r.MonthlyData))
	}
	if food := r.ExpenseByCategory[f.food.ID]; food == nil || !food.Amount.Equal(decimal.RequireFromString("52.5")) {
		t.Errorf("unexpected food entry %+v", food)
	}
}

func TestGetSummaryUseCase_ExcludeBasicExpense(t *testing.T) {
	f, repo := newSummaryFixture()
	uc := NewGetSummaryUseCase(repo, newMemoryCache(), NewAggregator(nil), zap.NewNop().Sugar())

	out, err := uc.Execute(context.Background(), GetSummaryInput{
		UserID: f.userID,
		Period: "month",
		Year:   "2024",
		Month:  "1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertAmount(t, "total expense", out.Report.TotalExpense, "12.5")
	assertAmount(t, "total basic expense", out.Report.TotalBasicExpense, "0")
}

func TestGetSummaryUseCase_UsesCache(t *testing.T) {
	f, repo := newSummaryFixture()
	cache := newMemoryCache()
	uc := NewGetSummaryUseCase(repo, cache, NewAggregator(nil), zap.NewNop().Sugar())
	input := GetSummaryInput{UserID: f.userID, Period: "year", Year: "2024", IncludeBasicExpense: true}

	first, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Cached || !second.Cached {
		t.Errorf("expected only the second call to be served from cache")
	}
	if repo.calls != 1 {
		t.Errorf("expected 1 repository call, got %d", repo.calls)
	}
	if !second.Report.TotalExpense.Equal(first.Report.TotalExpense) {
		t.Errorf("cached total %s differs from computed %s", second.Report.TotalExpense, first.Report.TotalExpense)
	}
	if len(second.Report.ExpenseByCategory) != len(first.Report.ExpenseByCategory) {
		t.Error("cached report lost category entries")
	}

	_ = cache.Invalidate(context.Background(), f.userID)
	third, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.Cached {
		t.Error("invalidated cache should not serve the report")
	}
}

func TestGetSummaryUseCase_WriteDuringFetch(t *testing.T) {
	f, repo := newSummaryFixture()
	cache := newMemoryCache()
	uc := NewGetSummaryUseCase(repo, cache, NewAggregator(nil), zap.NewNop().Sugar())
	input := GetSummaryInput{UserID: f.userID, Period: "year", Year: "2024", IncludeBasicExpense: true}

	late := f.txn(f.groceries, "100", day(2024, 3, 1))
	repo.onFetch = func() {
		repo.onFetch = nil
		repo.transactions = append(repo.transactions, late)
		_ = cache.Invalidate(context.Background(), f.userID)
	}

	first, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Cached {
		t.Fatal("report computed before the write must not be served afterwards")
	}
	diff := second.Report.TotalExpense.Sub(first.Report.TotalExpense)
	assertAmount(t, "expense added by the write", diff, "100")
}

func TestGetSummaryUseCase_Errors(t *testing.T) {
	t.Run("invalid period", func(t *testing.T) {
		f, repo := newSummaryFixture()
		uc := NewGetSummaryUseCase(repo, newMemoryCache(), NewAggregator(nil), zap.NewNop().Sugar())

		_, err := uc.Execute(context.Background(), GetSummaryInput{UserID: f.userID, Period: "quarter", Year: "2024", Quarter: "5"})
		if !errors.Is(err, domainerror.ErrInvalidPeriod) {
			t.Fatalf("expected ErrInvalidPeriod, got %v", err)
		}
		if repo.calls != 0 {
			t.Error("invalid periods must not hit the repository")
		}
	})

	t.Run("repository failure", func(t *testing.T) {
		f, repo := newSummaryFixture()
		repo.err = errors.New("connection reset")
		uc := NewGetSummaryUseCase(repo, newMemoryCache(), NewAggregator(nil), zap.NewNop().Sugar())

		_, err := uc.Execute(context.Background(), GetSummaryInput{UserID: f.userID, Period: "year", Year: "2024"})
		var reportErr *domainerror.ReportError
		if !errors.As(err, &reportErr) || reportErr.Code != domainerror.ErrCodeReportInternal {
			t.Fatalf("expected internal report error, got %v", err)
		}
	})
}
