package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

type fixture struct {
	userID    uuid.UUID
	salary    *entity.Category
	food      *entity.Category
	groceries *entity.Category
	fruit     *entity.Category
	rent      *entity.Category
	tree      *valueobject.CategoryTree
}

func newFixture() *fixture {
	f := &fixture{userID: uuid.New()}
	f.salary = entity.NewCategory(f.userID, "Salary", entity.CategoryTypeIncome, nil)
	f.food = entity.NewCategory(f.userID, "Food", entity.CategoryTypeExpense, nil)
	f.groceries = entity.NewCategory(f.userID, "Groceries", entity.CategoryTypeExpense, f.food)
	f.fruit = entity.NewCategory(f.userID, "Fruit", entity.CategoryTypeExpense, f.groceries)
	f.rent = entity.NewCategory(f.userID, "Rent", entity.CategoryTypeExpense, nil)
	f.tree = valueobject.BuildCategoryTree([]*entity.Category{f.salary, f.food, f.groceries, f.fruit, f.rent})
	return f
}

func (f *fixture) txn(c *entity.Category, amount string, date time.Time) *entity.Transaction {
	txType := entity.TransactionTypeExpense
	if c.Type == entity.CategoryTypeIncome {
		txType = entity.TransactionTypeIncome
	}
	return entity.NewTransaction(f.userID, c.ID, decimal.RequireFromString(amount), "", date, txType)
}

func (f *fixture) basic(c *entity.Category, amount string, start, end time.Time) *entity.BasicExpense {
	return entity.NewBasicExpense(f.userID, c.ID, decimal.RequireFromString(amount), "", start, end)
}

func mustPeriod(t *testing.T, q valueobject.PeriodQuery) valueobject.Period {
	t.Helper()
	p, err := valueobject.ResolvePeriod(q)
	if err != nil {
		t.Fatalf("resolve period: %v", err)
	}
	return p
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

func TestAggregate_RollUp(t *testing.T) {
	f := newFixture()
	period := mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 3})

	report := NewAggregator(nil).Aggregate(AggregateInput{
		Transactions: []*entity.Transaction{
			f.txn(f.food, "10.00", day(2024, 3, 1)),
			f.txn(f.groceries, "20.50", day(2024, 3, 2)),
			f.txn(f.fruit, "5.25", day(2024, 3, 3)),
			f.txn(f.fruit, "4.75", day(2024, 3, 4)),
			f.txn(f.salary, "1000", day(2024, 3, 5)),
		},
		Tree:   f.tree,
		Period: period,
	})

	tests := []struct {
		name   string
		id     uuid.UUID
		amount string
		count  int
	}{
		{"leaf", f.fruit.ID, "10.00", 2},
		{"middle", f.groceries.ID, "30.50", 3},
		{"root", f.food.ID, "40.50", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := report.ExpenseByCategory[tt.id]
			if !ok {
				t.Fatalf("missing entry for %s", tt.name)
			}
			assertAmount(t, "amount", entry.Amount, tt.amount)
			if entry.Count != tt.count {
				t.Errorf("count = %d, want %d", entry.Count, tt.count)
			}
		})
	}

	if _, ok := report.ExpenseByCategory[f.rent.ID]; ok {
		t.Error("categories without activity should not be reported")
	}
	assertAmount(t, "total expense", report.TotalExpense, "40.50")
	assertAmount(t, "total income", report.TotalIncome, "1000")
	assertAmount(t, "balance", report.Balance, "959.50")
	if report.ExpenseTransactionCount != 4 || report.IncomeTransactionCount != 1 {
		t.Errorf("unexpected counts: %d expense, %d income", report.ExpenseTransactionCount, report.IncomeTransactionCount)
	}
	if report.Period != "March 2024" {
		t.Errorf("period label = %q", report.Period)
	}
	if report.MonthlyData != nil {
		t.Error("month reports must not include monthly data")
	}
}

func TestAggregate_RollUpHoldsForEveryNode(t *testing.T) {
	f := newFixture()
	period := mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodYear, Year: 2024})
	txns := []*entity.Transaction{
		f.txn(f.food, "1", day(2024, 1, 1)),
		f.txn(f.groceries, "2", day(2024, 2, 1)),
		f.txn(f.fruit, "3", day(2024, 3, 1)),
		f.txn(f.rent, "4", day(2024, 4, 1)),
	}

	report := NewAggregator(nil).Aggregate(AggregateInput{Transactions: txns, Tree: f.tree, Period: period})

	direct := map[uuid.UUID]decimal.Decimal{}
	for _, tx := range txns {
		direct[*tx.CategoryID] = direct[*tx.CategoryID].Add(tx.Amount)
	}
	for _, id := range f.tree.IDs() {
		entry, ok := report.ExpenseByCategory[id]
		if !ok {
			continue
		}
		want := direct[id]
		for _, child := range f.tree.Children(id) {
			if c, ok := report.ExpenseByCategory[child]; ok {
				want = want.Add(c.Amount)
			}
		}
		if !entry.Amount.Equal(want) {
			t.Errorf("node %s: amount %s, want %s", entry.Name, entry.Amount, want)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	f := newFixture()
	period := mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodQuarter, Year: 2024, Quarter: 1})
	in := AggregateInput{
		Transactions: []*entity.Transaction{
			f.txn(f.fruit, "12.34", day(2024, 1, 10)),
			f.txn(f.salary, "500", day(2024, 2, 10)),
		},
		BasicExpenses:       []*entity.BasicExpense{f.basic(f.rent, "800", day(2023, 6, 1), day(2025, 6, 1))},
		Tree:                f.tree,
		Period:              period,
		IncludeBasicExpense: true,
	}
	before := *in.Transactions[0]

	agg := NewAggregator(nil)
	first := agg.Aggregate(in)
	second := agg.Aggregate(in)

	if !reflect.DeepEqual(first, second) {
		t.Error("aggregating identical inputs twice should yield identical reports")
	}
	if !reflect.DeepEqual(before, *in.Transactions[0]) {
		t.Error("aggregation must not mutate input transactions")
	}
}

func TestAggregate_BasicExpenseProration(t *testing.T) {
	tests := []struct {
		name       string
		query      valueobject.PeriodQuery
		start, end time.Time
		wantAmount string
		wantCount  int
	}{
		{
			name:       "partial single month floors to one",
			query:      valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 1},
			start:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			end:        time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			wantAmount: "100",
			wantCount:  1,
		},
		{
			name:       "full quarter",
			query:      valueobject.PeriodQuery{Kind: valueobject.PeriodQuarter, Year: 2024, Quarter: 1},
			start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			end:        time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			wantAmount: "300",
			wantCount:  3,
		},
		{
			name:       "template longer than the period is clipped",
			query:      valueobject.PeriodQuery{Kind: valueobject.PeriodYear, Year: 2024},
			start:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			end:        time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
			wantAmount: "1200",
			wantCount:  12,
		},
		{
			name:       "overlap touching two months",
			query:      valueobject.PeriodQuery{Kind: valueobject.PeriodQuarter, Year: 2024, Quarter: 1},
			start:      time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
			end:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			wantAmount: "200",
			wantCount:  2,
		},
		{
			name:       "no overlap",
			query:      valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 5},
			start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			end:        time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
			wantAmount: "0",
			wantCount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			report := NewAggregator(nil).Aggregate(AggregateInput{
				BasicExpenses:       []*entity.BasicExpense{f.basic(f.rent, "100", tt.start, tt.end)},
				Tree:                f.tree,
				Period:              mustPeriod(t, tt.query),
				IncludeBasicExpense: true,
			})

			assertAmount(t, "total basic expense", report.TotalBasicExpense, tt.wantAmount)
			assertAmount(t, "total expense", report.TotalExpense, tt.wantAmount)
			if report.BasicExpenseCount != tt.wantCount {
				t.Errorf("basic expense count = %d, want %d", report.BasicExpenseCount, tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			entry, ok := report.BasicExpenseByCategory[f.rent.ID]
			if !ok {
				t.Fatal("missing basic expense entry")
			}
			if !entry.IsBasicExpense {
				t.Error("entry should be flagged as basic expense")
			}
			assertAmount(t, "entry amount", entry.Amount, tt.wantAmount)
		})
	}
}

func TestAggregate_InactiveAndExcludedBasicExpenses(t *testing.T) {
	f := newFixture()
	period := mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 1})
	inactive := f.basic(f.rent, "100", day(2024, 1, 1), day(2024, 12, 31))
	inactive.IsActive = false
	active := f.basic(f.rent, "50", day(2024, 1, 1), day(2024, 12, 31))

	t.Run("inactive templates are ignored", func(t *testing.T) {
		report := NewAggregator(nil).Aggregate(AggregateInput{
			BasicExpenses:       []*entity.BasicExpense{inactive, active},
			Tree:                f.tree,
			Period:              period,
			IncludeBasicExpense: true,
		})
		assertAmount(t, "total basic expense", report.TotalBasicExpense, "50")
	})

	t.Run("excluded basic expenses contribute nothing", func(t *testing.T) {
		report := NewAggregator(nil).Aggregate(AggregateInput{
			BasicExpenses:       []*entity.BasicExpense{active},
			Tree:                f.tree,
			Period:              period,
			IncludeBasicExpense: false,
		})
		assertAmount(t, "total basic expense", report.TotalBasicExpense, "0")
		if len(report.BasicExpenseByCategory) != 0 {
			t.Error("expected no basic expense entries")
		}
	})
}

func TestAggregate_UnknownCategory(t *testing.T) {
	f := newFixture()
	period := mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 2})
	deleted := entity.NewCategory(f.userID, "Deleted", entity.CategoryTypeExpense, nil)

	uncategorized := f.txn(f.food, "7", day(2024, 2, 3))
	uncategorized.CategoryID = nil

	report := NewAggregator(nil).Aggregate(AggregateInput{
		Transactions: []*entity.Transaction{
			f.txn(deleted, "15", day(2024, 2, 1)),
			f.txn(deleted, "5", day(2024, 2, 2)),
			uncategorized,
		},
		Tree:   f.tree,
		Period: period,
	})

	entry, ok := report.ExpenseByCategory[deleted.ID]
	if !ok {
		t.Fatal("expected a bucket keyed by the unknown category id")
	}
	if entry.Name != entity.UnknownCategoryName {
		t.Errorf("name = %q, want %q", entry.Name, entity.UnknownCategoryName)
	}
	assertAmount(t, "unknown amount", entry.Amount, "20")
	if entry.Count != 2 {
		t.Errorf("count = %d, want 2", entry.Count)
	}
	assertAmount(t, "total expense", report.TotalExpense, "27")
	if len(report.ExpenseByCategory) != 1 {
		t.Errorf("uncategorized transactions should not create entries, got %d", len(report.ExpenseByCategory))
	}
}

func TestAggregate_OrphanSubtreeStillRollsUp(t *testing.T) {
	userID := uuid.New()
	gone := entity.NewCategory(userID, "Gone", entity.CategoryTypeExpense, nil)
	orphan := entity.NewCategory(userID, "Orphan", entity.CategoryTypeExpense, gone)
	child := entity.NewCategory(userID, "Child", entity.CategoryTypeExpense, orphan)
	tree := valueobject.BuildCategoryTree([]*entity.Category{orphan, child})

	report := NewAggregator(nil).Aggregate(AggregateInput{
		Transactions: []*entity.Transaction{
			entity.NewTransaction(userID, child.ID, decimal.NewFromInt(9), "", day(2024, 6, 1), entity.TransactionTypeExpense),
		},
		Tree:   tree,
		Period: mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 6}),
	})

	entry, ok := report.ExpenseByCategory[orphan.ID]
	if !ok {
		t.Fatal("orphaned parent should still aggregate its children")
	}
	assertAmount(t, "orphan amount", entry.Amount, "9")
}

func TestAggregate_CyclicCategoriesTerminate(t *testing.T) {
	userID := uuid.New()
	a := entity.NewCategory(userID, "A", entity.CategoryTypeExpense, nil)
	b := entity.NewCategory(userID, "B", entity.CategoryTypeExpense, a)
	bID := b.ID
	a.ParentID = &bID
	tree := valueobject.BuildCategoryTree([]*entity.Category{a, b})

	report := NewAggregator(nil).Aggregate(AggregateInput{
		Transactions: []*entity.Transaction{
			entity.NewTransaction(userID, a.ID, decimal.NewFromInt(1), "", day(2024, 6, 1), entity.TransactionTypeExpense),
			entity.NewTransaction(userID, b.ID, decimal.NewFromInt(2), "", day(2024, 6, 1), entity.TransactionTypeExpense),
		},
		Tree:   tree,
		Period: mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodMonth, Year: 2024, Month: 6}),
	})

	assertAmount(t, "total expense", report.TotalExpense, "3")
	if len(report.ExpenseByCategory) != 2 {
		t.Errorf("expected entries for both cyclic categories, got %d", len(report.ExpenseByCategory))
	}
}

func TestAggregate_MonthlyBreakdown(t *testing.T) {
	f := newFixture()
	period := mustPeriod(t, valueobject.PeriodQuery{Kind: valueobject.PeriodQuarter, Year: 2024, Quarter: 1})

	report := NewAggregator(nil).Aggregate(AggregateInput{
		Transactions: []*entity.Transaction{
			f.txn(f.salary, "1000", day(2024, 1, 5)),
			f.txn(f.fruit, "30", day(2024, 1, 20)),
			f.txn(f.groceries, "45", day(2024, 3, 9)),
		},
		BasicExpenses: []*entity.BasicExpense{
			f.basic(f.rent, "500", day(2023, 12, 1), day(2024, 2, 15)),
			f.basic(f.rent, "20", day(2024, 3, 30), day(2024, 3, 30)),
		},
		Tree:                f.tree,
		Period:              period,
		IncludeBasicExpense: true,
	})

	want := []struct {
		period                 string
		income, expense, basic string
	}{
		{"2024-01", "1000", "530", "500"},
		{"2024-02", "0", "500", "500"},
		{"2024-03", "0", "65", "20"},
	}

	if len(report.MonthlyData) != len(want) {
		t.Fatalf("expected %d monthly rows, got %d", len(want), len(report.MonthlyData))
	}
	for i, w := range want {
		row := report.MonthlyData[i]
		if row.Period != w.period {
			t.Errorf("row %d period = %s, want %s", i, row.Period, w.period)
		}
		assertAmount(t, w.period+" income", row.Income, w.income)
		assertAmount(t, w.period+" expense", row.Expense, w.expense)
		assertAmount(t, w.period+" basic", row.BasicExpense, w.basic)
	}

	// 500 x 2 months + 20 x 1 month
	assertAmount(t, "total basic expense", report.TotalBasicExpense, "1020")
	assertAmount(t, "total expense", report.TotalExpense, "1095")
}
