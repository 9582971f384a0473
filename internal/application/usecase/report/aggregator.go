// Package report contains the report aggregation engine and report use cases.
package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

// AggregateInput is a materialized snapshot of one user's data for one period.
type AggregateInput struct {
	Transactions        []*entity.Transaction
	BasicExpenses       []*entity.BasicExpense
	Tree                *valueobject.CategoryTree
	Period              valueobject.Period
	IncludeBasicExpense bool
}

// Aggregator combines transactions, basic expenses and the category tree into a Report.
// It performs no I/O and never mutates its input.
type Aggregator struct {
	logger *zap.SugaredLogger
}

// NewAggregator creates a new Aggregator.
func NewAggregator(logger *zap.SugaredLogger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Aggregator{logger: logger}
}

type total struct {
	amount decimal.Decimal
	count  int
}

func (t total) add(o total) total {
	return total{amount: t.amount.Add(o.amount), count: t.count + o.count}
}

// Aggregate builds the report. Monthly rows are produced for year and quarter periods.
func (a *Aggregator) Aggregate(in AggregateInput) *entity.Report {
	tree := in.Tree
	if tree == nil {
		tree = valueobject.BuildCategoryTree(nil)
	}

	var income, expense []*entity.Transaction
	for _, t := range in.Transactions {
		if t == nil {
			continue
		}
		switch t.Type {
		case entity.TransactionTypeIncome:
			income = append(income, t)
		case entity.TransactionTypeExpense:
			expense = append(expense, t)
		default:
			a.logger.Warnw("Skipping transaction with unknown type", "transaction_id", t.ID, "type", t.Type)
		}
	}

	incomeDirect, totalIncome := a.directTotals(income)
	expenseDirect, totalTxnExpense := a.directTotals(expense)

	report := &entity.Report{
		Period:                  in.Period.Label,
		TotalIncome:             totalIncome,
		IncomeTransactionCount:  len(income),
		ExpenseTransactionCount: len(expense),
		IncomeByCategory:        a.rollUp(tree, incomeDirect, entity.CategoryTypeIncome, false),
		ExpenseByCategory:       a.rollUp(tree, expenseDirect, entity.CategoryTypeExpense, false),
		BasicExpenseByCategory:  map[uuid.UUID]*entity.CategoryAggregate{},
		TotalBasicExpense:       decimal.Zero,
		DateRange:               entity.DateRange{Start: in.Period.Start, End: in.Period.End},
	}

	var active []*entity.BasicExpense
	if in.IncludeBasicExpense {
		active = activeTemplates(in.BasicExpenses)
		basicDirect, basicTotal, basicCount := prorate(active, in.Period)
		report.BasicExpenseByCategory = a.rollUp(tree, basicDirect, entity.CategoryTypeExpense, true)
		report.TotalBasicExpense = basicTotal
		report.BasicExpenseCount = basicCount
	}

	report.TotalExpense = totalTxnExpense.Add(report.TotalBasicExpense)
	report.Balance = report.TotalIncome.Sub(report.TotalExpense)

	if in.Period.HasMonthlyBreakdown() {
		report.MonthlyData = monthlyRows(in.Period, income, expense, active)
	}

	return report
}

// directTotals sums each set per category id, before any roll-up.
func (a *Aggregator) directTotals(transactions []*entity.Transaction) (map[uuid.UUID]total, decimal.Decimal) {
	direct := make(map[uuid.UUID]total)
	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(t.Amount)
		if t.CategoryID == nil {
			a.logger.Warnw("Skipping transaction without category", "transaction_id", t.ID)
			continue
		}
		direct[*t.CategoryID] = direct[*t.CategoryID].add(total{amount: t.Amount, count: 1})
	}
	return direct, sum
}

// rollUp computes, for every node, its own direct total plus the totals of all its
// descendants. Each node is summed once; a node reached again while still in progress
// (a parent cycle) contributes nothing the second time. Direct totals keyed by ids
// missing from the tree are reported under UnknownCategoryName.
func (a *Aggregator) rollUp(
	tree *valueobject.CategoryTree,
	direct map[uuid.UUID]total,
	fallbackType entity.CategoryType,
	isBasic bool,
) map[uuid.UUID]*entity.CategoryAggregate {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[uuid.UUID]int, tree.Len())
	sums := make(map[uuid.UUID]total, tree.Len())

	var visit func(id uuid.UUID) total
	visit = func(id uuid.UUID) total {
		switch state[id] {
		case done:
			return sums[id]
		case visiting:
			a.logger.Warnw("Category cycle detected during roll-up", "category_id", id)
			return total{}
		}
		state[id] = visiting
		sum := direct[id]
		for _, child := range tree.Children(id) {
			sum = sum.add(visit(child))
		}
		state[id] = done
		sums[id] = sum
		return sum
	}

	for _, root := range tree.Roots() {
		visit(root)
	}
	for _, id := range tree.IDs() {
		visit(id)
	}

	result := make(map[uuid.UUID]*entity.CategoryAggregate)
	for id, sum := range sums {
		if sum.count == 0 {
			continue
		}
		node, _ := tree.Node(id)
		result[id] = &entity.CategoryAggregate{
			CategoryID:     id,
			Name:           node.Name,
			Type:           node.Type,
			Amount:         sum.amount,
			Count:          sum.count,
			IsBasicExpense: isBasic,
		}
	}

	for id, sum := range direct {
		if _, ok := tree.Node(id); ok {
			continue
		}
		a.logger.Warnw("Transaction references unknown category", "category_id", id)
		result[id] = &entity.CategoryAggregate{
			CategoryID:     id,
			Name:           entity.UnknownCategoryName,
			Type:           fallbackType,
			Amount:         sum.amount,
			Count:          sum.count,
			IsBasicExpense: isBasic,
		}
	}

	return result
}

func activeTemplates(templates []*entity.BasicExpense) []*entity.BasicExpense {
	active := make([]*entity.BasicExpense, 0, len(templates))
	for _, b := range templates {
		if b != nil && b.IsActive {
			active = append(active, b)
		}
	}
	return active
}

// prorate multiplies each overlapping template by the calendar months its overlap
// with the period touches, with a floor of one month.
func prorate(templates []*entity.BasicExpense, period valueobject.Period) (map[uuid.UUID]total, decimal.Decimal, int) {
	direct := make(map[uuid.UUID]total)
	sum := decimal.Zero
	count := 0

	for _, b := range templates {
		if !b.Overlaps(period.Start, period.End) {
			continue
		}
		months := valueobject.MonthsTouched(later(b.StartDate, period.Start), earlier(b.EndDate, period.End))
		if months < 1 {
			months = 1
		}
		amount := b.Amount.Mul(decimal.NewFromInt(int64(months)))
		direct[b.CategoryID] = direct[b.CategoryID].add(total{amount: amount, count: months})
		sum = sum.Add(amount)
		count += months
	}

	return direct, sum, count
}

func monthlyRows(
	period valueobject.Period,
	income, expense []*entity.Transaction,
	templates []*entity.BasicExpense,
) []entity.MonthlyRow {
	months := period.Months()
	rows := make([]entity.MonthlyRow, len(months))
	index := make(map[string]int, len(months))

	for i, m := range months {
		start, end := valueobject.MonthBounds(m)
		basic := decimal.Zero
		for _, b := range templates {
			if b.Overlaps(start, end) {
				basic = basic.Add(b.Amount)
			}
		}
		key := m.Format("2006-01")
		index[key] = i
		rows[i] = entity.MonthlyRow{
			Period:       key,
			Income:       decimal.Zero,
			Expense:      basic,
			BasicExpense: basic,
		}
	}

	for _, t := range income {
		if i, ok := index[t.Date.UTC().Format("2006-01")]; ok {
			rows[i].Income = rows[i].Income.Add(t.Amount)
		}
	}
	for _, t := range expense {
		if i, ok := index[t.Date.UTC().Format("2006-01")]; ok {
			rows[i].Expense = rows[i].Expense.Add(t.Amount)
		}
	}

	return rows
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
