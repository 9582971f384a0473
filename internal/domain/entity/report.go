package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownCategoryName labels aggregates whose category id is not in the user's tree.
const UnknownCategoryName = "Unknown category"

// CategoryAggregate is the rolled-up total of one category, including its descendants.
type CategoryAggregate struct {
	CategoryID     uuid.UUID
	Name           string
	Type           CategoryType
	Amount         decimal.Decimal
	Count          int
	IsBasicExpense bool
}

// MonthlyRow is one month of a year or quarter report. Period is "YYYY-MM".
type MonthlyRow struct {
	Period       string
	Income       decimal.Decimal
	Expense      decimal.Decimal
	BasicExpense decimal.Decimal
}

// DateRange is an inclusive time window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Report is the aggregated financial summary of a period.
type Report struct {
	Period                  string
	TotalIncome             decimal.Decimal
	TotalExpense            decimal.Decimal
	TotalBasicExpense       decimal.Decimal
	Balance                 decimal.Decimal
	IncomeTransactionCount  int
	ExpenseTransactionCount int
	BasicExpenseCount       int
	IncomeByCategory        map[uuid.UUID]*CategoryAggregate
	ExpenseByCategory       map[uuid.UUID]*CategoryAggregate
	BasicExpenseByCategory  map[uuid.UUID]*CategoryAggregate
	DateRange               DateRange
	MonthlyData             []MonthlyRow
}

// BreakdownCategory is one category's share of a breakdown bucket.
type BreakdownCategory struct {
	Name   string
	Amount decimal.Decimal
	Count  int
}

// BreakdownSide holds the income or expense half of a breakdown bucket.
type BreakdownSide struct {
	Total      decimal.Decimal
	ByCategory map[uuid.UUID]*BreakdownCategory
}

// BreakdownBucket is one time bucket of a breakdown report, e.g. "month_3".
type BreakdownBucket struct {
	Key     string
	Income  BreakdownSide
	Expense BreakdownSide
}

// BreakdownReport groups a year of transactions by time bucket and category level.
type BreakdownReport struct {
	Granularity   string
	Year          int
	CategoryLevel int
	Buckets       []*BreakdownBucket
}
