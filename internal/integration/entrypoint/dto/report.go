package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// SummaryQuery represents the query string of GET /reports/summary.
// IncludeBasicExpense is a pointer so an absent parameter can default to true.
type SummaryQuery struct {
	Period              string `form:"period" binding:"required,report_period"`
	Year                string `form:"year" binding:"required"`
	Month               string `form:"month"`
	Quarter             string `form:"quarter"`
	IncludeBasicExpense *bool  `form:"includeBasicExpense"`
}

// BreakdownQuery represents the query string of GET /reports/breakdown.
type BreakdownQuery struct {
	Granularity   string `form:"granularity" binding:"omitempty,report_granularity"`
	Year          int    `form:"year" binding:"omitempty,min=1,max=9999"`
	CategoryLevel int    `form:"categoryLevel" binding:"omitempty,min=1,max=3"`
}

// CategoryAmountResponse is one category's rolled-up total in a report.
type CategoryAmountResponse struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Amount         float64 `json:"amount"`
	Count          int     `json:"count"`
	IsBasicExpense bool    `json:"isBasicExpense,omitempty"`
}

// DateRangeResponse is the inclusive window a report covers.
type DateRangeResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthlyDataResponse is one month of a year or quarter report.
type MonthlyDataResponse struct {
	Period       string  `json:"period"`
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	BasicExpense float64 `json:"basicExpense"`
}

// SummaryResponse represents the response of GET /reports/summary.
type SummaryResponse struct {
	Period                  string                            `json:"period"`
	TotalIncome             float64                           `json:"totalIncome"`
	TotalExpense            float64                           `json:"totalExpense"`
	TotalBasicExpense       float64                           `json:"totalBasicExpense"`
	Balance                 float64                           `json:"balance"`
	IncomeTransactionCount  int                               `json:"incomeTransactionCount"`
	ExpenseTransactionCount int                               `json:"expenseTransactionCount"`
	BasicExpenseCount       int                               `json:"basicExpenseCount"`
	IncomeByCategory        map[string]CategoryAmountResponse `json:"incomeByCategory"`
	ExpenseByCategory       map[string]CategoryAmountResponse `json:"expenseByCategory"`
	BasicExpenseByCategory  map[string]CategoryAmountResponse `json:"basicExpenseByCategory"`
	DateRange               DateRangeResponse                 `json:"dateRange"`
	MonthlyData             []MonthlyDataResponse             `json:"monthlyData,omitempty"`
}

// BreakdownSideResponse is the income or expense half of a breakdown bucket.
type BreakdownSideResponse struct {
	Total      float64                           `json:"total"`
	ByCategory map[string]CategoryAmountResponse `json:"byCategory"`
}

// BreakdownBucketResponse is one time bucket of a breakdown report.
type BreakdownBucketResponse struct {
	Key     string                `json:"key"`
	Income  BreakdownSideResponse `json:"income"`
	Expense BreakdownSideResponse `json:"expense"`
}

// BreakdownResponse represents the response of GET /reports/breakdown.
type BreakdownResponse struct {
	Granularity   string                    `json:"granularity"`
	Year          int                       `json:"year"`
	CategoryLevel int                       `json:"categoryLevel"`
	Buckets       []BreakdownBucketResponse `json:"buckets"`
}

// ToSummaryResponse converts a Report entity to a SummaryResponse DTO.
func ToSummaryResponse(report *entity.Report) SummaryResponse {
	resp := SummaryResponse{
		Period:                  report.Period,
		TotalIncome:             report.TotalIncome.InexactFloat64(),
		TotalExpense:            report.TotalExpense.InexactFloat64(),
		TotalBasicExpense:       report.TotalBasicExpense.InexactFloat64(),
		Balance:                 report.Balance.InexactFloat64(),
		IncomeTransactionCount:  report.IncomeTransactionCount,
		ExpenseTransactionCount: report.ExpenseTransactionCount,
		BasicExpenseCount:       report.BasicExpenseCount,
		IncomeByCategory:        toCategoryAmounts(report.IncomeByCategory),
		ExpenseByCategory:       toCategoryAmounts(report.ExpenseByCategory),
		BasicExpenseByCategory:  toCategoryAmounts(report.BasicExpenseByCategory),
		DateRange: DateRangeResponse{
			Start: report.DateRange.Start,
			End:   report.DateRange.End,
		},
	}

	if len(report.MonthlyData) > 0 {
		resp.MonthlyData = make([]MonthlyDataResponse, len(report.MonthlyData))
		for i, row := range report.MonthlyData {
			resp.MonthlyData[i] = MonthlyDataResponse{
				Period:       row.Period,
				Income:       row.Income.InexactFloat64(),
				Expense:      row.Expense.InexactFloat64(),
				BasicExpense: row.BasicExpense.InexactFloat64(),
			}
		}
	}

	return resp
}

// ToBreakdownResponse converts a BreakdownReport entity to a BreakdownResponse DTO.
func ToBreakdownResponse(report *entity.BreakdownReport) BreakdownResponse {
	buckets := make([]BreakdownBucketResponse, len(report.Buckets))
	for i, b := range report.Buckets {
		buckets[i] = BreakdownBucketResponse{
			Key:     b.Key,
			Income:  toBreakdownSide(b.Income),
			Expense: toBreakdownSide(b.Expense),
		}
	}

	return BreakdownResponse{
		Granularity:   report.Granularity,
		Year:          report.Year,
		CategoryLevel: report.CategoryLevel,
		Buckets:       buckets,
	}
}

func toCategoryAmounts(entries map[uuid.UUID]*entity.CategoryAggregate) map[string]CategoryAmountResponse {
	result := make(map[string]CategoryAmountResponse, len(entries))
	for id, e := range entries {
		result[id.String()] = CategoryAmountResponse{
			Name:           e.Name,
			Type:           string(e.Type),
			Amount:         e.Amount.InexactFloat64(),
			Count:          e.Count,
			IsBasicExpense: e.IsBasicExpense,
		}
	}
	return result
}

func toBreakdownSide(side entity.BreakdownSide) BreakdownSideResponse {
	byCategory := make(map[string]CategoryAmountResponse, len(side.ByCategory))
	for id, c := range side.ByCategory {
		byCategory[id.String()] = CategoryAmountResponse{
			Name:   c.Name,
			Amount: c.Amount.InexactFloat64(),
			Count:  c.Count,
		}
	}
	return BreakdownSideResponse{
		Total:      side.Total.InexactFloat64(),
		ByCategory: byCategory,
	}
}
