package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

// Granularity is the time bucket size of a breakdown report.
type Granularity string

const (
	GranularityWeek    Granularity = "week"
	GranularityMonth   Granularity = "month"
	GranularityQuarter Granularity = "quarter"
	GranularityYear    Granularity = "year"
)

// IsValid reports whether g is a supported granularity.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityWeek, GranularityMonth, GranularityQuarter, GranularityYear:
		return true
	}
	return false
}

// GetBreakdownInput represents the input for a breakdown report.
// Zero Year defaults to the current year, zero CategoryLevel to 1 and an empty
// Granularity to month.
type GetBreakdownInput struct {
	UserID        uuid.UUID
	Granularity   Granularity
	Year          int
	CategoryLevel int
}

// GetBreakdownOutput represents the output of a breakdown report.
type GetBreakdownOutput struct {
	Report *entity.BreakdownReport
}

// GetBreakdownUseCase groups a year of transactions by time bucket and by the
// categories at one level of the hierarchy.
type GetBreakdownUseCase struct {
	reportRepo adapter.ReportRepository
	clock      adapter.Clock
}

// NewGetBreakdownUseCase creates a new GetBreakdownUseCase instance.
func NewGetBreakdownUseCase(reportRepo adapter.ReportRepository, clock adapter.Clock) *GetBreakdownUseCase {
	return &GetBreakdownUseCase{
		reportRepo: reportRepo,
		clock:      clock,
	}
}

// Execute builds the breakdown report.
func (uc *GetBreakdownUseCase) Execute(ctx context.Context, input GetBreakdownInput) (*GetBreakdownOutput, error) {
	if input.Granularity == "" {
		input.Granularity = GranularityMonth
	}
	if !input.Granularity.IsValid() {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidGranularity,
			fmt.Sprintf("unknown granularity %q", input.Granularity),
			domainerror.ErrInvalidGranularity,
		)
	}
	if input.CategoryLevel == 0 {
		input.CategoryLevel = 1
	}
	if input.CategoryLevel < 1 || input.CategoryLevel > entity.MaxCategoryLevel {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeInvalidCategoryLevel,
			fmt.Sprintf("category level %d is out of range", input.CategoryLevel),
			domainerror.ErrInvalidCategoryLevel,
		)
	}
	if input.Year == 0 {
		input.Year = uc.clock.Now().UTC().Year()
	}

	period, err := valueobject.ResolvePeriod(valueobject.PeriodQuery{Kind: valueobject.PeriodYear, Year: input.Year})
	if err != nil {
		return nil, err
	}

	var (
		transactions []*entity.Transaction
		categories   []*entity.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = uc.reportRepo.FindTransactions(gctx, input.UserID, period.Start, period.End, nil)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = uc.reportRepo.FindCategories(gctx, input.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domainerror.NewReportError(
			domainerror.ErrCodeReportInternal,
			"failed to load report data",
			err,
		)
	}

	tree := valueobject.BuildCategoryTree(categories)
	buckets := make(map[int]*entity.BreakdownBucket)

	for _, t := range transactions {
		if t.CategoryID == nil {
			continue
		}
		node, ok := tree.Node(*t.CategoryID)
		if !ok || node.Level != input.CategoryLevel {
			continue
		}

		n := bucketNumber(t.Date.UTC(), input.Granularity)
		bucket, ok := buckets[n]
		if !ok {
			bucket = &entity.BreakdownBucket{
				Key:     fmt.Sprintf("%s_%d", input.Granularity, n),
				Income:  newSide(),
				Expense: newSide(),
			}
			buckets[n] = bucket
		}

		side := &bucket.Expense
		if t.Type == entity.TransactionTypeIncome {
			side = &bucket.Income
		}
		side.Total = side.Total.Add(t.Amount)
		entry, ok := side.ByCategory[node.ID]
		if !ok {
			entry = &entity.BreakdownCategory{Name: node.Name, Amount: decimal.Zero}
			side.ByCategory[node.ID] = entry
		}
		entry.Amount = entry.Amount.Add(t.Amount)
		entry.Count++
	}

	numbers := make([]int, 0, len(buckets))
	for n := range buckets {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	result := &entity.BreakdownReport{
		Granularity:   string(input.Granularity),
		Year:          input.Year,
		CategoryLevel: input.CategoryLevel,
		Buckets:       make([]*entity.BreakdownBucket, 0, len(numbers)),
	}
	for _, n := range numbers {
		result.Buckets = append(result.Buckets, buckets[n])
	}

	return &GetBreakdownOutput{Report: result}, nil
}

func newSide() entity.BreakdownSide {
	return entity.BreakdownSide{Total: decimal.Zero, ByCategory: map[uuid.UUID]*entity.BreakdownCategory{}}
}

// bucketNumber maps t to its bucket. Weeks start on Sunday; days before the
// first Sunday of the year fall in week 0.
func bucketNumber(t time.Time, g Granularity) int {
	switch g {
	case GranularityWeek:
		return (t.YearDay() + 6 - int(t.Weekday())) / 7
	case GranularityQuarter:
		return (int(t.Month())-1)/3 + 1
	case GranularityYear:
		return t.Year()
	default:
		return int(t.Month())
	}
}
