package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

// GetSummaryInput represents the input for building a period summary.
// Period, Year, Month and Quarter are raw query values.
type GetSummaryInput struct {
	UserID              uuid.UUID
	Period              string
	Year                string
	Month               string
	Quarter             string
	IncludeBasicExpense bool
}

// GetSummaryOutput represents the output of building a period summary.
type GetSummaryOutput struct {
	Report *entity.Report
	Cached bool
}

// GetSummaryUseCase handles the income/expense summary of a year, quarter or month.
type GetSummaryUseCase struct {
	reportRepo adapter.ReportRepository
	cache      adapter.ReportCache
	aggregator *Aggregator
	logger     *zap.SugaredLogger
}

// NewGetSummaryUseCase creates a new GetSummaryUseCase instance.
func NewGetSummaryUseCase(
	reportRepo adapter.ReportRepository,
	cache adapter.ReportCache,
	aggregator *Aggregator,
	logger *zap.SugaredLogger,
) *GetSummaryUseCase {
	return &GetSummaryUseCase{
		reportRepo: reportRepo,
		cache:      cache,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Execute resolves the period, loads the user's data concurrently and aggregates it.
func (uc *GetSummaryUseCase) Execute(ctx context.Context, input GetSummaryInput) (*GetSummaryOutput, error) {
	query, err := valueobject.ParsePeriodQuery(input.Period, input.Year, input.Month, input.Quarter)
	if err != nil {
		return nil, err
	}
	period, err := valueobject.ResolvePeriod(query)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("summary:%s:%d:%d:%d:%t",
		period.Kind, period.Year, period.Quarter, period.Month, input.IncludeBasicExpense)

	var cached entity.Report
	cacheVersion, found, err := uc.cache.Get(ctx, input.UserID, cacheKey, &cached)
	if err != nil {
		uc.logger.Warnw("Report cache read failed", "user_id", input.UserID, "error", err)
	}
	if found {
		return &GetSummaryOutput{Report: &cached, Cached: true}, nil
	}

	var (
		transactions  []*entity.Transaction
		basicExpenses []*entity.BasicExpense
		categories    []*entity.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = uc.reportRepo.FindTransactions(gctx, input.UserID, period.Start, period.End, nil)
		return err
	})
	if input.IncludeBasicExpense {
		g.Go(func() error {
			var err error
			basicExpenses, err = uc.reportRepo.FindActiveBasicExpenses(gctx, input.UserID, period.Start, period.End)
			return err
		})
	}
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

	report := uc.aggregator.Aggregate(AggregateInput{
		Transactions:        transactions,
		BasicExpenses:       basicExpenses,
		Tree:                valueobject.BuildCategoryTree(categories),
		Period:              period,
		IncludeBasicExpense: input.IncludeBasicExpense,
	})

	if err := uc.cache.Set(ctx, input.UserID, cacheVersion, cacheKey, report); err != nil {
		uc.logger.Warnw("Report cache write failed", "user_id", input.UserID, "error", err)
	}

	return &GetSummaryOutput{Report: report}, nil
}
