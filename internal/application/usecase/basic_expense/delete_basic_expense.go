package basicexpense

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/household-ledger/backend/internal/application/adapter"
)

// DeleteBasicExpenseInput represents the input for basic expense deletion.
type DeleteBasicExpenseInput struct {
	BasicExpenseID uuid.UUID
	UserID         uuid.UUID
}

// DeleteBasicExpenseUseCase handles basic expense deletion logic.
type DeleteBasicExpenseUseCase struct {
	basicExpenseRepo adapter.BasicExpenseRepository
	reportCache      adapter.ReportCache
	logger           *zap.SugaredLogger
}

// NewDeleteBasicExpenseUseCase creates a new DeleteBasicExpenseUseCase instance.
func NewDeleteBasicExpenseUseCase(basicExpenseRepo adapter.BasicExpenseRepository, reportCache adapter.ReportCache, logger *zap.SugaredLogger) *DeleteBasicExpenseUseCase {
	return &DeleteBasicExpenseUseCase{
		basicExpenseRepo: basicExpenseRepo,
		reportCache:      reportCache,
		logger:           logger,
	}
}

// Execute deletes the template if it belongs to the user.
func (uc *DeleteBasicExpenseUseCase) Execute(ctx context.Context, input DeleteBasicExpenseInput) error {
	basicExpense, err := findOwned(ctx, uc.basicExpenseRepo, input.BasicExpenseID, input.UserID)
	if err != nil {
		return err
	}

	if err := uc.basicExpenseRepo.Delete(ctx, basicExpense.ID); err != nil {
		return fmt.Errorf("failed to delete basic expense: %w", err)
	}

	invalidateReports(ctx, uc.reportCache, uc.logger, input.UserID)
	return nil
}
