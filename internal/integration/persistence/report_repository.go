package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/integration/persistence/model"
)

// amountRow reads the amount as text so a corrupt value degrades to zero instead of failing the report.
type amountRow struct {
	ID         uuid.UUID
	CategoryID *uuid.UUID
	Amount     sql.NullString
	Type       string
	Date       time.Time
}

type basicExpenseRow struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Amount     sql.NullString
	StartDate  time.Time
	EndDate    time.Time
}

type reportRepository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// NewReportRepository creates the read side used by the report use cases.
func NewReportRepository(db *gorm.DB, logger *zap.SugaredLogger) adapter.ReportRepository {
	return &reportRepository{
		db:     db,
		logger: logger,
	}
}

func (r *reportRepository) FindTransactions(ctx context.Context, userID uuid.UUID, start, end time.Time, txType *entity.TransactionType) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("id, category_id, CAST(amount AS TEXT) AS amount, type, date").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start.UTC(), end.UTC())
	if txType != nil {
		query = query.Where("type = ?", string(*txType))
	}

	var rows []amountRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = &entity.Transaction{
			ID:         row.ID,
			UserID:     userID,
			CategoryID: row.CategoryID,
			Amount:     r.parseAmount(row.ID, row.Amount),
			Type:       entity.TransactionType(row.Type),
			Date:       row.Date.UTC(),
		}
	}
	return transactions, nil
}

func (r *reportRepository) FindActiveBasicExpenses(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.BasicExpense, error) {
	var rows []basicExpenseRow
	err := r.db.WithContext(ctx).
		Model(&model.BasicExpenseModel{}).
		Select("id, category_id, CAST(amount AS TEXT) AS amount, start_date, end_date").
		Where("user_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?", userID, true, end.UTC(), start.UTC()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	basicExpenses := make([]*entity.BasicExpense, len(rows))
	for i, row := range rows {
		basicExpenses[i] = &entity.BasicExpense{
			ID:         row.ID,
			UserID:     userID,
			CategoryID: row.CategoryID,
			Amount:     r.parseAmount(row.ID, row.Amount),
			IsActive:   true,
			StartDate:  row.StartDate.UTC(),
			EndDate:    row.EndDate.UTC(),
		}
	}
	return basicExpenses, nil
}

func (r *reportRepository) FindCategories(ctx context.Context, userID uuid.UUID) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}

func (r *reportRepository) parseAmount(id uuid.UUID, raw sql.NullString) decimal.Decimal {
	if !raw.Valid {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(raw.String)
	if err != nil {
		r.logger.Warnw("Unparseable amount treated as zero", "id", id, "amount", raw.String, "error", err)
		return decimal.Zero
	}
	return amount
}
