package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/household-ledger/backend/internal/application/adapter"
	"github.com/household-ledger/backend/internal/domain/entity"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
	"github.com/household-ledger/backend/internal/integration/persistence/model"
)

type basicExpenseRepository struct {
	db *gorm.DB
}

// NewBasicExpenseRepository creates a new basic expense repository instance.
func NewBasicExpenseRepository(db *gorm.DB) adapter.BasicExpenseRepository {
	return &basicExpenseRepository{
		db: db,
	}
}

func (r *basicExpenseRepository) Create(ctx context.Context, basicExpense *entity.BasicExpense) error {
	return r.db.WithContext(ctx).Create(model.BasicExpenseFromEntity(basicExpense)).Error
}

func (r *basicExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BasicExpense, error) {
	var basicExpenseModel model.BasicExpenseModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&basicExpenseModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBasicExpenseNotFound
		}
		return nil, result.Error
	}
	return basicExpenseModel.ToEntity(), nil
}

func (r *basicExpenseRepository) FindByFilter(ctx context.Context, filter adapter.BasicExpenseFilter) ([]*entity.BasicExpenseWithCategory, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if len(filter.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", filter.CategoryIDs)
	}
	if filter.Start != nil {
		query = query.Where("end_date >= ?", filter.Start.UTC())
	}
	if filter.End != nil {
		query = query.Where("start_date <= ?", filter.End.UTC())
	}

	var basicExpenseModels []model.BasicExpenseModel
	if err := query.Preload("Category").Order("created_at DESC").Find(&basicExpenseModels).Error; err != nil {
		return nil, err
	}

	basicExpenses := make([]*entity.BasicExpenseWithCategory, len(basicExpenseModels))
	for i := range basicExpenseModels {
		item := &entity.BasicExpenseWithCategory{BasicExpense: basicExpenseModels[i].ToEntity()}
		if basicExpenseModels[i].Category != nil {
			item.Category = basicExpenseModels[i].Category.ToEntity()
		}
		basicExpenses[i] = item
	}
	return basicExpenses, nil
}

func (r *basicExpenseRepository) Update(ctx context.Context, basicExpense *entity.BasicExpense) error {
	return r.db.WithContext(ctx).Save(model.BasicExpenseFromEntity(basicExpense)).Error
}

func (r *basicExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.BasicExpenseModel{}, "id = ?", id).Error
}
