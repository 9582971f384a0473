package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// BasicExpenseModel represents the basic_expenses table in the database.
type BasicExpenseModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Description string          `gorm:"type:varchar(255)"`
	IsActive    bool            `gorm:"not null;index"`
	StartDate   time.Time       `gorm:"not null"`
	EndDate     time.Time       `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`

	Category *CategoryModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for the BasicExpenseModel.
func (BasicExpenseModel) TableName() string {
	return "basic_expenses"
}

// ToEntity converts a BasicExpenseModel to a domain BasicExpense entity.
func (m *BasicExpenseModel) ToEntity() *entity.BasicExpense {
	return &entity.BasicExpense{
		ID:          m.ID,
		UserID:      m.UserID,
		CategoryID:  m.CategoryID,
		Amount:      m.Amount,
		Description: m.Description,
		IsActive:    m.IsActive,
		StartDate:   m.StartDate.UTC(),
		EndDate:     m.EndDate.UTC(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// BasicExpenseFromEntity creates a BasicExpenseModel from a domain BasicExpense entity.
func BasicExpenseFromEntity(basicExpense *entity.BasicExpense) *BasicExpenseModel {
	return &BasicExpenseModel{
		ID:          basicExpense.ID,
		UserID:      basicExpense.UserID,
		CategoryID:  basicExpense.CategoryID,
		Amount:      basicExpense.Amount,
		Description: basicExpense.Description,
		IsActive:    basicExpense.IsActive,
		StartDate:   basicExpense.StartDate,
		EndDate:     basicExpense.EndDate,
		CreatedAt:   basicExpense.CreatedAt,
		UpdatedAt:   basicExpense.UpdatedAt,
	}
}

// AllModels lists every model for auto-migration.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&RefreshTokenModel{},
		&CategoryModel{},
		&TransactionModel{},
		&BasicExpenseModel{},
	}
}
