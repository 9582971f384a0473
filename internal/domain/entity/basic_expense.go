package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasicExpense is a recurring monthly expense template such as rent.
// It applies to every calendar month touched by [StartDate, EndDate].
type BasicExpense struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CategoryID  uuid.UUID
	Amount      decimal.Decimal
	Description string
	IsActive    bool
	StartDate   time.Time
	EndDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBasicExpense creates an active BasicExpense.
func NewBasicExpense(
	userID, categoryID uuid.UUID,
	amount decimal.Decimal,
	description string,
	startDate, endDate time.Time,
) *BasicExpense {
	now := time.Now().UTC()
	return &BasicExpense{
		ID:          uuid.New(),
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		IsActive:    true,
		StartDate:   startDate,
		EndDate:     endDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Overlaps reports whether the template's date range intersects [start, end].
func (b *BasicExpense) Overlaps(start, end time.Time) bool {
	return !b.StartDate.After(end) && !b.EndDate.Before(start)
}

// BasicExpenseWithCategory pairs a template with its category, if it still exists.
type BasicExpenseWithCategory struct {
	BasicExpense *BasicExpense
	Category     *Category
}
