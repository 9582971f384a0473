package dto

import (
	"time"

	"github.com/household-ledger/backend/internal/domain/entity"
)

// CreateBasicExpenseRequest represents the request body for basic expense creation.
type CreateBasicExpenseRequest struct {
	CategoryID  string   `json:"category_id" binding:"required,uuid"`
	Amount      *float64 `json:"amount" binding:"required,gte=0"`
	Description string   `json:"description,omitempty" binding:"omitempty,max=255"`
	StartDate   string   `json:"start_date" binding:"required"`
	EndDate     string   `json:"end_date" binding:"required"`
}

// UpdateBasicExpenseRequest represents the request body for a partial basic expense update.
type UpdateBasicExpenseRequest struct {
	CategoryID  *string  `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Amount      *float64 `json:"amount,omitempty" binding:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	IsActive    *bool    `json:"is_active,omitempty"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
}

// BasicExpenseResponse represents a single basic expense in API responses.
type BasicExpenseResponse struct {
	ID          string                       `json:"id"`
	CategoryID  string                       `json:"category_id"`
	Category    *TransactionCategoryResponse `json:"category,omitempty"`
	Amount      string                       `json:"amount"`
	Description string                       `json:"description"`
	IsActive    bool                         `json:"is_active"`
	StartDate   string                       `json:"start_date"`
	EndDate     string                       `json:"end_date"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// BasicExpenseListResponse represents the response for listing basic expenses.
type BasicExpenseListResponse struct {
	BasicExpenses []BasicExpenseResponse `json:"basic_expenses"`
}

// ToBasicExpenseResponse converts a basic expense with its category to a response DTO.
func ToBasicExpenseResponse(bwc *entity.BasicExpenseWithCategory) BasicExpenseResponse {
	b := bwc.BasicExpense
	resp := BasicExpenseResponse{
		ID:          b.ID.String(),
		CategoryID:  b.CategoryID.String(),
		Amount:      b.Amount.StringFixed(2),
		Description: b.Description,
		IsActive:    b.IsActive,
		StartDate:   b.StartDate.Format(DateLayout),
		EndDate:     b.EndDate.Format(DateLayout),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if bwc.Category != nil {
		resp.Category = &TransactionCategoryResponse{
			ID:   bwc.Category.ID.String(),
			Name: bwc.Category.Name,
			Type: string(bwc.Category.Type),
		}
	}

	return resp
}

// ToBasicExpenseListResponse converts a list of basic expenses.
func ToBasicExpenseListResponse(items []*entity.BasicExpenseWithCategory) BasicExpenseListResponse {
	basicExpenses := make([]BasicExpenseResponse, len(items))
	for i, item := range items {
		basicExpenses[i] = ToBasicExpenseResponse(item)
	}
	return BasicExpenseListResponse{BasicExpenses: basicExpenses}
}
