package dto

import (
	"time"

	"github.com/household-ledger/backend/internal/application/usecase/transaction"
	"github.com/household-ledger/backend/internal/domain/entity"
)

// DateLayout is the calendar date format used by request and response bodies.
const DateLayout = "2006-01-02"

// CreateTransactionRequest represents the request body for transaction creation.
// Type defaults to the category's type when omitted.
type CreateTransactionRequest struct {
	CategoryID  string  `json:"category_id" binding:"required,uuid"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description,omitempty" binding:"omitempty,max=255"`
	Date        string  `json:"date" binding:"required"`
	Type        string  `json:"type,omitempty" binding:"omitempty,transaction_type"`
}

// UpdateTransactionRequest represents the request body for transaction update.
type UpdateTransactionRequest struct {
	CategoryID  *string  `json:"category_id,omitempty" binding:"omitempty,uuid"`
	Amount      *float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	Date        *string  `json:"date,omitempty"`
	Type        *string  `json:"type,omitempty" binding:"omitempty,transaction_type"`
}

// TransactionCategoryResponse represents category information in transaction response.
type TransactionCategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID          string                       `json:"id"`
	UserID      string                       `json:"user_id"`
	Date        string                       `json:"date"`
	Description string                       `json:"description"`
	Amount      string                       `json:"amount"`
	Type        string                       `json:"type"`
	CategoryID  *string                      `json:"category_id,omitempty"`
	Category    *TransactionCategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// TransactionPaginationResponse represents pagination information in API responses.
type TransactionPaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse         `json:"transactions"`
	Pagination   TransactionPaginationResponse `json:"pagination"`
}

// ToTransactionResponse converts a transaction with its category to a TransactionResponse DTO.
func ToTransactionResponse(twc *entity.TransactionWithCategory) TransactionResponse {
	txn := twc.Transaction
	resp := TransactionResponse{
		ID:          txn.ID.String(),
		UserID:      txn.UserID.String(),
		Date:        txn.Date.Format(DateLayout),
		Description: txn.Description,
		Amount:      txn.Amount.StringFixed(2),
		Type:        string(txn.Type),
		CreatedAt:   txn.CreatedAt,
		UpdatedAt:   txn.UpdatedAt,
	}

	if txn.CategoryID != nil {
		id := txn.CategoryID.String()
		resp.CategoryID = &id
	}

	if twc.Category != nil {
		resp.Category = &TransactionCategoryResponse{
			ID:   twc.Category.ID.String(),
			Name: twc.Category.Name,
			Type: string(twc.Category.Type),
		}
	}

	return resp
}

// ToTransactionListResponse converts a ListTransactionsOutput to TransactionListResponse.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	transactions := make([]TransactionResponse, len(output.Transactions))
	for i, twc := range output.Transactions {
		transactions[i] = ToTransactionResponse(twc)
	}

	return TransactionListResponse{
		Transactions: transactions,
		Pagination: TransactionPaginationResponse{
			Page:       output.Pagination.Page,
			Limit:      output.Pagination.Limit,
			Total:      output.Pagination.Total,
			TotalPages: output.Pagination.TotalPages,
		},
	}
}
