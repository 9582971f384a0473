package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	basicexpense "github.com/household-ledger/backend/internal/application/usecase/basic_expense"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
	"github.com/household-ledger/backend/internal/integration/entrypoint/dto"
)

// BasicExpenseController handles recurring basic expense endpoints.
type BasicExpenseController struct {
	listUseCase   *basicexpense.ListBasicExpensesUseCase
	createUseCase *basicexpense.CreateBasicExpenseUseCase
	updateUseCase *basicexpense.UpdateBasicExpenseUseCase
	deleteUseCase *basicexpense.DeleteBasicExpenseUseCase
}

// NewBasicExpenseController creates a new basic expense controller instance.
func NewBasicExpenseController(
	listUseCase *basicexpense.ListBasicExpensesUseCase,
	createUseCase *basicexpense.CreateBasicExpenseUseCase,
	updateUseCase *basicexpense.UpdateBasicExpenseUseCase,
	deleteUseCase *basicexpense.DeleteBasicExpenseUseCase,
) *BasicExpenseController {
	return &BasicExpenseController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /basic-expenses requests.
// Query: isActive, year, month, categoryId.
func (c *BasicExpenseController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	input := basicexpense.ListBasicExpensesInput{
		UserID: userID,
		Year:   ctx.Query("year"),
		Month:  ctx.Query("month"),
	}

	if activeStr := ctx.Query("isActive"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "isActive must be true or false",
			})
			return
		}
		input.IsActive = &active
	}

	if categoryIDStr := ctx.Query("categoryId"); categoryIDStr != "" {
		categoryID, err := uuid.Parse(categoryIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid category ID format",
			})
			return
		}
		input.CategoryID = &categoryID
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleBasicExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBasicExpenseListResponse(output.BasicExpenses))
}

// Create handles POST /basic-expenses requests.
func (c *BasicExpenseController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateBasicExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: bindingDetails(err),
		})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.badDate(ctx, "start_date")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.badDate(ctx, "end_date")
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), basicexpense.CreateBasicExpenseInput{
		UserID:      userID,
		CategoryID:  uuid.MustParse(req.CategoryID),
		Amount:      decimal.NewFromFloat(*req.Amount),
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		c.handleBasicExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBasicExpenseResponse(output.BasicExpense))
}

// Update handles PATCH /basic-expenses/:id requests. Absent fields are left unchanged.
func (c *BasicExpenseController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	basicExpenseID, ok := pathID(ctx, "basic expense")
	if !ok {
		return
	}

	var req dto.UpdateBasicExpenseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid request body",
			Details: bindingDetails(err),
		})
		return
	}

	input := basicexpense.UpdateBasicExpenseInput{
		BasicExpenseID: basicExpenseID,
		UserID:         userID,
		Description:    req.Description,
		IsActive:       req.IsActive,
	}
	if req.CategoryID != nil {
		categoryID := uuid.MustParse(*req.CategoryID)
		input.CategoryID = &categoryID
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		input.Amount = &amount
	}
	if req.StartDate != nil {
		startDate, err := parseDate(*req.StartDate)
		if err != nil {
			c.badDate(ctx, "start_date")
			return
		}
		input.StartDate = &startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			c.badDate(ctx, "end_date")
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleBasicExpenseError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBasicExpenseResponse(output.BasicExpense))
}

// Delete handles DELETE /basic-expenses/:id requests.
func (c *BasicExpenseController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	basicExpenseID, ok := pathID(ctx, "basic expense")
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), basicexpense.DeleteBasicExpenseInput{
		BasicExpenseID: basicExpenseID,
		UserID:         userID,
	})
	if err != nil {
		c.handleBasicExpenseError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *BasicExpenseController) badDate(ctx *gin.Context, field string) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: field + " must be a YYYY-MM-DD date",
		Code:  string(domainerror.ErrCodeInvalidBasicExpenseDate),
	})
}

// handleBasicExpenseError handles basic expense errors and returns appropriate HTTP responses.
func (c *BasicExpenseController) handleBasicExpenseError(ctx *gin.Context, err error) {
	var bexErr *domainerror.BasicExpenseError
	if errors.As(err, &bexErr) {
		ctx.JSON(basicExpenseStatus(bexErr.Code), dto.ErrorResponse{
			Error: bexErr.Message,
			Code:  string(bexErr.Code),
		})
		return
	}

	// year/month filters are resolved like report periods
	var rptErr *domainerror.ReportError
	if errors.As(err, &rptErr) {
		ctx.JSON(reportStatus(rptErr.Code), dto.ErrorResponse{
			Error: rptErr.Message,
			Code:  string(rptErr.Code),
		})
		return
	}

	internalError(ctx)
}

// basicExpenseStatus maps basic expense error codes to HTTP status codes.
func basicExpenseStatus(code domainerror.BasicExpenseErrorCode) int {
	switch code {
	case domainerror.ErrCodeBasicExpenseNotFound,
		domainerror.ErrCodeBexCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedBasicExpense:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidBasicExpenseAmount,
		domainerror.ErrCodeInvalidBasicExpenseRange,
		domainerror.ErrCodeBexCategoryNotExpense,
		domainerror.ErrCodeInvalidBasicExpenseDate:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
