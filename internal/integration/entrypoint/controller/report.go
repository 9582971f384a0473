package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/household-ledger/backend/internal/application/usecase/report"
	domainerror "github.com/household-ledger/backend/internal/domain/error"
	"github.com/household-ledger/backend/internal/integration/entrypoint/dto"
)

// ReportController handles report endpoints.
type ReportController struct {
	summaryUseCase   *report.GetSummaryUseCase
	breakdownUseCase *report.GetBreakdownUseCase
}

// NewReportController creates a new report controller instance.
func NewReportController(
	summaryUseCase *report.GetSummaryUseCase,
	breakdownUseCase *report.GetBreakdownUseCase,
) *ReportController {
	return &ReportController{
		summaryUseCase:   summaryUseCase,
		breakdownUseCase: breakdownUseCase,
	}
}

// Summary handles GET /reports/summary requests.
// Query: period (year|quarter|month), year, month, quarter, includeBasicExpense (default true).
func (c *ReportController) Summary(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var query dto.SummaryQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "period must be year, quarter or month and year is required",
			Code:    string(domainerror.ErrCodeInvalidPeriod),
			Details: bindingDetails(err),
		})
		return
	}

	includeBasicExpense := true
	if query.IncludeBasicExpense != nil {
		includeBasicExpense = *query.IncludeBasicExpense
	}

	output, err := c.summaryUseCase.Execute(ctx.Request.Context(), report.GetSummaryInput{
		UserID:              userID,
		Period:              query.Period,
		Year:                query.Year,
		Month:               query.Month,
		Quarter:             query.Quarter,
		IncludeBasicExpense: includeBasicExpense,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(output.Report))
}

// Breakdown handles GET /reports/breakdown requests.
// Query: granularity (week|month|quarter|year), year, categoryLevel.
func (c *ReportController) Breakdown(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var query dto.BreakdownQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Invalid breakdown parameters",
			Code:    string(domainerror.ErrCodeInvalidGranularity),
			Details: bindingDetails(err),
		})
		return
	}

	output, err := c.breakdownUseCase.Execute(ctx.Request.Context(), report.GetBreakdownInput{
		UserID:        userID,
		Granularity:   report.Granularity(strings.ToLower(query.Granularity)),
		Year:          query.Year,
		CategoryLevel: query.CategoryLevel,
	})
	if err != nil {
		c.handleReportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBreakdownResponse(output.Report))
}

// handleReportError handles report errors and returns appropriate HTTP responses.
func (c *ReportController) handleReportError(ctx *gin.Context, err error) {
	var rptErr *domainerror.ReportError
	if errors.As(err, &rptErr) && rptErr.Code != domainerror.ErrCodeReportInternal {
		ctx.JSON(reportStatus(rptErr.Code), dto.ErrorResponse{
			Error: rptErr.Message,
			Code:  string(rptErr.Code),
		})
		return
	}

	internalError(ctx)
}

// reportStatus maps report error codes to HTTP status codes.
func reportStatus(code domainerror.ReportErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidPeriod,
		domainerror.ErrCodeInvalidGranularity,
		domainerror.ErrCodeInvalidCategoryLevel:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
