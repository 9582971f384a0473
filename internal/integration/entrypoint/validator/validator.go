// Package validator registers the custom binding tags used by the request DTOs.
package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/household-ledger/backend/internal/application/usecase/report"
	"github.com/household-ledger/backend/internal/domain/entity"
	"github.com/household-ledger/backend/internal/domain/valueobject"
)

type customTag struct {
	name string
	fn   validator.Func
}

var customTags = []customTag{
	{name: "category_type", fn: validateCategoryType},
	{name: "transaction_type", fn: validateTransactionType},
	{name: "report_period", fn: validateReportPeriod},
	{name: "report_granularity", fn: validateReportGranularity},
}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register registers all custom validators with the Gin binding engine.
// The outcome of the first call is returned on every call.
func Register() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		registerErr = RegisterOn(v)
	})
	return registerErr
}

// RegisterOn adds the custom tags to v and reports fields by their JSON names.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	return registerTags(v, customTags)
}

// jsonFieldName names a field after its json, form or uri tag, falling back to the Go name.
func jsonFieldName(field reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func registerTags(v *validator.Validate, tags []customTag) error {
	for _, tag := range tags {
		if err := v.RegisterValidation(tag.name, tag.fn); err != nil {
			return fmt.Errorf("failed to register %q validator: %w", tag.name, err)
		}
	}
	return nil
}

func validateCategoryType(fl validator.FieldLevel) bool {
	return entity.CategoryType(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch entity.TransactionType(fl.Field().String()) {
	case entity.TransactionTypeExpense, entity.TransactionTypeIncome:
		return true
	}
	return false
}

func validateReportPeriod(fl validator.FieldLevel) bool {
	switch valueobject.PeriodKind(strings.ToLower(fl.Field().String())) {
	case valueobject.PeriodYear, valueobject.PeriodQuarter, valueobject.PeriodMonth:
		return true
	}
	return false
}

func validateReportGranularity(fl validator.FieldLevel) bool {
	return report.Granularity(strings.ToLower(fl.Field().String())).IsValid()
}
