package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	CategoryType    string `validate:"omitempty,category_type"`
	TransactionType string `validate:"omitempty,transaction_type"`
	Period          string `validate:"omitempty,report_period"`
	Granularity     string `validate:"omitempty,report_granularity"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"empty", sample{}, true},
		{"expense category", sample{CategoryType: "expense"}, true},
		{"savings category", sample{CategoryType: "savings"}, false},
		{"income transaction", sample{TransactionType: "income"}, true},
		{"transfer transaction", sample{TransactionType: "transfer"}, false},
		{"quarter period", sample{Period: "quarter"}, true},
		{"upper-case period", sample{Period: "MONTH"}, true},
		{"week period", sample{Period: "week"}, false},
		{"week granularity", sample{Granularity: "week"}, true},
		{"day granularity", sample{Granularity: "day"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if (err == nil) != tt.valid {
				t.Errorf("valid = %v, want %v (err: %v)", err == nil, tt.valid, err)
			}
		})
	}
}

func TestRegisterTags_Failure(t *testing.T) {
	v := validator.New()
	err := registerTags(v, []customTag{
		{name: "category_type", fn: validateCategoryType},
		{name: "", fn: validateTransactionType},
	})
	if err == nil {
		t.Fatal("expected an error for an unnamed tag")
	}
}

func TestRegister_GinEngine(t *testing.T) {
	if err := Register(); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Register(); err != nil {
		t.Fatalf("second register: %v", err)
	}
}
