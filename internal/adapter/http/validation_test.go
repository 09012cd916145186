package http

import (
	"errors"
	"testing"
)

func TestIntLikeValidation(t *testing.T) {
	type P struct {
		Amount float64 `json:"amount" validate:"intlike"`
	}
	cv := NewValidator()

	for _, v := range []float64{0, 50_000, 5_000_000, 123.0} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected intlike OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.1, 150_000.5, -3.14} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected intlike error for %v", v)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "amount", "integer value") {
			t.Fatalf("expected 'integer value' for %v, got %+v", v, fe)
		}
	}
}

func TestLoanTermTags(t *testing.T) {
	type P struct {
		PaymentDay string `json:"paymentDay" validate:"paymentday"`
		Type       string `json:"type" validate:"loantype"`
		EndDateAt  string `json:"endDateAt" validate:"datestr"`
	}
	cv := NewValidator()

	for _, pd := range []string{"15-30", "5-20", "10-25", "3-18"} {
		if err := cv.Validate(P{PaymentDay: pd, Type: "MENSUAL", EndDateAt: "2026-04-10"}); err != nil {
			t.Fatalf("expected %s to pass, got %v", pd, err)
		}
	}

	err := cv.Validate(P{PaymentDay: "1-15", Type: "SEMANAL", EndDateAt: "10/04/2026"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "paymentDay", "15-30, 5-20, 10-25, 3-18") {
		t.Fatalf("missing paymentday message: %+v", fe)
	}
	if !containsFieldMsg(fe, "type", "QUINCENAL or MENSUAL") {
		t.Fatalf("missing loantype message: %+v", fe)
	}
	if !containsFieldMsg(fe, "endDateAt", "YYYY-MM-DD") {
		t.Fatalf("missing datestr message: %+v", fe)
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Name     string  `json:"name" validate:"required"`
		Min      int     `json:"min" validate:"gte=10"`
		Max      int     `json:"max" validate:"lte=5"`
		Amount   float64 `json:"amount" validate:"gt=0"`
		Password string  `json:"password" validate:"min=8"`
		Country  string  `json:"countryIso2" validate:"len=2"`
		Role     string  `json:"role" validate:"oneof=AGENT MANAGER"`
		NoTag    string  `validate:"required"`
	}
	cv := NewValidator()

	err := cv.Validate(P{Min: 9, Max: 6, Password: "short", Country: "COL", Role: "OWNER"})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	checks := []struct{ field, msg string }{
		{"name", "is required"},
		{"min", "greater than or equal to 10"},
		{"max", "less than or equal to 5"},
		{"amount", "greater than 0"},
		{"password", "at least 8"},
		{"countryIso2", "exactly 2"},
		{"role", "one of AGENT MANAGER"},
		{"NoTag", "is required"}, // falls back to the Go field name
	}
	for _, c := range checks {
		if !containsFieldMsg(fe, c.field, c.msg) {
			t.Fatalf("missing %q for %s: %+v", c.msg, c.field, fe)
		}
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
