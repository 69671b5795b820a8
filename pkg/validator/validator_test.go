package validator

import (
	"errors"
	"strings"
	"testing"
)

type shippingForm struct {
	FirstName string `validate:"required"`
	Email     string `validate:"required,email"`
	Country   string `validate:"required"`
	Method    string `validate:"omitempty,oneof=CARD UPI COD"`
}

func TestValidate_OK(t *testing.T) {
	f := shippingForm{FirstName: "Ada", Email: "ada@example.com", Country: "United States", Method: "COD"}
	if err := Validate(f); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_MissingRequired(t *testing.T) {
	f := shippingForm{Email: "ada@example.com"}
	err := Validate(f)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	fields := valErr.Fields()
	if fields["FirstName"] != "is required" {
		t.Errorf("FirstName message = %q", fields["FirstName"])
	}
	if fields["Country"] != "is required" {
		t.Errorf("Country message = %q", fields["Country"])
	}
}

func TestValidate_BadEmail(t *testing.T) {
	f := shippingForm{FirstName: "Ada", Email: "not-an-email", Country: "US"}
	err := Validate(f)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "valid email address") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestValidate_OneOf(t *testing.T) {
	f := shippingForm{FirstName: "Ada", Email: "ada@example.com", Country: "US", Method: "CHEQUE"}
	err := Validate(f)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("error message = %q", err.Error())
	}
}
