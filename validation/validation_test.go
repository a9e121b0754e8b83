package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kbukum/pipekit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "")
	if !v.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v2 := New()
	v2.Required("name", "   ")
	if !v2.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}

	v3 := New()
	v3.Required("name", "John")
	if v3.HasErrors() {
		t.Error("expected no error for non-empty field")
	}
}

func TestValidatorRange(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{5, false},
		{1, false},
		{10, false},
		{0, true},
		{11, true},
	}
	for _, tc := range tests {
		v := New().Range("buffer_size", tc.value, 1, 10)
		if v.HasErrors() != tc.wantErr {
			t.Errorf("Range(%d): HasErrors=%v, want %v", tc.value, v.HasErrors(), tc.wantErr)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	allowed := []string{"json", "console"}

	if New().OneOf("format", "json", allowed).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if New().OneOf("format", "", allowed).HasErrors() {
		t.Error("expected no error for empty value")
	}
	v := New().OneOf("format", "xml", allowed)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "json, console") {
		t.Errorf("expected allowed values in message, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "f", "bad").HasErrors() {
		t.Error("expected no error when condition holds")
	}
	if !New().Custom(false, "f", "bad").HasErrors() {
		t.Error("expected error when condition fails")
	}
}

func TestValidatorNested(t *testing.T) {
	v := New().Nested("logging", nil).Nested("pipeline", errors.Validation("buffer_size: is invalid"))
	if len(v.Errors()) != 1 || v.Errors()[0].Field != "pipeline" {
		t.Errorf("unexpected errors: %+v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Validate() != nil {
		t.Error("expected nil for no errors")
	}
	if New().Err() != nil {
		t.Error("expected nil error for no errors")
	}

	v := New()
	v.AddError("name", "is required")
	v.AddError("environment", "must be one of: development")
	appErr := v.Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if !strings.Contains(appErr.Message, "name: is required") {
		t.Errorf("expected name in message, got %q", appErr.Message)
	}
	if _, ok := appErr.Details["fields"]; !ok {
		t.Error("expected fields details")
	}
}

func TestStructValidateValid(t *testing.T) {
	type Input struct {
		Name   string `mapstructure:"name" validate:"required"`
		Format string `json:"format" validate:"oneof=json console"`
	}
	if err := Validate(Input{Name: "job", Format: "json"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateFieldNames(t *testing.T) {
	type Input struct {
		BufferSize int    `mapstructure:"buffer_size" validate:"min=1"`
		Format     string `json:"format" validate:"oneof=json console"`
		NoTag      string `validate:"required"`
	}

	err := Validate(Input{BufferSize: 0, Format: "xml"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"buffer_size: must be at least 1", "format: must be one of: json console", "no_tag: is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestStructValidateNested(t *testing.T) {
	type Inner struct {
		Size int `mapstructure:"size" validate:"max=4"`
	}
	type Outer struct {
		Inner Inner `mapstructure:"inner"`
	}

	err := Validate(Outer{Inner: Inner{Size: 9}})
	if err == nil || !strings.Contains(err.Error(), "inner.size: must be at most 4") {
		t.Errorf("expected nested field path, got %v", err)
	}
}

func TestStructValidateStringLength(t *testing.T) {
	type Input struct {
		Code string `json:"code" validate:"required,min=3,max=10"`
	}

	if err := Validate(Input{Code: "abc"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
	err := Validate(Input{Code: "ab"})
	if err == nil || !strings.Contains(err.Error(), "at least 3 characters") {
		t.Errorf("expected length error, got %v", err)
	}
}

func TestValidateUUID(t *testing.T) {
	valid := uuid.New().String()
	id, err := ValidateUUID("run_id", valid)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id.String() != valid {
		t.Errorf("expected %s, got %s", valid, id.String())
	}

	if _, err := ValidateUUID("run_id", ""); err == nil {
		t.Error("expected error for empty UUID")
	}
	if _, err := ValidateUUID("run_id", "bad"); err == nil {
		t.Error("expected error for invalid UUID")
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":       "name",
		"BufferSize": "buffer_size",
		"NoColor":    "no_color",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
