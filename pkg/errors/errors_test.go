package errors

import (
	"strings"
	"testing"
)

func TestNotTrainedError(t *testing.T) {
	err := NewNotTrainedError("lencode_glm_a1b2c3d4", "Bake")

	var notTrained *NotTrainedError
	if !As(err, &notTrained) {
		t.Fatalf("expected NotTrainedError, got %T", err)
	}
	if notTrained.StepID != "lencode_glm_a1b2c3d4" {
		t.Errorf("unexpected step id: %s", notTrained.StepID)
	}
	if !strings.Contains(err.Error(), "not trained") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestMissingColumnError(t *testing.T) {
	err := NewMissingColumnError("GLMStep.Bake", "city")

	var missing *MissingColumnError
	if !As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %T", err)
	}
	if missing.Column != "city" {
		t.Errorf("unexpected column: %s", missing.Column)
	}
	if !strings.Contains(err.Error(), `"city"`) {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestTypeError(t *testing.T) {
	err := NewTypeError("GLMStep.Fit", "price", "nominal", "numeric")

	var typeErr *TypeError
	if !As(err, &typeErr) {
		t.Fatalf("expected TypeError, got %T", err)
	}
	if typeErr.Expected != "nominal" || typeErr.Got != "numeric" {
		t.Errorf("unexpected fields: %+v", typeErr)
	}
}

func TestFitErrorUnwrap(t *testing.T) {
	err := NewFitError("GLMStep.Fit", "city", "no usable rows", ErrEmptyData)

	if !Is(err, ErrEmptyData) {
		t.Error("FitError should unwrap to ErrEmptyData")
	}

	var fitErr *FitError
	if !As(err, &fitErr) {
		t.Fatalf("expected FitError, got %T", err)
	}
	if fitErr.Column != "city" {
		t.Errorf("unexpected column: %s", fitErr.Column)
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("outcome", "outcome selector is required", nil)

	var cfgErr *ConfigError
	if !As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Param != "outcome" {
		t.Errorf("unexpected param: %s", cfgErr.Param)
	}
}

func TestWrapPreservesType(t *testing.T) {
	base := NewValueError("table.New", "column lengths differ")
	wrapped := Wrap(base, "building training data")

	var valErr *ValueError
	if !As(wrapped, &valErr) {
		t.Error("wrapping should preserve the underlying error type")
	}
	if !strings.Contains(wrapped.Error(), "building training data") {
		t.Errorf("unexpected message: %s", wrapped.Error())
	}
}
