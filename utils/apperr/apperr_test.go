package apperr

import (
	"fmt"
	"testing"
)

func TestIsMatchesWrappedErrors(t *testing.T) {
	err := fmt.Errorf("accepting application: %w", New(CodeCapacityExhausted, "offer has no remaining positions"))

	if !Is(err, CodeCapacityExhausted) {
		t.Error("expected Is to see through fmt.Errorf wrapping")
	}
	if Is(err, CodeBusy) {
		t.Error("Is must not match a different code")
	}
}

func TestIsRejectsPlainErrors(t *testing.T) {
	if Is(fmt.Errorf("connection refused"), CodeBusy) {
		t.Error("plain errors carry no code")
	}
	if Is(nil, CodeBusy) {
		t.Error("nil error carries no code")
	}
}

func TestFrom(t *testing.T) {
	typed := InvalidTransition("closed", "draft")

	got, ok := From(fmt.Errorf("transition: %w", typed))
	if !ok {
		t.Fatal("expected From to extract the typed error")
	}
	if got.Code != CodeInvalidTransition {
		t.Errorf("expected INVALID_TRANSITION, got %s", got.Code)
	}

	if _, ok := From(fmt.Errorf("plain")); ok {
		t.Error("From must fail for untyped errors")
	}
}

func TestValidationCarriesFields(t *testing.T) {
	err := Validation("bad offer dates", map[string]string{
		"end_date": "must be after start_date",
	})

	got, ok := From(err)
	if !ok {
		t.Fatal("expected typed error")
	}
	if got.Fields["end_date"] == "" {
		t.Error("expected per-field message to survive")
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(Busy("row lock timeout")) {
		t.Error("BUSY must be retryable")
	}
	if Retryable(New(CodeCapacityExhausted, "full")) {
		t.Error("CAPACITY_EXHAUSTED must not be retryable")
	}
}
