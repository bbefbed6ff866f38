package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	StepName string   `validate:"required,max=5"`
	Steps    []string `validate:"min=1"`
	Family   string   `validate:"omitempty,oneof=songs packs"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{StepName: "", Steps: nil, Family: "vibes"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := FormatValidationError(err)
	for _, want := range []string{
		"Step name is required",
		"Steps must contain at least 1 items",
		"Family must be one of: songs packs",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestFormatValidationErrorPassthrough(t *testing.T) {
	if got := FormatValidationError(errors.New("EOF")); got != "EOF" {
		t.Fatalf("got %q", got)
	}
}
