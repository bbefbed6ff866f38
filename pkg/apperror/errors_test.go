package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("song: %w", ErrNotFound), http.StatusNotFound},
		{"invalid", Invalid("unknown step"), http.StatusBadRequest},
		{"app error code wins", New(http.StatusTeapot, "tea", ErrInternal), http.StatusTeapot},
		{"conflict", ErrConflict, http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Fatalf("MapErrorToStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NotFound("pack not found")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected errors.Is(err, ErrNotFound)")
	}
	if err.Error() != "pack not found: resource not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
