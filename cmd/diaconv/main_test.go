package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/diaconv/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"interrupted", fmt.Errorf("convert: %w", context.Canceled), 130},
		{"not dia", errors.New(errors.ErrCodeUnsupportedDocument, "root element is <svg>"), 2},
		{"bad config", errors.New(errors.ErrCodeInvalidConfig, "cache: unknown backend"), 2},
		{"batch", fmt.Errorf("2 of 3 conversions failed"), 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("%s: exitCode = %d, want %d", tt.name, got, tt.want)
		}
	}
}
