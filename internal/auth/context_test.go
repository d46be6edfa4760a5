// ABOUTME: Unit tests for authentication context functions
// ABOUTME: Tests subject propagation helpers

package auth

import (
	"context"
	"testing"
)

func TestSubjectFromContext(t *testing.T) {
	ctx := WithSubject(context.Background(), "ops")

	if got := SubjectFromContext(ctx); got != "ops" {
		t.Errorf("SubjectFromContext() = %q, want %q", got, "ops")
	}
}

func TestSubjectFromContext_Missing(t *testing.T) {
	if got := SubjectFromContext(context.Background()); got != "" {
		t.Errorf("SubjectFromContext() = %q, want empty", got)
	}
}
