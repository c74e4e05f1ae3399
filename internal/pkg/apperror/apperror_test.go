package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	errDup := Conflict("DUPLICATE", "duplicate")
	errGone := NotFound("GONE", "gone")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"sentinel", errDup, KindConflict},
		{"wrapped sentinel", fmt.Errorf("failed to create: %w", errGone), KindNotFound},
		{"field errors", validator.ValidationErrors{{Field: "date", Message: "date is required"}}, KindValidation},
		{"wrapped field errors", fmt.Errorf("bad: %w", validator.ValidationErrors{{Field: "x", Message: "y"}}), KindValidation},
		{"plain error", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelIdentity(t *testing.T) {
	a := State("INVALID_TRANSITION", "invalid transition")
	b := State("INVALID_TRANSITION", "invalid transition")

	wrapped := fmt.Errorf("approve: %w", a)
	assert.True(t, errors.Is(wrapped, a))
	assert.False(t, errors.Is(wrapped, b))
	assert.True(t, Is(wrapped, KindState))
}
