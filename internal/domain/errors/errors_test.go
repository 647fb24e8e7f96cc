package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "item not found", err: ErrItemNotFound, want: true},
		{name: "category not found", err: ErrCategoryNotFound, want: true},
		{name: "wrapped item not found", err: fmt.Errorf("lookup: %w", ErrItemNotFound), want: true},
		{name: "invalid input", err: ErrInvalidInput, want: false},
		{name: "unrelated", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFoundError(tt.err))
		})
	}
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(ErrInvalidInput))
	assert.True(t, IsValidationError(fmt.Errorf("%w: name is required", ErrInvalidInput)))
	assert.False(t, IsValidationError(ErrItemNotFound))
	assert.False(t, IsValidationError(nil))
}
