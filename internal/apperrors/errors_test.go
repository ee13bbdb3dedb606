package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesSentinelForCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"not found", apperrors.NewNotFoundError("member missing"), apperrors.ErrNotFound, true},
		{"validation", apperrors.NewValidationError("bad amount"), apperrors.ErrValidation, true},
		{"conflict", apperrors.NewConflictError("version changed", nil), apperrors.ErrConflict, true},
		{"persistence", apperrors.NewPersistenceError("insert failed", assert.AnError), apperrors.ErrPersistence, true},
		{"different sentinel", apperrors.NewNotFoundError("x"), apperrors.ErrValidation, false},
		{"unknown code", apperrors.NewAppError(http.StatusTeapot, "teapot", nil), apperrors.ErrNotFound, false},
		{"wrapped", fmt.Errorf("service: %w", apperrors.NewConflictError("busy", nil)), apperrors.ErrConflict, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestAppError_UnwrapsCause(t *testing.T) {
	err := apperrors.NewPersistenceError("failed to insert entry", assert.AnError)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to insert entry")
	assert.Contains(t, err.Error(), assert.AnError.Error())
}
