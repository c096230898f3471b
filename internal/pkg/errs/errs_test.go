package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "orderId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", errors.New("connection reset"))

		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: connection reset)",
			err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestValueErrors(t *testing.T) {
	cause := errors.New("bad format")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{"required", errs.NewValueIsRequiredError("items"), errs.ErrValueIsRequired, "value is required: items"},
		{
			"required with cause",
			errs.NewValueIsRequiredErrorWithCause("items", cause),
			errs.ErrValueIsRequired,
			"value is required: items (cause: bad format)",
		},
		{"invalid", errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid, "value is invalid: status"},
		{
			"invalid with cause",
			errs.NewValueIsInvalidErrorWithCause("status", cause),
			errs.ErrValueIsInvalid,
			"value is invalid: status (cause: bad format)",
		},
		{
			"out of range",
			errs.NewValueIsOutOfRangeError("page size", 150, 1, 100),
			errs.ErrValueIsOutOfRange,
			"value is invalid: 150 is page size, min value is 1, max value is 100",
		},
		{
			"version",
			errs.NewVersionIsInvalidError("cursor", cause),
			errs.ErrVersionIsInvalid,
			"version is invalid: cursor (cause: bad format)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestValueIsOutOfRangeError_SanitizesNewlines(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

	assert.Contains(t, err.Error(), "hello world")
	assert.NotContains(t, err.Error(), "\n")
}

func TestConflictError(t *testing.T) {
	t.Run("names both statuses", func(t *testing.T) {
		err := errs.NewConflictError("status", "wait_for_deliverer", "cooking")

		assert.Equal(t, "conflict: status is cooking, required wait_for_deliverer", err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("with cause only", func(t *testing.T) {
		err := errs.NewConflictErrorWithCause("connection", errors.New("already subscribed"))

		assert.Equal(t, "conflict: connection (cause: already subscribed)", err.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("update order: %w", errs.NewConflictError("status", "a", "b"))

		var conflict *errs.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "a", conflict.Expected)
	})
}

func TestObjectAlreadyExistsError(t *testing.T) {
	err := errs.NewObjectAlreadyExistsError("order", "42")

	assert.Equal(t, "object already exists: order 42", err.Error())
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestForbiddenError(t *testing.T) {
	err := errs.NewForbiddenError("user-1", "client", "cook")

	assert.Equal(t, "forbidden: user-1 has role client, required cook", err.Error())
	require.ErrorIs(t, err, errs.ErrForbidden)
	assert.NotErrorIs(t, err, errs.ErrConflict)
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("wait_for_cook")

	assert.Equal(t, "transition is invalid: wait_for_cook has no predecessor", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}
