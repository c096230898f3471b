package order_test

import (
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_StringAndParse(t *testing.T) {
	for _, s := range order.Pipeline() {
		parsed, err := order.ParseStatus(s.String())

		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		require.NoError(t, s.Validate())
	}

	_, err := order.ParseStatus("shipped")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, order.Unknown.Validate())
	assert.Equal(t, "unknown", order.Status(42).String())
}

func TestStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		target      order.Status
		predecessor order.Status
		role        kernel.Role
		assigns     bool
	}{
		{order.Cooking, order.WaitForCook, kernel.RoleCook, true},
		{order.WaitForDispatcher, order.Cooking, kernel.RoleCook, false},
		{order.Dispatching, order.WaitForDispatcher, kernel.RoleDispatcher, true},
		{order.WaitForDeliverer, order.Dispatching, kernel.RoleDispatcher, false},
		{order.Delivering, order.WaitForDeliverer, kernel.RoleDriver, true},
		{order.Complete, order.Delivering, kernel.RoleDriver, false},
	}

	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			pred, ok := tt.target.Predecessor()
			require.True(t, ok)
			assert.Equal(t, tt.predecessor, pred)

			role, ok := tt.target.RequiredRole()
			require.True(t, ok)
			assert.Equal(t, tt.role, role)
			assert.Equal(t, tt.assigns, tt.target.Assigns())
		})
	}
}

func TestStatus_NoPredecessor(t *testing.T) {
	for _, s := range []order.Status{order.WaitForCook, order.Unknown, order.Status(99)} {
		_, ok := s.Predecessor()
		assert.False(t, ok, s.String())

		_, ok = s.RequiredRole()
		assert.False(t, ok, s.String())
	}
}

func TestPipeline_EachStatusFollowsItsPredecessor(t *testing.T) {
	pipeline := order.Pipeline()

	for i := 1; i < len(pipeline); i++ {
		pred, ok := pipeline[i].Predecessor()
		require.True(t, ok)
		assert.Equal(t, pipeline[i-1], pred)
	}
	assert.True(t, pipeline[len(pipeline)-1].IsTerminal())
}
