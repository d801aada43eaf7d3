package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTransition(t *testing.T) {
	t.Run("pending to placed", func(t *testing.T) {
		o := &Order{Status: StatusPending}
		require.NoError(t, o.Transition(StatusPlaced))
		assert.Equal(t, StatusPlaced, o.Status)
		assert.False(t, o.UpdatedAt.IsZero())
	})

	t.Run("pending to cancelled", func(t *testing.T) {
		o := &Order{Status: StatusPending}
		require.NoError(t, o.Transition(StatusCancelled))
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("placed is terminal", func(t *testing.T) {
		o := &Order{Status: StatusPlaced}
		err := o.Transition(StatusCancelled)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, StatusPlaced, invalid.From)
		assert.Equal(t, StatusPlaced, o.Status)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		o := &Order{Status: StatusCancelled}
		assert.Error(t, o.Transition(StatusPlaced))
		assert.Equal(t, StatusCancelled, o.Status)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		o := &Order{Status: StatusPlaced}
		assert.NoError(t, o.Transition(StatusPlaced))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		o := &Order{Status: StatusPending}
		assert.Error(t, o.Transition(Status("SHIPPED")))
		assert.Equal(t, StatusPending, o.Status)
	})
}

func TestOrderReset(t *testing.T) {
	o := &Order{Status: StatusCancelled}
	o.Reset()
	assert.Equal(t, StatusPending, o.Status)

	// Reset is the explicit escape hatch; afterwards the order may move again.
	require.NoError(t, o.Transition(StatusPlaced))
	assert.Equal(t, StatusPlaced, o.Status)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusPlaced.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("placed").Valid())
}

func TestBookDescription(t *testing.T) {
	b := &Book{Title: "The Go Programming Language", Author: "Donovan & Kernighan"}
	assert.Equal(t, "The Go Programming Language by Donovan & Kernighan", b.Description())
}
