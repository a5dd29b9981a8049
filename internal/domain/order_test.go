package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"Order Placed", "Cancellation Requested", "Canceled"} {
		got, err := ParseOrderStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(s), got)
	}

	_, err := ParseOrderStatus("Shipped")
	assert.Error(t, err)
	_, err = ParseOrderStatus("")
	assert.Error(t, err)
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPlaced, StatusCancelRequested, true},
		{StatusPlaced, StatusCanceled, true},
		{StatusCancelRequested, StatusCanceled, true},
		{StatusCancelRequested, StatusPlaced, true},
		{StatusCanceled, StatusPlaced, false},
		{StatusCanceled, StatusCancelRequested, false},
		{StatusPlaced, StatusPlaced, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}
