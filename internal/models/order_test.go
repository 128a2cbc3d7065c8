// internal/models/order_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCanceled, true},
		{OrderStatusNew, OrderStatusAssembled, false},
		{OrderStatusNew, OrderStatusDelivered, false},
		{OrderStatusConfirmed, OrderStatusAssembled, true},
		{OrderStatusConfirmed, OrderStatusSent, false},
		{OrderStatusAssembled, OrderStatusSent, true},
		{OrderStatusSent, OrderStatusDelivered, true},
		{OrderStatusSent, OrderStatusCanceled, true},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusNew, false},
		{OrderStatusCanceled, OrderStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCanceled.Terminal())
	assert.False(t, OrderStatusNew.Terminal())
	assert.False(t, OrderStatusSent.Terminal())
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusNew))
	assert.True(t, ValidOrderStatus(OrderStatusCanceled))
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}
