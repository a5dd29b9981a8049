package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published by the API process and consumed by the notify
// worker.
const (
	RKUserRegistered       = "user.registered"
	RKOrderPlaced          = "order.placed"
	RKOrderCancelRequested = "order.cancel_requested"
	RKOrderCancelled       = "order.cancelled"
)

type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type OrderPlaced struct {
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	SKU        string  `json:"sku"`
	Quantity   int64   `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}

type OrderSimple struct {
	OrderID string `json:"order_id"`
}

func MustUnmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}
