package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	StatusPlaced          OrderStatus = "Order Placed"
	StatusCancelRequested OrderStatus = "Cancellation Requested"
	StatusCanceled        OrderStatus = "Canceled"
)

// transitions is the only set of status moves an order may make. Canceled is
// terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPlaced:          {StatusCancelRequested, StatusCanceled},
	StatusCancelRequested: {StatusCanceled, StatusPlaced},
	StatusCanceled:        {},
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPlaced, StatusCancelRequested, StatusCanceled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, t := range transitions[s] {
		if t == to {
			return true
		}
	}
	return false
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order embeds a point-in-time copy of the product (name, price, SKU,
// images) rather than joining against the live catalog row.
type Order struct {
	ID          string `gorm:"primaryKey"`
	UserID      string `gorm:"index"`
	Name        string
	Price       float64
	Quantity    int64
	TotalPrice  float64
	Address     Address `gorm:"embedded;embeddedPrefix:addr_"`
	PhoneNumber string
	SKU         string
	ImageURLs   []string    `gorm:"serializer:json"`
	Status      OrderStatus `gorm:"index"`
	CreatedAt   time.Time   `gorm:"index"`
	UpdatedAt   time.Time
}
