package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/you/shop-backoffice/internal/domain"
)

var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrUnknownStatus     = errors.New("unknown status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAction     = errors.New(`invalid action, use "approve" or "reject"`)
)

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	ByID(ctx context.Context, id string) (*domain.Order, error)
	ByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error)
	RequestCancel(ctx context.Context, id, userID string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderSvc struct {
	repo OrderStore
	pub  Publisher
}

func NewOrderSvc(r OrderStore, pub Publisher) *OrderSvc {
	return &OrderSvc{repo: r, pub: pub}
}

func validateOrder(o *domain.Order) error {
	switch {
	case o.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidOrder)
	case o.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalidOrder)
	case o.Quantity < 1:
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidOrder)
	case o.TotalPrice <= 0:
		return fmt.Errorf("%w: total price must be positive", ErrInvalidOrder)
	case o.PhoneNumber == "":
		return fmt.Errorf("%w: phone number is required", ErrInvalidOrder)
	case o.SKU == "":
		return fmt.Errorf("%w: product id is required", ErrInvalidOrder)
	}
	a := o.Address
	if a.Street == "" || a.City == "" || a.State == "" || a.PostalCode == "" || a.Country == "" {
		return fmt.Errorf("%w: complete address is required", ErrInvalidOrder)
	}
	return nil
}

// Place persists the order unconditionally once validated; stock is adjusted
// by a separate decrement call, not here.
func (s *OrderSvc) Place(ctx context.Context, userID string, o domain.Order) (*domain.Order, error) {
	o.UserID = userID
	o.Status = domain.StatusPlaced
	if err := validateOrder(&o); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &o); err != nil {
		return nil, err
	}
	s.publish(ctx, "order.placed", map[string]any{
		"order_id": o.ID, "user_id": o.UserID, "sku": o.SKU,
		"quantity": o.Quantity, "total_price": o.TotalPrice,
	})
	return &o, nil
}

func (s *OrderSvc) Get(ctx context.Context, id, userID string) (*domain.Order, error) {
	return s.repo.ByIDForUser(ctx, id, userID)
}

func (s *OrderSvc) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *OrderSvc) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

// UpdateStatus only accepts recognized statuses and moves allowed by the
// transition table; free-text writes never reach storage.
func (s *OrderSvc) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	to, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, ErrUnknownStatus
	}
	o, err := s.repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	return s.repo.UpdateStatus(ctx, id, to)
}

func (s *OrderSvc) RequestCancel(ctx context.Context, id, userID string) (*domain.Order, error) {
	o, err := s.repo.RequestCancel(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "order.cancel_requested", map[string]any{"order_id": o.ID, "user_id": o.UserID})
	return o, nil
}

// ResolveCancel is the admin override: approve cancels and reject restores
// the placed status whatever the current state is.
func (s *OrderSvc) ResolveCancel(ctx context.Context, id, action string) (*domain.Order, error) {
	var to domain.OrderStatus
	switch action {
	case "approve":
		to = domain.StatusCanceled
	case "reject":
		to = domain.StatusPlaced
	default:
		return nil, ErrInvalidAction
	}
	o, err := s.repo.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	if action == "approve" {
		s.publish(ctx, "order.cancelled", map[string]any{"order_id": o.ID})
	}
	return o, nil
}

func (s *OrderSvc) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *OrderSvc) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, key, v)
}
