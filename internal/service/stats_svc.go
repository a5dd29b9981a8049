package service

import (
	"context"
	"time"
)

// Dashboard figures. "Recent" means created since UTC midnight; order
// timestamps are stored as instants so this is a pure range comparison.

const lowStockThreshold = 5

type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int64) (int64, error)
}

type OrderCounter interface {
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, from time.Time) (int64, error)
}

type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

type StatsSvc struct {
	products ProductCounter
	orders   OrderCounter
	users    UserCounter
	now      func() time.Time
}

func NewStatsSvc(p ProductCounter, o OrderCounter, u UserCounter) *StatsSvc {
	return &StatsSvc{products: p, orders: o, users: u, now: time.Now}
}

func (s *StatsSvc) ProductCount(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

func (s *StatsSvc) LowStockCount(ctx context.Context) (int64, error) {
	return s.products.CountLowStock(ctx, lowStockThreshold)
}

func (s *StatsSvc) OrderCount(ctx context.Context) (int64, error) {
	return s.orders.Count(ctx)
}

func (s *StatsSvc) RecentOrderCount(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.orders.CountSince(ctx, midnight)
}

func (s *StatsSvc) CustomerCount(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}
