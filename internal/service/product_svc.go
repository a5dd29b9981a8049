package service

import (
	"context"
	"errors"

	"github.com/you/shop-backoffice/internal/domain"
)

var ErrInvalidProduct = errors.New("invalid product")

type ProductStore interface {
	Create(ctx context.Context, p *domain.Product) error
	BySKU(ctx context.Context, sku string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, sku string) error
	DecrementStock(ctx context.Context, sku string, amount int64) (*domain.Product, error)
}

type ProductSvc struct {
	repo ProductStore
}

func NewProductSvc(r ProductStore) *ProductSvc {
	return &ProductSvc{repo: r}
}

func (s *ProductSvc) Create(ctx context.Context, in domain.Product) (*domain.Product, error) {
	if in.SKU == "" || in.Name == "" || in.Category == "" {
		return nil, ErrInvalidProduct
	}
	if in.Price <= 0 || in.Quantity < 0 {
		return nil, ErrInvalidProduct
	}
	if err := s.repo.Create(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ProductSvc) Get(ctx context.Context, sku string) (*domain.Product, error) {
	return s.repo.BySKU(ctx, sku)
}

func (s *ProductSvc) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductSvc) Update(ctx context.Context, in domain.Product) (*domain.Product, error) {
	if in.SKU == "" {
		return nil, ErrInvalidProduct
	}
	if err := s.repo.Update(ctx, &in); err != nil {
		return nil, err
	}
	return s.repo.BySKU(ctx, in.SKU)
}

func (s *ProductSvc) Delete(ctx context.Context, sku string) error {
	return s.repo.Delete(ctx, sku)
}

// DecrementStock records a sale of amount units. The repository refuses a
// decrement that would take quantity below zero.
func (s *ProductSvc) DecrementStock(ctx context.Context, sku string, amount int64) (*domain.Product, error) {
	if amount <= 0 {
		return nil, ErrInvalidProduct
	}
	return s.repo.DecrementStock(ctx, sku, amount)
}
