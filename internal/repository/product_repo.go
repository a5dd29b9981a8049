package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/shop-backoffice/internal/domain"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Product{})
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *ProductRepo) BySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, "sku = ?", sku).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).Where("sku = ?", p.SKU).Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, sku string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, "sku = ?", sku)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock runs a single guarded UPDATE so two concurrent sales cannot
// both pass a read-then-write check; quantity can never cross zero.
func (r *ProductRepo) DecrementStock(ctx context.Context, sku string, amount int64) (*domain.Product, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("sku = ? AND quantity >= ?", sku, amount).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// absent vs present-but-short
		if _, err := r.BySKU(ctx, sku); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientStock
	}
	return r.BySKU(ctx, sku)
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&n).Error
	return n, translate(err)
}

func (r *ProductRepo) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("quantity < ?", threshold).Count(&n).Error
	return n, translate(err)
}
