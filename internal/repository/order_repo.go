package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/you/shop-backoffice/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Order{})
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return translate(r.db.WithContext(ctx).Create(o).Error)
}

func (r *OrderRepo) ByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// ByIDForUser only finds the order when it belongs to userID; a foreign
// order reads as not found so its existence does not leak.
func (r *OrderRepo) ByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *OrderRepo) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error) {
	var o domain.Order
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.First(&o, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return nil, translate(err)
	}
	o.Status = to
	if err := tx.Save(&o).Error; err != nil {
		tx.Rollback()
		return nil, translate(err)
	}
	return &o, translate(tx.Commit().Error)
}

// RequestCancel is a conditional update on (id, user_id): zero rows means
// the order is absent or owned by someone else.
func (r *OrderRepo) RequestCancel(ctx context.Context, id, userID string) (*domain.Order, error) {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", domain.StatusCancelRequested)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.ByID(ctx, id)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Count(&n).Error
	return n, translate(err)
}

// CountSince counts orders created in [from, now]. Timestamps are UTC
// instants, so this is a plain indexed range query.
func (r *OrderRepo) CountSince(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("created_at >= ?", from).Count(&n).Error
	return n, translate(err)
}
