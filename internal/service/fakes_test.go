package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/you/shop-backoffice/internal/domain"
	"github.com/you/shop-backoffice/internal/repository"
)

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUsers) Create(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; ok {
		return repository.ErrDuplicate
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) ByID(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) Update(ctx context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[u.Email]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUsers) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byEmail)), nil
}

type sentMail struct {
	To, Subject, Body string
}

type recordMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail error
}

func (m *recordMailer) Send(to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type stubVerifier struct {
	valid bool
	err   error
}

func (v stubVerifier) Verify(ctx context.Context, email string) (bool, error) {
	return v.valid, v.err
}

type recordPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[string]*domain.Order)}
}

func (f *fakeOrders) Create(ctx context.Context, o *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrders) ByID(ctx context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ByIDForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) ListAll(ctx context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Order
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, to domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Status = to
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) RequestCancel(ctx context.Context, id, userID string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok || o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	o.Status = domain.StatusCancelRequested
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeOrders) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.orders)), nil
}

func (f *fakeOrders) CountSince(ctx context.Context, from time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, o := range f.orders {
		if !o.CreatedAt.Before(from) {
			n++
		}
	}
	return n, nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{products: make(map[string]*domain.Product)}
}

func (f *fakeProducts) Create(ctx context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.SKU]; ok {
		return repository.ErrDuplicate
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	f.products[p.SKU] = &cp
	return nil
}

func (f *fakeProducts) BySKU(ctx context.Context, sku string) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[sku]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) List(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) Update(ctx context.Context, p *domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.SKU]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	f.products[p.SKU] = &cp
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, sku string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[sku]; !ok {
		return repository.ErrNotFound
	}
	delete(f.products, sku)
	return nil
}

func (f *fakeProducts) DecrementStock(ctx context.Context, sku string, amount int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[sku]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Quantity < amount {
		return nil, repository.ErrInsufficientStock
	}
	p.Quantity -= amount
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.products)), nil
}

func (f *fakeProducts) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.products {
		if p.Quantity < threshold {
			n++
		}
	}
	return n, nil
}
