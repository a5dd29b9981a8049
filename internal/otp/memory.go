package otp

import (
	"context"
	"sync"
	"time"

	"github.com/you/shop-backoffice/internal/domain"
)

// MemoryStore is the single-process implementation. One mutex covers the
// whole map; Consume reads, compares and deletes under the same lock.
type MemoryStore struct {
	mu   sync.Mutex
	regs map[string]domain.PendingRegistration
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regs: make(map[string]domain.PendingRegistration), now: time.Now}
}

func (s *MemoryStore) Put(ctx context.Context, reg domain.PendingRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[reg.Email] = reg
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, email, code string) (*domain.PendingRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[email]
	if !ok {
		return nil, ErrNoPending
	}
	if s.now().After(reg.ExpiresAt) {
		delete(s.regs, email)
		return nil, ErrCodeExpired
	}
	if reg.Code != code {
		return nil, ErrCodeMismatch
	}
	delete(s.regs, email)
	return &reg, nil
}

func (s *MemoryStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regs, email)
	return nil
}

// Sweep drops expired records and reports how many it removed. Abandoned
// signups would otherwise sit in the map for the life of the process.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for email, reg := range s.regs {
		if now.After(reg.ExpiresAt) {
			delete(s.regs, email)
			n++
		}
	}
	return n
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Sweep()
			}
		}
	}()
}
