// Package otp holds signups that are waiting for their one-time code. The
// store is injected into the auth service so its lifetime and locking are
// owned by the caller, not by package-level state.
package otp

import (
	"context"
	"errors"

	"github.com/you/shop-backoffice/internal/domain"
)

var (
	// ErrNoPending: no registration is pending for that email (never
	// created, already consumed, or swept after expiry).
	ErrNoPending = errors.New("no pending registration")
	// ErrCodeExpired: the window passed; the record has been removed and
	// the user must restart signup.
	ErrCodeExpired = errors.New("code expired")
	// ErrCodeMismatch: wrong code; the record stays so the user can retry
	// until expiry.
	ErrCodeMismatch = errors.New("code mismatch")
)

// Store maps email -> pending registration. Put overwrites any prior record
// for the same email. Consume is the one-shot verify: compare-and-delete in
// a single step so two racing verifies cannot both succeed.
type Store interface {
	Put(ctx context.Context, reg domain.PendingRegistration) error
	Consume(ctx context.Context, email, code string) (*domain.PendingRegistration, error)
	Delete(ctx context.Context, email string) error
}
