package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/you/shop-backoffice/internal/domain"
	"github.com/you/shop-backoffice/internal/emailverify"
	"github.com/you/shop-backoffice/internal/mail"
	"github.com/you/shop-backoffice/internal/otp"
	"github.com/you/shop-backoffice/internal/repository"
	"github.com/you/shop-backoffice/pkg/auth"
)

var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email or email does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type AuthSvc struct {
	users    UserStore
	pending  otp.Store
	mailer   mail.Mailer
	verifier emailverify.Verifier
	pub      Publisher

	otpTTL       time.Duration
	accessTTL    time.Duration
	resetTTL     time.Duration
	resetBaseURL string

	now func() time.Time
}

func NewAuthSvc(users UserStore, pending otp.Store, mailer mail.Mailer, verifier emailverify.Verifier, pub Publisher,
	otpTTL, accessTTL, resetTTL time.Duration, resetBaseURL string) *AuthSvc {
	return &AuthSvc{
		users: users, pending: pending, mailer: mailer, verifier: verifier, pub: pub,
		otpTTL: otpTTL, accessTTL: accessTTL, resetTTL: resetTTL, resetBaseURL: resetBaseURL,
		now: time.Now,
	}
}

func generateCode() string {
	// 6-digit numeric, leading zeros kept
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(err) // crypto/rand failure means the process is unusable
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// Signup stages a pending registration and mails its OTP. Nothing is
// persisted until the code is verified.
func (s *AuthSvc) Signup(ctx context.Context, name, email, password string, role domain.Role) error {
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	ok, err := s.verifier.Verify(ctx, email)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	if !ok {
		return ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	code := generateCode()
	reg := domain.PendingRegistration{
		Email:        email,
		Code:         code,
		ExpiresAt:    s.now().Add(s.otpTTL),
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
	}
	// last write wins on repeat signup for the same email
	if err := s.pending.Put(ctx, reg); err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP for email verification is %s", code)
	if err := s.mailer.Send(email, "Your OTP for verification", body); err != nil {
		// don't leave a pending record behind for a code that never arrived
		_ = s.pending.Delete(ctx, email)
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

// VerifyOTP is one-shot: the pending record is consumed atomically, so the
// same code cannot complete two signups. The unique email index is the
// backstop if two verifies for the same email somehow both consume a record.
func (s *AuthSvc) VerifyOTP(ctx context.Context, email, code string) (*domain.User, error) {
	reg, err := s.pending.Consume(ctx, email, code)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        reg.Email,
		Name:         reg.Name,
		Role:         reg.Role,
		PasswordHash: reg.PasswordHash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.publish(ctx, "user.registered", map[string]any{
		"user_id": u.ID, "email": u.Email, "name": u.Name,
	})
	return u, nil
}

func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := auth.CreateAccessToken(u.ID, string(u.Role), u.Email, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthSvc) RequestPasswordReset(ctx context.Context, email string) error {
	if _, err := s.users.ByEmail(ctx, email); err != nil {
		return err
	}
	token, err := auth.CreateResetToken(email, s.resetTTL)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("To reset your password, click the link: %s/%s", s.resetBaseURL, token)
	if err := s.mailer.Send(email, "Password Reset Request", body); err != nil {
		return fmt.Errorf("send reset link: %w", err)
	}
	return nil
}

func (s *AuthSvc) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := auth.ParseResetToken(token)
	if err != nil {
		return ErrInvalidToken
	}
	u, err := s.users.ByEmail(ctx, claims.Email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}

func (s *AuthSvc) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return s.users.Update(ctx, u)
}

// UpdateProfile changes display fields only; email and role stay fixed.
func (s *AuthSvc) UpdateProfile(ctx context.Context, userID, name, phone, profilePhoto string) (*domain.User, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if phone != "" {
		u.Phone = phone
	}
	if profilePhoto != "" {
		u.ProfilePhoto = profilePhoto
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthSvc) publish(ctx context.Context, key string, v any) {
	if s.pub == nil {
		return
	}
	_ = s.pub.PublishJSON(ctx, key, v)
}
