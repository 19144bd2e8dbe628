/**
 * @description
 * This file implements the authentication and profile use cases: registration,
 * password login, SMS verification codes and profile reads/updates.
 *
 * Key features:
 * - Registration pre-checks phone and national id uniqueness before writing.
 * - Passwords are stored as bcrypt hashes, never plaintext.
 * - Verification codes are five digits, live for five minutes, and at most one
 *   code per phone is active; sending a new one replaces the previous.
 *
 * @dependencies
 * - golang.org/x/crypto/bcrypt: Password hashing.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/internal/store"
)

const (
	verificationCodeTTL = 5 * time.Minute
	sendCodeWindow      = time.Minute
)

// Register creates a new account. Phone and national id must both be unused.
// A welcome SMS is sent best-effort; its failure never fails the registration.
func (s *Service) Register(ctx context.Context, p domain.RegisterPayload) (*domain.User, error) {
	if _, err := s.repo.FindUserByPhone(ctx, p.Phone); err == nil {
		return nil, ErrPhoneAlreadyRegistered
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check phone uniqueness: %w", err)
	}

	if _, err := s.repo.FindUserByNationalID(ctx, p.NationalID); err == nil {
		return nil, ErrNationalIDAlreadyRegistered
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check national id uniqueness: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, domain.User{
		ID:           uuid.New(),
		Phone:        p.Phone,
		NationalID:   p.NationalID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	log.Printf("level=info component=app msg=\"user registered\" user_id=%s phone=%s", user.ID, user.Phone)

	if err := s.notifier.SendWelcome(ctx, user.Phone, user.FirstName); err != nil {
		log.Printf("level=warn component=app msg=\"welcome sms failed\" user_id=%s err=%v", user.ID, err)
	}
	return &user, nil
}

// Login checks the phone/password pair. Both an unknown phone and a wrong
// password return ErrInvalidCredentials so callers cannot probe registrations.
func (s *Service) Login(ctx context.Context, phone, password string) (*domain.User, error) {
	user, err := s.repo.FindUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// SendVerificationCode generates and dispatches a five digit login code.
// Returns the code's lifetime in seconds. Sending is independent of whether
// the phone is registered, matching the registration-first login flow.
func (s *Service) SendVerificationCode(ctx context.Context, phone string) (int, error) {
	if s.limiter != nil && s.sendCodeLimit > 0 {
		count, retryAfter, err := s.limiter.ConsumeRateLimit(ctx, "send_code", phone, s.sendCodeLimit, sendCodeWindow)
		if err != nil {
			// Degrade open: a broken limiter must not block logins.
			log.Printf("level=warn component=app msg=\"rate limiter unavailable\" err=%v", err)
		} else if count > s.sendCodeLimit {
			return 0, &RateLimitedError{RetryAfterSeconds: retryAfter}
		}
	}

	code := fmt.Sprintf("%05d", rand.Intn(90000)+10000)
	now := s.now()
	if err := s.repo.CreateVerificationCode(ctx, domain.VerificationCode{
		Phone:     phone,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: now.Add(verificationCodeTTL),
	}); err != nil {
		return 0, fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.notifier.SendVerificationCode(ctx, phone, code); err != nil {
		log.Printf("level=warn component=app msg=\"verification sms failed\" phone=%s err=%v", phone, err)
	}
	return int(verificationCodeTTL.Seconds()), nil
}

// VerifyCode consumes a previously sent code. A code verifies at most once.
func (s *Service) VerifyCode(ctx context.Context, phone, code string) error {
	ok, err := s.repo.ConsumeVerificationCode(ctx, phone, code, s.now())
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	if !ok {
		return ErrInvalidVerificationCode
	}
	return nil
}

// Profile returns the caller's profile along with their active card count.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*domain.ProfileView, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	cards, err := s.repo.FindCardsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}
	return &domain.ProfileView{
		ID:         user.ID,
		Phone:      user.Phone,
		NationalID: user.NationalID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		CreatedAt:  user.CreatedAt,
		CardsCount: len(cards),
	}, nil
}

// UpdateProfile changes the caller's display name. Phone and national id are
// immutable after registration.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, p domain.UpdateProfilePayload) (*domain.User, error) {
	return s.repo.UpdateUser(ctx, userID, store.UpdateUserParams{
		FirstName: &p.FirstName,
		LastName:  &p.LastName,
	})
}
