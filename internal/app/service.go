/**
 * @description
 * This file contains the core business logic for the Tikkie Iran backend. The
 * `Service` struct orchestrates registration, card management, direct payments
 * and payment request settlement, coordinating between the snapshot store, the
 * mock Shetab gateway and the SMS notifier.
 *
 * Key features:
 * - Sentinel errors for every business failure so the API layer can map them
 *   to HTTP statuses with errors.Is / errors.As.
 * - A swappable clock (`now`) so tests can pin time for expiry scenarios.
 * - An optional distributed rate limiter guarding verification code sends.
 *
 * @dependencies
 * - context, errors, fmt, time: Standard Go libraries.
 * - internal/domain, internal/store: Domain models and data access.
 * - pkg/shetab, pkg/sms: The settlement gateway and notification boundary.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tikkieiran/backend/internal/store"
	"github.com/tikkieiran/backend/pkg/shetab"
	"github.com/tikkieiran/backend/pkg/sms"
)

var (
	ErrPhoneAlreadyRegistered      = errors.New("phone already registered")
	ErrNationalIDAlreadyRegistered = errors.New("national id already registered")
	ErrInvalidCredentials          = errors.New("invalid phone or password")
	ErrInvalidVerificationCode     = errors.New("invalid or expired verification code")

	ErrInvalidCardNumber      = errors.New("card number failed checksum validation")
	ErrCardAlreadyRegistered  = errors.New("card already registered")
	ErrCardVerificationFailed = errors.New("card ownership verification failed")

	ErrInvalidAmount      = errors.New("amount out of range")
	ErrInvalidDescription = errors.New("description too short")

	ErrNoSenderCard           = errors.New("payer has no usable card")
	ErrReceiverCardNotFound   = errors.New("receiver card not registered")
	ErrSelfTransferNotAllowed = errors.New("cannot transfer to own card")
	ErrSelfPaymentNotAllowed  = errors.New("cannot pay own payment request")

	ErrRequestExpired     = errors.New("payment request expired")
	ErrRequestAlreadyPaid = errors.New("payment request already paid")
)

// GatewayDeclinedError reports a settlement declined by the gateway. Message
// carries the gateway's decline reason verbatim.
type GatewayDeclinedError struct {
	Message string
}

func (e *GatewayDeclinedError) Error() string {
	return fmt.Sprintf("payment declined by gateway: %s", e.Message)
}

// RateLimitedError reports a throttled verification code request.
type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfterSeconds)
}

// RateLimiter is the throttling boundary. A nil limiter disables throttling;
// implementations return the observed count within the current window.
type RateLimiter interface {
	ConsumeRateLimit(ctx context.Context, scope, subject string, limit int, window time.Duration) (count int, retryAfterSeconds int, err error)
}

// Service provides the core business logic of the backend.
type Service struct {
	repo     store.Repository
	gateway  shetab.Gateway
	notifier sms.Notifier

	limiter       RateLimiter
	sendCodeLimit int

	requestExpiryDays int
	shareLinkScheme   string

	now func() time.Time
}

// NewService creates a service instance wired to the given store, gateway and
// notifier. requestExpiryDays is the default payment request window used when
// the caller does not pick one.
func NewService(repo store.Repository, gateway shetab.Gateway, notifier sms.Notifier, requestExpiryDays int) *Service {
	if requestExpiryDays <= 0 {
		requestExpiryDays = 7
	}
	return &Service{
		repo:              repo,
		gateway:           gateway,
		notifier:          notifier,
		requestExpiryDays: requestExpiryDays,
		shareLinkScheme:   "tikkie://request/",
		now:               time.Now,
	}
}

// SetRateLimiter attaches an optional limiter for verification code sends.
// perMinute of zero leaves sends unthrottled.
func (s *Service) SetRateLimiter(limiter RateLimiter, perMinute int) {
	s.limiter = limiter
	s.sendCodeLimit = perMinute
}
