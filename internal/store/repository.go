/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for all
 * data access operations required by the service. By defining an interface, we
 * decouple the application's business logic from the specific storage implementation
 * (here a JSON snapshot file), making the code more modular and easier to test.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tikkieiran/backend/internal/domain"
)

var (
	ErrUserNotFound                 = errors.New("user not found")
	ErrCardNotFound                 = errors.New("card not found")
	ErrPaymentRequestNotFound       = errors.New("payment request not found")
	ErrPaymentRequestAlreadySettled = errors.New("payment request already settled")
	ErrPaymentRequestExpired        = errors.New("payment request expired")
)

// Repository defines the set of methods for interacting with the ledger store.
//
// Create methods append without uniqueness enforcement; callers pre-check
// duplicates (phone, national id, card number). Find methods return a
// not-found sentinel rather than panicking or returning partial data.
type Repository interface {
	// User methods
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	FindUserByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*domain.User, error)

	// Card methods. Lookups exclude soft-deleted cards.
	CreateCard(ctx context.Context, card domain.Card) (domain.Card, error)
	FindCardsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error)
	// DeleteCard soft-deletes the card matching both id and owner; it reports
	// false when no such card exists.
	DeleteCard(ctx context.Context, cardID, userID uuid.UUID) (bool, error)
	// SetPrimaryCard promotes the target card and demotes every other card of
	// the same owner as one logical update, so the owner always ends up with
	// exactly one primary card.
	SetPrimaryCard(ctx context.Context, cardID, userID uuid.UUID) error

	// Transaction methods. Transactions are append-only.
	CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	FindTransactionsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error)

	// Payment request methods
	CreatePaymentRequest(ctx context.Context, req domain.PaymentRequest) (domain.PaymentRequest, error)
	FindPaymentRequestsByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]domain.PaymentRequest, error)
	FindPaymentRequestByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRequest, error)
	FindPaymentRequestByShareCode(ctx context.Context, shareCode string) (*domain.PaymentRequest, error)
	// SettlePaymentRequest records the settlement transaction and flips the
	// request to completed in a single store operation. It fails with
	// ErrPaymentRequestAlreadySettled if the request is no longer pending and
	// with ErrPaymentRequestExpired if `now` is past the expiry window; on
	// failure nothing is written.
	SettlePaymentRequest(ctx context.Context, requestID uuid.UUID, tx domain.Transaction, paidBy uuid.UUID, now time.Time) (*domain.PaymentRequest, error)

	// Verification code methods. Creating a code replaces any live code for
	// the same phone. ConsumeVerificationCode deletes the code when it matches
	// and is unexpired, reporting whether it did.
	CreateVerificationCode(ctx context.Context, code domain.VerificationCode) error
	ConsumeVerificationCode(ctx context.Context, phone, code string, now time.Time) (bool, error)

	// Demo hooks
	Reset(ctx context.Context, dataset domain.Dataset) error
	Snapshot(ctx context.Context) (domain.Dataset, error)
}

// UpdateUserParams carries the mutable user fields; nil pointers are left
// untouched.
type UpdateUserParams struct {
	FirstName    *string
	LastName     *string
	PasswordHash *string
}
