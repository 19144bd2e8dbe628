/**
 * @description
 * This file defines the core domain models for the Tikkie Iran demo backend.
 * These structs represent the main entities and data transfer objects (DTOs)
 * used throughout the service's business logic, storage, and API layers.
 *
 * @notes
 * - JSON tags use the camelCase names of the on-disk snapshot format so that
 *   entities serialize identically in the data file and in API responses.
 * - Amounts are `int64` Rials. The gateway enforces nothing here; validation
 *   caps amounts at 100,000,000 Rials before they reach the core.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxAmount is the largest accepted payment amount, in Rials.
const MaxAmount int64 = 100_000_000

// User is a registered account holder. Users are never hard-deleted; only
// profile fields and the password hash may change after registration.
type User struct {
	ID           uuid.UUID `json:"id"`
	Phone        string    `json:"phone"`
	NationalID   string    `json:"nationalId"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"password"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FullName returns the display name used in notifications and denormalized
// snapshots (payment request requesterName, card holderName).
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Card is a bank card attached to a user. Cards are soft-deleted: the Deleted
// flag excludes them from every lookup while keeping the record in storage.
type Card struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	CardNumber string    `json:"cardNumber"`
	BankName   string    `json:"bankName"`
	BankNameEn string    `json:"bankNameEn"`
	HolderName string    `json:"holderName"`
	IsPrimary  bool      `json:"isPrimary"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TransactionCompleted is the only status the mock settlement path produces.
const TransactionCompleted = "completed"

// Transaction is the immutable record of a settled payment. Transactions are
// append-only; nothing in the service mutates or deletes one after creation.
type Transaction struct {
	ID                 uuid.UUID `json:"id"`
	SenderID           uuid.UUID `json:"senderId"`
	ReceiverID         uuid.UUID `json:"receiverId"`
	SenderCardNumber   string    `json:"senderCardNumber"`
	ReceiverCardNumber string    `json:"receiverCardNumber"`
	Amount             int64     `json:"amount"`
	Description        string    `json:"description"`
	TrackingCode       string    `json:"trackingCode"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	CompletedAt        time.Time `json:"completedAt"`
}

// Payment request statuses. A request is stored as pending or completed;
// "expired" is derived from expiresAt at read time, never written by a sweep.
const (
	RequestPending   = "pending"
	RequestCompleted = "completed"
	RequestExpired   = "expired"
)

// PaymentRequest is a shareable request for money, addressed by its share code.
type PaymentRequest struct {
	ID            uuid.UUID  `json:"id"`
	RequesterID   uuid.UUID  `json:"requesterId"`
	RequesterName string     `json:"requesterName"`
	Amount        int64      `json:"amount"`
	Description   string     `json:"description"`
	ShareCode     string     `json:"shareCode"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	PaidAt        *time.Time `json:"paidAt"`
	PaidBy        *uuid.UUID `json:"paidBy"`
}

// EffectiveStatus derives the request's status as of `now`. Every read path
// must go through this so expiry is evaluated identically at all call sites:
// a stored pending request past its expiry window reads as expired.
func (pr PaymentRequest) EffectiveStatus(now time.Time) string {
	if pr.Status == RequestCompleted {
		return RequestCompleted
	}
	if now.After(pr.ExpiresAt) {
		return RequestExpired
	}
	return pr.Status
}

// VerificationCode is an ephemeral SMS login code. At most one live code
// exists per phone; codes are never written to the on-disk snapshot.
type VerificationCode struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Dataset is the full in-memory state of the store: five ordered collections,
// serialized wholesale to a single JSON file after every mutation.
type Dataset struct {
	Users             []User             `json:"users"`
	Cards             []Card             `json:"cards"`
	Transactions      []Transaction      `json:"transactions"`
	PaymentRequests   []PaymentRequest   `json:"paymentRequests"`
	VerificationCodes []VerificationCode `json:"verificationCodes"`
}
