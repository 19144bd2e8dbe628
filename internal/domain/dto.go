/**
 * @description
 * This file defines the request payloads and response views exchanged with the
 * mobile client. Keeping them separate from the stored entities makes clear
 * which fields cross the API boundary and which stay internal (password
 * hashes, requester ids on public payment request views).
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// RegisterPayload is the body of POST /api/auth/register.
type RegisterPayload struct {
	Phone      string `json:"phone"`
	NationalID string `json:"nationalId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Password   string `json:"password"`
}

// LoginPayload is the body of POST /api/auth/login.
type LoginPayload struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// SendCodePayload is the body of POST /api/auth/send-code.
type SendCodePayload struct {
	Phone string `json:"phone"`
}

// VerifyCodePayload is the body of POST /api/auth/verify-code.
type VerifyCodePayload struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// UpdateProfilePayload is the body of PUT /api/user/profile.
type UpdateProfilePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AddCardPayload is the body of POST /api/user/cards.
type AddCardPayload struct {
	CardNumber string `json:"cardNumber"`
	CVV2       string `json:"cvv2"`
	Expiry     string `json:"expiry"`
}

// CreatePaymentPayload is the body of POST /api/payments/create. SenderCardID
// is optional; when absent the payer's primary (or first) card is used.
type CreatePaymentPayload struct {
	SenderCardID       *uuid.UUID `json:"senderCardId,omitempty"`
	ReceiverCardNumber string     `json:"receiverCardNumber"`
	Amount             int64      `json:"amount"`
	Description        string     `json:"description"`
}

// CreatePaymentRequestPayload is the body of POST /api/payments/requests.
// ExpiryDays of zero falls back to the configured default window.
type CreatePaymentRequestPayload struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ExpiryDays  int    `json:"expiryDays,omitempty"`
}

// PayPaymentRequestPayload is the body of POST /api/payments/requests/pay.
type PayPaymentRequestPayload struct {
	RequestID    uuid.UUID  `json:"requestId"`
	SenderCardID *uuid.UUID `json:"senderCardId,omitempty"`
}

// UserView is the redacted user representation returned after auth calls.
type UserView struct {
	ID        uuid.UUID `json:"id"`
	Phone     string    `json:"phone"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
}

// ProfileView is returned by GET /api/user/profile.
type ProfileView struct {
	ID         uuid.UUID `json:"id"`
	Phone      string    `json:"phone"`
	NationalID string    `json:"nationalId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	CreatedAt  time.Time `json:"createdAt"`
	CardsCount int       `json:"cardsCount"`
}

// CardView is the client representation of a card. CardNumber is masked;
// CardNumberFull is included because the demo client pre-fills transfers.
type CardView struct {
	ID             uuid.UUID `json:"id"`
	CardNumber     string    `json:"cardNumber"`
	CardNumberFull string    `json:"cardNumberFull"`
	BankName       string    `json:"bankName"`
	BankNameEn     string    `json:"bankNameEn"`
	HolderName     string    `json:"holderName"`
	IsPrimary      bool      `json:"isPrimary"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TransactionView is a transaction from the perspective of one user: the
// direction and the counterparty's display name are resolved per caller.
type TransactionView struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"` // "sent" or "received"
	OtherParty   string    `json:"otherParty"`
	Amount       int64     `json:"amount"`
	Description  string    `json:"description"`
	TrackingCode string    `json:"trackingCode"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	CompletedAt  time.Time `json:"completedAt"`
}

// PaymentRequestView is an owner's view of their payment request. PaidBy
// carries the payer's display name, not their id.
type PaymentRequestView struct {
	ID          uuid.UUID  `json:"id"`
	Amount      int64      `json:"amount"`
	Description string     `json:"description"`
	ShareCode   string     `json:"shareCode"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	PaidAt      *time.Time `json:"paidAt"`
	PaidBy      *string    `json:"paidBy"`
}

// PublicPaymentRequestView is the redacted view served to anyone holding the
// share code. It deliberately omits the requester's id.
type PublicPaymentRequestView struct {
	ID            uuid.UUID `json:"id"`
	RequesterName string    `json:"requesterName"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// CreatedPaymentRequestView is returned after creating a payment request.
type CreatedPaymentRequestView struct {
	ID          uuid.UUID `json:"id"`
	ShareCode   string    `json:"shareCode"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ShareLink   string    `json:"shareLink"`
}

// PaymentReceipt is returned after a successful settlement, whether a direct
// payment or a payment request fulfillment.
type PaymentReceipt struct {
	TransactionID uuid.UUID `json:"transactionId"`
	TrackingCode  string    `json:"trackingCode"`
	Amount        int64     `json:"amount"`
	Receiver      string    `json:"receiver"`
	Timestamp     time.Time `json:"timestamp"`
}

// DemoUser exposes a seeded account's login credentials on the demo endpoint.
type DemoUser struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
