/**
 * @description
 * This package simulates the Shetab payment network without requiring real API
 * keys. It validates card numbers with the Luhn checksum, resolves issuing
 * banks from a static BIN table, and settles payments with a configurable
 * delay and success probability.
 *
 * Key features:
 * - `Gateway` is a capability interface so the settlement flow stays agnostic
 *   of which backend is wired in; `MockGateway` is the demo implementation.
 * - `ProcessPayment` never returns an error: declines are values, reported
 *   through the result's Success field, and callers branch on it.
 *
 * @dependencies
 * - math/rand, strings, time: Standard Go libraries.
 */

package shetab

import (
	"context"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"
)

// PaymentInput carries the details of one settlement attempt.
type PaymentInput struct {
	SenderCard   string
	ReceiverCard string
	Amount       int64
	Description  string
}

// PaymentResult is the terminal outcome of a settlement attempt. TrackingCode
// is set only on success; Message carries the decline reason on failure.
type PaymentResult struct {
	Success      bool      `json:"success"`
	TrackingCode string    `json:"trackingCode,omitempty"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// Gateway is the capability interface for the settlement backend.
type Gateway interface {
	ValidateCardNumber(cardNumber string) bool
	ResolveBank(cardNumber string) Bank
	ProcessPayment(ctx context.Context, in PaymentInput) PaymentResult
	VerifyCardOwnership(ctx context.Context, cardNumber, cvv2, expiry string) bool
	CardBalance(ctx context.Context, cardNumber string) int64
	ValidateIBAN(iban string) bool
}

const successMessage = "تراکنش با موفقیت انجام شد"

// declineReasons is the fixed set of plausible decline messages; one is drawn
// uniformly when the simulated outcome is a failure.
var declineReasons = []string{
	"موجودی حساب کافی نیست",
	"خطا در اتصال به بانک",
	"کارت مبدا غیرفعال است",
	"محدودیت تراکنش روزانه",
}

var (
	sixteenDigits = regexp.MustCompile(`^\d{16}$`)
	cvv2Pattern   = regexp.MustCompile(`^\d{3,4}$`)
	expiryPattern = regexp.MustCompile(`^\d{2}/\d{2}$`)
	ibanPattern   = regexp.MustCompile(`^IR\d{24}$`)
)

// MockGateway simulates the Shetab network: fixed latency, Bernoulli outcome.
type MockGateway struct {
	paymentDelay time.Duration
	verifyDelay  time.Duration
	successRate  float64
}

// NewMockGateway builds a gateway with the given settlement delay and success
// probability. The rate is clamped to [0, 1].
func NewMockGateway(paymentDelay time.Duration, successRate float64) *MockGateway {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	return &MockGateway{
		paymentDelay: paymentDelay,
		verifyDelay:  time.Second,
		successRate:  successRate,
	}
}

// ValidateCardNumber strips whitespace and dashes, requires exactly 16 digits,
// then applies the Luhn checksum.
func (g *MockGateway) ValidateCardNumber(cardNumber string) bool {
	clean := normalizeCardNumber(cardNumber)
	if !sixteenDigits.MatchString(clean) {
		return false
	}
	return luhnSum(clean)%10 == 0
}

// ResolveBank identifies the issuer from the card's leading six digits.
// Unknown BINs resolve to the generic placeholder rather than failing.
func (g *MockGateway) ResolveBank(cardNumber string) Bank {
	clean := normalizeCardNumber(cardNumber)
	if len(clean) < 6 {
		return UnknownBank
	}
	if bank, ok := BankForBIN(clean[:6]); ok {
		return bank
	}
	return UnknownBank
}

// ProcessPayment settles a payment after the simulated network delay. The
// outcome is a Bernoulli draw; once the call is issued it runs to completion.
func (g *MockGateway) ProcessPayment(ctx context.Context, in PaymentInput) PaymentResult {
	log.Printf("level=info component=shetab msg=\"processing payment\" from=%s to=%s amount=%d",
		maskCard(in.SenderCard), maskCard(in.ReceiverCard), in.Amount)

	time.Sleep(g.paymentDelay)

	if rand.Float64() < g.successRate {
		code := generateTrackingCode()
		log.Printf("level=info component=shetab outcome=success tracking_code=%s", code)
		return PaymentResult{
			Success:      true,
			TrackingCode: code,
			Message:      successMessage,
			Timestamp:    time.Now(),
		}
	}

	reason := declineReasons[rand.Intn(len(declineReasons))]
	log.Printf("level=info component=shetab outcome=declined reason=%q", reason)
	return PaymentResult{
		Success:   false,
		Message:   reason,
		Timestamp: time.Now(),
	}
}

// VerifyCardOwnership is a format-only check after a simulated delay; any
// well-formed cvv2 and MM/YY expiry passes. There is no issuer verification.
func (g *MockGateway) VerifyCardOwnership(ctx context.Context, cardNumber, cvv2, expiry string) bool {
	time.Sleep(g.verifyDelay)
	if !cvv2Pattern.MatchString(cvv2) {
		return false
	}
	return expiryPattern.MatchString(expiry)
}

// CardBalance returns a random mock balance between 1M and 50M Rials.
func (g *MockGateway) CardBalance(ctx context.Context, cardNumber string) int64 {
	time.Sleep(g.verifyDelay)
	return int64(rand.Intn(49)+1) * 1_000_000
}

// ValidateIBAN checks the Iranian IBAN shape: "IR" followed by 24 digits.
func (g *MockGateway) ValidateIBAN(iban string) bool {
	return ibanPattern.MatchString(iban)
}

func normalizeCardNumber(cardNumber string) string {
	clean := strings.ReplaceAll(cardNumber, " ", "")
	return strings.ReplaceAll(clean, "-", "")
}

// luhnSum doubles every second digit from the rightmost, subtracting 9 from
// results above 9, and sums all digits.
func luhnSum(digits string) int {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum
}

// CheckDigit computes the Luhn check digit that makes `partial` a valid card
// number once appended. Used by the demo data generator.
func CheckDigit(partial string) int {
	sum := 0
	double := true
	for i := len(partial) - 1; i >= 0; i-- {
		d := int(partial[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return (10 - sum%10) % 10
}

func generateTrackingCode() string {
	code := make([]byte, 12)
	for i := range code {
		code[i] = byte('0' + rand.Intn(10))
	}
	return string(code)
}

func maskCard(cardNumber string) string {
	if len(cardNumber) < 16 {
		return cardNumber
	}
	return cardNumber[:6] + "******" + cardNumber[12:]
}
