/**
 * @description
 * This package simulates an Iranian SMS gateway (Kavenegar/Ghasedak style)
 * without real API keys. Messages are logged to the console, retained in an
 * in-memory history for inspection, and optionally fanned out as events to a
 * RabbitMQ topic exchange.
 *
 * Key features:
 * - `Notifier` is the boundary the settlement flow depends on; delivery is
 *   best-effort and callers never treat a dispatch failure as fatal.
 * - Four message kinds: verification code, payment notification, payment
 *   request notification, and welcome.
 *
 * @dependencies
 * - context, fmt, log, sync, time: Standard Go libraries.
 * - pkg/rabbitmq: Optional event fan-out.
 */

package sms

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tikkieiran/backend/pkg/rabbitmq"
)

// Message kinds recorded in the history and used as event routing suffixes.
const (
	KindVerification   = "verification"
	KindPayment        = "payment_notification"
	KindPaymentRequest = "payment_request"
	KindWelcome        = "welcome"
)

// Message is one dispatched SMS, kept in the mock's history.
type Message struct {
	Phone  string    `json:"phone"`
	Kind   string    `json:"kind"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
}

// PaymentNotification carries the details of a settled payment for the payee.
type PaymentNotification struct {
	Amount      int64
	SenderName  string
	Description string
}

// RequestNotification carries the details of a shareable payment request.
type RequestNotification struct {
	Amount        int64
	RequesterName string
	ShareCode     string
}

// Notifier is the boundary consumed by the settlement flow. Implementations
// deliver best-effort; the caller swallows any returned error.
type Notifier interface {
	SendVerificationCode(ctx context.Context, phone, code string) error
	SendPaymentNotification(ctx context.Context, phone string, n PaymentNotification) error
	SendPaymentRequestNotification(ctx context.Context, phone string, n RequestNotification) error
	SendWelcome(ctx context.Context, phone, firstName string) error
}

// MockSMS logs messages to the console and keeps them in memory. When an
// event publisher is attached, every message is also published to the
// configured exchange with routing key "sms.<kind>"; publish failures are
// logged and otherwise ignored.
type MockSMS struct {
	delay    time.Duration
	events   rabbitmq.Publisher
	exchange string

	mu      sync.Mutex
	history []Message
}

// NewMockSMS creates the console dispatcher with the given simulated send
// delay (capped at one second, matching the demo's snappy feel).
func NewMockSMS(delay time.Duration) *MockSMS {
	if delay > time.Second {
		delay = time.Second
	}
	return &MockSMS{delay: delay}
}

// SetEventPublisher attaches an optional AMQP fan-out for dispatched messages.
func (s *MockSMS) SetEventPublisher(p rabbitmq.Publisher, exchange string) {
	s.events = p
	s.exchange = exchange
}

func (s *MockSMS) SendVerificationCode(ctx context.Context, phone, code string) error {
	body := fmt.Sprintf("کد تایید شما: %s", code)
	return s.dispatch(ctx, phone, KindVerification, body)
}

func (s *MockSMS) SendPaymentNotification(ctx context.Context, phone string, n PaymentNotification) error {
	body := fmt.Sprintf("%s مبلغ %d ریال به شما واریز کرد. %s", n.SenderName, n.Amount, n.Description)
	return s.dispatch(ctx, phone, KindPayment, body)
}

func (s *MockSMS) SendPaymentRequestNotification(ctx context.Context, phone string, n RequestNotification) error {
	body := fmt.Sprintf("%s درخواست پرداخت %d ریال دارد. کد: %s", n.RequesterName, n.Amount, n.ShareCode)
	return s.dispatch(ctx, phone, KindPaymentRequest, body)
}

func (s *MockSMS) SendWelcome(ctx context.Context, phone, firstName string) error {
	body := fmt.Sprintf("%s عزیز، به تیکی ایران خوش آمدید!", firstName)
	return s.dispatch(ctx, phone, KindWelcome, body)
}

func (s *MockSMS) dispatch(ctx context.Context, phone, kind, body string) error {
	log.Printf("level=info component=sms kind=%s to=%s msg=%q", kind, phone, body)

	msg := Message{Phone: phone, Kind: kind, Body: body, SentAt: time.Now()}
	s.mu.Lock()
	s.history = append(s.history, msg)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	if s.events != nil {
		event := rabbitmq.NotificationEvent{Phone: phone, Kind: kind, Body: body, Timestamp: msg.SentAt}
		if err := s.events.Publish(ctx, s.exchange, "sms."+kind, event); err != nil {
			log.Printf("level=warn component=sms msg=\"event publish failed\" kind=%s err=%v", kind, err)
		}
	}
	return nil
}

// History returns the messages sent so far, optionally filtered by phone.
func (s *MockSMS) History(phone string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	if phone == "" {
		return append([]Message(nil), s.history...)
	}
	var out []Message
	for _, msg := range s.history {
		if msg.Phone == phone {
			out = append(out, msg)
		}
	}
	return out
}

// ClearHistory drops the sent-message history.
func (s *MockSMS) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
