package sms

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type recordingPublisher struct {
	exchanges   []string
	routingKeys []string
	fail        bool
}

func (p *recordingPublisher) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	p.exchanges = append(p.exchanges, exchange)
	p.routingKeys = append(p.routingKeys, routingKey)
	if p.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func (p *recordingPublisher) Close() {}

func TestDispatchRecordsHistory(t *testing.T) {
	s := NewMockSMS(0)
	ctx := context.Background()

	if err := s.SendVerificationCode(ctx, "09123456789", "12345"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SendWelcome(ctx, "09121111111", "سارا"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := s.History("")
	if len(all) != 2 {
		t.Fatalf("expected 2 messages in history, got %d", len(all))
	}
	if all[0].Kind != KindVerification || !strings.Contains(all[0].Body, "12345") {
		t.Fatalf("unexpected first message: %+v", all[0])
	}

	byPhone := s.History("09121111111")
	if len(byPhone) != 1 || byPhone[0].Kind != KindWelcome {
		t.Fatalf("unexpected phone-filtered history: %+v", byPhone)
	}

	s.ClearHistory()
	if len(s.History("")) != 0 {
		t.Fatal("expected empty history after clear")
	}
}

func TestDispatchPublishesEvents(t *testing.T) {
	s := NewMockSMS(0)
	pub := &recordingPublisher{}
	s.SetEventPublisher(pub, "tikkie.events")

	err := s.SendPaymentNotification(context.Background(), "09123456789", PaymentNotification{
		Amount:     200000,
		SenderName: "علی احمدی",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.routingKeys) != 1 || pub.routingKeys[0] != "sms.payment_notification" {
		t.Fatalf("unexpected routing keys: %v", pub.routingKeys)
	}
	if pub.exchanges[0] != "tikkie.events" {
		t.Fatalf("unexpected exchange: %v", pub.exchanges)
	}
}

func TestPublishFailureDoesNotFailDispatch(t *testing.T) {
	s := NewMockSMS(0)
	s.SetEventPublisher(&recordingPublisher{fail: true}, "tikkie.events")

	err := s.SendPaymentRequestNotification(context.Background(), "09123456789", RequestNotification{
		Amount:        500000,
		RequesterName: "رضا کریمی",
		ShareCode:     "ABCD2345",
	})
	if err != nil {
		t.Fatalf("dispatch must swallow publish failures, got: %v", err)
	}
	if len(s.History("")) != 1 {
		t.Fatal("message should still be recorded when the broker fails")
	}
}
