package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/internal/store"
)

func (f *fixture) createRequest(t *testing.T, requester domain.User, amount int64) *domain.CreatedPaymentRequestView {
	t.Helper()
	created, err := f.svc.CreatePaymentRequest(context.Background(), requester.ID, domain.CreatePaymentRequestPayload{
		Amount:      amount,
		Description: "سهم شام",
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	return created
}

func TestCreatePaymentRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")

	start := time.Now()
	f.svc.now = func() time.Time { return start }

	created := f.createRequest(t, requester, 750_000)
	if len(created.ShareCode) != 8 {
		t.Fatalf("expected 8-char share code, got %q", created.ShareCode)
	}
	for _, c := range created.ShareCode {
		if !strings.ContainsRune(shareCodeAlphabet, c) {
			t.Fatalf("share code %q contains ambiguous character %q", created.ShareCode, c)
		}
	}
	if created.ShareLink != "tikkie://request/"+created.ShareCode {
		t.Fatalf("unexpected share link: %q", created.ShareLink)
	}
	if !created.ExpiresAt.Equal(start.Add(7 * 24 * time.Hour)) {
		t.Fatalf("expected the default 7 day window, got %v", created.ExpiresAt)
	}

	if _, err := f.svc.CreatePaymentRequest(ctx, requester.ID, domain.CreatePaymentRequestPayload{
		Amount:      0,
		Description: "سهم شام",
	}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := f.svc.CreatePaymentRequest(ctx, requester.ID, domain.CreatePaymentRequestPayload{
		Amount:      100_000,
		Description: " x ",
	}); !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}

	// Oversized windows clamp to 30 days.
	long, err := f.svc.CreatePaymentRequest(ctx, requester.ID, domain.CreatePaymentRequestPayload{
		Amount:      100_000,
		Description: "سهم اجاره",
		ExpiryDays:  365,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if !long.ExpiresAt.Equal(start.Add(30 * 24 * time.Hour)) {
		t.Fatalf("expected clamped 30 day window, got %v", long.ExpiresAt)
	}
}

func TestGetPaymentRequestByShareCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	created := f.createRequest(t, requester, 300_000)

	// Lookup is forgiving about spacing and case.
	public, err := f.svc.GetPaymentRequestByShareCode(ctx, "  "+strings.ToLower(created.ShareCode)+" ")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if public.RequesterName != "علی احمدی" || public.Amount != 300_000 {
		t.Fatalf("unexpected public view: %+v", public)
	}

	if _, err := f.svc.GetPaymentRequestByShareCode(ctx, "ZZZZZZZZ"); !errors.Is(err, store.ErrPaymentRequestNotFound) {
		t.Fatalf("expected ErrPaymentRequestNotFound, got %v", err)
	}

	f.svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, err := f.svc.GetPaymentRequestByShareCode(ctx, created.ShareCode); !errors.Is(err, ErrRequestExpired) {
		t.Fatalf("expected ErrRequestExpired, got %v", err)
	}
}

func TestGetPaymentRequestByShareCode_PaidStaysPaidAfterWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	payer := f.seedUser(t, "09121111111", "سارا", "محمدی")
	f.seedCard(t, requester.ID, "6037991234567893", true)
	f.seedCard(t, payer.ID, luhnComplete("621986111222333"), true)

	created := f.createRequest(t, requester, 300_000)
	if _, err := f.svc.PayPaymentRequest(ctx, payer.ID, domain.PayPaymentRequestPayload{RequestID: created.ID}); err != nil {
		t.Fatalf("fulfillment failed: %v", err)
	}

	// Completion is terminal. Once paid, a lapsed window never turns the
	// request back into an expired one.
	f.svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, err := f.svc.GetPaymentRequestByShareCode(ctx, created.ShareCode)
	if !errors.Is(err, ErrRequestAlreadyPaid) {
		t.Fatalf("expected ErrRequestAlreadyPaid, got %v", err)
	}
}

func TestPayPaymentRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	payer := f.seedUser(t, "09121111111", "سارا", "محمدی")
	requesterCard := f.seedCard(t, requester.ID, "6037991234567893", true)
	payerCard := f.seedCard(t, payer.ID, luhnComplete("621986111222333"), true)

	created := f.createRequest(t, requester, 300_000)

	receipt, err := f.svc.PayPaymentRequest(ctx, payer.ID, domain.PayPaymentRequestPayload{RequestID: created.ID})
	if err != nil {
		t.Fatalf("pay failed: %v", err)
	}
	if receipt.Amount != 300_000 || receipt.Receiver != "علی احمدی" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	calls := f.gateway.calls()
	if len(calls) != 1 || calls[0].SenderCard != payerCard.CardNumber || calls[0].ReceiverCard != requesterCard.CardNumber {
		t.Fatalf("settlement routed over wrong cards: %+v", calls)
	}

	listed, err := f.svc.ListPaymentRequests(ctx, requester.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Status != domain.RequestCompleted {
		t.Fatalf("unexpected owner view: %+v", listed)
	}
	if listed[0].PaidBy == nil || *listed[0].PaidBy != "سارا محمدی" {
		t.Fatalf("paidBy must carry the payer's name: %+v", listed[0].PaidBy)
	}

	if f.notifier.paymentCount() != 1 {
		t.Fatalf("expected one settlement notification, got %d", f.notifier.paymentCount())
	}
}

func TestPayPaymentRequestAtMostOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	payer := f.seedUser(t, "09121111111", "سارا", "محمدی")
	second := f.seedUser(t, "09122222222", "رضا", "کریمی")
	f.seedCard(t, requester.ID, "6037991234567893", true)
	f.seedCard(t, payer.ID, luhnComplete("621986111222333"), true)
	f.seedCard(t, second.ID, luhnComplete("589210111222333"), true)

	created := f.createRequest(t, requester, 300_000)

	if _, err := f.svc.PayPaymentRequest(ctx, payer.ID, domain.PayPaymentRequestPayload{RequestID: created.ID}); err != nil {
		t.Fatalf("first fulfillment failed: %v", err)
	}
	_, err := f.svc.PayPaymentRequest(ctx, second.ID, domain.PayPaymentRequestPayload{RequestID: created.ID})
	if !errors.Is(err, ErrRequestAlreadyPaid) {
		t.Fatalf("expected ErrRequestAlreadyPaid, got %v", err)
	}

	snapshot, _ := f.repo.Snapshot(ctx)
	if len(snapshot.Transactions) != 1 {
		t.Fatalf("second fulfillment must not append a transaction, got %d", len(snapshot.Transactions))
	}
}

func TestPayPaymentRequestExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	payer := f.seedUser(t, "09121111111", "سارا", "محمدی")
	f.seedCard(t, requester.ID, "6037991234567893", true)
	f.seedCard(t, payer.ID, luhnComplete("621986111222333"), true)

	start := time.Now()
	f.svc.now = func() time.Time { return start }
	created := f.createRequest(t, requester, 300_000)

	f.svc.now = func() time.Time { return start.Add(8 * 24 * time.Hour) }
	_, err := f.svc.PayPaymentRequest(ctx, payer.ID, domain.PayPaymentRequestPayload{RequestID: created.ID})
	if !errors.Is(err, ErrRequestExpired) {
		t.Fatalf("expected ErrRequestExpired, got %v", err)
	}
	if len(f.gateway.calls()) != 0 {
		t.Fatal("an expired request must never reach the gateway")
	}

	// The stored record stays pending; expiry is derived at read time.
	stored, err := f.repo.FindPaymentRequestByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Status != domain.RequestPending {
		t.Fatalf("stored status flipped to %q", stored.Status)
	}
}

func TestPayPaymentRequestSelfPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	f.seedCard(t, requester.ID, "6037991234567893", true)

	created := f.createRequest(t, requester, 300_000)

	_, err := f.svc.PayPaymentRequest(ctx, requester.ID, domain.PayPaymentRequestPayload{RequestID: created.ID})
	if !errors.Is(err, ErrSelfPaymentNotAllowed) {
		t.Fatalf("expected ErrSelfPaymentNotAllowed, got %v", err)
	}
	if len(f.gateway.calls()) != 0 {
		t.Fatal("a self payment must be rejected before the gateway is called")
	}
}

func TestPayPaymentRequestDecline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	requester := f.seedUser(t, "09123456789", "علی", "احمدی")
	payer := f.seedUser(t, "09121111111", "سارا", "محمدی")
	f.seedCard(t, requester.ID, "6037991234567893", true)
	f.seedCard(t, payer.ID, luhnComplete("621986111222333"), true)

	created := f.createRequest(t, requester, 300_000)
	f.gateway.decline = true
	f.gateway.declineMessage = "خطا در اتصال به بانک"

	_, err := f.svc.PayPaymentRequest(ctx, payer.ID, domain.PayPaymentRequestPayload{RequestID: created.ID})
	var declined *GatewayDeclinedError
	if !errors.As(err, &declined) {
		t.Fatalf("expected GatewayDeclinedError, got %v", err)
	}

	stored, _ := f.repo.FindPaymentRequestByID(ctx, created.ID)
	if stored.Status != domain.RequestPending {
		t.Fatal("a declined settlement must leave the request pending")
	}
	snapshot, _ := f.repo.Snapshot(ctx)
	if len(snapshot.Transactions) != 0 {
		t.Fatal("a declined settlement must not record a transaction")
	}
}
