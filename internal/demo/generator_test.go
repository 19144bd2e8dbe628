package demo

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/pkg/shetab"
)

func TestGenerateSeedAccounts(t *testing.T) {
	dataset := Generate(time.Now())

	if len(dataset.Users) != 3 {
		t.Fatalf("expected 3 seeded users, got %d", len(dataset.Users))
	}

	byPhone := make(map[string]domain.User)
	for _, u := range dataset.Users {
		byPhone[u.Phone] = u
	}
	for _, cred := range Credentials() {
		user, ok := byPhone[cred.Phone]
		if !ok {
			t.Fatalf("credential phone %s missing from dataset", cred.Phone)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cred.Password)); err != nil {
			t.Fatalf("password %q does not match hash for %s: %v", cred.Password, cred.Phone, err)
		}
	}

	if len(dataset.VerificationCodes) != 0 {
		t.Fatal("seed dataset must not contain verification codes")
	}
}

func TestGenerateCardsAreValidAndPrimaried(t *testing.T) {
	dataset := Generate(time.Now())
	gateway := shetab.NewMockGateway(0, 1)

	perUser := make(map[string]int)
	primaries := make(map[string]int)
	seen := make(map[string]bool)
	for _, card := range dataset.Cards {
		if !gateway.ValidateCardNumber(card.CardNumber) {
			t.Fatalf("generated card %s fails checksum validation", card.CardNumber)
		}
		if _, ok := shetab.BankForBIN(card.CardNumber[:6]); !ok {
			t.Fatalf("generated card %s has unknown BIN", card.CardNumber)
		}
		if seen[card.CardNumber] {
			t.Fatalf("duplicate card number %s", card.CardNumber)
		}
		seen[card.CardNumber] = true
		perUser[card.UserID.String()]++
		if card.IsPrimary {
			primaries[card.UserID.String()]++
		}
	}

	for _, user := range dataset.Users {
		id := user.ID.String()
		if perUser[id] < 2 || perUser[id] > 4 {
			t.Fatalf("user %s has %d cards, want 2..4", user.Phone, perUser[id])
		}
		if primaries[id] != 1 {
			t.Fatalf("user %s has %d primary cards, want exactly 1", user.Phone, primaries[id])
		}
	}
}

func TestGenerateTransactionsAndRequests(t *testing.T) {
	now := time.Now()
	dataset := Generate(now)

	if len(dataset.Transactions) < 20 || len(dataset.Transactions) > 30 {
		t.Fatalf("expected 20..30 transactions, got %d", len(dataset.Transactions))
	}
	for _, tx := range dataset.Transactions {
		if tx.SenderID == tx.ReceiverID {
			t.Fatalf("transaction %s is a self transfer", tx.ID)
		}
		if tx.Status != domain.TransactionCompleted {
			t.Fatalf("transaction %s has status %q", tx.ID, tx.Status)
		}
		if len(tx.TrackingCode) != 12 {
			t.Fatalf("transaction %s has tracking code %q", tx.ID, tx.TrackingCode)
		}
	}

	for _, req := range dataset.PaymentRequests {
		if req.Status == domain.RequestCompleted {
			if req.PaidAt == nil || req.PaidBy == nil {
				t.Fatalf("completed request %s is missing paidAt/paidBy", req.ID)
			}
			if *req.PaidBy == req.RequesterID {
				t.Fatalf("request %s was paid by its own requester", req.ID)
			}
		}
		if req.Status == domain.RequestExpired {
			t.Fatalf("request %s stored a derived status", req.ID)
		}
		if len(req.ShareCode) != 8 {
			t.Fatalf("request %s has share code %q", req.ID, req.ShareCode)
		}
	}
	if len(dataset.PaymentRequests) < 15 {
		t.Fatalf("expected at least 5 requests per user, got %d total", len(dataset.PaymentRequests))
	}
}
