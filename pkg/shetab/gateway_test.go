package shetab

import (
	"context"
	"strconv"
	"testing"
)

func TestValidateCardNumber(t *testing.T) {
	g := NewMockGateway(0, 1)

	tests := []struct {
		name   string
		number string
		want   bool
	}{
		{
			name:   "valid luhn number",
			number: "6037991234567893",
			want:   true,
		},
		{
			name:   "checksum off by one",
			number: "6037991234567894",
			want:   false,
		},
		{
			name:   "accepts spaces and dashes",
			number: "6037 9912-3456 7893",
			want:   true,
		},
		{
			name:   "rejects short number",
			number: "603799123456789",
			want:   false,
		},
		{
			name:   "rejects non-digits",
			number: "603799123456789a",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.ValidateCardNumber(tt.number); got != tt.want {
				t.Fatalf("ValidateCardNumber(%q) = %v, want %v", tt.number, got, tt.want)
			}
		})
	}
}

func TestValidateCardNumberMatchesLuhnChecksum(t *testing.T) {
	g := NewMockGateway(0, 1)

	// For every generated 16-digit number, validity must agree with the raw
	// checksum. Exercise all ten check digits for a handful of prefixes.
	prefixes := []string{"603799123456789", "621986000011122", "504862999988877"}
	for _, prefix := range prefixes {
		for d := 0; d < 10; d++ {
			number := prefix + strconv.Itoa(d)
			want := luhnSum(number)%10 == 0
			if got := g.ValidateCardNumber(number); got != want {
				t.Fatalf("ValidateCardNumber(%q) = %v, want %v", number, got, want)
			}
		}
	}
}

func TestCheckDigitProducesValidNumbers(t *testing.T) {
	g := NewMockGateway(0, 1)
	partials := []string{"603799123456789", "589210111122233", "636214005500660"}
	for _, partial := range partials {
		number := partial + strconv.Itoa(CheckDigit(partial))
		if !g.ValidateCardNumber(number) {
			t.Fatalf("CheckDigit produced invalid number %q", number)
		}
	}
}

func TestResolveBank(t *testing.T) {
	g := NewMockGateway(0, 1)

	bank := g.ResolveBank("6037991234567891")
	if bank.NameEn != "Bank Melli Iran" {
		t.Fatalf("expected Bank Melli Iran for BIN 603799, got %q", bank.NameEn)
	}

	unknown := g.ResolveBank("9999991234567891")
	if unknown != UnknownBank {
		t.Fatalf("expected unknown bank placeholder, got %+v", unknown)
	}

	short := g.ResolveBank("12345")
	if short != UnknownBank {
		t.Fatalf("expected unknown bank for short input, got %+v", short)
	}
}

func TestProcessPaymentSuccess(t *testing.T) {
	g := NewMockGateway(0, 1)

	result := g.ProcessPayment(context.Background(), PaymentInput{
		SenderCard:   "6037991234567891",
		ReceiverCard: "6219861234567890",
		Amount:       200000,
		Description:  "هزینه ناهار",
	})

	if !result.Success {
		t.Fatalf("expected success with rate 1.0, got decline: %q", result.Message)
	}
	if len(result.TrackingCode) != 12 {
		t.Fatalf("expected 12-digit tracking code, got %q", result.TrackingCode)
	}
	for _, c := range result.TrackingCode {
		if c < '0' || c > '9' {
			t.Fatalf("tracking code contains non-digit: %q", result.TrackingCode)
		}
	}
	if result.Timestamp.IsZero() {
		t.Fatal("expected a timestamp on the result")
	}
}

func TestProcessPaymentDecline(t *testing.T) {
	g := NewMockGateway(0, 0)

	result := g.ProcessPayment(context.Background(), PaymentInput{
		SenderCard:   "6037991234567891",
		ReceiverCard: "6219861234567890",
		Amount:       200000,
	})

	if result.Success {
		t.Fatal("expected decline with rate 0.0")
	}
	if result.TrackingCode != "" {
		t.Fatalf("declined payment must not carry a tracking code, got %q", result.TrackingCode)
	}
	found := false
	for _, reason := range declineReasons {
		if result.Message == reason {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("decline message %q not in the fixed reason set", result.Message)
	}
}

func TestVerifyCardOwnership(t *testing.T) {
	g := NewMockGateway(0, 1)
	g.verifyDelay = 0

	tests := []struct {
		name   string
		cvv2   string
		expiry string
		want   bool
	}{
		{name: "valid three digit cvv2", cvv2: "123", expiry: "05/27", want: true},
		{name: "valid four digit cvv2", cvv2: "1234", expiry: "12/29", want: true},
		{name: "cvv2 too short", cvv2: "12", expiry: "05/27", want: false},
		{name: "cvv2 too long", cvv2: "12345", expiry: "05/27", want: false},
		{name: "malformed expiry", cvv2: "123", expiry: "2027-05", want: false},
		{name: "missing expiry", cvv2: "123", expiry: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.VerifyCardOwnership(context.Background(), "6037991234567891", tt.cvv2, tt.expiry)
			if got != tt.want {
				t.Fatalf("VerifyCardOwnership(cvv2=%q, expiry=%q) = %v, want %v", tt.cvv2, tt.expiry, got, tt.want)
			}
		})
	}
}

func TestCardBalanceRange(t *testing.T) {
	g := NewMockGateway(0, 1)
	g.verifyDelay = 0

	for i := 0; i < 20; i++ {
		balance := g.CardBalance(context.Background(), "6037991234567891")
		if balance < 1_000_000 || balance > 49_000_000 {
			t.Fatalf("balance %d outside the mock range", balance)
		}
		if balance%1_000_000 != 0 {
			t.Fatalf("balance %d is not a whole million", balance)
		}
	}
}

func TestValidateIBAN(t *testing.T) {
	g := NewMockGateway(0, 1)

	if !g.ValidateIBAN("IR062960000000100324200001") {
		t.Fatal("expected valid Iranian IBAN to pass")
	}
	if g.ValidateIBAN("DE062960000000100324200001") {
		t.Fatal("expected non-IR IBAN to fail")
	}
	if g.ValidateIBAN("IR06296000000010032420000") {
		t.Fatal("expected short IBAN to fail")
	}
}
