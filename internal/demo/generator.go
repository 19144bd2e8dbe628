/**
 * @description
 * This package generates the seed dataset for the demo: three fixed accounts
 * with known credentials, a handful of Luhn-valid cards per account, a recent
 * transaction history and a mix of pending, completed and lapsed payment
 * requests.
 *
 * Key features:
 * - The three accounts are stable (phones, national ids, names) so the mobile
 *   client's login hints always work; everything else is randomized per reset.
 * - Card numbers are built from real issuer BINs with a computed Luhn check
 *   digit, so they pass the same validation real input goes through.
 *
 * @dependencies
 * - github.com/google/uuid: Entity ids.
 * - golang.org/x/crypto/bcrypt: Hashing the shared demo password.
 * - pkg/shetab: BIN table and check digit computation.
 */

package demo

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/pkg/shetab"
)

// Password is the shared login password of every seeded account.
const Password = "demo1234"

const shareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type profile struct {
	phone      string
	nationalID string
	firstName  string
	lastName   string
}

var profiles = []profile{
	{phone: "09123456789", nationalID: "0012345678", firstName: "علی", lastName: "احمدی"},
	{phone: "09121111111", nationalID: "0011111111", firstName: "سارا", lastName: "محمدی"},
	{phone: "09122222222", nationalID: "0022222222", firstName: "رضا", lastName: "کریمی"},
}

var descriptions = []string{
	"هزینه ناهار",
	"شام رستوران",
	"سهم قبض اینترنت",
	"کرایه تاکسی",
	"خرید مشترک",
	"هدیه تولد",
	"بازپرداخت قرض",
	"سهم اجاره",
	"خرید بلیط سینما",
	"سهم سفر شمال",
}

// Credentials returns the seeded accounts' login hints for the demo endpoint.
func Credentials() []domain.DemoUser {
	users := make([]domain.DemoUser, 0, len(profiles))
	for _, p := range profiles {
		users = append(users, domain.DemoUser{
			Phone:    p.phone,
			Password: Password,
			Name:     p.firstName + " " + p.lastName,
		})
	}
	return users
}

// Generate builds a complete dataset anchored at `now`.
func Generate(now time.Time) domain.Dataset {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on an out-of-range cost; DefaultCost never is.
		panic(err)
	}

	var dataset domain.Dataset

	for _, p := range profiles {
		dataset.Users = append(dataset.Users, domain.User{
			ID:           uuid.New(),
			Phone:        p.phone,
			NationalID:   p.nationalID,
			FirstName:    p.firstName,
			LastName:     p.lastName,
			PasswordHash: string(hash),
			CreatedAt:    now.AddDate(0, 0, -(90 + rand.Intn(180))),
		})
	}

	bins := shetab.BINs()
	seen := make(map[string]bool)
	for _, user := range dataset.Users {
		count := 2 + rand.Intn(3)
		for i := 0; i < count; i++ {
			number := randomCardNumber(bins, seen)
			bank, _ := shetab.BankForBIN(number[:6])
			dataset.Cards = append(dataset.Cards, domain.Card{
				ID:         uuid.New(),
				UserID:     user.ID,
				CardNumber: number,
				BankName:   bank.Name,
				BankNameEn: bank.NameEn,
				HolderName: user.FullName(),
				IsPrimary:  i == 0,
				CreatedAt:  user.CreatedAt.AddDate(0, 0, rand.Intn(30)),
			})
		}
	}

	txCount := 20 + rand.Intn(11)
	for i := 0; i < txCount; i++ {
		sender := dataset.Users[rand.Intn(len(dataset.Users))]
		receiver := dataset.Users[rand.Intn(len(dataset.Users))]
		for receiver.ID == sender.ID {
			receiver = dataset.Users[rand.Intn(len(dataset.Users))]
		}
		at := now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour)
		dataset.Transactions = append(dataset.Transactions, domain.Transaction{
			ID:                 uuid.New(),
			SenderID:           sender.ID,
			ReceiverID:         receiver.ID,
			SenderCardNumber:   firstCardNumber(dataset.Cards, sender.ID),
			ReceiverCardNumber: firstCardNumber(dataset.Cards, receiver.ID),
			Amount:             randomAmount(),
			Description:        descriptions[rand.Intn(len(descriptions))],
			TrackingCode:       randomTrackingCode(),
			Status:             domain.TransactionCompleted,
			CreatedAt:          at,
			CompletedAt:        at,
		})
	}

	for _, user := range dataset.Users {
		count := 5 + rand.Intn(6)
		for i := 0; i < count; i++ {
			created := now.Add(-time.Duration(rand.Intn(20*24)) * time.Hour)
			req := domain.PaymentRequest{
				ID:            uuid.New(),
				RequesterID:   user.ID,
				RequesterName: user.FullName(),
				Amount:        randomAmount(),
				Description:   descriptions[rand.Intn(len(descriptions))],
				ShareCode:     randomShareCode(),
				Status:        domain.RequestPending,
				CreatedAt:     created,
				ExpiresAt:     created.AddDate(0, 0, 7),
			}
			switch rand.Intn(3) {
			case 0:
				// Settled by one of the other seeded users.
				payer := dataset.Users[rand.Intn(len(dataset.Users))]
				for payer.ID == user.ID {
					payer = dataset.Users[rand.Intn(len(dataset.Users))]
				}
				paidAt := created.Add(time.Duration(1+rand.Intn(48)) * time.Hour)
				req.Status = domain.RequestCompleted
				req.PaidAt = &paidAt
				req.PaidBy = &payer.ID
			case 1:
				// Stored pending with a lapsed window; reads derive "expired".
				req.CreatedAt = now.AddDate(0, 0, -14)
				req.ExpiresAt = now.AddDate(0, 0, -7)
			}
			dataset.PaymentRequests = append(dataset.PaymentRequests, req)
		}
	}

	return dataset
}

func randomCardNumber(bins []string, seen map[string]bool) string {
	for {
		partial := bins[rand.Intn(len(bins))]
		for i := 0; i < 9; i++ {
			partial += fmt.Sprintf("%d", rand.Intn(10))
		}
		number := partial + fmt.Sprintf("%d", shetab.CheckDigit(partial))
		if !seen[number] {
			seen[number] = true
			return number
		}
	}
}

func firstCardNumber(cards []domain.Card, userID uuid.UUID) string {
	for _, card := range cards {
		if card.UserID == userID {
			return card.CardNumber
		}
	}
	return ""
}

func randomAmount() int64 {
	// 50,000 to 5,000,000 Rials in 50,000 steps.
	return int64(1+rand.Intn(100)) * 50_000
}

func randomTrackingCode() string {
	code := make([]byte, 12)
	for i := range code {
		code[i] = byte('0' + rand.Intn(10))
	}
	return string(code)
}

func randomShareCode() string {
	code := make([]byte, 8)
	for i := range code {
		code[i] = shareCodeAlphabet[rand.Intn(len(shareCodeAlphabet))]
	}
	return string(code)
}
