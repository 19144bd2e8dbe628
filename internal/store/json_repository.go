/**
 * @description
 * This file provides the JSON snapshot implementation of the `Repository`
 * interface. The entire dataset lives in memory behind a mutex; after every
 * mutating call the full dataset is serialized and rewritten to a single file.
 *
 * @notes
 * - The whole-snapshot write is intentionally not incremental and not safe
 *   under concurrent writer processes. The deployment target is a
 *   single-process demo server.
 * - A failed snapshot write is logged and swallowed: the in-memory state is
 *   authoritative and the operation is reported as successful. This is a
 *   known durability weakness of the demo design.
 * - Verification codes are ephemeral and are persisted as an empty collection
 *   so the on-disk file always carries the same five named collections.
 *
 * @dependencies
 * - encoding/json, os, path/filepath, sync: Standard Go libraries.
 * - internal/domain: Contains the stored entity models.
 */

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tikkieiran/backend/internal/domain"
)

// JSONRepository is a concrete implementation of the Repository interface
// backed by an in-memory dataset with whole-file JSON persistence.
type JSONRepository struct {
	mu   sync.Mutex
	path string
	data domain.Dataset
}

// NewJSONRepository loads the dataset from the given file. A missing file is
// treated as an empty dataset, not an error.
func NewJSONRepository(path string) (*JSONRepository, error) {
	r := &JSONRepository{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("level=info component=store msg=\"no existing data file; starting empty\" path=%s", path)
			return r, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if err := json.Unmarshal(raw, &r.data); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	// Codes are ephemeral; whatever an old process left behind is stale.
	r.data.VerificationCodes = nil

	log.Printf("level=info component=store msg=\"loaded data file\" path=%s users=%d cards=%d transactions=%d payment_requests=%d",
		path, len(r.data.Users), len(r.data.Cards), len(r.data.Transactions), len(r.data.PaymentRequests))
	return r, nil
}

// persistLocked rewrites the whole snapshot. Callers must hold r.mu. Write
// failures are logged, not returned; the in-memory state stays authoritative.
func (r *JSONRepository) persistLocked() {
	snapshot := r.data
	snapshot.VerificationCodes = []domain.VerificationCode{}

	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Printf("level=error component=store msg=\"snapshot marshal failed\" err=%v", err)
		return
	}
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("level=error component=store msg=\"data dir create failed\" dir=%s err=%v", dir, err)
			return
		}
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		log.Printf("level=error component=store msg=\"snapshot write failed\" path=%s err=%v", r.path, err)
	}
}

// ===== Users =====

func (r *JSONRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Users = append(r.data.Users, user)
	r.persistLocked()
	return user, nil
}

func (r *JSONRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.Users {
		if r.data.Users[i].ID == id {
			u := r.data.Users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *JSONRepository) FindUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.Users {
		if r.data.Users[i].Phone == phone {
			u := r.data.Users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *JSONRepository) FindUserByNationalID(ctx context.Context, nationalID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.Users {
		if r.data.Users[i].NationalID == nationalID {
			u := r.data.Users[i]
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *JSONRepository) UpdateUser(ctx context.Context, id uuid.UUID, params UpdateUserParams) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.Users {
		if r.data.Users[i].ID != id {
			continue
		}
		if params.FirstName != nil {
			r.data.Users[i].FirstName = *params.FirstName
		}
		if params.LastName != nil {
			r.data.Users[i].LastName = *params.LastName
		}
		if params.PasswordHash != nil {
			r.data.Users[i].PasswordHash = *params.PasswordHash
		}
		r.persistLocked()
		u := r.data.Users[i]
		return &u, nil
	}
	return nil, ErrUserNotFound
}

// ===== Cards =====

func (r *JSONRepository) CreateCard(ctx context.Context, card domain.Card) (domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Cards = append(r.data.Cards, card)
	r.persistLocked()
	return card, nil
}

func (r *JSONRepository) FindCardsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cards []domain.Card
	for i := range r.data.Cards {
		if r.data.Cards[i].UserID == userID && !r.data.Cards[i].Deleted {
			cards = append(cards, r.data.Cards[i])
		}
	}
	return cards, nil
}

func (r *JSONRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.Cards {
		if r.data.Cards[i].CardNumber == cardNumber && !r.data.Cards[i].Deleted {
			c := r.data.Cards[i]
			return &c, nil
		}
	}
	return nil, ErrCardNotFound
}

func (r *JSONRepository) DeleteCard(ctx context.Context, cardID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.Cards {
		if r.data.Cards[i].ID == cardID && r.data.Cards[i].UserID == userID && !r.data.Cards[i].Deleted {
			r.data.Cards[i].Deleted = true
			r.persistLocked()
			return true, nil
		}
	}
	return false, nil
}

func (r *JSONRepository) SetPrimaryCard(ctx context.Context, cardID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := -1
	for i := range r.data.Cards {
		if r.data.Cards[i].ID == cardID && r.data.Cards[i].UserID == userID && !r.data.Cards[i].Deleted {
			target = i
			break
		}
	}
	if target == -1 {
		return ErrCardNotFound
	}

	// Demote and promote under the same lock so the primacy invariant holds
	// through a single snapshot write.
	for i := range r.data.Cards {
		if r.data.Cards[i].UserID == userID {
			r.data.Cards[i].IsPrimary = false
		}
	}
	r.data.Cards[target].IsPrimary = true
	r.persistLocked()
	return nil
}

// ===== Transactions =====

func (r *JSONRepository) CreateTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Transactions = append(r.data.Transactions, tx)
	r.persistLocked()
	return tx, nil
}

func (r *JSONRepository) FindTransactionsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var txs []domain.Transaction
	for i := range r.data.Transactions {
		t := r.data.Transactions[i]
		if t.SenderID == userID || t.ReceiverID == userID {
			txs = append(txs, t)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// ===== Payment requests =====

func (r *JSONRepository) CreatePaymentRequest(ctx context.Context, req domain.PaymentRequest) (domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.PaymentRequests = append(r.data.PaymentRequests, req)
	r.persistLocked()
	return req, nil
}

func (r *JSONRepository) FindPaymentRequestsByRequesterID(ctx context.Context, requesterID uuid.UUID) ([]domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var reqs []domain.PaymentRequest
	for i := range r.data.PaymentRequests {
		if r.data.PaymentRequests[i].RequesterID == requesterID {
			reqs = append(reqs, r.data.PaymentRequests[i])
		}
	}
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
	return reqs, nil
}

func (r *JSONRepository) FindPaymentRequestByID(ctx context.Context, id uuid.UUID) (*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.PaymentRequests {
		if r.data.PaymentRequests[i].ID == id {
			pr := r.data.PaymentRequests[i]
			return &pr, nil
		}
	}
	return nil, ErrPaymentRequestNotFound
}

func (r *JSONRepository) FindPaymentRequestByShareCode(ctx context.Context, shareCode string) (*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data.PaymentRequests {
		if r.data.PaymentRequests[i].ShareCode == shareCode {
			pr := r.data.PaymentRequests[i]
			return &pr, nil
		}
	}
	return nil, ErrPaymentRequestNotFound
}

func (r *JSONRepository) SettlePaymentRequest(ctx context.Context, requestID uuid.UUID, tx domain.Transaction, paidBy uuid.UUID, now time.Time) (*domain.PaymentRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := -1
	for i := range r.data.PaymentRequests {
		if r.data.PaymentRequests[i].ID == requestID {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, ErrPaymentRequestNotFound
	}

	// Terminal-state checks happen at write time, under the lock: two
	// concurrent fulfillments can both pass the read-side checks, but only
	// one settles.
	pr := &r.data.PaymentRequests[target]
	if pr.Status == domain.RequestCompleted {
		return nil, ErrPaymentRequestAlreadySettled
	}
	if now.After(pr.ExpiresAt) {
		return nil, ErrPaymentRequestExpired
	}

	paidAt := now
	pr.Status = domain.RequestCompleted
	pr.PaidAt = &paidAt
	pr.PaidBy = &paidBy
	r.data.Transactions = append(r.data.Transactions, tx)
	r.persistLocked()

	settled := *pr
	return &settled, nil
}

// ===== Verification codes =====

func (r *JSONRepository) CreateVerificationCode(ctx context.Context, code domain.VerificationCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.data.VerificationCodes[:0]
	for _, vc := range r.data.VerificationCodes {
		if vc.Phone != code.Phone {
			kept = append(kept, vc)
		}
	}
	r.data.VerificationCodes = append(kept, code)
	// Codes are not part of the durable snapshot; no persist here.
	return nil
}

func (r *JSONRepository) ConsumeVerificationCode(ctx context.Context, phone, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, vc := range r.data.VerificationCodes {
		if vc.Phone == phone && vc.Code == code && vc.ExpiresAt.After(now) {
			r.data.VerificationCodes = append(r.data.VerificationCodes[:i], r.data.VerificationCodes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ===== Demo hooks =====

func (r *JSONRepository) Reset(ctx context.Context, dataset domain.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = dataset
	r.persistLocked()
	return nil
}

func (r *JSONRepository) Snapshot(ctx context.Context) (domain.Dataset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := domain.Dataset{
		Users:             append([]domain.User(nil), r.data.Users...),
		Cards:             append([]domain.Card(nil), r.data.Cards...),
		Transactions:      append([]domain.Transaction(nil), r.data.Transactions...),
		PaymentRequests:   append([]domain.PaymentRequest(nil), r.data.PaymentRequests...),
		VerificationCodes: append([]domain.VerificationCode(nil), r.data.VerificationCodes...),
	}
	return snapshot, nil
}
