/**
 * @description
 * This file implements shareable payment requests: creation with a random
 * share code, public lookup by code, the owner's listing, and settlement of a
 * request by another user.
 *
 * Key features:
 * - Expiry is lazy. Stored status never flips to expired; every read derives
 *   the effective status from expiresAt, and settlement re-checks it inside
 *   the store so a request settles at most once.
 * - Share codes use an unambiguous alphabet (no 0/O/1/I) so they survive
 *   being read aloud or retyped from a screenshot.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/internal/store"
	"github.com/tikkieiran/backend/pkg/shetab"
	"github.com/tikkieiran/backend/pkg/sms"
)

const (
	shareCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	shareCodeLength   = 8
	maxExpiryDays     = 30
)

// CreatePaymentRequest opens a new shareable request for the caller.
func (s *Service) CreatePaymentRequest(ctx context.Context, requesterID uuid.UUID, p domain.CreatePaymentRequestPayload) (*domain.CreatedPaymentRequestView, error) {
	if p.Amount <= 0 || p.Amount > domain.MaxAmount {
		return nil, ErrInvalidAmount
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Description)) < 2 {
		return nil, ErrInvalidDescription
	}

	requester, err := s.repo.FindUserByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	days := p.ExpiryDays
	if days <= 0 {
		days = s.requestExpiryDays
	}
	if days > maxExpiryDays {
		days = maxExpiryDays
	}

	now := s.now()
	req, err := s.repo.CreatePaymentRequest(ctx, domain.PaymentRequest{
		ID:            uuid.New(),
		RequesterID:   requesterID,
		RequesterName: requester.FullName(),
		Amount:        p.Amount,
		Description:   strings.TrimSpace(p.Description),
		ShareCode:     generateShareCode(),
		Status:        domain.RequestPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(time.Duration(days) * 24 * time.Hour),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	log.Printf("level=info component=app msg=\"payment request created\" request_id=%s share_code=%s amount=%d", req.ID, req.ShareCode, req.Amount)

	return &domain.CreatedPaymentRequestView{
		ID:          req.ID,
		ShareCode:   req.ShareCode,
		Amount:      req.Amount,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		ShareLink:   s.shareLinkScheme + req.ShareCode,
	}, nil
}

// ListPaymentRequests returns the caller's requests, newest first, with
// effective statuses and payer names resolved.
func (s *Service) ListPaymentRequests(ctx context.Context, requesterID uuid.UUID) ([]domain.PaymentRequestView, error) {
	reqs, err := s.repo.FindPaymentRequestsByRequesterID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]domain.PaymentRequestView, 0, len(reqs))
	for _, req := range reqs {
		view := domain.PaymentRequestView{
			ID:          req.ID,
			Amount:      req.Amount,
			Description: req.Description,
			ShareCode:   req.ShareCode,
			Status:      req.EffectiveStatus(now),
			CreatedAt:   req.CreatedAt,
			ExpiresAt:   req.ExpiresAt,
			PaidAt:      req.PaidAt,
		}
		if req.PaidBy != nil {
			name := s.displayName(ctx, *req.PaidBy)
			view.PaidBy = &name
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPaymentRequestByShareCode serves the public, redacted view of a request.
// Only pending, unexpired requests are payable: expired and already paid ones
// surface as errors in that order of precedence after not-found.
func (s *Service) GetPaymentRequestByShareCode(ctx context.Context, shareCode string) (*domain.PublicPaymentRequestView, error) {
	req, err := s.repo.FindPaymentRequestByShareCode(ctx, strings.ToUpper(strings.TrimSpace(shareCode)))
	if err != nil {
		return nil, err
	}

	switch req.EffectiveStatus(s.now()) {
	case domain.RequestExpired:
		return nil, ErrRequestExpired
	case domain.RequestCompleted:
		return nil, ErrRequestAlreadyPaid
	}

	return &domain.PublicPaymentRequestView{
		ID:            req.ID,
		RequesterName: req.RequesterName,
		Amount:        req.Amount,
		Description:   req.Description,
		CreatedAt:     req.CreatedAt,
		ExpiresAt:     req.ExpiresAt,
	}, nil
}

// PayPaymentRequest settles a pending request on behalf of the payer.
func (s *Service) PayPaymentRequest(ctx context.Context, payerID uuid.UUID, p domain.PayPaymentRequestPayload) (*domain.PaymentReceipt, error) {
	req, err := s.repo.FindPaymentRequestByID(ctx, p.RequestID)
	if err != nil {
		return nil, err
	}

	switch req.EffectiveStatus(s.now()) {
	case domain.RequestExpired:
		return nil, ErrRequestExpired
	case domain.RequestCompleted:
		return nil, ErrRequestAlreadyPaid
	}

	// Reject self payments before any gateway traffic.
	if req.RequesterID == payerID {
		return nil, ErrSelfPaymentNotAllowed
	}

	requesterCards, err := s.repo.FindCardsByUserID(ctx, req.RequesterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requester cards: %w", err)
	}
	if len(requesterCards) == 0 {
		return nil, ErrReceiverCardNotFound
	}
	receiverCard := requesterCards[0]
	for _, card := range requesterCards {
		if card.IsPrimary {
			receiverCard = card
			break
		}
	}

	payerCard, err := s.resolveSenderCard(ctx, payerID, p.SenderCardID)
	if err != nil {
		return nil, err
	}

	result := s.gateway.ProcessPayment(ctx, shetab.PaymentInput{
		SenderCard:   payerCard.CardNumber,
		ReceiverCard: receiverCard.CardNumber,
		Amount:       req.Amount,
		Description:  req.Description,
	})
	if !result.Success {
		return nil, &GatewayDeclinedError{Message: result.Message}
	}

	now := s.now()
	tx := domain.Transaction{
		ID:                 uuid.New(),
		SenderID:           payerID,
		ReceiverID:         req.RequesterID,
		SenderCardNumber:   payerCard.CardNumber,
		ReceiverCardNumber: receiverCard.CardNumber,
		Amount:             req.Amount,
		Description:        req.Description,
		TrackingCode:       result.TrackingCode,
		Status:             domain.TransactionCompleted,
		CreatedAt:          now,
		CompletedAt:        now,
	}

	settled, err := s.repo.SettlePaymentRequest(ctx, req.ID, tx, payerID, now)
	if err != nil {
		if errors.Is(err, store.ErrPaymentRequestAlreadySettled) {
			return nil, ErrRequestAlreadyPaid
		}
		if errors.Is(err, store.ErrPaymentRequestExpired) {
			return nil, ErrRequestExpired
		}
		return nil, fmt.Errorf("failed to settle payment request: %w", err)
	}
	log.Printf("level=info component=app msg=\"payment request settled\" request_id=%s payer_id=%s tracking_code=%s", settled.ID, payerID, tx.TrackingCode)

	requester, err := s.repo.FindUserByID(ctx, req.RequesterID)
	if err == nil {
		if err := s.notifier.SendPaymentNotification(ctx, requester.Phone, sms.PaymentNotification{
			Amount:      tx.Amount,
			SenderName:  s.displayName(ctx, payerID),
			Description: tx.Description,
		}); err != nil {
			log.Printf("level=warn component=app msg=\"settlement sms failed\" request_id=%s err=%v", settled.ID, err)
		}
	}

	return &domain.PaymentReceipt{
		TransactionID: tx.ID,
		TrackingCode:  tx.TrackingCode,
		Amount:        tx.Amount,
		Receiver:      req.RequesterName,
		Timestamp:     tx.CompletedAt,
	}, nil
}

func generateShareCode() string {
	code := make([]byte, shareCodeLength)
	for i := range code {
		code[i] = shareCodeAlphabet[rand.Intn(len(shareCodeAlphabet))]
	}
	return string(code)
}
