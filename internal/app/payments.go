/**
 * @description
 * This file implements direct card-to-card payments and the transaction
 * history. A direct payment resolves the sender's card, looks up the receiver
 * by card number, runs the gateway settlement and records exactly one
 * immutable transaction on success.
 *
 * Key features:
 * - Self transfers are rejected before the gateway is called; a decline
 *   creates no transaction at all.
 * - The receiver's SMS notification is dispatched after the record is stored
 *   and its failure never fails the payment.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/internal/store"
	"github.com/tikkieiran/backend/pkg/shetab"
	"github.com/tikkieiran/backend/pkg/sms"
)

// CreatePayment settles a direct card-to-card payment and returns the receipt.
func (s *Service) CreatePayment(ctx context.Context, senderID uuid.UUID, p domain.CreatePaymentPayload) (*domain.PaymentReceipt, error) {
	if p.Amount <= 0 || p.Amount > domain.MaxAmount {
		return nil, ErrInvalidAmount
	}

	senderCard, err := s.resolveSenderCard(ctx, senderID, p.SenderCardID)
	if err != nil {
		return nil, err
	}

	receiverCard, err := s.repo.FindCardByNumber(ctx, normalizeCardNumber(p.ReceiverCardNumber))
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrReceiverCardNotFound
		}
		return nil, fmt.Errorf("failed to look up receiver card: %w", err)
	}
	if receiverCard.UserID == senderID {
		return nil, ErrSelfTransferNotAllowed
	}

	result := s.gateway.ProcessPayment(ctx, shetab.PaymentInput{
		SenderCard:   senderCard.CardNumber,
		ReceiverCard: receiverCard.CardNumber,
		Amount:       p.Amount,
		Description:  p.Description,
	})
	if !result.Success {
		return nil, &GatewayDeclinedError{Message: result.Message}
	}

	now := s.now()
	tx, err := s.repo.CreateTransaction(ctx, domain.Transaction{
		ID:                 uuid.New(),
		SenderID:           senderID,
		ReceiverID:         receiverCard.UserID,
		SenderCardNumber:   senderCard.CardNumber,
		ReceiverCardNumber: receiverCard.CardNumber,
		Amount:             p.Amount,
		Description:        p.Description,
		TrackingCode:       result.TrackingCode,
		Status:             domain.TransactionCompleted,
		CreatedAt:          now,
		CompletedAt:        now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	log.Printf("level=info component=app msg=\"payment settled\" tx_id=%s amount=%d tracking_code=%s", tx.ID, tx.Amount, tx.TrackingCode)

	receiver, err := s.repo.FindUserByID(ctx, receiverCard.UserID)
	if err == nil {
		sender, senderErr := s.repo.FindUserByID(ctx, senderID)
		senderName := "نامشخص"
		if senderErr == nil {
			senderName = sender.FullName()
		}
		if err := s.notifier.SendPaymentNotification(ctx, receiver.Phone, sms.PaymentNotification{
			Amount:      tx.Amount,
			SenderName:  senderName,
			Description: tx.Description,
		}); err != nil {
			log.Printf("level=warn component=app msg=\"payment sms failed\" tx_id=%s err=%v", tx.ID, err)
		}
	}

	return &domain.PaymentReceipt{
		TransactionID: tx.ID,
		TrackingCode:  tx.TrackingCode,
		Amount:        tx.Amount,
		Receiver:      receiverCard.HolderName,
		Timestamp:     tx.CompletedAt,
	}, nil
}

// ListTransactions returns the caller's most recent transactions, direction
// and counterparty resolved per caller.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.TransactionView, error) {
	txs, err := s.repo.FindTransactionsByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]domain.TransactionView, 0, len(txs))
	for _, tx := range txs {
		view := domain.TransactionView{
			ID:           tx.ID,
			Amount:       tx.Amount,
			Description:  tx.Description,
			TrackingCode: tx.TrackingCode,
			Status:       tx.Status,
			CreatedAt:    tx.CreatedAt,
			CompletedAt:  tx.CompletedAt,
		}
		otherID := tx.ReceiverID
		if tx.SenderID == userID {
			view.Type = "sent"
		} else {
			view.Type = "received"
			otherID = tx.SenderID
		}
		view.OtherParty = s.displayName(ctx, otherID)
		views = append(views, view)
	}
	return views, nil
}

// resolveSenderCard picks the payer's card: the explicitly chosen one when an
// id is given, otherwise the primary card, otherwise the first active card.
func (s *Service) resolveSenderCard(ctx context.Context, userID uuid.UUID, cardID *uuid.UUID) (*domain.Card, error) {
	cards, err := s.repo.FindCardsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sender cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrNoSenderCard
	}

	if cardID != nil {
		for i := range cards {
			if cards[i].ID == *cardID {
				return &cards[i], nil
			}
		}
		return nil, store.ErrCardNotFound
	}

	for i := range cards {
		if cards[i].IsPrimary {
			return &cards[i], nil
		}
	}
	return &cards[0], nil
}

func (s *Service) displayName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return "نامشخص"
	}
	return user.FullName()
}
