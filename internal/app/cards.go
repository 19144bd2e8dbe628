/**
 * @description
 * This file implements card management: listing, adding, soft-deleting and
 * primary card selection. Card numbers are validated against the gateway's
 * Luhn check and the owner is verified with cvv2/expiry before a card is
 * accepted.
 *
 * Key features:
 * - A user's first card automatically becomes their primary card.
 * - Views mask the card number to "XXXXXX******XXXX"; the full number is also
 *   exposed because the demo client pre-fills transfers with it.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/tikkieiran/backend/internal/domain"
	"github.com/tikkieiran/backend/internal/store"
)

// ListCards returns the caller's active cards as client views.
func (s *Service) ListCards(ctx context.Context, userID uuid.UUID) ([]domain.CardView, error) {
	cards, err := s.repo.FindCardsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.CardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, cardView(card))
	}
	return views, nil
}

// AddCard validates, verifies and registers a new card for the caller.
func (s *Service) AddCard(ctx context.Context, userID uuid.UUID, p domain.AddCardPayload) (*domain.CardView, error) {
	number := normalizeCardNumber(p.CardNumber)
	if !s.gateway.ValidateCardNumber(number) {
		return nil, ErrInvalidCardNumber
	}

	if _, err := s.repo.FindCardByNumber(ctx, number); err == nil {
		return nil, ErrCardAlreadyRegistered
	} else if !errors.Is(err, store.ErrCardNotFound) {
		return nil, fmt.Errorf("failed to check card uniqueness: %w", err)
	}

	if !s.gateway.VerifyCardOwnership(ctx, number, p.CVV2, p.Expiry) {
		return nil, ErrCardVerificationFailed
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindCardsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing cards: %w", err)
	}

	bank := s.gateway.ResolveBank(number)
	card, err := s.repo.CreateCard(ctx, domain.Card{
		ID:         uuid.New(),
		UserID:     userID,
		CardNumber: number,
		BankName:   bank.Name,
		BankNameEn: bank.NameEn,
		HolderName: user.FullName(),
		IsPrimary:  len(existing) == 0,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	log.Printf("level=info component=app msg=\"card added\" user_id=%s bank=%s primary=%v", userID, bank.NameEn, card.IsPrimary)

	view := cardView(card)
	return &view, nil
}

// DeleteCard soft-deletes one of the caller's cards.
func (s *Service) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	deleted, err := s.repo.DeleteCard(ctx, cardID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return store.ErrCardNotFound
	}
	return nil
}

// SetPrimaryCard marks one of the caller's cards as primary, demoting the rest.
func (s *Service) SetPrimaryCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return s.repo.SetPrimaryCard(ctx, cardID, userID)
}

func cardView(card domain.Card) domain.CardView {
	return domain.CardView{
		ID:             card.ID,
		CardNumber:     maskCardNumber(card.CardNumber),
		CardNumberFull: card.CardNumber,
		BankName:       card.BankName,
		BankNameEn:     card.BankNameEn,
		HolderName:     card.HolderName,
		IsPrimary:      card.IsPrimary,
		CreatedAt:      card.CreatedAt,
	}
}

func maskCardNumber(number string) string {
	if len(number) < 16 {
		return number
	}
	return number[:6] + "******" + number[12:]
}

func normalizeCardNumber(number string) string {
	clean := strings.ReplaceAll(number, " ", "")
	return strings.ReplaceAll(clean, "-", "")
}
