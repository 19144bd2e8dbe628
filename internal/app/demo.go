package app

import (
	"context"
	"log"

	"github.com/tikkieiran/backend/internal/demo"
	"github.com/tikkieiran/backend/internal/domain"
)

// ResetDemoData replaces the entire dataset with freshly generated demo data
// and returns the new dataset so callers can report collection counts.
func (s *Service) ResetDemoData(ctx context.Context) (domain.Dataset, error) {
	dataset := demo.Generate(s.now())
	if err := s.repo.Reset(ctx, dataset); err != nil {
		return domain.Dataset{}, err
	}
	log.Printf("level=info component=app msg=\"demo data reset\" users=%d cards=%d transactions=%d requests=%d",
		len(dataset.Users), len(dataset.Cards), len(dataset.Transactions), len(dataset.PaymentRequests))
	return dataset, nil
}

// DemoUsers returns the seeded accounts' login credentials.
func (s *Service) DemoUsers(ctx context.Context) []domain.DemoUser {
	return demo.Credentials()
}
