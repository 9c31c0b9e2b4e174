package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
)

type cartStore interface {
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Service exposes the cart writes checkout relies on.
type Service struct {
	repo cartStore
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the cart service.
func NewService(repo cartStore, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &Service{
		repo: repo,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// MarkCompleted finalizes the cart so it cannot be checked out again.
func (s *Service) MarkCompleted(ctx context.Context, cartID uuid.UUID) error {
	if cartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	at := s.now()
	if err := s.repo.MarkCompleted(ctx, cartID, at); err != nil {
		return err
	}
	if s.logg != nil {
		s.logg.Debug(s.logg.WithCartID(ctx, cartID.String()), "cart marked completed")
	}
	return nil
}
