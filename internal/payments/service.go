package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

type paymentStore interface {
	FindSession(ctx context.Context, collectionID, sessionID uuid.UUID) (*models.PaymentSession, error)
	UpdateSession(ctx context.Context, sessionID uuid.UUID, updates map[string]any) error
	UpdateCollection(ctx context.Context, collectionID uuid.UUID, updates map[string]any) error
}

// AuthorizeInput selects the session to authorize.
type AuthorizeInput struct {
	PaymentCollectionID uuid.UUID
	SessionID           uuid.UUID
	CartID              uuid.UUID
	Context             types.JSONMap
}

// Service authorizes payment sessions through their provider.
type Service struct {
	repo      paymentStore
	providers map[enums.PaymentProvider]Provider
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the payment service. Providers are keyed by provider id;
// pp_system_default is always registered.
func NewService(repo paymentStore, providers map[enums.PaymentProvider]Provider, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	registered := make(map[enums.PaymentProvider]Provider, len(providers)+1)
	registered[enums.PaymentProviderSystemDefault] = SystemProvider{}
	for id, provider := range providers {
		if provider == nil {
			continue
		}
		registered[id] = provider
	}
	return &Service{
		repo:      repo,
		providers: registered,
		logg:      logg,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// AuthorizeSession authorizes one session and marks its collection authorized.
// A session that is already authorized is returned unchanged.
func (s *Service) AuthorizeSession(ctx context.Context, input AuthorizeInput) (*models.PaymentSession, error) {
	if input.PaymentCollectionID == uuid.Nil || input.SessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment collection and session ids required")
	}
	session, err := s.repo.FindSession(ctx, input.PaymentCollectionID, input.SessionID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"payment_collection_id": input.PaymentCollectionID.String(),
		"payment_session_id":    session.ID.String(),
		"provider_id":           session.ProviderID,
	}
	ctx = s.withFields(ctx, fields)

	if session.Status == enums.PaymentSessionStatusAuthorized {
		s.info(ctx, "payment session already authorized")
		return session, nil
	}
	if !session.Status.IsAuthorizable() {
		return nil, pkgerrors.New(pkgerrors.CodeNotAllowed, "payment session cannot be authorized").
			WithDetails(map[string]any{"status": session.Status})
	}

	provider, ok := s.providers[session.ProviderID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotAllowed, "payment provider not available").
			WithDetails(map[string]any{"provider_id": session.ProviderID})
	}

	resp, err := provider.Authorize(ctx, AuthorizeRequest{
		Session: session,
		CartID:  input.CartID,
		Context: input.Context,
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotAllowed) {
			if markErr := s.repo.UpdateSession(ctx, session.ID, map[string]any{
				"status":  enums.PaymentSessionStatusError,
				"context": input.Context,
			}); markErr != nil {
				s.error(ctx, "failed to record declined payment session", markErr)
			}
		}
		return nil, err
	}

	authorizedAt := s.now()
	updates := map[string]any{
		"status":        enums.PaymentSessionStatusAuthorized,
		"authorized_at": authorizedAt,
		"context":       input.Context,
	}
	if resp.Reference != "" {
		updates["provider_reference"] = resp.Reference
		session.ProviderReference = &resp.Reference
	}
	if resp.Data != nil {
		updates["data"] = resp.Data
		session.Data = resp.Data
	}
	if err := s.repo.UpdateSession(ctx, session.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment session")
	}
	if err := s.repo.UpdateCollection(ctx, input.PaymentCollectionID, map[string]any{
		"status":            enums.PaymentCollectionStatusAuthorized,
		"authorized_amount": session.Amount,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment collection")
	}

	session.Status = enums.PaymentSessionStatusAuthorized
	session.AuthorizedAt = &authorizedAt
	session.Context = input.Context
	s.info(ctx, "payment session authorized")
	return session, nil
}

func (s *Service) withFields(ctx context.Context, fields map[string]any) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithFields(ctx, fields)
}

func (s *Service) info(ctx context.Context, msg string) {
	if s.logg != nil {
		s.logg.Info(ctx, msg)
	}
}

func (s *Service) error(ctx context.Context, msg string, err error) {
	if s.logg != nil {
		s.logg.Error(ctx, msg, err)
	}
}
