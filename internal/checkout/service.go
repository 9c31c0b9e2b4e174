package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	"github.com/angelmondragon/marketplace-checkout/internal/payments"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
	"github.com/angelmondragon/marketplace-checkout/pkg/metrics"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

const defaultFanOutTimeout = 20 * time.Second

// Result identifies the order set a checkout produced.
type Result struct {
	ID uuid.UUID `json:"id"`
}

// ServiceParams wires the checkout collaborators. Locker and Metrics are optional.
type ServiceParams struct {
	Query         QueryService
	Orders        OrderService
	Payments      PaymentService
	Links         LinkService
	Inventory     InventoryService
	Carts         CartService
	Events        EventBus
	Locker        Locker
	Metrics       *metrics.CheckoutMetrics
	Logger        *logger.Logger
	FanOutTimeout time.Duration
}

// Service completes multi-seller carts into one order per seller.
type Service struct {
	query         QueryService
	orders        OrderService
	payments      PaymentService
	links         LinkService
	inventory     InventoryService
	carts         CartService
	events        EventBus
	locker        Locker
	metrics       *metrics.CheckoutMetrics
	logg          *logger.Logger
	fanOutTimeout time.Duration
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Query == nil:
		return nil, fmt.Errorf("query service required")
	case params.Orders == nil:
		return nil, fmt.Errorf("order service required")
	case params.Payments == nil:
		return nil, fmt.Errorf("payment service required")
	case params.Links == nil:
		return nil, fmt.Errorf("link service required")
	case params.Inventory == nil:
		return nil, fmt.Errorf("inventory service required")
	case params.Carts == nil:
		return nil, fmt.Errorf("cart service required")
	case params.Events == nil:
		return nil, fmt.Errorf("event bus required")
	case params.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}
	timeout := params.FanOutTimeout
	if timeout <= 0 {
		timeout = defaultFanOutTimeout
	}
	return &Service{
		query:         params.Query,
		orders:        params.Orders,
		payments:      params.Payments,
		links:         params.Links,
		inventory:     params.Inventory,
		carts:         params.Carts,
		events:        params.Events,
		locker:        params.Locker,
		metrics:       params.Metrics,
		logg:          params.Logger,
		fanOutTimeout: timeout,
	}, nil
}

// Complete turns the cart into one order per seller grouped under an order
// set. Completing the same cart again returns the existing order set.
//
// When a post-create effect fails the order set still exists: the result is
// returned together with the aggregated error.
func (s *Service) Complete(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id required")
	}
	started := time.Now()
	ctx = s.logg.WithCartID(ctx, cartID.String())

	result, outcome, err := s.complete(ctx, cartID)
	s.metrics.Observe(outcome, time.Since(started))
	if err != nil {
		s.logg.Error(ctx, "checkout failed", err)
	}
	return result, err
}

func (s *Service) complete(ctx context.Context, cartID uuid.UUID) (*Result, string, error) {
	if existing, err := s.existingOrderSet(ctx, cartID); err != nil || existing != nil {
		return existing, outcomeFor(existing, err, metrics.OutcomeReplayed), err
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, cartID)
		defer release()
		if err != nil {
			return nil, metrics.OutcomeFailed, err
		}
		// another checkout may have finished between the first lookup and the lock
		if existing, err := s.existingOrderSet(ctx, cartID); err != nil || existing != nil {
			return existing, outcomeFor(existing, err, metrics.OutcomeReplayed), err
		}
	}

	data, err := s.load(ctx, cartID)
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}
	own := helpers.NewOwnership(data.ProductOwners, data.ShippingOwners, data.Sellers)

	session, err := helpers.ValidateCheckout(data.Cart, own)
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}
	s.logg.Info(ctx, "checkout validated")

	collectionID, err := s.authorize(ctx, data.Cart, session)
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}

	partition, err := helpers.PartitionCart(data.Cart, own)
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}

	// Orders and fan-out must not be abandoned half way by a caller hanging up.
	detached := context.WithoutCancel(ctx)

	created, set, err := s.place(detached, data.Cart, partition, collectionID)
	if errors.Is(err, orders.ErrOrderSetExists) {
		s.logg.Warn(ctx, "concurrent checkout created the order set first")
		existing, lookupErr := s.existingOrderSet(detached, cartID)
		if lookupErr != nil {
			return nil, metrics.OutcomeFailed, lookupErr
		}
		if existing != nil {
			return existing, metrics.OutcomeReplayed, nil
		}
	}
	if err != nil {
		return nil, metrics.OutcomeFailed, err
	}
	s.metrics.AddOrders(len(created))

	ctx = s.logg.WithOrderSetID(ctx, set.ID.String())
	detached = context.WithoutCancel(ctx)
	s.logg.Info(ctx, "orders placed")

	fanCtx, cancel := context.WithTimeout(detached, s.fanOutTimeout)
	defer cancel()
	plan := fanOutPlan{
		cart:                data.Cart,
		partition:           partition,
		orders:              created,
		orderSet:            set,
		paymentCollectionID: collectionID,
	}
	result := &Result{ID: set.ID}
	if err := s.fanOut(fanCtx, plan); err != nil {
		return result, metrics.OutcomePartial, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checkout completed with failed post-create steps").
			WithDetails(map[string]any{"order_set_id": set.ID.String()})
	}
	s.logg.Info(ctx, "checkout completed")
	return result, metrics.OutcomeCreated, nil
}

func (s *Service) existingOrderSet(ctx context.Context, cartID uuid.UUID) (*Result, error) {
	set, err := s.query.FindOrderSetByCartID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}
	s.logg.Info(s.logg.WithOrderSetID(ctx, set.ID.String()), "cart already checked out")
	return &Result{ID: set.ID}, nil
}

func (s *Service) load(ctx context.Context, cartID uuid.UUID) (*CheckoutData, error) {
	data, err := s.query.LoadCheckoutData(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if data == nil || data.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if data.Cart.CompletedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "cart is already completed")
	}
	if len(data.Cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "cart has no items")
	}
	return data, nil
}

func (s *Service) authorize(ctx context.Context, cart *models.Cart, session *models.PaymentSession) (uuid.UUID, error) {
	collectionID := cart.PaymentCollection.ID
	authorized, err := s.payments.AuthorizeSession(ctx, payments.AuthorizeInput{
		PaymentCollectionID: collectionID,
		SessionID:           session.ID,
		CartID:              cart.ID,
		Context:             types.JSONMap{"cart_id": cart.ID.String()},
	})
	if err != nil {
		return uuid.Nil, err
	}
	fields := map[string]any{
		"payment_collection_id": collectionID.String(),
		"payment_session_id":    authorized.ID.String(),
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "payment authorized")
	return collectionID, nil
}

// place creates every order and the order set in one transaction.
func (s *Service) place(ctx context.Context, cart *models.Cart, partition *helpers.Partition, collectionID uuid.UUID) ([]models.Order, *models.OrderSet, error) {
	var (
		created []models.Order
		set     *models.OrderSet
	)
	err := s.orders.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.orders.CreateOrders(ctx, tx, partition.Drafts)
		if err != nil {
			return err
		}
		if len(created) != len(partition.SellerIDs) {
			return pkgerrors.New(pkgerrors.CodeInternal, "order count does not match seller count")
		}
		set, err = s.orders.CreateOrderSet(ctx, tx, orders.CreateOrderSetInput{
			CartID:              cart.ID,
			CustomerID:          cart.CustomerID,
			SalesChannelID:      cart.SalesChannelID,
			PaymentCollectionID: collectionID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return created, set, nil
}

func outcomeFor(result *Result, err error, success string) string {
	if err != nil || result == nil {
		return metrics.OutcomeFailed
	}
	return success
}
