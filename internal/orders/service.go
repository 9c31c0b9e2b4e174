package orders

import (
	"context"
	stdErrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
)

const orderSetCartConstraint = "ux_order_sets_cart_id"

// ErrOrderSetExists reports that another checkout already created the order
// set for the cart.
var ErrOrderSetExists = stdErrors.New("order set already exists for cart")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type linkReader interface {
	OrderIDsForOrderSet(ctx context.Context, orderSetID uuid.UUID) ([]uuid.UUID, error)
	SellerIDForOrder(ctx context.Context, orderID uuid.UUID) (uuid.UUID, error)
}

// Service owns order and order set persistence.
type Service struct {
	db    txRunner
	repo  *Repository
	links linkReader
	logg  *logger.Logger
}

// NewService builds the orders service.
func NewService(tx txRunner, repo *Repository, links linkReader, logg *logger.Logger) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if links == nil {
		return nil, fmt.Errorf("link reader required")
	}
	return &Service{db: tx, repo: repo, links: links, logg: logg}, nil
}

// WithTx runs fn in one database transaction.
func (s *Service) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithTx(ctx, fn)
}

// CreateOrders persists every draft in one batch and returns the orders in
// draft order with their assigned ids.
func (s *Service) CreateOrders(ctx context.Context, tx *gorm.DB, drafts []Draft) ([]models.Order, error) {
	if len(drafts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "no orders to create")
	}
	records := make([]models.Order, len(drafts))
	for i, draft := range drafts {
		if len(draft.Items) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "order draft has no items").
				WithDetails(map[string]any{"index": i})
		}
		records[i] = draft.toModel()
	}
	if err := s.repo.WithTx(tx).CreateOrders(ctx, records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create orders")
	}
	return records, nil
}

// CreateOrderSet persists the order set. A concurrent checkout that already
// created one for the cart surfaces as ErrOrderSetExists.
func (s *Service) CreateOrderSet(ctx context.Context, tx *gorm.DB, input CreateOrderSetInput) (*models.OrderSet, error) {
	if input.CartID == uuid.Nil || input.PaymentCollectionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "cart and payment collection ids required")
	}
	set := &models.OrderSet{
		CartID:              input.CartID,
		CustomerID:          input.CustomerID,
		SalesChannelID:      input.SalesChannelID,
		PaymentCollectionID: input.PaymentCollectionID,
	}
	if err := s.repo.WithTx(tx).CreateOrderSet(ctx, set); err != nil {
		if isOrderSetCartConflict(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, ErrOrderSetExists, "order set already exists").
				WithDetails(map[string]any{"cart_id": input.CartID.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order set")
	}
	return set, nil
}

// FindOrderSetByCartID returns the cart's order set, or nil when the cart was
// never checked out.
func (s *Service) FindOrderSetByCartID(ctx context.Context, cartID uuid.UUID) (*models.OrderSet, error) {
	set, err := s.repo.FindOrderSetByCartID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order set by cart")
	}
	return set, nil
}

// GetOrderSetDetail loads an order set with its linked orders.
func (s *Service) GetOrderSetDetail(ctx context.Context, id uuid.UUID) (*OrderSetDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order set id required")
	}
	set, err := s.repo.FindOrderSetByID(ctx, id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order set not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order set")
	}

	orderIDs, err := s.links.OrderIDsForOrderSet(ctx, set.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order set links")
	}
	records, err := s.repo.FindOrdersByIDs(ctx, orderIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders")
	}

	detail := &OrderSetDetail{
		ID:                  set.ID,
		CartID:              set.CartID,
		CustomerID:          set.CustomerID,
		SalesChannelID:      set.SalesChannelID,
		PaymentCollectionID: set.PaymentCollectionID,
		CreatedAt:           set.CreatedAt,
		Orders:              make([]OrderSummary, 0, len(records)),
	}
	for _, order := range records {
		sellerID, err := s.links.SellerIDForOrder(ctx, order.ID)
		if err != nil && !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		detail.Orders = append(detail.Orders, summarize(order, sellerID))
	}
	return detail, nil
}

// sqlite reports the column pair instead of the index name.
func isOrderSetCartConflict(err error) bool {
	return db.IsUniqueViolation(err, orderSetCartConstraint) ||
		db.IsUniqueViolation(err, "order_sets.cart_id")
}
