package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/internal/checkout/reservation"
	"github.com/angelmondragon/marketplace-checkout/internal/links"
	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	"github.com/angelmondragon/marketplace-checkout/internal/payments"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/outbox"
)

// CheckoutData is everything the saga reads before its first write.
type CheckoutData struct {
	Cart           *models.Cart
	ProductOwners  []models.SellerProduct
	ShippingOwners []models.SellerShippingOption
	Sellers        []models.Seller
}

// QueryService answers the read-side questions of a checkout.
type QueryService interface {
	FindOrderSetByCartID(ctx context.Context, cartID uuid.UUID) (*models.OrderSet, error)
	LoadCheckoutData(ctx context.Context, cartID uuid.UUID) (*CheckoutData, error)
}

// OrderService creates orders and the order set inside one transaction.
type OrderService interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	CreateOrders(ctx context.Context, tx *gorm.DB, drafts []orders.Draft) ([]models.Order, error)
	CreateOrderSet(ctx context.Context, tx *gorm.DB, input orders.CreateOrderSetInput) (*models.OrderSet, error)
}

// PaymentService authorizes the cart's payment session.
type PaymentService interface {
	AuthorizeSession(ctx context.Context, input payments.AuthorizeInput) (*models.PaymentSession, error)
}

// LinkService stores cross-module links.
type LinkService interface {
	Create(ctx context.Context, defs []links.Definition) error
}

// InventoryService reserves stock for order line items.
type InventoryService interface {
	Reserve(ctx context.Context, salesChannelID uuid.UUID, requests []reservation.InventoryReservationRequest) ([]reservation.InventoryReservationResult, error)
}

// CartService finalizes carts.
type CartService interface {
	MarkCompleted(ctx context.Context, cartID uuid.UUID) error
}

// EventBus queues domain events for publication.
type EventBus interface {
	EmitAll(ctx context.Context, events ...outbox.DomainEvent) error
}

// Locker serializes checkouts of the same cart. The returned release func is
// always safe to call.
type Locker interface {
	Acquire(ctx context.Context, cartID uuid.UUID) (release func(), err error)
}
