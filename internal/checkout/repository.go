package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/internal/cart"
	"github.com/angelmondragon/marketplace-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	"github.com/angelmondragon/marketplace-checkout/internal/sellers"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

// Repository is the gorm-backed QueryService.
type Repository struct {
	carts   *cart.Repository
	sellers *sellers.Repository
	orders  *orders.Repository
}

// NewRepository builds the checkout query repository.
func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &Repository{
		carts:   cart.NewRepository(db),
		sellers: sellers.NewRepository(db),
		orders:  orders.NewRepository(db),
	}, nil
}

// FindOrderSetByCartID returns nil when the cart has not been checked out.
func (r *Repository) FindOrderSetByCartID(ctx context.Context, cartID uuid.UUID) (*models.OrderSet, error) {
	set, err := r.orders.FindOrderSetByCartID(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order set by cart")
	}
	return set, nil
}

// LoadCheckoutData loads the cart graph and the ownership rows scoped to the
// products and shipping options present on it.
func (r *Repository) LoadCheckoutData(ctx context.Context, cartID uuid.UUID) (*CheckoutData, error) {
	record, err := r.carts.FindGraphByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	productOwners, err := r.sellers.FindProductOwners(ctx, helpers.CartProductIDs(record))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product owners")
	}
	shippingOwners, err := r.sellers.FindShippingOptionOwners(ctx, helpers.CartShippingOptionIDs(record))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shipping option owners")
	}
	sellerRecords, err := r.sellers.FindByIDs(ctx, helpers.ReferencedSellerIDs(productOwners, shippingOwners))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load sellers")
	}

	return &CheckoutData{
		Cart:           record,
		ProductOwners:  productOwners,
		ShippingOwners: shippingOwners,
		Sellers:        sellerRecords,
	}, nil
}
