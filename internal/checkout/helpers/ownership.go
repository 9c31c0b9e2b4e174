package helpers

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
)

// Ownership indexes which seller owns each product and shipping option on a cart.
type Ownership struct {
	ProductSellers map[uuid.UUID]uuid.UUID
	OptionSellers  map[uuid.UUID]uuid.UUID
	Sellers        map[uuid.UUID]models.Seller
}

// NewOwnership builds the lookup maps from the ownership rows and seller records.
func NewOwnership(products []models.SellerProduct, options []models.SellerShippingOption, sellers []models.Seller) Ownership {
	own := Ownership{
		ProductSellers: make(map[uuid.UUID]uuid.UUID, len(products)),
		OptionSellers:  make(map[uuid.UUID]uuid.UUID, len(options)),
		Sellers:        make(map[uuid.UUID]models.Seller, len(sellers)),
	}
	for _, row := range products {
		own.ProductSellers[row.ProductID] = row.SellerID
	}
	for _, row := range options {
		own.OptionSellers[row.ShippingOptionID] = row.SellerID
	}
	for _, seller := range sellers {
		own.Sellers[seller.ID] = seller
	}
	return own
}

// ReferencedSellerIDs lists every seller id named by an ownership row, deduplicated.
func ReferencedSellerIDs(products []models.SellerProduct, options []models.SellerShippingOption) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(products)+len(options))
	ids := make([]uuid.UUID, 0, len(products)+len(options))
	add := func(id uuid.UUID) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, row := range products {
		add(row.SellerID)
	}
	for _, row := range options {
		add(row.SellerID)
	}
	return ids
}

// CartProductIDs returns the distinct product ids behind the cart's items.
func CartProductIDs(cart *models.Cart) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(cart.Items))
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Variant == nil {
			continue
		}
		if _, ok := seen[item.Variant.ProductID]; ok {
			continue
		}
		seen[item.Variant.ProductID] = struct{}{}
		ids = append(ids, item.Variant.ProductID)
	}
	return ids
}

// CartShippingOptionIDs returns the distinct shipping option ids on the cart.
func CartShippingOptionIDs(cart *models.Cart) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(cart.ShippingMethods))
	ids := make([]uuid.UUID, 0, len(cart.ShippingMethods))
	for _, method := range cart.ShippingMethods {
		if _, ok := seen[method.ShippingOptionID]; ok {
			continue
		}
		seen[method.ShippingOptionID] = struct{}{}
		ids = append(ids, method.ShippingOptionID)
	}
	return ids
}
