package helpers

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

// ValidateCheckout checks that every item and shipping method belongs to a
// known seller, that each seller with items has exactly one shipping method,
// and that the cart has a session that can be authorized. It returns that session.
func ValidateCheckout(cart *models.Cart, own Ownership) (*models.PaymentSession, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "cart is required")
	}

	methodsPerSeller := make(map[uuid.UUID]int, len(cart.ShippingMethods))
	methodSellers := make([]uuid.UUID, 0, len(cart.ShippingMethods))
	for _, method := range cart.ShippingMethods {
		sellerID, ok := own.OptionSellers[method.ShippingOptionID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "shipping option is not offered by any seller").
				WithDetails(map[string]any{"shipping_option_id": method.ShippingOptionID.String()})
		}
		if methodsPerSeller[sellerID] == 0 {
			methodSellers = append(methodSellers, sellerID)
		}
		methodsPerSeller[sellerID]++
	}

	itemSellers := make(map[uuid.UUID]struct{}, len(cart.Items))
	itemSellerOrder := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "cart item has no variant").
				WithDetails(map[string]any{"line_item_id": item.ID.String()})
		}
		sellerID, ok := own.ProductSellers[item.Variant.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "product is not sold by any seller").
				WithDetails(map[string]any{"product_id": item.Variant.ProductID.String()})
		}
		if _, ok := itemSellers[sellerID]; !ok {
			itemSellers[sellerID] = struct{}{}
			itemSellerOrder = append(itemSellerOrder, sellerID)
		}
	}

	for _, sellerID := range append(append([]uuid.UUID{}, itemSellerOrder...), methodSellers...) {
		if _, ok := own.Sellers[sellerID]; !ok {
			return nil, sellerNotFound(sellerID)
		}
	}

	for _, sellerID := range itemSellerOrder {
		if methodsPerSeller[sellerID] == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "seller has no shipping method").
				WithDetails(map[string]any{"seller_id": sellerID.String()})
		}
	}
	for _, sellerID := range methodSellers {
		count := methodsPerSeller[sellerID]
		if _, ok := itemSellers[sellerID]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "shipping method for a seller without items").
				WithDetails(map[string]any{"seller_id": sellerID.String()})
		}
		if count > 1 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "seller has more than one shipping method").
				WithDetails(map[string]any{"seller_id": sellerID.String(), "count": count})
		}
	}

	session := AuthorizableSession(cart.PaymentCollection)
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotAllowed, "cart has no payment session that can be authorized")
	}
	return session, nil
}

// AuthorizableSession returns the first session in pending, requires_more or
// authorized status.
func AuthorizableSession(collection *models.PaymentCollection) *models.PaymentSession {
	if collection == nil {
		return nil
	}
	for i := range collection.Sessions {
		if collection.Sessions[i].Status.IsAuthorizable() {
			return &collection.Sessions[i]
		}
	}
	return nil
}

func sellerNotFound(sellerID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "seller not found").
		WithDetails(map[string]any{"seller_id": sellerID.String()})
}
