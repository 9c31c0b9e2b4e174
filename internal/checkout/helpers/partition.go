package helpers

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

// Partition is a cart split into one order draft per seller.
// Drafts[i] belongs to SellerIDs[i].
type Partition struct {
	Drafts    []orders.Draft
	SellerIDs []uuid.UUID
	Variants  []models.ProductVariant
}

// PartitionCart buckets items and shipping methods by seller and builds one
// draft per seller, in the order sellers first appear among the items.
// Either every seller gets a draft or an INVALID_DATA error is returned.
func PartitionCart(cart *models.Cart, own Ownership) (*Partition, error) {
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "cart is required")
	}

	buckets := make(map[uuid.UUID][]models.CartItem)
	sellerOrder := make([]uuid.UUID, 0)
	variants := make([]models.ProductVariant, 0, len(cart.Items))
	seenVariant := make(map[uuid.UUID]struct{}, len(cart.Items))

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
		if _, ok := buckets[sellerID]; !ok {
			sellerOrder = append(sellerOrder, sellerID)
		}
		buckets[sellerID] = append(buckets[sellerID], item)

		if _, ok := seenVariant[item.Variant.ID]; !ok {
			seenVariant[item.Variant.ID] = struct{}{}
			variants = append(variants, *item.Variant)
		}
	}

	methods := make(map[uuid.UUID]models.CartShippingMethod, len(cart.ShippingMethods))
	for _, method := range cart.ShippingMethods {
		sellerID, ok := own.OptionSellers[method.ShippingOptionID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "shipping option is not offered by any seller").
				WithDetails(map[string]any{"shipping_option_id": method.ShippingOptionID.String()})
		}
		methods[sellerID] = method
	}

	out := &Partition{
		Drafts:    make([]orders.Draft, 0, len(sellerOrder)),
		SellerIDs: make([]uuid.UUID, 0, len(sellerOrder)),
		Variants:  variants,
	}
	for _, sellerID := range sellerOrder {
		method, ok := methods[sellerID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidData, "seller has no shipping method").
				WithDetails(map[string]any{"seller_id": sellerID.String()})
		}
		out.Drafts = append(out.Drafts, buildDraft(cart, buckets[sellerID], method))
		out.SellerIDs = append(out.SellerIDs, sellerID)
	}
	return out, nil
}

func buildDraft(cart *models.Cart, items []models.CartItem, method models.CartShippingMethod) orders.Draft {
	draft := orders.Draft{
		RegionID:        cart.RegionID,
		CustomerID:      cloneUUID(cart.CustomerID),
		SalesChannelID:  cart.SalesChannelID,
		CurrencyCode:    cart.CurrencyCode,
		Status:          enums.OrderStatusPending,
		Email:           cloneString(cart.Email),
		ShippingAddress: cart.ShippingAddress.Clone(),
		BillingAddress:  cart.BillingAddress.Clone(),
		Items:           make([]orders.DraftLineItem, len(items)),
		ShippingMethod: orders.DraftShippingMethod{
			ShippingOptionID: method.ShippingOptionID,
			Name:             method.Name,
			Description:      cloneString(method.Description),
			Amount:           method.Amount,
			IsTaxInclusive:   method.IsTaxInclusive,
			Data:             method.Data.Clone(),
			Metadata:         method.Metadata.Clone(),
			TaxLines:         PrepareTaxLines(method.TaxLines),
		},
	}
	for i, item := range items {
		draft.Items[i] = orders.DraftLineItem{
			VariantID:          item.VariantID,
			ProductID:          item.Variant.ProductID,
			Title:              item.Title,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			CompareAtUnitPrice: item.CompareAtUnitPrice,
			IsTaxInclusive:     item.IsTaxInclusive,
			TaxLines:           PrepareTaxLines(item.TaxLines),
			Metadata:           item.Metadata.Clone(),
		}
	}
	return draft
}

// PrepareTaxLines copies tax lines for a new owner. Cart-side ids are dropped
// so the order gets its own rows.
func PrepareTaxLines(lines types.TaxLines) types.TaxLines {
	if len(lines) == 0 {
		return nil
	}
	out := make(types.TaxLines, len(lines))
	for i, line := range lines {
		out[i] = types.TaxLine{
			Code:        line.Code,
			Rate:        line.Rate,
			Description: line.Description,
			TaxRateID:   cloneString(line.TaxRateID),
			ProviderID:  cloneString(line.ProviderID),
		}
	}
	return out
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
