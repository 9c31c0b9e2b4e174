package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

// Draft is the per-seller order a checkout asks to create.
type Draft struct {
	RegionID        uuid.UUID
	CustomerID      *uuid.UUID
	SalesChannelID  uuid.UUID
	CurrencyCode    string
	Status          enums.OrderStatus
	Email           *string
	ShippingAddress *types.Address
	BillingAddress  *types.Address
	Items           []DraftLineItem
	ShippingMethod  DraftShippingMethod
}

// DraftLineItem is the line-item create shape derived from a cart item.
type DraftLineItem struct {
	VariantID          uuid.UUID
	ProductID          uuid.UUID
	Title              string
	Quantity           int
	UnitPrice          decimal.Decimal
	CompareAtUnitPrice *decimal.Decimal
	IsTaxInclusive     bool
	TaxLines           types.TaxLines
	Metadata           types.JSONMap
}

// DraftShippingMethod is the single shipping method on a seller order.
type DraftShippingMethod struct {
	ShippingOptionID uuid.UUID
	Name             string
	Description      *string
	Amount           decimal.Decimal
	IsTaxInclusive   bool
	Data             types.JSONMap
	Metadata         types.JSONMap
	TaxLines         types.TaxLines
}

// CreateOrderSetInput is the order set persisted once every order exists.
type CreateOrderSetInput struct {
	CartID              uuid.UUID
	CustomerID          *uuid.UUID
	SalesChannelID      uuid.UUID
	PaymentCollectionID uuid.UUID
}

// OrderSetDetail is the confirmation view of an order set.
type OrderSetDetail struct {
	ID                  uuid.UUID      `json:"id"`
	CartID              uuid.UUID      `json:"cart_id"`
	CustomerID          *uuid.UUID     `json:"customer_id,omitempty"`
	SalesChannelID      uuid.UUID      `json:"sales_channel_id"`
	PaymentCollectionID uuid.UUID      `json:"payment_collection_id"`
	CreatedAt           time.Time      `json:"created_at"`
	Orders              []OrderSummary `json:"orders"`
}

// OrderSummary describes one seller order inside an order set.
type OrderSummary struct {
	ID              uuid.UUID             `json:"id"`
	SellerID        uuid.UUID             `json:"seller_id"`
	Status          enums.OrderStatus     `json:"status"`
	CurrencyCode    string                `json:"currency_code"`
	Email           *string               `json:"email,omitempty"`
	ShippingAddress *types.Address        `json:"shipping_address,omitempty"`
	Items           []LineItemSummary     `json:"items"`
	ShippingMethods []ShippingMethodEntry `json:"shipping_methods"`
	ItemTotal       decimal.Decimal       `json:"item_total"`
	ShippingTotal   decimal.Decimal       `json:"shipping_total"`
}

// LineItemSummary is a line item as shown on the confirmation page.
type LineItemSummary struct {
	ID        uuid.UUID       `json:"id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ShippingMethodEntry is a shipping method as shown on the confirmation page.
type ShippingMethodEntry struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

func (d Draft) toModel() models.Order {
	status := d.Status
	if status == "" {
		status = enums.OrderStatusPending
	}
	order := models.Order{
		RegionID:        d.RegionID,
		CustomerID:      d.CustomerID,
		SalesChannelID:  d.SalesChannelID,
		CurrencyCode:    d.CurrencyCode,
		Status:          status,
		Email:           d.Email,
		ShippingAddress: d.ShippingAddress,
		BillingAddress:  d.BillingAddress,
		Items:           make([]models.OrderLineItem, len(d.Items)),
		ShippingMethods: []models.OrderShippingMethod{d.ShippingMethod.toModel()},
	}
	for i, item := range d.Items {
		order.Items[i] = item.toModel()
	}
	return order
}

func (i DraftLineItem) toModel() models.OrderLineItem {
	variantID := i.VariantID
	productID := i.ProductID
	return models.OrderLineItem{
		VariantID:          &variantID,
		ProductID:          &productID,
		Title:              i.Title,
		Quantity:           i.Quantity,
		UnitPrice:          i.UnitPrice,
		CompareAtUnitPrice: i.CompareAtUnitPrice,
		IsTaxInclusive:     i.IsTaxInclusive,
		TaxLines:           i.TaxLines,
		Metadata:           i.Metadata,
	}
}

func (m DraftShippingMethod) toModel() models.OrderShippingMethod {
	optionID := m.ShippingOptionID
	return models.OrderShippingMethod{
		ShippingOptionID: &optionID,
		Name:             m.Name,
		Description:      m.Description,
		Amount:           m.Amount,
		IsTaxInclusive:   m.IsTaxInclusive,
		Data:             m.Data,
		Metadata:         m.Metadata,
		TaxLines:         m.TaxLines,
	}
}

func summarize(order models.Order, sellerID uuid.UUID) OrderSummary {
	summary := OrderSummary{
		ID:              order.ID,
		SellerID:        sellerID,
		Status:          order.Status,
		CurrencyCode:    order.CurrencyCode,
		Email:           order.Email,
		ShippingAddress: order.ShippingAddress,
		Items:           make([]LineItemSummary, len(order.Items)),
		ShippingMethods: make([]ShippingMethodEntry, len(order.ShippingMethods)),
		ItemTotal:       decimal.Zero,
		ShippingTotal:   decimal.Zero,
	}
	for i, item := range order.Items {
		subtotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		summary.Items[i] = LineItemSummary{
			ID:        item.ID,
			VariantID: item.VariantID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		}
		summary.ItemTotal = summary.ItemTotal.Add(subtotal)
	}
	for i, method := range order.ShippingMethods {
		summary.ShippingMethods[i] = ShippingMethodEntry{ID: method.ID, Name: method.Name, Amount: method.Amount}
		summary.ShippingTotal = summary.ShippingTotal.Add(method.Amount)
	}
	return summary
}
