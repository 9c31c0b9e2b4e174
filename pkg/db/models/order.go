package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

// Order is the seller-scoped order produced when a cart is split.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	RegionID        uuid.UUID             `gorm:"column:region_id;type:uuid;not null"`
	CustomerID      *uuid.UUID            `gorm:"column:customer_id;type:uuid"`
	SalesChannelID  uuid.UUID             `gorm:"column:sales_channel_id;type:uuid;not null"`
	CurrencyCode    string                `gorm:"column:currency_code;type:text;not null"`
	Status          enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	Email           *string               `gorm:"column:email"`
	ShippingAddress *types.Address        `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress  *types.Address        `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Items           []OrderLineItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingMethods []OrderShippingMethod `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	for i := range o.Items {
		o.Items[i].Position = rankOrKeep(o.Items[i].Position, i)
	}
	for i := range o.ShippingMethods {
		o.ShippingMethods[i].Position = rankOrKeep(o.ShippingMethods[i].Position, i)
	}
	return nil
}

// OrderLineItem snapshots a cart item inside a seller order.
type OrderLineItem struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	OrderID            uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	VariantID          *uuid.UUID       `gorm:"column:variant_id;type:uuid"`
	ProductID          *uuid.UUID       `gorm:"column:product_id;type:uuid"`
	Title              string           `gorm:"column:title;not null"`
	Quantity           int              `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal  `gorm:"column:unit_price;type:numeric;not null"`
	CompareAtUnitPrice *decimal.Decimal `gorm:"column:compare_at_unit_price;type:numeric"`
	IsTaxInclusive     bool             `gorm:"column:is_tax_inclusive;not null;default:false"`
	TaxLines           types.TaxLines   `gorm:"column:tax_lines;type:jsonb;serializer:json"`
	Metadata           types.JSONMap    `gorm:"column:metadata;type:jsonb"`
	Position           int              `gorm:"column:position;not null"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderLineItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// OrderShippingMethod snapshots the seller's shipping method on an order.
type OrderShippingMethod struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ShippingOptionID *uuid.UUID      `gorm:"column:shipping_option_id;type:uuid"`
	Name             string          `gorm:"column:name;not null"`
	Description      *string         `gorm:"column:description"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric;not null"`
	IsTaxInclusive   bool            `gorm:"column:is_tax_inclusive;not null;default:false"`
	Data             types.JSONMap   `gorm:"column:data;type:jsonb"`
	Metadata         types.JSONMap   `gorm:"column:metadata;type:jsonb"`
	TaxLines         types.TaxLines  `gorm:"column:tax_lines;type:jsonb;serializer:json"`
	Position         int             `gorm:"column:position;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (m *OrderShippingMethod) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// OrderSet groups every order produced by one cart checkout.
type OrderSet struct {
	ID                  uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	CartID              uuid.UUID  `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_order_sets_cart_id"`
	CustomerID          *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	SalesChannelID      uuid.UUID  `gorm:"column:sales_channel_id;type:uuid;not null"`
	PaymentCollectionID uuid.UUID  `gorm:"column:payment_collection_id;type:uuid;not null"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (s *OrderSet) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
