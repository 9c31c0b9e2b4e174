package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

// Cart is a buyer's multi-seller cart. Checkout only ever mutates CompletedAt.
type Cart struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID        *uuid.UUID           `gorm:"column:customer_id;type:uuid"`
	SalesChannelID    uuid.UUID            `gorm:"column:sales_channel_id;type:uuid;not null"`
	RegionID          uuid.UUID            `gorm:"column:region_id;type:uuid;not null"`
	CurrencyCode      string               `gorm:"column:currency_code;type:text;not null"`
	Email             *string              `gorm:"column:email"`
	ShippingAddress   *types.Address       `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	BillingAddress    *types.Address       `gorm:"column:billing_address;type:jsonb;serializer:json"`
	Metadata          types.JSONMap        `gorm:"column:metadata;type:jsonb"`
	CompletedAt       *time.Time           `gorm:"column:completed_at"`
	Items             []CartItem           `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ShippingMethods   []CartShippingMethod `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	PaymentCollection *PaymentCollection   `gorm:"foreignKey:CartID"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate runs before associations are saved, so items and shipping
// methods created with the cart are ranked in slice order.
func (c *Cart) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	for i := range c.Items {
		c.Items[i].Position = rankOrKeep(c.Items[i].Position, i)
	}
	for i := range c.ShippingMethods {
		c.ShippingMethods[i].Position = rankOrKeep(c.ShippingMethods[i].Position, i)
	}
	return nil
}

// CartItem is a single purchasable line on a cart.
type CartItem struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CartID             uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;index"`
	VariantID          uuid.UUID        `gorm:"column:variant_id;type:uuid;not null"`
	Variant            *ProductVariant  `gorm:"foreignKey:VariantID"`
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

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// CartShippingMethod is the shipping option the buyer picked for one seller.
type CartShippingMethod struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID           uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;index"`
	ShippingOptionID uuid.UUID       `gorm:"column:shipping_option_id;type:uuid;not null"`
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

func (m *CartShippingMethod) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// ProductVariant carries the inventory flags checkout needs.
type ProductVariant struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	SKU             *string   `gorm:"column:sku"`
	Title           string    `gorm:"column:title;not null"`
	ManageInventory bool      `gorm:"column:manage_inventory;not null;default:true"`
	AllowBackorder  bool      `gorm:"column:allow_backorder;not null;default:false"`
}

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	return nil
}
