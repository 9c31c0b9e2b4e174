package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryLevel tracks stock for a variant in one sales channel.
type InventoryLevel struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VariantID        uuid.UUID `gorm:"column:variant_id;type:uuid;not null;uniqueIndex:ux_inventory_levels_variant_channel,priority:1"`
	SalesChannelID   uuid.UUID `gorm:"column:sales_channel_id;type:uuid;not null;uniqueIndex:ux_inventory_levels_variant_channel,priority:2"`
	StockedQuantity  int       `gorm:"column:stocked_quantity;not null;default:0"`
	ReservedQuantity int       `gorm:"column:reserved_quantity;not null;default:0"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *InventoryLevel) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

// Available returns the quantity that can still be reserved.
func (l InventoryLevel) Available() int {
	return l.StockedQuantity - l.ReservedQuantity
}

// ReservationItem holds stock against an order line item.
type ReservationItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	LineItemID     uuid.UUID `gorm:"column:line_item_id;type:uuid;not null;uniqueIndex:ux_reservation_items_line_item"`
	VariantID      uuid.UUID `gorm:"column:variant_id;type:uuid;not null;index"`
	SalesChannelID uuid.UUID `gorm:"column:sales_channel_id;type:uuid;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (r *ReservationItem) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
