package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seller is an independent vendor on the marketplace.
type Seller struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Handle    string    `gorm:"column:handle;not null;uniqueIndex:ux_sellers_handle"`
	Name      string    `gorm:"column:name;not null"`
	Email     *string   `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Seller) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// SellerProduct records which seller owns a product.
type SellerProduct struct {
	SellerID  uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
}

// SellerShippingOption records which seller offers a shipping option.
type SellerShippingOption struct {
	SellerID         uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index"`
	ShippingOptionID uuid.UUID `gorm:"column:shipping_option_id;type:uuid;primaryKey"`
}
