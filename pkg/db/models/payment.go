package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

// PaymentCollection groups the payment sessions for one cart.
type PaymentCollection struct {
	ID               uuid.UUID                     `gorm:"column:id;type:uuid;primaryKey"`
	CartID           *uuid.UUID                    `gorm:"column:cart_id;type:uuid;uniqueIndex:ux_payment_collections_cart_id"`
	CurrencyCode     string                        `gorm:"column:currency_code;type:text;not null"`
	Amount           decimal.Decimal               `gorm:"column:amount;type:numeric;not null"`
	AuthorizedAmount decimal.Decimal               `gorm:"column:authorized_amount;type:numeric;not null;default:0"`
	Status           enums.PaymentCollectionStatus `gorm:"column:status;type:text;not null;default:'not_paid'"`
	Sessions         []PaymentSession              `gorm:"foreignKey:PaymentCollectionID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time                     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                     `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PaymentCollection) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	for i := range p.Sessions {
		p.Sessions[i].Position = rankOrKeep(p.Sessions[i].Position, i)
	}
	return nil
}

// PaymentSession is one provider attempt inside a collection.
type PaymentSession struct {
	ID                  uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	PaymentCollectionID uuid.UUID                  `gorm:"column:payment_collection_id;type:uuid;not null;index"`
	ProviderID          enums.PaymentProvider      `gorm:"column:provider_id;type:text;not null"`
	Status              enums.PaymentSessionStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Amount              decimal.Decimal            `gorm:"column:amount;type:numeric;not null"`
	CurrencyCode        string                     `gorm:"column:currency_code;type:text;not null"`
	Data                types.JSONMap              `gorm:"column:data;type:jsonb"`
	Context             types.JSONMap              `gorm:"column:context;type:jsonb"`
	ProviderReference   *string                    `gorm:"column:provider_reference"`
	AuthorizedAt        *time.Time                 `gorm:"column:authorized_at"`
	Position            int                        `gorm:"column:position;not null"`
	CreatedAt           time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *PaymentSession) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
