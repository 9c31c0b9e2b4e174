package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

// Repository exposes persistence operations for carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindGraphByID loads the cart with items, variants, shipping methods and the
// payment collection with its sessions.
func (r *Repository) FindGraphByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order(models.PositionOrder) }).
		Preload("Items.Variant").
		Preload("ShippingMethods", func(db *gorm.DB) *gorm.DB { return db.Order(models.PositionOrder) }).
		Preload("PaymentCollection").
		Preload("PaymentCollection.Sessions", func(db *gorm.DB) *gorm.DB { return db.Order(models.PositionOrder) }).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found").
				WithDetails(map[string]any{"cart_id": id.String()})
		}
		return nil, err
	}
	return &record, nil
}

// MarkCompleted stamps completed_at. A cart that is already completed keeps
// its original timestamp.
func (r *Repository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND completed_at IS NULL", id).
		Update("completed_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found").
			WithDetails(map[string]any{"cart_id": id.String()})
	}
	return nil
}
