package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
)

// Repository persists orders and order sets.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
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

// CreateOrders inserts the orders with their line items and shipping methods.
// Ids are assigned in place, so callers keep the input order.
func (r *Repository) CreateOrders(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&orders).Error
}

// CreateOrderSet inserts the order set row.
func (r *Repository) CreateOrderSet(ctx context.Context, set *models.OrderSet) error {
	return r.db.WithContext(ctx).Create(set).Error
}

// FindOrderSetByCartID returns nil without error when the cart has no order set.
func (r *Repository) FindOrderSetByCartID(ctx context.Context, cartID uuid.UUID) (*models.OrderSet, error) {
	var set models.OrderSet
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Limit(1).
		Find(&set).Error
	if err != nil {
		return nil, err
	}
	if set.ID == uuid.Nil {
		return nil, nil
	}
	return &set, nil
}

// FindOrderSetByID loads an order set.
func (r *Repository) FindOrderSetByID(ctx context.Context, id uuid.UUID) (*models.OrderSet, error) {
	var set models.OrderSet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&set).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

// FindOrdersByIDs loads orders with items and shipping methods, in the order of ids.
func (r *Repository) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order(models.PositionOrder) }).
		Preload("ShippingMethods", func(db *gorm.DB) *gorm.DB { return db.Order(models.PositionOrder) }).
		Where("id IN ?", ids).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Order, len(found))
	for _, order := range found {
		byID[order.ID] = order
	}
	ordered := make([]models.Order, 0, len(found))
	for _, id := range ids {
		if order, ok := byID[id]; ok {
			ordered = append(ordered, order)
		}
	}
	return ordered, nil
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
