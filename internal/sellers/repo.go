package sellers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
)

// Repository reads seller records and the ownership rows linking sellers to
// products and shipping options.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a seller repository bound to the provided DB.
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

// FindProductOwners returns the ownership rows for the given product ids.
func (r *Repository) FindProductOwners(ctx context.Context, productIDs []uuid.UUID) ([]models.SellerProduct, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var rows []models.SellerProduct
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindShippingOptionOwners returns the ownership rows for the given shipping option ids.
func (r *Repository) FindShippingOptionOwners(ctx context.Context, optionIDs []uuid.UUID) ([]models.SellerShippingOption, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	var rows []models.SellerShippingOption
	if err := r.db.WithContext(ctx).
		Where("shipping_option_id IN ?", optionIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByIDs loads seller records. Missing ids are simply absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Seller, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sellers []models.Seller
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("handle ASC").
		Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}
