package links

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
)

// Repository persists cross-module links.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a link repository bound to the provided DB.
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

// CreateMany inserts links in one statement. Pairs that already exist are
// skipped. Rows keep the Position the caller gave them.
func (r *Repository) CreateMany(ctx context.Context, rows []models.Link) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "left_module"},
				{Name: "left_id"},
				{Name: "right_module"},
				{Name: "right_id"},
			},
			DoNothing: true,
		}).
		Create(&rows).Error
}

// FindRightIDs returns the ids on the right side of links anchored at (module, id).
func (r *Repository) FindRightIDs(ctx context.Context, leftModule enums.LinkModule, leftID uuid.UUID, rightModule enums.LinkModule) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("left_module = ? AND left_id = ? AND right_module = ?", leftModule, leftID, rightModule).
		Order(models.PositionOrder).
		Pluck("right_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FindLeftIDs returns the ids on the left side of links pointing at (module, id).
func (r *Repository) FindLeftIDs(ctx context.Context, rightModule enums.LinkModule, rightID uuid.UUID, leftModule enums.LinkModule) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("right_module = ? AND right_id = ? AND left_module = ?", rightModule, rightID, leftModule).
		Order(models.PositionOrder).
		Pluck("left_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
