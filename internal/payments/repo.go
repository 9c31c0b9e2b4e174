package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

// Repository persists payment collections and their sessions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repository bound to the provided DB.
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

// FindSession loads a session scoped to its collection.
func (r *Repository) FindSession(ctx context.Context, collectionID, sessionID uuid.UUID) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND payment_collection_id = ?", sessionID, collectionID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment session not found").
				WithDetails(map[string]any{"payment_session_id": sessionID.String()})
		}
		return nil, err
	}
	return &session, nil
}

// UpdateSession writes the provided column updates to a session.
func (r *Repository) UpdateSession(ctx context.Context, sessionID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("id = ?", sessionID).
		Updates(updates).Error
}

// UpdateCollection writes the provided column updates to a collection.
func (r *Repository) UpdateCollection(ctx context.Context, collectionID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentCollection{}).
		Where("id = ?", collectionID).
		Updates(updates).Error
}
