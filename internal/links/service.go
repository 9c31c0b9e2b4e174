package links

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

// Definition names one side-to-side relation between two module records.
type Definition struct {
	LeftModule  enums.LinkModule
	LeftID      uuid.UUID
	RightModule enums.LinkModule
	RightID     uuid.UUID
}

type linkStore interface {
	CreateMany(ctx context.Context, rows []models.Link) error
	FindRightIDs(ctx context.Context, leftModule enums.LinkModule, leftID uuid.UUID, rightModule enums.LinkModule) ([]uuid.UUID, error)
	FindLeftIDs(ctx context.Context, rightModule enums.LinkModule, rightID uuid.UUID, leftModule enums.LinkModule) ([]uuid.UUID, error)
}

// Service creates and resolves links between module records.
type Service struct {
	repo linkStore
}

// NewService builds the link service.
func NewService(repo linkStore) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("link repository required")
	}
	return &Service{repo: repo}, nil
}

// Create stores every definition in a single bulk insert. Lookups return ids
// in the order the definitions were given.
func (s *Service) Create(ctx context.Context, defs []Definition) error {
	if len(defs) == 0 {
		return nil
	}
	rows := make([]models.Link, len(defs))
	for i, def := range defs {
		if !def.LeftModule.IsValid() || !def.RightModule.IsValid() {
			return pkgerrors.New(pkgerrors.CodeInvalidData, "unknown link module").
				WithDetails(map[string]any{"left": def.LeftModule, "right": def.RightModule})
		}
		if def.LeftID == uuid.Nil || def.RightID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeInvalidData, "link ids required").
				WithDetails(map[string]any{"left": def.LeftModule, "right": def.RightModule})
		}
		rows[i] = models.Link{
			LeftModule:  def.LeftModule,
			LeftID:      def.LeftID,
			RightModule: def.RightModule,
			RightID:     def.RightID,
			Position:    i + 1,
		}
	}
	if err := s.repo.CreateMany(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create links")
	}
	return nil
}

// OrderIDsForOrderSet resolves the orders linked to an order set.
func (s *Service) OrderIDsForOrderSet(ctx context.Context, orderSetID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.FindRightIDs(ctx, enums.LinkModuleOrderSet, orderSetID, enums.LinkModuleOrder)
}

// SellerIDForOrder resolves the seller that owns an order.
func (s *Service) SellerIDForOrder(ctx context.Context, orderID uuid.UUID) (uuid.UUID, error) {
	ids, err := s.repo.FindLeftIDs(ctx, enums.LinkModuleOrder, orderID, enums.LinkModuleSeller)
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller link not found").
			WithDetails(map[string]any{"order_id": orderID.String()})
	}
	return ids[0], nil
}
