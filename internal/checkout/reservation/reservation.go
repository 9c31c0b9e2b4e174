package reservation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
)

// InventoryReservationRequest holds stock for one order line item.
type InventoryReservationRequest struct {
	LineItemID uuid.UUID
	VariantID  uuid.UUID
	Quantity   int
}

// InventoryReservationResult reports what happened to one request.
type InventoryReservationResult struct {
	LineItemID uuid.UUID
	VariantID  uuid.UUID
	Quantity   int
	Reserved   bool
	Reason     string
}

const (
	reasonUnmanaged       = "inventory not managed"
	reasonAlreadyReserved = "already reserved"
)

// ReserveInventory reserves every request against the sales channel inside tx.
// Any failure aborts the whole call; the caller's transaction rolls back.
func ReserveInventory(ctx context.Context, tx *gorm.DB, salesChannelID uuid.UUID, requests []InventoryReservationRequest) ([]InventoryReservationResult, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	if len(requests) == 0 {
		return nil, nil
	}
	if salesChannelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales channel id required")
	}

	variantIDs := make([]uuid.UUID, 0, len(requests))
	lineItemIDs := make([]uuid.UUID, 0, len(requests))
	seenVariant := make(map[uuid.UUID]struct{}, len(requests))
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be positive").
				WithDetails(map[string]any{"line_item_id": req.LineItemID.String()})
		}
		if _, ok := seenVariant[req.VariantID]; !ok {
			seenVariant[req.VariantID] = struct{}{}
			variantIDs = append(variantIDs, req.VariantID)
		}
		lineItemIDs = append(lineItemIDs, req.LineItemID)
	}

	variants, err := loadVariants(ctx, tx, variantIDs)
	if err != nil {
		return nil, err
	}
	reserved, err := loadReservedLineItems(ctx, tx, lineItemIDs)
	if err != nil {
		return nil, err
	}

	results := make([]InventoryReservationResult, len(requests))
	// per-variant totals, in first-seen order, for the managed requests only
	totals := make(map[uuid.UUID]int, len(variantIDs))
	order := make([]uuid.UUID, 0, len(variantIDs))
	rows := make([]models.ReservationItem, 0, len(requests))

	for i, req := range requests {
		results[i] = InventoryReservationResult{LineItemID: req.LineItemID, VariantID: req.VariantID, Quantity: req.Quantity}

		variant, ok := variants[req.VariantID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
				WithDetails(map[string]any{"variant_id": req.VariantID.String()})
		}
		if !variant.ManageInventory {
			results[i].Reason = reasonUnmanaged
			continue
		}
		if _, ok := reserved[req.LineItemID]; ok {
			results[i].Reason = reasonAlreadyReserved
			continue
		}

		if _, ok := totals[req.VariantID]; !ok {
			order = append(order, req.VariantID)
		}
		totals[req.VariantID] += req.Quantity
		rows = append(rows, models.ReservationItem{
			LineItemID:     req.LineItemID,
			VariantID:      req.VariantID,
			SalesChannelID: salesChannelID,
			Quantity:       req.Quantity,
		})
		results[i].Reserved = true
	}

	for _, variantID := range order {
		if err := holdStock(ctx, tx, salesChannelID, variants[variantID], totals[variantID]); err != nil {
			return nil, err
		}
	}
	if len(rows) > 0 {
		if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
			return nil, err
		}
	}
	return results, nil
}

// holdStock increments reserved_quantity in a single guarded update so that
// concurrent reservations cannot oversell.
func holdStock(ctx context.Context, tx *gorm.DB, salesChannelID uuid.UUID, variant models.ProductVariant, qty int) error {
	query := tx.WithContext(ctx).
		Model(&models.InventoryLevel{}).
		Where("variant_id = ? AND sales_channel_id = ?", variant.ID, salesChannelID)
	if !variant.AllowBackorder {
		query = query.Where("stocked_quantity - reserved_quantity >= ?", qty)
	}
	res := query.Update("reserved_quantity", gorm.Expr("reserved_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var level models.InventoryLevel
	err := tx.WithContext(ctx).
		Where("variant_id = ? AND sales_channel_id = ?", variant.ID, salesChannelID).
		Limit(1).
		Find(&level).Error
	if err != nil {
		return err
	}
	details := map[string]any{
		"variant_id":       variant.ID.String(),
		"sales_channel_id": salesChannelID.String(),
		"requested":        qty,
	}
	if level.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory level not found").WithDetails(details)
	}
	details["available"] = level.Available()
	return pkgerrors.New(pkgerrors.CodeNotAllowed, "insufficient inventory").WithDetails(details)
}

func loadVariants(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.ProductVariant, len(variants))
	for _, v := range variants {
		out[v.ID] = v
	}
	return out, nil
}

func loadReservedLineItems(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var existing []uuid.UUID
	err := tx.WithContext(ctx).
		Model(&models.ReservationItem{}).
		Where("line_item_id IN ?", ids).
		Pluck("line_item_id", &existing).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		out[id] = struct{}{}
	}
	return out, nil
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service runs reservations in their own transaction.
type Service struct {
	db   txRunner
	logg *logger.Logger
}

// NewService builds the reservation service.
func NewService(db txRunner, logg *logger.Logger) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &Service{db: db, logg: logg}, nil
}

// Reserve holds stock for every request or for none of them.
func (s *Service) Reserve(ctx context.Context, salesChannelID uuid.UUID, requests []InventoryReservationRequest) ([]InventoryReservationResult, error) {
	var results []InventoryReservationResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		results, err = ReserveInventory(ctx, tx, salesChannelID, requests)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		held := 0
		for _, r := range results {
			if r.Reserved {
				held++
			}
		}
		ctx = s.logg.WithFields(ctx, map[string]any{
			"sales_channel_id": salesChannelID.String(),
			"requested":        len(requests),
			"reserved":         held,
		})
		s.logg.Info(ctx, "inventory reserved")
	}
	return results, nil
}
