package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/marketplace-checkout/internal/checkout/helpers"
	"github.com/angelmondragon/marketplace-checkout/internal/checkout/reservation"
	"github.com/angelmondragon/marketplace-checkout/internal/links"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	"github.com/angelmondragon/marketplace-checkout/pkg/outbox"
	"github.com/angelmondragon/marketplace-checkout/pkg/outbox/payloads"
)

type fanOutPlan struct {
	cart                *models.Cart
	partition           *helpers.Partition
	orders              []models.Order
	orderSet            *models.OrderSet
	paymentCollectionID uuid.UUID
}

// fanOut runs the post-create effects concurrently. Each effect runs to
// completion regardless of the others; nothing is rolled back.
func (s *Service) fanOut(ctx context.Context, plan fanOutPlan) error {
	effects := []struct {
		name string
		run  func(context.Context, fanOutPlan) error
	}{
		{name: "link", run: s.linkOrders},
		{name: "reserve_inventory", run: s.reserveInventory},
		{name: "complete_cart", run: s.completeCart},
		{name: "emit_events", run: s.emitEvents},
	}

	// no WithContext: one failure must not cancel its siblings. Wait only
	// reports the first error, so every result is kept and combined in
	// effect order.
	var group errgroup.Group
	errs := make([]error, len(effects))
	for i, effect := range effects {
		group.Go(func() error {
			err := effect.run(ctx, plan)
			if err != nil {
				s.logg.Error(s.logg.WithField(ctx, "step", effect.name), "checkout post-create step failed", err)
				errs[i] = fmt.Errorf("%s: %w", effect.name, err)
			}
			return errs[i]
		})
	}
	if err := group.Wait(); err == nil {
		return nil
	}
	return multierr.Combine(errs...)
}

// linkOrders links each order to its seller, the order set and the payment collection.
func (s *Service) linkOrders(ctx context.Context, plan fanOutPlan) error {
	defs := make([]links.Definition, 0, len(plan.orders)*3)
	for i, order := range plan.orders {
		defs = append(defs,
			links.Definition{
				LeftModule:  enums.LinkModuleSeller,
				LeftID:      plan.partition.SellerIDs[i],
				RightModule: enums.LinkModuleOrder,
				RightID:     order.ID,
			},
			links.Definition{
				LeftModule:  enums.LinkModuleOrderSet,
				LeftID:      plan.orderSet.ID,
				RightModule: enums.LinkModuleOrder,
				RightID:     order.ID,
			},
			links.Definition{
				LeftModule:  enums.LinkModuleOrder,
				LeftID:      order.ID,
				RightModule: enums.LinkModulePaymentCollection,
				RightID:     plan.paymentCollectionID,
			},
		)
	}
	return s.links.Create(ctx, defs)
}

// reserveInventory holds stock for every persisted line item whose variant
// manages inventory, in a single call.
func (s *Service) reserveInventory(ctx context.Context, plan fanOutPlan) error {
	managed := make(map[uuid.UUID]bool, len(plan.partition.Variants))
	for _, variant := range plan.partition.Variants {
		managed[variant.ID] = variant.ManageInventory
	}

	var requests []reservation.InventoryReservationRequest
	for _, order := range plan.orders {
		for _, item := range order.Items {
			if item.VariantID == nil || !managed[*item.VariantID] {
				continue
			}
			requests = append(requests, reservation.InventoryReservationRequest{
				LineItemID: item.ID,
				VariantID:  *item.VariantID,
				Quantity:   item.Quantity,
			})
		}
	}
	if len(requests) == 0 {
		return nil
	}
	_, err := s.inventory.Reserve(ctx, plan.cart.SalesChannelID, requests)
	return err
}

func (s *Service) completeCart(ctx context.Context, plan fanOutPlan) error {
	return s.carts.MarkCompleted(ctx, plan.cart.ID)
}

// emitEvents queues one order.placed per order and one order_set.placed.
func (s *Service) emitEvents(ctx context.Context, plan fanOutPlan) error {
	events := make([]outbox.DomainEvent, 0, len(plan.orders)+1)
	orderIDs := make([]uuid.UUID, len(plan.orders))
	for i, order := range plan.orders {
		orderIDs[i] = order.ID
		events = append(events, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderPlacedEvent{
				OrderID:             order.ID,
				OrderSetID:          plan.orderSet.ID,
				CartID:              plan.cart.ID,
				SellerID:            plan.partition.SellerIDs[i],
				CustomerID:          order.CustomerID,
				SalesChannelID:      order.SalesChannelID,
				PaymentCollectionID: plan.paymentCollectionID,
				CurrencyCode:        order.CurrencyCode,
				ItemCount:           len(order.Items),
			},
		})
	}
	events = append(events, outbox.DomainEvent{
		EventType:     enums.EventOrderSetPlaced,
		AggregateType: enums.AggregateOrderSet,
		AggregateID:   plan.orderSet.ID,
		Data: payloads.OrderSetPlacedEvent{
			OrderSetID:          plan.orderSet.ID,
			CartID:              plan.cart.ID,
			CustomerID:          plan.orderSet.CustomerID,
			PaymentCollectionID: plan.paymentCollectionID,
			OrderIDs:            orderIDs,
			SellerIDs:           append([]uuid.UUID(nil), plan.partition.SellerIDs...),
		},
	})
	return s.events.EmitAll(ctx, events...)
}
