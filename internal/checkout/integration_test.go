package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/internal/cart"
	"github.com/angelmondragon/marketplace-checkout/internal/checkout/reservation"
	"github.com/angelmondragon/marketplace-checkout/internal/links"
	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	"github.com/angelmondragon/marketplace-checkout/internal/payments"
	"github.com/angelmondragon/marketplace-checkout/pkg/db"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
	"github.com/angelmondragon/marketplace-checkout/pkg/metrics"
	"github.com/angelmondragon/marketplace-checkout/pkg/outbox"
)

type integrationEnv struct {
	conn    *gorm.DB
	svc     *Service
	orders  *orders.Service
	cartID  uuid.UUID
	sellerA uuid.UUID
	sellerB uuid.UUID
	channel uuid.UUID
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()
	conn := dbtest.Open(t)
	client := db.NewFromConn(conn)
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})

	query, err := NewRepository(conn)
	require.NoError(t, err)
	linkSvc, err := links.NewService(links.NewRepository(conn))
	require.NoError(t, err)
	orderSvc, err := orders.NewService(client, orders.NewRepository(conn), linkSvc, logg)
	require.NoError(t, err)
	paymentSvc, err := payments.NewService(payments.NewRepository(conn), nil, logg)
	require.NoError(t, err)
	inventorySvc, err := reservation.NewService(client, logg)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.NewRepository(conn), logg)
	require.NoError(t, err)
	events := outbox.NewService(outbox.NewRepository(conn), client, logg)

	svc, err := NewService(ServiceParams{
		Query:     query,
		Orders:    orderSvc,
		Payments:  paymentSvc,
		Links:     linkSvc,
		Inventory: inventorySvc,
		Carts:     cartSvc,
		Events:    events,
		Metrics:   metrics.NewCheckoutMetrics(prometheus.NewRegistry()),
		Logger:    logg,
	})
	require.NoError(t, err)

	env := &integrationEnv{conn: conn, svc: svc, orders: orderSvc, channel: uuid.New()}
	env.seed(t)
	return env
}

// seed stores seller A with two products and seller B with one, each with a
// shipping option, and a cart holding all three.
func (e *integrationEnv) seed(t *testing.T) {
	t.Helper()

	sellerA := models.Seller{Handle: "acme", Name: "Acme"}
	sellerB := models.Seller{Handle: "bolt", Name: "Bolt"}
	require.NoError(t, e.conn.Create(&sellerA).Error)
	require.NoError(t, e.conn.Create(&sellerB).Error)
	e.sellerA, e.sellerB = sellerA.ID, sellerB.ID

	variants := []models.ProductVariant{
		{ProductID: uuid.New(), Title: "a1"},
		{ProductID: uuid.New(), Title: "a2"},
		{ProductID: uuid.New(), Title: "b1"},
	}
	require.NoError(t, e.conn.Create(&variants).Error)
	for _, v := range variants {
		require.NoError(t, e.conn.Create(&models.InventoryLevel{
			VariantID: v.ID, SalesChannelID: e.channel, StockedQuantity: 10,
		}).Error)
	}
	require.NoError(t, e.conn.Create(&[]models.SellerProduct{
		{SellerID: sellerA.ID, ProductID: variants[0].ProductID},
		{SellerID: sellerA.ID, ProductID: variants[1].ProductID},
		{SellerID: sellerB.ID, ProductID: variants[2].ProductID},
	}).Error)

	optionA, optionB := uuid.New(), uuid.New()
	require.NoError(t, e.conn.Create(&[]models.SellerShippingOption{
		{SellerID: sellerA.ID, ShippingOptionID: optionA},
		{SellerID: sellerB.ID, ShippingOptionID: optionB},
	}).Error)

	record := models.Cart{
		SalesChannelID: e.channel,
		RegionID:       uuid.New(),
		CurrencyCode:   "usd",
		Items: []models.CartItem{
			{VariantID: variants[0].ID, Title: "a1", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
			{VariantID: variants[1].ID, Title: "a2", Quantity: 2, UnitPrice: decimal.NewFromInt(5)},
			{VariantID: variants[2].ID, Title: "b1", Quantity: 3, UnitPrice: decimal.NewFromInt(8)},
		},
		ShippingMethods: []models.CartShippingMethod{
			{ShippingOptionID: optionA, Name: "A ground", Amount: decimal.NewFromInt(4)},
			{ShippingOptionID: optionB, Name: "B ground", Amount: decimal.NewFromInt(6)},
		},
	}
	require.NoError(t, e.conn.Create(&record).Error)
	e.cartID = record.ID

	require.NoError(t, e.conn.Create(&models.PaymentCollection{
		CartID:       &record.ID,
		CurrencyCode: "usd",
		Amount:       decimal.NewFromInt(54),
		Sessions: []models.PaymentSession{{
			ProviderID:   enums.PaymentProviderSystemDefault,
			Status:       enums.PaymentSessionStatusPending,
			Amount:       decimal.NewFromInt(54),
			CurrencyCode: "usd",
		}},
	}).Error)
}

func (e *integrationEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.conn.Model(model).Count(&n).Error)
	return n
}

func TestCompletePersistsTwoSellerCheckout(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	result, err := env.svc.Complete(ctx, env.cartID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.EqualValues(t, 2, env.count(t, &models.Order{}))
	assert.EqualValues(t, 3, env.count(t, &models.OrderLineItem{}))
	assert.EqualValues(t, 2, env.count(t, &models.OrderShippingMethod{}))
	assert.EqualValues(t, 1, env.count(t, &models.OrderSet{}))
	assert.EqualValues(t, 6, env.count(t, &models.Link{}))
	assert.EqualValues(t, 3, env.count(t, &models.ReservationItem{}))
	assert.EqualValues(t, 3, env.count(t, &models.OutboxEvent{}))

	var stored models.Cart
	require.NoError(t, env.conn.First(&stored, "id = ?", env.cartID).Error)
	assert.NotNil(t, stored.CompletedAt)

	var session models.PaymentSession
	require.NoError(t, env.conn.First(&session).Error)
	assert.Equal(t, enums.PaymentSessionStatusAuthorized, session.Status)

	detail, err := env.orders.GetOrderSetDetail(ctx, result.ID)
	require.NoError(t, err)
	require.Len(t, detail.Orders, 2)
	assert.Equal(t, env.sellerA, detail.Orders[0].SellerID)
	assert.Equal(t, env.sellerB, detail.Orders[1].SellerID)
	require.Len(t, detail.Orders[0].Items, 2)
	assert.Equal(t, "a1", detail.Orders[0].Items[0].Title)
	assert.Equal(t, 1, detail.Orders[0].Items[0].Quantity)
	assert.Equal(t, "a2", detail.Orders[0].Items[1].Title)
	assert.Equal(t, 2, detail.Orders[0].Items[1].Quantity)
	require.Len(t, detail.Orders[1].Items, 1)
	assert.Equal(t, 3, detail.Orders[1].Items[0].Quantity)
}

func TestCompleteSplitsSellersInCartOrder(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	// move seller B's item to the front of the cart
	require.NoError(t, env.conn.Model(&models.CartItem{}).
		Where("cart_id = ? AND title = ?", env.cartID, "b1").
		Update("position", 0).Error)

	data, err := env.svc.query.LoadCheckoutData(ctx, env.cartID)
	require.NoError(t, err)
	require.Equal(t, "b1", data.Cart.Items[0].Title)

	result, err := env.svc.Complete(ctx, env.cartID)
	require.NoError(t, err)
	detail, err := env.orders.GetOrderSetDetail(ctx, result.ID)
	require.NoError(t, err)
	require.Len(t, detail.Orders, 2)
	assert.Equal(t, env.sellerB, detail.Orders[0].SellerID)
	assert.Equal(t, env.sellerA, detail.Orders[1].SellerID)
}

func TestCompleteSecondCallCreatesNothing(t *testing.T) {
	env := newIntegrationEnv(t)
	ctx := context.Background()

	first, err := env.svc.Complete(ctx, env.cartID)
	require.NoError(t, err)
	second, err := env.svc.Complete(ctx, env.cartID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 2, env.count(t, &models.Order{}))
	assert.EqualValues(t, 6, env.count(t, &models.Link{}))
	assert.EqualValues(t, 3, env.count(t, &models.ReservationItem{}))
}

func TestCompleteWithoutSellerShippingMethodWritesNothing(t *testing.T) {
	env := newIntegrationEnv(t)
	require.NoError(t, env.conn.
		Where("cart_id = ? AND name = ?", env.cartID, "B ground").
		Delete(&models.CartShippingMethod{}).Error)

	_, err := env.svc.Complete(context.Background(), env.cartID)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidData))

	assert.Zero(t, env.count(t, &models.Order{}))
	assert.Zero(t, env.count(t, &models.OrderSet{}))
	assert.Zero(t, env.count(t, &models.OutboxEvent{}))
}
