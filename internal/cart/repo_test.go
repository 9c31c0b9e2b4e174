package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

func seedCart(t *testing.T, repo *Repository) *models.Cart {
	t.Helper()

	variant := models.ProductVariant{ProductID: uuid.New(), Title: "Blue / M", ManageInventory: true}
	require.NoError(t, repo.db.Create(&variant).Error)

	cartRecord := models.Cart{
		SalesChannelID: uuid.New(),
		RegionID:       uuid.New(),
		CurrencyCode:   "usd",
		ShippingAddress: &types.Address{
			FirstName:   "Ada",
			Address1:    "1 Loop Rd",
			City:        "Tulsa",
			CountryCode: "us",
		},
		Items: []models.CartItem{
			{VariantID: variant.ID, Title: "Shirt", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
		},
		ShippingMethods: []models.CartShippingMethod{
			{ShippingOptionID: uuid.New(), Name: "Ground", Amount: decimal.NewFromInt(5)},
		},
	}
	require.NoError(t, repo.db.Create(&cartRecord).Error)

	collection := models.PaymentCollection{
		CartID:       &cartRecord.ID,
		CurrencyCode: "usd",
		Amount:       decimal.NewFromInt(45),
		Status:       enums.PaymentCollectionStatusNotPaid,
		Sessions: []models.PaymentSession{
			{
				ProviderID:   enums.PaymentProviderSystemDefault,
				Status:       enums.PaymentSessionStatusPending,
				Amount:       decimal.NewFromInt(45),
				CurrencyCode: "usd",
			},
		},
	}
	require.NoError(t, repo.db.Create(&collection).Error)
	return &cartRecord
}

func TestFindGraphByIDLoadsAssociations(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	seeded := seedCart(t, repo)

	got, err := repo.FindGraphByID(context.Background(), seeded.ID)
	require.NoError(t, err)

	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Variant)
	assert.True(t, got.Items[0].Variant.ManageInventory)
	require.Len(t, got.ShippingMethods, 1)
	assert.True(t, got.ShippingMethods[0].Amount.Equal(decimal.NewFromInt(5)))
	require.NotNil(t, got.PaymentCollection)
	require.Len(t, got.PaymentCollection.Sessions, 1)
	assert.Equal(t, enums.PaymentSessionStatusPending, got.PaymentCollection.Sessions[0].Status)
	require.NotNil(t, got.ShippingAddress)
	assert.Equal(t, "Tulsa", got.ShippingAddress.City)
	assert.Nil(t, got.CompletedAt)
}

func TestFindGraphByIDMissingCartIsNotFound(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.FindGraphByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestMarkCompletedKeepsFirstTimestamp(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	seeded := seedCart(t, repo)
	ctx := context.Background()

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkCompleted(ctx, seeded.ID, first))
	require.NoError(t, repo.MarkCompleted(ctx, seeded.ID, first.Add(time.Hour)))

	got, err := repo.FindGraphByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(first))
}

func TestMarkCompletedMissingCart(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	err := repo.MarkCompleted(context.Background(), uuid.New(), time.Now())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestFindGraphByIDKeepsInsertionOrder(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	variant := models.ProductVariant{ProductID: uuid.New(), Title: "Default"}
	require.NoError(t, repo.db.Create(&variant).Error)

	titles := []string{"f", "b", "h", "a", "e", "c", "g", "d"}
	record := models.Cart{SalesChannelID: uuid.New(), RegionID: uuid.New(), CurrencyCode: "usd"}
	for _, title := range titles {
		record.Items = append(record.Items, models.CartItem{
			VariantID: variant.ID, Title: title, Quantity: 1, UnitPrice: decimal.NewFromInt(1),
		})
		record.ShippingMethods = append(record.ShippingMethods, models.CartShippingMethod{
			ShippingOptionID: uuid.New(), Name: title, Amount: decimal.NewFromInt(1),
		})
	}
	require.NoError(t, repo.db.Create(&record).Error)

	got, err := repo.FindGraphByID(context.Background(), record.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, len(titles))
	require.Len(t, got.ShippingMethods, len(titles))
	for i, title := range titles {
		assert.Equal(t, title, got.Items[i].Title)
		assert.Equal(t, i+1, got.Items[i].Position)
		assert.Equal(t, title, got.ShippingMethods[i].Name)
	}
}
