package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/enums"
	"github.com/angelmondragon/marketplace-checkout/pkg/outbox/payloads"
)

func TestEmitAllStoresEveryEventInOneTransaction(t *testing.T) {
	client := dbtest.Client(t)
	repo := NewRepository(client.DB())
	svc := NewService(repo, client, nil)

	orderSetID := uuid.New()
	orderID := uuid.New()
	err := svc.EmitAll(context.Background(),
		DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Data:          payloads.OrderPlacedEvent{OrderID: orderID, OrderSetID: orderSetID},
		},
		DomainEvent{
			EventType:     enums.EventOrderSetPlaced,
			AggregateType: enums.AggregateOrderSet,
			AggregateID:   orderSetID,
			Data:          payloads.OrderSetPlacedEvent{OrderSetID: orderSetID, OrderIDs: []uuid.UUID{orderID}},
		},
	)
	require.NoError(t, err)

	var rows []models.OutboxEvent
	require.NoError(t, client.DB().Order("created_at ASC").Find(&rows).Error)
	require.Len(t, rows, 2)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(rows[0].Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)

	var data payloads.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, orderSetID, data.OrderSetID)
}

func TestEmitAllRollsBackOnInvalidEvent(t *testing.T) {
	client := dbtest.Client(t)
	svc := NewService(NewRepository(client.DB()), client, nil)

	err := svc.EmitAll(context.Background(),
		DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Data:          map[string]any{"ok": true},
		},
		DomainEvent{
			EventType:     enums.OutboxEventType("order.unknown"),
			AggregateType: enums.AggregateOrder,
			AggregateID:   uuid.New(),
			Data:          map[string]any{},
		},
	)
	require.Error(t, err)

	var count int64
	require.NoError(t, client.DB().Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepositoryPublishLifecycle(t *testing.T) {
	client := dbtest.Client(t)
	repo := NewRepository(client.DB())
	svc := NewService(repo, client, nil)
	ctx := context.Background()

	aggregateID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.EmitAll(ctx, DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   aggregateID,
			Data:          map[string]any{"n": i},
		}))
	}

	rows, err := repo.ListByAggregate(aggregateID)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	db := client.DB()
	require.NoError(t, repo.MarkPublishedTx(db, rows[0].ID))
	require.NoError(t, repo.MarkFailedTx(db, rows[1].ID, errors.New("timeout")))
	require.NoError(t, repo.MarkTerminalTx(db, rows[2].ID, errors.New("bad payload"), 5))

	pending, err := repo.FetchUnpublishedForPublish(db, 10, 5)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, rows[1].ID, pending[0].ID)
	assert.Equal(t, 1, pending[0].AttemptCount)
	require.NotNil(t, pending[0].LastError)
	assert.Equal(t, "timeout", *pending[0].LastError)
}
