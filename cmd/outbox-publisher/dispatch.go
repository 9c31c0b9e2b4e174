package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	"github.com/angelmondragon/marketplace-checkout/pkg/outbox/registry"
)

const (
	reasonRetry        = "retry"
	reasonMaxAttempts  = "max_attempts"
	reasonNonRetryable = "non_retryable"
)

// inflight tracks one row between Publish and the awaited result.
type inflight struct {
	event    models.OutboxEvent
	resolved *registry.ResolvedEvent
	pub      publisher
	result   publishResult
	err      error
}

// processBatch locks a batch of rows, hands every message to the publisher
// before awaiting any result, then records each outcome in the same tx.
func (s *Service) processBatch(ctx context.Context) (bool, error) {
	processed := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		processed = true

		publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
		defer cancel()

		batch := make([]*inflight, 0, len(events))
		for _, event := range events {
			batch = append(batch, s.dispatch(publishCtx, event))
		}
		for _, item := range batch {
			if err := s.settle(ctx, publishCtx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	return processed, err
}

func (s *Service) dispatch(ctx context.Context, event models.OutboxEvent) *inflight {
	item := &inflight{event: event}

	resolved, err := s.registry.Resolve(event)
	if err != nil {
		item.err = err
		return item
	}
	item.resolved = resolved

	topic := resolved.Descriptor.Topic
	item.pub = s.publisherFactory(topic)
	if item.pub == nil {
		item.err = registry.NewNonRetryableError(fmt.Errorf("publisher not configured for topic %s", topic))
		return item
	}

	item.result = item.pub.Publish(ctx, &gcppubsub.Message{
		Data:        event.Payload,
		OrderingKey: resolved.OrderingKey,
		Attributes: map[string]string{
			"event_id":       resolved.Envelope.EventID,
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"aggregate_id":   event.AggregateID.String(),
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	})
	if item.result == nil {
		item.err = registry.NewNonRetryableError(fmt.Errorf("publisher returned nil for topic %s", topic))
	}
	return item
}

func (s *Service) settle(ctx, publishCtx context.Context, tx *gorm.DB, item *inflight) error {
	event := item.event
	if item.err == nil {
		if _, err := item.result.Get(publishCtx); err != nil {
			item.err = err
			// an ordering key stays paused after a failure until resumed
			if key := item.resolved.OrderingKey; key != "" {
				item.pub.ResumePublish(key)
			}
		}
	}
	fields := s.eventFields(item)

	if item.err == nil {
		if err := s.repo.MarkPublishedTx(tx, event.ID); err != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, err)
		}
		s.metrics.IncPublished(string(event.EventType))
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
		return nil
	}

	var nonRetry registry.NonRetryableError
	if errors.As(item.err, &nonRetry) {
		return s.markTerminal(ctx, tx, event, reasonNonRetryable, item.err, fields)
	}

	nextAttempt := event.AttemptCount + 1
	fields["attempt_count"] = nextAttempt
	if nextAttempt >= s.maxAttempts {
		return s.markTerminal(ctx, tx, event, reasonMaxAttempts, fmt.Errorf("max publish attempts reached: %w", item.err), fields)
	}

	warnCtx := s.logg.WithFields(ctx, fields)
	s.logg.Warn(s.logg.WithField(warnCtx, "error", item.err.Error()), "outbox publish failed")
	s.metrics.IncFailure(string(event.EventType), reasonRetry)
	if err := s.repo.MarkFailedTx(tx, event.ID, item.err); err != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, err)
	}
	return nil
}

func (s *Service) markTerminal(ctx context.Context, tx *gorm.DB, event models.OutboxEvent, reason string, cause error, fields map[string]any) error {
	fields["error_reason"] = reason
	warnCtx := s.logg.WithFields(ctx, fields)
	s.logg.Warn(s.logg.WithField(warnCtx, "error", cause.Error()), "outbox event will not be retried")
	s.metrics.IncFailure(string(event.EventType), reason)

	if err := s.repo.MarkTerminalTx(tx, event.ID, cause, s.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, err)
	}
	return nil
}

func (s *Service) eventFields(item *inflight) map[string]any {
	event := item.event
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"attempt_count":  event.AttemptCount,
	}
	if r := item.resolved; r != nil {
		fields["topic"] = r.Descriptor.Topic
		if r.Envelope.EventID != "" {
			fields["event_id"] = r.Envelope.EventID
		}
		if r.OrderingKey != "" {
			fields["ordering_key"] = r.OrderingKey
		}
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}
