package cart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

type stubCartStore struct {
	completedID uuid.UUID
	completedAt time.Time
	calls       int
}

func (s *stubCartStore) FindGraphByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return &models.Cart{ID: id}, nil
}

func (s *stubCartStore) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.calls++
	s.completedID = id
	s.completedAt = at
	return nil
}

func TestServiceMarkCompletedUsesClock(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{}
	svc, err := NewService(store, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixed := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	cartID := uuid.New()
	if err := svc.MarkCompleted(context.Background(), cartID); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if store.completedID != cartID || !store.completedAt.Equal(fixed) {
		t.Fatalf("unexpected completion %s at %s", store.completedID, store.completedAt)
	}
}

func TestServiceRejectsNilCartID(t *testing.T) {
	t.Parallel()

	store := &stubCartStore{}
	svc, _ := NewService(store, nil)

	if err := svc.MarkCompleted(context.Background(), uuid.Nil); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("store should not be called")
	}
}
