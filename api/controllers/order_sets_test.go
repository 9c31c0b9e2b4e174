package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-checkout/internal/orders"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

type stubOrderSetReader struct {
	detail *orders.OrderSetDetail
	err    error
}

func (s stubOrderSetReader) GetOrderSetDetail(ctx context.Context, id uuid.UUID) (*orders.OrderSetDetail, error) {
	return s.detail, s.err
}

func serveOrderSet(svc orderSetReader, id string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/store/order-sets/{id}", GetOrderSet(svc, nil))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/store/order-sets/"+id, nil))
	return resp
}

func TestGetOrderSetReturnsDetail(t *testing.T) {
	t.Parallel()

	setID := uuid.New()
	sellerID := uuid.New()
	detail := &orders.OrderSetDetail{
		ID:     setID,
		CartID: uuid.New(),
		Orders: []orders.OrderSummary{{ID: uuid.New(), SellerID: sellerID, CurrencyCode: "usd"}},
	}

	resp := serveOrderSet(stubOrderSetReader{detail: detail}, setID.String())
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Data struct {
			OrderSet orders.OrderSetDetail `json:"order_set"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, setID, body.Data.OrderSet.ID)
	require.Len(t, body.Data.OrderSet.Orders, 1)
	require.Equal(t, sellerID, body.Data.OrderSet.Orders[0].SellerID)
}

func TestGetOrderSetNotFound(t *testing.T) {
	t.Parallel()

	resp := serveOrderSet(stubOrderSetReader{err: pkgerrors.New(pkgerrors.CodeNotFound, "order set not found")}, uuid.NewString())
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetOrderSetInvalidID(t *testing.T) {
	t.Parallel()

	resp := serveOrderSet(stubOrderSetReader{}, "123")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
