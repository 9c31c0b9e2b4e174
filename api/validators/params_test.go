package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
)

func requestWithParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	got, err := ParseUUIDParam(requestWithParam("cartId", id.String()), "cartId")
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestParseUUIDParamRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"empty":   "",
		"garbage": "not-a-uuid",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseUUIDParam(requestWithParam("cartId", value), "cartId")
			require.Error(t, err)
			require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
			details, ok := pkgerrors.As(err).Details().(map[string]any)
			require.True(t, ok)
			require.Contains(t, details, "cartId")
		})
	}
}
