package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-checkout/api/responses"
	"github.com/angelmondragon/marketplace-checkout/api/validators"
	checkoutsvc "github.com/angelmondragon/marketplace-checkout/internal/checkout"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/logger"
)

const orderSetIDHeader = "X-Order-Set-Id"

type cartCompleter interface {
	Complete(ctx context.Context, cartID uuid.UUID) (*checkoutsvc.Result, error)
}

type completeCartResponse struct {
	OrderSet orderSetRef `json:"order_set"`
}

type orderSetRef struct {
	ID uuid.UUID `json:"id"`
}

// CompleteCart places one order per seller for the cart and returns the
// order set id. Repeating the call for a completed cart returns the same id.
func CompleteCart(svc cartCompleter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		cartID, err := validators.ParseUUIDParam(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Complete(r.Context(), cartID)
		if err != nil {
			// orders exist even though a post-create step failed
			if result != nil {
				w.Header().Set(orderSetIDHeader, result.ID.String())
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(orderSetIDHeader, result.ID.String())
		responses.WriteSuccess(w, completeCartResponse{OrderSet: orderSetRef{ID: result.ID}})
	}
}
