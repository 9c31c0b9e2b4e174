package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"

	"github.com/angelmondragon/marketplace-checkout/pkg/db/models"
	pkgerrors "github.com/angelmondragon/marketplace-checkout/pkg/errors"
	"github.com/angelmondragon/marketplace-checkout/pkg/square"
	"github.com/angelmondragon/marketplace-checkout/pkg/types"
)

// AuthorizeRequest is what a provider sees when authorizing a session.
type AuthorizeRequest struct {
	Session *models.PaymentSession
	CartID  uuid.UUID
	Context types.JSONMap
}

// AuthorizeResponse carries the provider side of a successful authorization.
type AuthorizeResponse struct {
	Reference string
	Data      types.JSONMap
}

// Provider authorizes payment sessions for one provider id.
type Provider interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error)
}

// SystemProvider is the manual provider. Sessions authorize immediately and
// are captured out of band.
type SystemProvider struct{}

func (SystemProvider) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error) {
	return &AuthorizeResponse{Reference: req.Session.ID.String()}, nil
}

type squareAuthorizer interface {
	AuthorizePayment(ctx context.Context, params square.PaymentAuthorizeParams) (*sq.Payment, error)
}

// SquareProvider places a delayed-capture payment through Square. The session
// data must carry the tokenized card as "source_id".
type SquareProvider struct {
	client squareAuthorizer
}

// NewSquareProvider wraps the Square client.
func NewSquareProvider(client squareAuthorizer) (*SquareProvider, error) {
	if client == nil {
		return nil, fmt.Errorf("square client required")
	}
	return &SquareProvider{client: client}, nil
}

func (p *SquareProvider) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error) {
	session := req.Session
	sourceID := stringFromData(session.Data, "source_id")
	if sourceID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotAllowed, "payment session has no payment source").
			WithDetails(map[string]any{"payment_session_id": session.ID.String()})
	}
	cents, err := minorUnits(session.Amount)
	if err != nil {
		return nil, err
	}

	payment, err := p.client.AuthorizePayment(ctx, square.PaymentAuthorizeParams{
		AmountCents:    cents,
		Currency:       session.CurrencyCode,
		CustomerID:     stringFromData(session.Data, "customer_id"),
		SourceID:       sourceID,
		IdempotencyKey: "authorize-" + session.ID.String(),
		ReferenceID:    req.CartID.String(),
		Note:           "cart " + req.CartID.String(),
	})
	if err != nil {
		return nil, err
	}

	reference := ""
	if payment.GetID() != nil {
		reference = *payment.GetID()
	}
	data := session.Data.Clone()
	if data == nil {
		data = types.JSONMap{}
	}
	data["square_payment_id"] = reference
	if payment.GetStatus() != nil {
		data["square_status"] = *payment.GetStatus()
	}
	return &AuthorizeResponse{Reference: reference, Data: data}, nil
}

// minorUnits converts a two-decimal amount into the integer unit Square expects.
func minorUnits(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() || amount.IsZero() {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidData, "payment amount must be positive")
	}
	shifted := amount.Shift(2)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidData, "payment amount has sub-cent precision").
			WithDetails(map[string]any{"amount": amount.String()})
	}
	return shifted.IntPart(), nil
}

func stringFromData(data types.JSONMap, key string) string {
	if data == nil {
		return ""
	}
	value, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
