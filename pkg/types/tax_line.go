package types

import "github.com/shopspring/decimal"

// TaxLine is a single tax applied to a line item or shipping method.
type TaxLine struct {
	ID          string          `json:"id,omitempty"`
	Code        string          `json:"code"`
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description,omitempty"`
	TaxRateID   *string         `json:"tax_rate_id,omitempty"`
	ProviderID  *string         `json:"provider_id,omitempty"`
}

// TaxLines is the JSON column type for tax line collections.
type TaxLines []TaxLine
