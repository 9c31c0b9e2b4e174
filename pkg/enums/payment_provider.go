package enums

import "fmt"

// PaymentProvider identifies the provider a payment session is routed to.
type PaymentProvider string

const (
	PaymentProviderSystemDefault PaymentProvider = "pp_system_default"
	PaymentProviderSquare        PaymentProvider = "pp_square"
)

var validPaymentProviders = []PaymentProvider{
	PaymentProviderSystemDefault,
	PaymentProviderSquare,
}

// IsValid reports whether the value is a known PaymentProvider.
func (p PaymentProvider) IsValid() bool {
	for _, candidate := range validPaymentProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentProvider converts raw input into a PaymentProvider.
func ParsePaymentProvider(value string) (PaymentProvider, error) {
	for _, candidate := range validPaymentProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment provider %q", value)
}
