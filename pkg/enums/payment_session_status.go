package enums

import "fmt"

// PaymentSessionStatus mirrors the provider-facing state of a payment session.
type PaymentSessionStatus string

const (
	PaymentSessionStatusPending      PaymentSessionStatus = "pending"
	PaymentSessionStatusRequiresMore PaymentSessionStatus = "requires_more"
	PaymentSessionStatusAuthorized   PaymentSessionStatus = "authorized"
	PaymentSessionStatusCaptured     PaymentSessionStatus = "captured"
	PaymentSessionStatusError        PaymentSessionStatus = "error"
	PaymentSessionStatusCanceled     PaymentSessionStatus = "canceled"
)

var validPaymentSessionStatuses = []PaymentSessionStatus{
	PaymentSessionStatusPending,
	PaymentSessionStatusRequiresMore,
	PaymentSessionStatusAuthorized,
	PaymentSessionStatusCaptured,
	PaymentSessionStatusError,
	PaymentSessionStatusCanceled,
}

// String implements fmt.Stringer.
func (s PaymentSessionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PaymentSessionStatus.
func (s PaymentSessionStatus) IsValid() bool {
	for _, candidate := range validPaymentSessionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsAuthorizable reports whether a checkout may authorize a session in this state.
func (s PaymentSessionStatus) IsAuthorizable() bool {
	switch s {
	case PaymentSessionStatusPending, PaymentSessionStatusRequiresMore, PaymentSessionStatusAuthorized:
		return true
	default:
		return false
	}
}

// ParsePaymentSessionStatus converts raw input into a PaymentSessionStatus.
func ParsePaymentSessionStatus(value string) (PaymentSessionStatus, error) {
	for _, candidate := range validPaymentSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment session status %q", value)
}
