package enums

// PaymentCollectionStatus summarizes the sessions attached to a collection.
type PaymentCollectionStatus string

const (
	PaymentCollectionStatusNotPaid    PaymentCollectionStatus = "not_paid"
	PaymentCollectionStatusAwaiting   PaymentCollectionStatus = "awaiting"
	PaymentCollectionStatusAuthorized PaymentCollectionStatus = "authorized"
	PaymentCollectionStatusCompleted  PaymentCollectionStatus = "completed"
	PaymentCollectionStatusCanceled   PaymentCollectionStatus = "canceled"
	PaymentCollectionStatusFailed     PaymentCollectionStatus = "failed"
)

// String implements fmt.Stringer.
func (s PaymentCollectionStatus) String() string {
	return string(s)
}
