package enums

// LinkModule names one side of a cross-module link row.
type LinkModule string

const (
	LinkModuleSeller            LinkModule = "seller"
	LinkModuleOrder             LinkModule = "order"
	LinkModuleOrderSet          LinkModule = "order_set"
	LinkModulePaymentCollection LinkModule = "payment_collection"
)

// String implements fmt.Stringer.
func (m LinkModule) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known link module.
func (m LinkModule) IsValid() bool {
	switch m {
	case LinkModuleSeller, LinkModuleOrder, LinkModuleOrderSet, LinkModulePaymentCollection:
		return true
	}
	return false
}
