package models

// All lists every persisted model, in dependency order.
func All() []any {
	return []any{
		&Seller{},
		&SellerProduct{},
		&SellerShippingOption{},
		&ProductVariant{},
		&Cart{},
		&CartItem{},
		&CartShippingMethod{},
		&PaymentCollection{},
		&PaymentSession{},
		&Order{},
		&OrderLineItem{},
		&OrderShippingMethod{},
		&OrderSet{},
		&Link{},
		&InventoryLevel{},
		&ReservationItem{},
		&OutboxEvent{},
	}
}
