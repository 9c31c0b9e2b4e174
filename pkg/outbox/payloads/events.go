package payloads

import "github.com/google/uuid"

// OrderPlacedEvent is emitted once per seller order created by a checkout.
type OrderPlacedEvent struct {
	OrderID             uuid.UUID  `json:"order_id"`
	OrderSetID          uuid.UUID  `json:"order_set_id"`
	CartID              uuid.UUID  `json:"cart_id"`
	SellerID            uuid.UUID  `json:"seller_id"`
	CustomerID          *uuid.UUID `json:"customer_id,omitempty"`
	SalesChannelID      uuid.UUID  `json:"sales_channel_id"`
	PaymentCollectionID uuid.UUID  `json:"payment_collection_id"`
	CurrencyCode        string     `json:"currency_code"`
	ItemCount           int        `json:"item_count"`
}

// OrderSetPlacedEvent is emitted once per checkout after every order exists.
type OrderSetPlacedEvent struct {
	OrderSetID          uuid.UUID   `json:"order_set_id"`
	CartID              uuid.UUID   `json:"cart_id"`
	CustomerID          *uuid.UUID  `json:"customer_id,omitempty"`
	PaymentCollectionID uuid.UUID   `json:"payment_collection_id"`
	OrderIDs            []uuid.UUID `json:"order_ids"`
	SellerIDs           []uuid.UUID `json:"seller_ids"`
}
