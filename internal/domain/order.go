package domain

// DefaultQuantity is the safe fallback for quantity input that fails to
// parse as a positive integer. A draft never holds a quantity below 1.
const DefaultQuantity = 1

// OrderDraft is the editable order input. It is created empty, mutated
// field by field while the form is open, and consumed once at submission.
type OrderDraft struct {
	PartID       string `json:"part_id"`
	DeliveryDate Date   `json:"delivery_date"`
	Quantity     int    `json:"quantity"`
	Expedite     bool   `json:"expedite"`
}

func NewOrderDraft() OrderDraft {
	return OrderDraft{Quantity: DefaultQuantity}
}

// Quote is the supplier's answer to an order request. OrderQuantity is the
// quantity the supplier can actually fulfill and may legitimately be zero,
// meaning nothing is available. Read-only once received.
type Quote struct {
	QuoteID       string `json:"quote_id"`
	PartID        string `json:"part_id"`
	UnitPrice     Price  `json:"unit_price"`
	ConfirmedDate Date   `json:"confirmed_delivery_date"`
	MinOrderQty   int    `json:"min_order_quantity"`
	OrderQuantity int    `json:"order_quantity"`
	PackCount     int    `json:"pack_count"`
	Expedite      bool   `json:"expedite"`
}

// FinalConfirmation is the payload sent once the user accepts a quote.
// TotalPrice is always computed locally as unit price times order quantity;
// an upstream-supplied total is never trusted. Write-only.
type FinalConfirmation struct {
	QuoteID          string `json:"quote_id"`
	PartName         string `json:"part_name"`
	Facility         string `json:"facility"`
	ConfirmationDate Date   `json:"confirmation_date"`
	OrderQuantity    int    `json:"order_quantity"`
	PackCount        int    `json:"pack_count"`
	TotalPrice       Price  `json:"total_price"`
	Expedite         bool   `json:"expedite"`
}
