package checkout

import "time"

// CompletedEvent is emitted after the commit point of a successful checkout.
// Delivery is fire-and-forget; a failed publish does not fail the checkout.
type CompletedEvent struct {
	Customer    string
	Subtotal    float64
	ShippingFee float64
	Total       float64
	Items       int
	OccurredAt  time.Time
}

func (CompletedEvent) EventName() string { return "checkout.completed" }

func NewCompletedEvent(customerName string, r *Receipt, occurredAt time.Time) CompletedEvent {
	return CompletedEvent{
		Customer:    customerName,
		Subtotal:    r.Subtotal,
		ShippingFee: r.ShippingFee,
		Total:       r.Total,
		Items:       len(r.Lines),
		OccurredAt:  occurredAt,
	}
}
