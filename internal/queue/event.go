// Package queue defines message payloads exchanged over the message broker.
package queue

// Event type values carried in RentalEvent.Event.
const (
    EventRentalCreated  = "rental.created"
    EventRentalReturned = "rental.returned"
)

// RentalEvent is published when a rental is created (checkout) or closed
// (return).  It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type RentalEvent struct {
    Event       string `json:"event"`
    RentalID    uint64 `json:"rental_id"`
    CustomerID  uint64 `json:"customer_id"`
    FilmID      uint64 `json:"film_id,omitempty"`
    FilmTitle   string `json:"film_title,omitempty"`
    InventoryID uint64 `json:"inventory_id"`
    OccurredAt  string `json:"occurred_at"`
}
