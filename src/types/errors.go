package types

import (
	"errors"
	"fmt"
	"ticketonline/src/config"
)

// Validation errors surfaced by reservation admission. None of them leaves
// any partial write behind.
var (
	ErrUnknownTicketType = errors.New("requested ticket type is not present in event ticket types")
	ErrQuantityExceeded  = fmt.Errorf("can not order more than %d tickets of each type", config.MAX_TICKETS_PER_TYPE)
)

// ErrAlreadyTerminal reports a status transition attempted on a reservation
// that has already reached COMPLETED or CANCELLED.
var ErrAlreadyTerminal = errors.New("reservation status transition already settled")

// ErrReservationNotPending rejects a payment initiated for a reservation
// whose hold is no longer open.
var ErrReservationNotPending = errors.New("status of this reservation does not allow to process a payment for it")

// InsufficientInventoryError identifies the first ticket type in the basket
// that could not satisfy its requested quantity.
type InsufficientInventoryError struct {
	TicketType string
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("this event does not have sufficient quantity of %s tickets", e.TicketType)
}
