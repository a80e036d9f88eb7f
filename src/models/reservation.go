package models

import (
	"ticketonline/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation is a buyer's hold on a basket of tickets. It starts PENDING
// and settles exactly once, either to COMPLETED by a successful payment or
// to CANCELLED by the buyer or the expiry sweep. PendingUntil is the hard
// deadline for payment; ReservationDate is immutable after creation.
type Reservation struct {
	ID              uuid.UUID               `gorm:"primarykey;type:uuid" json:"id"`
	Status          types.ReservationStatus `gorm:"default:'PENDING'" json:"status"`
	PendingUntil    time.Time               `json:"pending_until"`
	ReservationDate time.Time               `gorm:"autoCreateTime" json:"reservation_date"`
	EventID         uuid.UUID               `gorm:"type:uuid;index" json:"event_id"`

	Event        Event           `json:"event,omitempty"`
	Tickets      []OrderedTicket `gorm:"constraint:OnDelete:CASCADE" json:"tickets,omitempty"`
	Transactions []Transaction   `gorm:"constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OrderedTicket is a single line item of a reservation. Type and Price are
// snapshots taken from the TicketType at reservation time; later price
// changes do not touch existing rows.
type OrderedTicket struct {
	ID            uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Type          string    `gorm:"index" json:"type"`
	Price         float64   `json:"price"`
	EventID       uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	ReservationID uuid.UUID `gorm:"type:uuid;index" json:"reservation_id"`
}

func (t *OrderedTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
