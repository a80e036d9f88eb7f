package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID   uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Name string    `json:"name,omitempty"`
	Date time.Time `json:"date,omitempty"`

	TicketTypes  []TicketType  `gorm:"constraint:OnDelete:CASCADE" json:"ticket_types,omitempty"`
	Reservations []Reservation `gorm:"constraint:OnDelete:CASCADE" json:"reservations,omitempty"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TicketType is one release of tickets for an event: a per-event type label,
// a unit price and the fixed amount released. Created before sales open and
// not mutated afterwards.
type TicketType struct {
	ID      uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`
	Type    string    `gorm:"index:idx_ticket_types_event_type,unique" json:"type"`
	Price   float64   `json:"price"`
	Amount  int       `json:"amount"`
	EventID uuid.UUID `gorm:"type:uuid;index:idx_ticket_types_event_type,unique" json:"event_id"`

	Event Event `json:"-"`
}

func (t *TicketType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
