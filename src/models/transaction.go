package models

import (
	"ticketonline/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is one payment attempt for a reservation. Amount snapshots
// the total owed at initiation time. A reservation may accumulate several
// attempts; at most one of them moves it to COMPLETED.
type Transaction struct {
	ID            uuid.UUID               `gorm:"primarykey;type:uuid" json:"id"`
	Status        types.TransactionStatus `gorm:"default:'PENDING'" json:"status"`
	Date          time.Time               `gorm:"autoCreateTime" json:"date"`
	Amount        float64                 `json:"amount"`
	ReservationID uuid.UUID               `gorm:"type:uuid;index" json:"reservation_id"`
	ErrorType     *string                 `json:"error_type,omitempty"`

	Reservation Reservation `json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
