package common

import (
	"log"
	"ticketonline/src/config"
	"ticketonline/src/db"
	"ticketonline/src/models"
	"ticketonline/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReservation admits a basket against the event's inventory and, on
// success, creates the PENDING reservation plus one OrderedTicket per
// requested unit with the price snapshotted from the current TicketType.
// Admission, the reservation row and its ticket rows commit as one
// transaction; a rejected basket leaves no record behind.
func CreateReservation(eventID uuid.UUID, items []types.OrderedTicketItem) (*models.Reservation, error) {
	db := db.GetDb()
	var reservation models.Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: eventID}).First(&event).Error; err != nil {
			return err
		}
		ticketTypes, err := TryCommit(tx, eventID, items)
		if err != nil {
			return err
		}
		now := time.Now()
		reservation = models.Reservation{
			Status:          types.RESERVATION_PENDING,
			PendingUntil:    now.Add(config.RESERVATION_HOLD_DURATION),
			ReservationDate: now,
			EventID:         eventID,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}
		for _, item := range items {
			tt := ticketTypes[item.Type]
			for i := 0; i < item.Amount; i++ {
				ticket := models.OrderedTicket{
					Type:          tt.Type,
					Price:         tt.Price,
					EventID:       eventID,
					ReservationID: reservation.ID,
				}
				if err := tx.Create(&ticket).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// CancelReservation settles a PENDING reservation to CANCELLED, releasing
// its hold on inventory. The transition is guarded on the prior status, so
// cancelling an already settled reservation is a no-op success no matter
// how the call raced with expiry, a previous cancel or a confirm.
func CancelReservation(id uuid.UUID) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Reservation{}).
			Where("id = ? AND status = ?", id, types.RESERVATION_PENDING).
			Update("status", types.RESERVATION_CANCELLED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.
				Model(&models.Reservation{}).
				Where("id = ?", id).
				Count(&count).
				Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

// ConfirmReservation settles a PENDING reservation to COMPLETED. The
// guarded update only succeeds if the prior status is exactly PENDING; a
// reservation whose hold was already cancelled reports ErrAlreadyTerminal
// instead of being resurrected. Runs on the caller's transaction so the
// payment path can cover the transaction and reservation writes in one
// atomic scope.
func ConfirmReservation(tx *gorm.DB, id uuid.UUID) error {
	res := tx.
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, types.RESERVATION_PENDING).
		Update("status", types.RESERVATION_COMPLETED)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.
			Model(&models.Reservation{}).
			Where("id = ?", id).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return types.ErrAlreadyTerminal
	}
	return nil
}

// GetReservation loads a reservation with its tickets and event.
func GetReservation(id uuid.UUID) (*models.Reservation, error) {
	db := db.GetDb()
	var reservation models.Reservation
	err := db.
		Model(&models.Reservation{}).
		Where(&models.Reservation{ID: id}).
		Preload("Tickets").
		Preload("Event").
		First(&reservation).
		Error
	if err != nil {
		log.Printf("Could not load reservation %s: %s\n", id.String(), err.Error())
		return nil, err
	}
	return &reservation, nil
}
