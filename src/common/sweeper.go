package common

import (
	"log"
	"ticketonline/src/config"
	"ticketonline/src/db"
	"ticketonline/src/lib"
	"ticketonline/src/models"
	"ticketonline/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SweepExpiredHolds cancels every PENDING reservation whose payment window
// has lapsed. Each reservation is settled on its own; the status guard in
// CancelReservation makes the sweep safe against a payment confirming the
// same reservation between selection and cancellation, and one bad record
// never halts the rest of the sweep.
func SweepExpiredHolds() {
	db := db.GetDb()
	var ids []uuid.UUID
	err := db.
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_PENDING).
		Where("pending_until < ?", time.Now()).
		Pluck("id", &ids).
		Error
	if err != nil {
		log.Printf("[sweeper] Error selecting expired holds: %s\n", err.Error())
		return
	}
	for _, id := range ids {
		if err := CancelReservation(id); err != nil {
			log.Printf("[sweeper] Error cancelling expired reservation %s: %s\n", id.String(), err.Error())
			continue
		}
	}
	if len(ids) > 0 {
		log.Printf("[sweeper] Cancelled %d expired holds\n", len(ids))
	}
}

// PurgeOldReservations removes cancelled reservation records older than the
// retention window, together with their ticket and transaction rows.
// Completed reservations are financial history and are kept.
func PurgeOldReservations() {
	gdb := db.GetDb()
	cutoff := time.Now().Add(-config.RESERVATION_RETENTION)
	var ids []uuid.UUID
	err := gdb.
		Model(&models.Reservation{}).
		Where("status = ?", types.RESERVATION_CANCELLED).
		Where("reservation_date < ?", cutoff).
		Pluck("id", &ids).
		Error
	if err != nil {
		log.Printf("[sweeper] Error selecting aged-out reservations: %s\n", err.Error())
		return
	}
	for _, id := range ids {
		err := gdb.Transaction(func(tx *gorm.DB) error {
			if err := tx.
				Where("reservation_id = ?", id).
				Delete(&models.OrderedTicket{}).
				Error; err != nil {
				return err
			}
			if err := tx.
				Where("reservation_id = ?", id).
				Delete(&models.Transaction{}).
				Error; err != nil {
				return err
			}
			if err := tx.
				Where("id = ?", id).
				Delete(&models.Reservation{}).
				Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			log.Printf("[sweeper] Error purging reservation %s: %s\n", id.String(), err.Error())
			continue
		}
	}
	if len(ids) > 0 {
		log.Printf("[sweeper] Purged %d reservations older than %s\n", len(ids), cutoff.Format(config.TIME_PARSE_FORMAT))
	}
}

// RegisterSweeperJobs puts both sweep duties on the shared scheduler: the
// hold-expiry sweep every minute and the retention purge daily.
func RegisterSweeperJobs() error {
	if _, err := lib.CreateCronJob(SweepExpiredHolds, config.HOLD_SWEEP_INTERVAL); err != nil {
		log.Printf("Error scheduling hold-expiry sweep: %s\n", err.Error())
		return err
	}
	if _, err := lib.CreateCronJob(PurgeOldReservations, config.RETENTION_SWEEP_INTERVAL); err != nil {
		log.Printf("Error scheduling retention purge: %s\n", err.Error())
		return err
	}
	return nil
}
