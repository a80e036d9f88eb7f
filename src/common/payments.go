package common

import (
	"context"
	"errors"
	"log"
	"ticketonline/src/db"
	"ticketonline/src/lib"
	"ticketonline/src/models"
	"ticketonline/src/types"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

// PaymentProcessor reconciles gateway charge outcomes into transaction and
// reservation state.
type PaymentProcessor struct {
	gateway lib.PaymentGateway
}

func NewPaymentProcessor(gateway lib.PaymentGateway) *PaymentProcessor {
	return &PaymentProcessor{gateway: gateway}
}

// InitiatePayment opens a new payment attempt for a PENDING reservation:
// it snapshots the total owed across the reservation's tickets into a new
// PENDING transaction and hands the charge request to the dispatcher. The
// transaction row commits before the request is dispatched, so the worker
// always finds it.
func InitiatePayment(reservationID uuid.UUID, dispatcher lib.ChargeDispatcher) (*models.Transaction, error) {
	gdb := db.GetDb()
	var transaction models.Transaction
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := tx.Where(&models.Reservation{ID: reservationID}).First(&reservation).Error; err != nil {
			return err
		}
		if reservation.Status != types.RESERVATION_PENDING {
			return types.ErrReservationNotPending
		}
		var total float64
		if err := tx.
			Model(&models.OrderedTicket{}).
			Where("reservation_id = ?", reservationID).
			Select("COALESCE(SUM(price), 0)").
			Scan(&total).
			Error; err != nil {
			return err
		}
		transaction = models.Transaction{
			Status:        types.TRANSACTION_PENDING,
			Amount:        total,
			ReservationID: reservationID,
		}
		return tx.Create(&transaction).Error
	})
	if err != nil {
		return nil, err
	}
	if err := dispatcher.DispatchCharge(context.Background(), lib.ChargeRequest{
		ReservationID: reservationID,
		TransactionID: transaction.ID,
	}); err != nil {
		log.Printf("Error dispatching charge for transaction %s: %s\n", transaction.ID.String(), err.Error())
		return nil, err
	}
	return &transaction, nil
}

// ProcessCharge runs one charge request end to end: load the pending
// transaction, call the gateway with no database lock held, then reconcile
// the outcome. Redelivery of an already settled transaction is a no-op, so
// at-least-once dispatch is safe.
func (p *PaymentProcessor) ProcessCharge(reservationID, transactionID uuid.UUID) error {
	gdb := db.GetDb()
	var transaction models.Transaction
	if err := gdb.Where(&models.Transaction{ID: transactionID}).First(&transaction).Error; err != nil {
		return err
	}
	if transaction.Status != types.TRANSACTION_PENDING {
		return nil
	}

	chargeErr := p.gateway.Charge(transaction.Amount)
	if chargeErr != nil {
		var gwErr *lib.GatewayError
		if !errors.As(chargeErr, &gwErr) {
			return chargeErr
		}
		// gateway failure settles the attempt; the reservation stays
		// PENDING and retryable until its hold expires
		return gdb.Transaction(func(tx *gorm.DB) error {
			return tx.
				Model(&models.Transaction{}).
				Where("id = ? AND status = ?", transactionID, types.TRANSACTION_PENDING).
				Updates(map[string]any{
					"status":     types.TRANSACTION_ERROR,
					"error_type": gwErr.Code,
				}).
				Error
		})
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Transaction{}).
			Where("id = ? AND status = ?", transactionID, types.TRANSACTION_PENDING).
			Update("status", types.TRANSACTION_COMPLETED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// a duplicate delivery settled it first
			return nil
		}
		if err := ConfirmReservation(tx, reservationID); err != nil {
			if errors.Is(err, types.ErrAlreadyTerminal) {
				// the hold expired while the charge was in flight; the
				// transaction stays COMPLETED for audit and the refund
				// workflow picks up the reconciliation
				log.Printf("Charge %s succeeded for settled reservation %s\n", transactionID.String(), reservationID.String())
				return nil
			}
			return err
		}
		return nil
	})
}

// ChargeRequestsConsumer drains the charge queue and feeds each request to
// the processor. Malformed payloads are logged and dropped; processing
// errors are logged and the loop continues.
func ChargeRequestsConsumer(ctx context.Context, rdb *redis.Client, queue string, processor *PaymentProcessor) {
	log.Printf("[%s] Listening for charge requests...\n", queue)
	for {
		res, err := rdb.BRPop(ctx, 0, queue).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("[%s] Error reading from queue: %s\n", queue, err.Error())
			continue
		}
		body := res[1]
		if !gjson.Valid(body) {
			log.Printf("[%s] Received invalid json body. Skipping\n", queue)
			continue
		}
		reservationID, err := uuid.Parse(gjson.Get(body, "reservation_id").String())
		if err != nil {
			log.Printf("[%s] Invalid reservation id in payload: %s\n", queue, err.Error())
			continue
		}
		transactionID, err := uuid.Parse(gjson.Get(body, "transaction_id").String())
		if err != nil {
			log.Printf("[%s] Invalid transaction id in payload: %s\n", queue, err.Error())
			continue
		}
		if err := processor.ProcessCharge(reservationID, transactionID); err != nil {
			log.Printf("[%s] Error processing charge for transaction %s: %s\n", queue, transactionID.String(), err.Error())
		}
	}
}

// LocalChargeDispatcher processes charge requests in-process instead of
// going through the redis queue. Used when no broker is configured and by
// tests.
type LocalChargeDispatcher struct {
	Processor *PaymentProcessor
}

func (d *LocalChargeDispatcher) DispatchCharge(ctx context.Context, req lib.ChargeRequest) error {
	go func() {
		if err := d.Processor.ProcessCharge(req.ReservationID, req.TransactionID); err != nil {
			log.Printf("[local] Error processing charge for transaction %s: %s\n", req.TransactionID.String(), err.Error())
		}
	}()
	return nil
}
