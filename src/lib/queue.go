package lib

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChargeRequest is the unit of work handed to the payment worker. Delivery
// is at-least-once; the consumer must tolerate duplicates.
type ChargeRequest struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
}

// ChargeDispatcher submits charge requests for asynchronous processing.
type ChargeDispatcher interface {
	DispatchCharge(ctx context.Context, req ChargeRequest) error
}

// RedisChargeDispatcher pushes charge requests onto a redis list drained by
// the charge-requests consumer.
type RedisChargeDispatcher struct {
	rdb   *redis.Client
	queue string
}

func NewRedisChargeDispatcher(rdb *redis.Client, queue string) *RedisChargeDispatcher {
	return &RedisChargeDispatcher{rdb: rdb, queue: queue}
}

func (d *RedisChargeDispatcher) DispatchCharge(ctx context.Context, req ChargeRequest) error {
	body, err := json.Marshal(&req)
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, d.queue, body).Err(); err != nil {
		log.Printf("[%s] Error enqueueing charge request: %s\n", d.queue, err.Error())
		return err
	}
	return nil
}
