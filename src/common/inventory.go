package common

import (
	"ticketonline/src/config"
	"ticketonline/src/models"
	"ticketonline/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommittedCount returns how many tickets of one type are currently held or
// purchased: ordered tickets whose reservation is PENDING or COMPLETED.
// Cancelled reservations keep their ticket rows but no longer count against
// the release.
func CommittedCount(tx *gorm.DB, eventID uuid.UUID, ticketType string) (int64, error) {
	var count int64
	err := tx.
		Model(&models.OrderedTicket{}).
		Joins("JOIN reservations ON reservations.id = ordered_tickets.reservation_id").
		Where("ordered_tickets.event_id = ?", eventID).
		Where("ordered_tickets.type = ?", ticketType).
		Where("reservations.status IN ?", []types.ReservationStatus{
			types.RESERVATION_PENDING,
			types.RESERVATION_COMPLETED,
		}).
		Count(&count).
		Error
	return count, err
}

// TryCommit admits or rejects a whole basket against the event's ticket
// release. It must run inside the same transaction that creates the
// reservation rows: the event's TicketType rows are locked first, so the
// availability snapshot and the commit are one atomic step and concurrent
// baskets for the same types serialize on the row locks. The basket is
// all-or-nothing; any failing line rejects the whole request with no
// partial effect.
//
// On success the locked ticket types are returned keyed by type label, so
// the caller can snapshot prices from the same rows the check ran against.
func TryCommit(tx *gorm.DB, eventID uuid.UUID, items []types.OrderedTicketItem) (map[string]models.TicketType, error) {
	q := tx.Order("type")
	// sqlite has no FOR UPDATE and serializes writers on its own
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ticketTypes []models.TicketType
	if err := q.Where(&models.TicketType{EventID: eventID}).Find(&ticketTypes).Error; err != nil {
		return nil, err
	}
	byType := make(map[string]models.TicketType, len(ticketTypes))
	for _, tt := range ticketTypes {
		byType[tt.Type] = tt
	}

	// the cap applies per basket line; availability is checked against the
	// basket's aggregated demand per type so duplicate lines cannot slip
	// past the release together
	requested := make(map[string]int, len(items))
	for _, item := range items {
		if _, ok := byType[item.Type]; !ok {
			return nil, types.ErrUnknownTicketType
		}
		if item.Amount > config.MAX_TICKETS_PER_TYPE {
			return nil, types.ErrQuantityExceeded
		}
		requested[item.Type] += item.Amount
	}
	for _, tt := range ticketTypes {
		amount, ok := requested[tt.Type]
		if !ok {
			continue
		}
		committed, err := CommittedCount(tx, eventID, tt.Type)
		if err != nil {
			return nil, err
		}
		if int64(tt.Amount)-committed < int64(amount) {
			return nil, &types.InsufficientInventoryError{TicketType: tt.Type}
		}
	}
	return byType, nil
}

// Availability reports each of the event's ticket types with the number of
// tickets left. The counts are a read-only snapshot; admission decisions go
// through TryCommit.
func Availability(tx *gorm.DB, eventID uuid.UUID) ([]types.APIResponseTicketType, error) {
	var ticketTypes []models.TicketType
	if err := tx.
		Where(&models.TicketType{EventID: eventID}).
		Order("type").
		Find(&ticketTypes).
		Error; err != nil {
		return nil, err
	}
	out := make([]types.APIResponseTicketType, 0, len(ticketTypes))
	for _, tt := range ticketTypes {
		committed, err := CommittedCount(tx, eventID, tt.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, types.APIResponseTicketType{
			Type:        tt.Type,
			Price:       tt.Price,
			Amount:      tt.Amount,
			TicketsLeft: tt.Amount - int(committed),
		})
	}
	return out, nil
}
