package types

import (
	"github.com/google/uuid"
)

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "PENDING"
	RESERVATION_COMPLETED ReservationStatus = "COMPLETED"
	RESERVATION_CANCELLED ReservationStatus = "CANCELLED"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "PENDING"
	TRANSACTION_COMPLETED TransactionStatus = "COMPLETED"
	TRANSACTION_ERROR     TransactionStatus = "ERROR"
)

type OrderedTicketItem struct {
	Type   string `json:"type" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}

type CreateReservationRequestBody struct {
	EventID uuid.UUID           `json:"event_id" binding:"required"`
	Tickets []OrderedTicketItem `json:"tickets" binding:"required,min=1,dive"`
}

type TicketTypeSpec struct {
	Type   string  `json:"type" binding:"required"`
	Price  float64 `json:"price" binding:"required,gt=0"`
	Amount int     `json:"amount" binding:"required,gt=0"`
}

type CreateEventRequestBody struct {
	Name        string           `json:"name" binding:"required"`
	Date        string           `json:"date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	TicketTypes []TicketTypeSpec `json:"ticket_types" binding:"required,min=1,dive"`
}

type EventsQueryParams struct {
	CurrentPage int `form:"current_page" binding:"required,gt=0"`
	PageSize    int `form:"page_size" binding:"required,gt=0"`
}

type APIResponseTicketType struct {
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
	Amount      int     `json:"amount"`
	TicketsLeft int     `json:"tickets_left"`
}

type APIResponseEventStats struct {
	AllTicketsSold int64            `json:"all_tickets_sold"`
	TicketTypes    map[string]int64 `json:"ticket_types"`
}
