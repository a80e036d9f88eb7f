package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"ticketonline/src/common"
	"ticketonline/src/config"
	"ticketonline/src/db"
	"ticketonline/src/lib"
	"ticketonline/src/models"
	"ticketonline/src/types"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// okGateway approves every charge.
type okGateway struct{}

func (okGateway) Charge(amount float64) error { return nil }

// syncDispatcher processes each charge inline so handler tests observe the
// settled state immediately.
type syncDispatcher struct {
	processor *common.PaymentProcessor
}

func (d *syncDispatcher) DispatchCharge(ctx context.Context, req lib.ChargeRequest) error {
	return d.processor.ProcessCharge(req.ReservationID, req.TransactionID)
}

type TestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Router *gin.Engine
	Event  *models.Event
}

func (s *TestSuite) SetupTest() {
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	inner, err := d.DB()
	if err != nil {
		log.Fatalf("Error accessing inner db instance: %s\n", err.Error())
	}
	inner.SetMaxIdleConns(1)
	inner.SetMaxOpenConns(1)
	err = d.AutoMigrate(
		&models.Event{},
		&models.TicketType{},
		&models.Reservation{},
		&models.OrderedTicket{},
		&models.Transaction{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	db.NewDB(d)
	s.DB = d

	event := models.Event{Name: "Summer Concert", Date: time.Now().Add(30 * 24 * time.Hour)}
	if err := d.Create(&event).Error; err != nil {
		log.Fatalf("Could not create event due to error: %s\n", err.Error())
	}
	for _, tt := range []models.TicketType{
		{Type: "VIP", Price: 100, Amount: 50, EventID: event.ID},
		{Type: "Gold", Price: 50, Amount: 150, EventID: event.ID},
	} {
		if err := d.Create(&tt).Error; err != nil {
			log.Fatalf("Could not create ticket type due to error: %s\n", err.Error())
		}
	}
	s.Event = &event

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("bookabledate", eventDateTimeValidatorFunc)
	}

	processor := common.NewPaymentProcessor(okGateway{})
	router := setupRouter()
	apiv1 := apiv1Group(router)
	eventHandlers(apiv1)
	reservationHandlers(apiv1)
	transactionHandlers(apiv1, &syncDispatcher{processor: processor})
	s.Router = router
}

func (s *TestSuite) request(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		sbody, _ := json.Marshal(body)
		reader = strings.NewReader(string(sbody))
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	s.Router.ServeHTTP(w, req)
	return w
}

func (s *TestSuite) TestPingRoute() {
	w := s.request("GET", "/", nil)
	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestListEvents() {
	w := s.request("GET", "/api/v1/events?current_page=1&page_size=10", nil)
	assert.Equal(s.T(), 200, w.Code)

	rbytes, err := io.ReadAll(w.Body)
	assert.Nil(s.T(), err)
	sjson := string(rbytes)
	assert.Equal(s.T(), int64(1), gjson.Get(sjson, "last_page").Int())
	assert.Equal(s.T(), 1, int(gjson.Get(sjson, "events.#").Int()))

	w = s.request("GET", "/api/v1/events", nil)
	assert.Equal(s.T(), 400, w.Code)
}

func (s *TestSuite) TestCreateEvent() {
	date := time.Now().Add(60 * 24 * time.Hour).Format(config.TIME_PARSE_FORMAT)
	w := s.request("POST", "/api/v1/events", map[string]any{
		"name": "Winter Gala",
		"date": date,
		"ticket_types": []map[string]any{
			{"type": "Basic", "price": 20, "amount": 100},
		},
	})
	assert.Equal(s.T(), 201, w.Code)

	s.Run("Should reject past event dates", func() {
		past := time.Now().Add(-24 * time.Hour).Format(config.TIME_PARSE_FORMAT)
		w := s.request("POST", "/api/v1/events", map[string]any{
			"name": "Yesterday Show",
			"date": past,
			"ticket_types": []map[string]any{
				{"type": "Basic", "price": 20, "amount": 100},
			},
		})
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestEventDetailsWithAvailability() {
	w := s.request("GET", fmt.Sprintf("/api/v1/events/%s", s.Event.ID), nil)
	assert.Equal(s.T(), 200, w.Code)

	rbytes, _ := io.ReadAll(w.Body)
	sjson := string(rbytes)
	assert.Equal(s.T(), "Summer Concert", gjson.Get(sjson, "event.name").String())
	assert.Equal(s.T(), int64(150), gjson.Get(sjson, `ticket_types.#(type=="Gold").tickets_left`).Int())
}

func (s *TestSuite) TestReservationLifecycle() {
	var reservationID string

	s.Run("Should create a reservation", func() {
		w := s.request("POST", "/api/v1/reservations", map[string]any{
			"event_id": s.Event.ID.String(),
			"tickets": []map[string]any{
				{"type": "VIP", "amount": 3},
				{"type": "Gold", "amount": 1},
			},
		})
		assert.Equal(s.T(), 201, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		reservationID = gjson.Get(string(rbytes), "reservation_id").String()
		assert.NotEmpty(s.T(), reservationID)
	})

	s.Run("Should return reservation details", func() {
		w := s.request("GET", fmt.Sprintf("/api/v1/reservations/%s", reservationID), nil)
		assert.Equal(s.T(), 200, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		sjson := string(rbytes)
		assert.Equal(s.T(), string(types.RESERVATION_PENDING), gjson.Get(sjson, "reservation.status").String())
		assert.Equal(s.T(), int64(4), gjson.Get(sjson, "tickets.#").Int())
	})

	s.Run("Should cancel idempotently", func() {
		w := s.request("DELETE", fmt.Sprintf("/api/v1/reservations/%s", reservationID), nil)
		assert.Equal(s.T(), 200, w.Code)
		w = s.request("DELETE", fmt.Sprintf("/api/v1/reservations/%s", reservationID), nil)
		assert.Equal(s.T(), 200, w.Code)
	})

	s.Run("Should reject payment for a cancelled reservation", func() {
		w := s.request("POST", fmt.Sprintf("/api/v1/reservations/%s/payment", reservationID), nil)
		assert.Equal(s.T(), 403, w.Code)
	})
}

func (s *TestSuite) TestReservationErrorKinds() {
	s.Run("Unknown ticket type", func() {
		w := s.request("POST", "/api/v1/reservations", map[string]any{
			"event_id": s.Event.ID.String(),
			"tickets":  []map[string]any{{"type": "Platinum", "amount": 1}},
		})
		assert.Equal(s.T(), 400, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "UnknownTicketType", gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Quantity exceeded", func() {
		w := s.request("POST", "/api/v1/reservations", map[string]any{
			"event_id": s.Event.ID.String(),
			"tickets":  []map[string]any{{"type": "VIP", "amount": 6}},
		})
		assert.Equal(s.T(), 400, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "QuantityExceeded", gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Insufficient inventory", func() {
		small := models.Event{Name: "Club Night", Date: time.Now().Add(24 * time.Hour)}
		assert.Nil(s.T(), s.DB.Create(&small).Error)
		assert.Nil(s.T(), s.DB.Create(&models.TicketType{Type: "Basic", Price: 10, Amount: 1, EventID: small.ID}).Error)

		w := s.request("POST", "/api/v1/reservations", map[string]any{
			"event_id": small.ID.String(),
			"tickets":  []map[string]any{{"type": "Basic", "amount": 2}},
		})
		assert.Equal(s.T(), 409, w.Code)
		rbytes, _ := io.ReadAll(w.Body)
		assert.Equal(s.T(), "InsufficientInventory", gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Unknown event", func() {
		w := s.request("POST", "/api/v1/reservations", map[string]any{
			"event_id": "8f14e45f-ceea-4e17-ab3d-000000000000",
			"tickets":  []map[string]any{{"type": "VIP", "amount": 1}},
		})
		assert.Equal(s.T(), 404, w.Code)
	})
}

func (s *TestSuite) TestPaymentFlow() {
	w := s.request("POST", "/api/v1/reservations", map[string]any{
		"event_id": s.Event.ID.String(),
		"tickets":  []map[string]any{{"type": "VIP", "amount": 2}},
	})
	assert.Equal(s.T(), 201, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	reservationID := gjson.Get(string(rbytes), "reservation_id").String()

	w = s.request("POST", fmt.Sprintf("/api/v1/reservations/%s/payment", reservationID), nil)
	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ = io.ReadAll(w.Body)
	transactionID := gjson.Get(string(rbytes), "transaction_id").String()
	assert.NotEmpty(s.T(), transactionID)

	w = s.request("GET", fmt.Sprintf("/api/v1/transactions/%s", transactionID), nil)
	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ = io.ReadAll(w.Body)
	assert.Equal(s.T(), string(types.TRANSACTION_COMPLETED), gjson.Get(string(rbytes), "status").String())

	w = s.request("GET", fmt.Sprintf("/api/v1/reservations/%s", reservationID), nil)
	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ = io.ReadAll(w.Body)
	assert.Equal(s.T(), string(types.RESERVATION_COMPLETED), gjson.Get(string(rbytes), "reservation.status").String())
}

func (s *TestSuite) TestEventStats() {
	w := s.request("POST", "/api/v1/reservations", map[string]any{
		"event_id": s.Event.ID.String(),
		"tickets":  []map[string]any{{"type": "Gold", "amount": 2}},
	})
	assert.Equal(s.T(), 201, w.Code)
	rbytes, _ := io.ReadAll(w.Body)
	reservationID := gjson.Get(string(rbytes), "reservation_id").String()

	w = s.request("POST", fmt.Sprintf("/api/v1/reservations/%s/payment", reservationID), nil)
	assert.Equal(s.T(), 200, w.Code)

	w = s.request("GET", fmt.Sprintf("/api/v1/events/%s/stats", s.Event.ID), nil)
	assert.Equal(s.T(), 200, w.Code)
	rbytes, _ = io.ReadAll(w.Body)
	sjson := string(rbytes)
	assert.Equal(s.T(), int64(2), gjson.Get(sjson, "ticket_counters.all_tickets_sold").Int())
	assert.Equal(s.T(), int64(2), gjson.Get(sjson, "ticket_counters.ticket_types.Gold").Int())
	assert.Equal(s.T(), int64(0), gjson.Get(sjson, "ticket_counters.ticket_types.VIP").Int())
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
