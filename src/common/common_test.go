package common

import (
	"log"
	"ticketonline/src/db"
	"ticketonline/src/models"
	"ticketonline/src/types"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database and installs it as the shared
// handle. A single open connection keeps every query on the same sqlite
// instance.
func newTestDB() *gorm.DB {
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
	return d
}

// seedEvent creates an upcoming event with the given ticket releases.
func seedEvent(d *gorm.DB, name string, releases map[string]int) *models.Event {
	event := models.Event{Name: name, Date: time.Now().Add(30 * 24 * time.Hour)}
	if err := d.Create(&event).Error; err != nil {
		log.Fatalf("Could not create event due to error: %s\n", err.Error())
	}
	prices := map[string]float64{"VIP": 100, "Gold": 50, "Silver": 25}
	for typeName, amount := range releases {
		price, ok := prices[typeName]
		if !ok {
			price = 10
		}
		tt := models.TicketType{Type: typeName, Price: price, Amount: amount, EventID: event.ID}
		if err := d.Create(&tt).Error; err != nil {
			log.Fatalf("Could not create ticket type due to error: %s\n", err.Error())
		}
	}
	return &event
}

func reservationStatus(d *gorm.DB, id uuid.UUID) types.ReservationStatus {
	var reservation models.Reservation
	if err := d.Where(&models.Reservation{ID: id}).First(&reservation).Error; err != nil {
		log.Fatalf("Could not load reservation %s: %s\n", id.String(), err.Error())
	}
	return reservation.Status
}

func expireHold(d *gorm.DB, id uuid.UUID) {
	err := d.
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("pending_until", time.Now().Add(-time.Minute)).
		Error
	if err != nil {
		log.Fatalf("Could not expire hold %s: %s\n", id.String(), err.Error())
	}
}

func basket(items ...types.OrderedTicketItem) []types.OrderedTicketItem {
	return items
}
