package config

import (
	"fmt"
	"os"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

const (
	// RESERVATION_HOLD_DURATION is the payment window granted to a new
	// reservation. Holds still PENDING past this window are cancelled by
	// the expiry sweep.
	RESERVATION_HOLD_DURATION = 15 * time.Minute

	// MAX_TICKETS_PER_TYPE caps how many tickets of a single type one
	// reservation may claim.
	MAX_TICKETS_PER_TYPE = 5

	// RESERVATION_RETENTION is how long cancelled reservation records are
	// kept before the retention purge removes them.
	RESERVATION_RETENTION = 100 * 24 * time.Hour

	HOLD_SWEEP_INTERVAL      = 1 * time.Minute
	RETENTION_SWEEP_INTERVAL = 24 * time.Hour
)

// ChargeQueueName is the redis list the payment dispatcher pushes charge
// requests to.
func ChargeQueueName() string {
	if name := os.Getenv("CHARGE_QUEUE_NAME"); name != "" {
		return name
	}
	return "charge_requests"
}

var API_ENV = os.Getenv("API_ENV")
