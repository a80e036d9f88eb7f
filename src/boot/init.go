package boot

import (
	"log"
	"ticketonline/src/common"
	"ticketonline/src/db"
	"ticketonline/src/lib"
	"ticketonline/src/models"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Event{},
		&models.TicketType{},
		&models.Reservation{},
		&models.OrderedTicket{},
		&models.Transaction{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	if err := common.RegisterSweeperJobs(); err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	sched.Start()
	log.Printf("Scheduler started with %d jobs\n", len(sched.Jobs()))
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
