package main

import (
	"log"
	"net/http"
	"ticketonline/src/common"
	"ticketonline/src/config"
	"ticketonline/src/db"
	"ticketonline/src/models"
	"ticketonline/src/types"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var params types.EventsQueryParams
			if err := ctx.ShouldBindQuery(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			now := time.Now()
			var total int64
			err := db.
				Model(&models.Event{}).
				Where("date >= ?", now).
				Count(&total).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			var events []models.Event
			err = db.
				Model(&models.Event{}).
				Where("date >= ?", now).
				Order("date asc").
				Offset((params.CurrentPage - 1) * params.PageSize).
				Limit(params.PageSize).
				Find(&events).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			lastPage := (total + int64(params.PageSize) - 1) / int64(params.PageSize)
			if lastPage == 0 {
				lastPage = 1
			}
			ctx.JSON(http.StatusOK, gin.H{"events": events, "last_page": lastPage})
		}).
		POST("/events", func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			event := models.Event{Name: body.Name, Date: date}
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&event).Error; err != nil {
					return err
				}
				for _, spec := range body.TicketTypes {
					tt := models.TicketType{
						Type:    spec.Type,
						Price:   spec.Price,
						Amount:  spec.Amount,
						EventID: event.ID,
					}
					if err := tx.Create(&tt).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error creating Event: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			eventId, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.Where(&models.Event{ID: eventId}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			ticketTypes, err := common.Availability(db, eventId)
			if err != nil {
				log.Printf("Error computing availability for Event %s: %s\n", eventId.String(), err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"event": event, "ticket_types": ticketTypes})
		}).
		GET("/events/:id/stats", func(ctx *gin.Context) {
			eventId, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.Preload("TicketTypes").Where(&models.Event{ID: eventId}).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			soldBase := db.
				Model(&models.OrderedTicket{}).
				Joins("JOIN reservations ON reservations.id = ordered_tickets.reservation_id").
				Where("ordered_tickets.event_id = ?", eventId).
				Where("reservations.status = ?", types.RESERVATION_COMPLETED)
			stats := types.APIResponseEventStats{TicketTypes: map[string]int64{}}
			if err := soldBase.Session(&gorm.Session{}).Count(&stats.AllTicketsSold).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			for _, tt := range event.TicketTypes {
				var count int64
				if err := soldBase.
					Session(&gorm.Session{}).
					Where("ordered_tickets.type = ?", tt.Type).
					Count(&count).
					Error; err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
					return
				}
				stats.TicketTypes[tt.Type] = count
			}
			ctx.JSON(http.StatusOK, gin.H{"ticket_counters": stats, "event": event})
		})
	return g
}
