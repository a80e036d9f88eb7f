package main

import (
	"errors"
	"log"
	"net/http"
	"ticketonline/src/common"
	"ticketonline/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func reservationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/reservations", func(ctx *gin.Context) {
			var body types.CreateReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := common.CreateReservation(body.EventID, body.Tickets)
			if err != nil {
				var insufficient *types.InsufficientInventoryError
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				case errors.Is(err, types.ErrUnknownTicketType):
					ctx.JSON(http.StatusBadRequest, gin.H{
						"error":   "UnknownTicketType",
						"message": "This event does not distribute tickets of this type",
					})
				case errors.Is(err, types.ErrQuantityExceeded):
					ctx.JSON(http.StatusBadRequest, gin.H{
						"error":   "QuantityExceeded",
						"message": err.Error(),
					})
				case errors.As(err, &insufficient):
					ctx.JSON(http.StatusConflict, gin.H{
						"error":   "InsufficientInventory",
						"message": err.Error(),
					})
				default:
					log.Printf("Error creating Reservation: %s\n", err.Error())
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				}
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{
				"ok":             "Reservation made successfully",
				"reservation_id": reservation.ID.String(),
				"message":        "Reservation made successfully! Remember to finalize the payment within 15 minutes from now",
			})
		}).
		GET("/reservations/:id", func(ctx *gin.Context) {
			resId, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			reservation, err := common.GetReservation(resId)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"reservation": reservation,
				"tickets":     reservation.Tickets,
				"event":       reservation.Event,
			})
		}).
		DELETE("/reservations/:id", func(ctx *gin.Context) {
			resId, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := common.CancelReservation(resId); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
					return
				}
				log.Printf("Error cancelling Reservation %s: %s\n", resId.String(), err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"ok":      "Reservation cancelled",
				"message": "Reservation for the event was cancelled successfully",
			})
		})
	return g
}
