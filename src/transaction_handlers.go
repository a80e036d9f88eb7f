package main

import (
	"errors"
	"log"
	"net/http"
	"ticketonline/src/common"
	"ticketonline/src/db"
	"ticketonline/src/lib"
	"ticketonline/src/models"
	"ticketonline/src/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func transactionHandlers(g *gin.RouterGroup, dispatcher lib.ChargeDispatcher) *gin.RouterGroup {
	g.
		POST("/reservations/:id/payment", func(ctx *gin.Context) {
			resId, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			transaction, err := common.InitiatePayment(resId, dispatcher)
			if err != nil {
				switch {
				case errors.Is(err, gorm.ErrRecordNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"error": "reservation not found"})
				case errors.Is(err, types.ErrReservationNotPending):
					ctx.JSON(http.StatusForbidden, gin.H{
						"error":   "NotPending",
						"message": err.Error(),
					})
				default:
					log.Printf("Error initiating payment for Reservation %s: %s\n", resId.String(), err.Error())
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Error while processing request"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"ok":             "Transaction started",
				"reservation_id": resId.String(),
				"transaction_id": transaction.ID.String(),
				"message":        "Transaction started successfully. Now wait for payment confirmation",
			})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			txnId, err := uuid.Parse(ctx.Params.ByName("id"))
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var txn models.Transaction
			if err := db.Where(&models.Transaction{ID: txnId}).First(&txn).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"status": txn.Status, "transaction_error": txn.ErrorType})
		})
	return g
}
