package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakeshop/internal/checkout"
	"bakeshop/internal/models"
)

// GetCustomOrders lists bespoke requests for the back office, newest first.
func GetCustomOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if !models.IsValidCustomOrderStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			filter["status"] = status
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("custom_order_requests").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var requests []models.CustomOrderRequest
		if err := cursor.All(ctx, &requests); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": requests})
	}
}

type updateCustomOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateCustomOrderStatus sets pending/accepted/denied. Paid requests are
// immutable with respect to payment, so no status change is allowed once
// paymentPaidAt is set.
func UpdateCustomOrderStatus(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateCustomOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if !models.IsValidCustomOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.CustomOrderRequest
		err = db.Collection("custom_order_requests").
			FindOneAndUpdate(
				ctx,
				bson.M{
					"_id":           id,
					"paymentPaidAt": bson.M{"$exists": false},
				},
				bson.M{"$set": bson.M{
					"status":    req.Status,
					"updatedAt": time.Now(),
				}},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusConflict, gin.H{"error": "request not found or already paid"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

type createPaymentLinkRequest struct {
	Amount     float64 `json:"amount" binding:"required"`
	Regenerate bool    `json:"regenerate"`
}

// CreatePaymentLink locks the amount on a bespoke request and returns the
// shareable payment URL.
func CreatePaymentLink(db *mongo.Database, links *checkout.LinkManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/custom-orders/:id/payment-link"
		defer handlePanic(c, route)

		var req createPaymentLinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		result, err := links.CreatePaymentLink(ctx, c.Param("id"), req.Amount, req.Regenerate)
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"paymentUrl": result.PaymentURL,
			"request":    result.Request,
		})
	}
}
