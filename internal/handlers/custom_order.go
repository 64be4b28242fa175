package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bakeshop/internal/checkout"
	"bakeshop/internal/models"
)

type createCustomOrderRequest struct {
	CustomerName    string `json:"customerName" binding:"required"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Description     string `json:"description" binding:"required"`
	Fulfillment     string `json:"fulfillment" binding:"required"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// CreateCustomOrder is the public intake endpoint for bespoke requests.
func CreateCustomOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /custom-orders"
		defer handlePanic(c, route)

		var req createCustomOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if req.Fulfillment != models.FulfillmentPickup && req.Fulfillment != models.FulfillmentDelivery {
			respondWithError(c, http.StatusBadRequest, route, "invalid fulfillment mode")
			return
		}

		now := time.Now()
		request := models.CustomOrderRequest{
			CustomerName:    strings.TrimSpace(req.CustomerName),
			Email:           strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:           strings.TrimSpace(req.Phone),
			Description:     strings.TrimSpace(req.Description),
			Status:          models.CustomOrderPending,
			Fulfillment:     req.Fulfillment,
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("custom_order_requests").InsertOne(ctx, request)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := result.InsertedID.(primitive.ObjectID); ok {
			request.ID = id
		}

		c.JSON(http.StatusCreated, request)
	}
}

type payByTokenRequest struct {
	Token             string `json:"token" binding:"required"`
	ScheduledDate     string `json:"scheduledDate" binding:"required"`
	ScheduledTimeSlot string `json:"scheduledTimeSlot" binding:"required"`
	DeliveryAddress   string `json:"deliveryAddress"`
	CustomerEmail     string `json:"customerEmail"`
}

// PayCustomOrder is the public, token-gated payment endpoint. The token is
// the only way in; request ids are never accepted.
func PayCustomOrder(db *mongo.Database, links *checkout.LinkManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /custom-orders/pay"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req payByTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		settings, err := loadStoreSettings(ctx, db)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		session, err := links.PayByToken(ctx, settings, strings.TrimSpace(req.Token), checkout.PayRequest{
			ScheduledDate:     req.ScheduledDate,
			ScheduledTimeSlot: req.ScheduledTimeSlot,
			DeliveryAddress:   req.DeliveryAddress,
			CustomerEmail:     req.CustomerEmail,
		})
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": session.ClientSecret})
	}
}
