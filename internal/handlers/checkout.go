package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"bakeshop/internal/checkout"
	"bakeshop/internal/payments"
)

type checkoutRequest struct {
	Items             []checkout.LineRequest `json:"items" binding:"required"`
	Fulfillment       string                 `json:"fulfillment" binding:"required"`
	ScheduledDate     string                 `json:"scheduledDate" binding:"required"`
	ScheduledTimeSlot string                 `json:"scheduledTimeSlot" binding:"required"`
	DeliveryAddress   string                 `json:"deliveryAddress"`
	Notes             string                 `json:"notes"`
	CustomerName      string                 `json:"customerName" binding:"required"`
	CustomerEmail     string                 `json:"customerEmail"`
	CustomerPhone     string                 `json:"customerPhone"`
}

// Checkout creates a hosted payment session for a cart. Prices always come
// from the catalog; any price field a client smuggles into the body is
// ignored by the binding.
func Checkout(db *mongo.Database, builder *checkout.Builder) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req checkoutRequest
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

		session, err := builder.CreateCartSession(ctx, settings, checkout.CheckoutRequest{
			Lines:             req.Items,
			Fulfillment:       req.Fulfillment,
			ScheduledDate:     req.ScheduledDate,
			ScheduledTimeSlot: req.ScheduledTimeSlot,
			DeliveryAddress:   req.DeliveryAddress,
			Notes:             req.Notes,
			CustomerName:      req.CustomerName,
			CustomerEmail:     req.CustomerEmail,
			CustomerPhone:     req.CustomerPhone,
		})
		if err != nil {
			respondCheckoutError(c, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": session.ClientSecret})
	}
}

// respondCheckoutError maps core errors onto the HTTP taxonomy: validation
// failures are 4xx with a specific message, processor failures are 502.
func respondCheckoutError(c *gin.Context, route string, err error) {
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondWithError(c, http.StatusBadRequest, route, "cart is empty")
		return
	}
	var quantityErr *checkout.InvalidQuantityError
	if errors.As(err, &quantityErr) {
		respondWithError(c, http.StatusBadRequest, route, quantityErr.Error())
		return
	}
	var unavailableErr *checkout.UnavailableItemsError
	if errors.As(err, &unavailableErr) {
		respondWithError(c, http.StatusBadRequest, route, unavailableErr.Error())
		return
	}
	var slotErr *checkout.SlotUnavailableError
	if errors.As(err, &slotErr) {
		respondWithError(c, http.StatusBadRequest, route, slotErr.Error())
		return
	}
	var addressErr *checkout.IneligibleAddressError
	if errors.As(err, &addressErr) {
		respondWithError(c, http.StatusBadRequest, route, addressErr.Error())
		return
	}
	var amountErr *checkout.AmountTooSmallError
	if errors.As(err, &amountErr) {
		respondWithError(c, http.StatusBadRequest, route, amountErr.Error())
		return
	}

	switch {
	case errors.Is(err, checkout.ErrRequestNotFound):
		respondWithError(c, http.StatusNotFound, route, "payment link not found")
	case errors.Is(err, checkout.ErrAlreadyPaid):
		respondWithError(c, http.StatusConflict, route, "this order has already been paid")
	case errors.Is(err, checkout.ErrRequestDenied), errors.Is(err, checkout.ErrRequestNotPayable):
		respondWithError(c, http.StatusConflict, route, "this order is not accepting payment")
	case errors.Is(err, checkout.ErrNoLockedAmount):
		respondWithError(c, http.StatusConflict, route, "no payment amount has been set for this order")
	default:
		var processorErr *payments.ProcessorError
		if errors.As(err, &processorErr) {
			respondWithError(c, http.StatusBadGateway, route, "payment processor error")
			return
		}
		respondWithError(c, http.StatusInternalServerError, route, "internal error")
	}
}
