package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"bakeshop/internal/checkout"
	"bakeshop/internal/payments"
)

// StripeWebhook consumes session-completion events. Verified events are
// reconciled idempotently; a malformed but authentic event is acknowledged so
// the processor stops redelivering it, while transient infrastructure errors
// return 500 so standard redelivery applies.
func StripeWebhook(verifier payments.EventVerifier, reconciler *checkout.Reconciler) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /webhooks/stripe"
		defer handlePanic(c, route)

		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "unreadable body")
			return
		}

		event, err := verifier.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, payments.ErrWebhookNotConfigured) {
				respondWithError(c, http.StatusInternalServerError, route, "webhook not configured")
				return
			}
			if errors.Is(err, payments.ErrMalformedEvent) {
				// Authentic but undecodable; redelivery carries the same bytes.
				log.Printf("[%s] rejected undecodable event: %v", route, err)
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			respondWithError(c, http.StatusBadRequest, route, "invalid signature")
			return
		}

		if err := reconciler.ProcessEvent(c.Request.Context(), event); err != nil {
			var metaErr *checkout.MetadataError
			if errors.As(err, &metaErr) {
				// Authentic but unusable; redelivery cannot fix it.
				log.Printf("[%s] rejected event %s: %v", route, event.ID, metaErr)
				c.JSON(http.StatusOK, gin.H{"received": true})
				return
			}
			log.Printf("[%s] reconcile failed for event %s: %v", route, event.ID, err)
			respondWithError(c, http.StatusInternalServerError, route, "reconciliation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
