package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakeshop/internal/models"
)

/*
GET /admin/api/settings
*/
func GetSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		settings, err := loadStoreSettings(ctx, db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, settings)
	}
}

type updateSettingsRequest struct {
	StripeAccountID *string                `json:"stripeAccountId"`
	Schedule        *models.ScheduleConfig `json:"schedule"`
	Delivery        *models.DeliveryConfig `json:"delivery"`
}

/*
PUT /admin/api/settings
- upserts the singleton document
*/
func UpdateSettings(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{"updatedAt": time.Now()}
		if req.StripeAccountID != nil {
			update["stripeAccountId"] = strings.TrimSpace(*req.StripeAccountID)
		}
		if req.Schedule != nil {
			if req.Schedule.LeadTimeDays < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "leadTimeDays cannot be negative"})
				return
			}
			update["schedule"] = req.Schedule
		}
		if req.Delivery != nil {
			if req.Delivery.RadiusMiles < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "radiusMiles cannot be negative"})
				return
			}
			update["delivery"] = req.Delivery
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.StoreSettings
		err := db.Collection("settings").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": models.StoreSettingsID},
				bson.M{"$set": update},
				options.FindOneAndUpdate().
					SetUpsert(true).
					SetReturnDocument(options.After),
			).
			Decode(&updated)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}
