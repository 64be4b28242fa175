package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"bakeshop/internal/models"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func ensureDBConnection(ctx context.Context, db *mongo.Database) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return db.Client().Ping(checkCtx, readpref.Primary())
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// loadStoreSettings reads the settings singleton fresh for the current
// request. A missing document yields zero-value settings (no routing, empty
// schedule), which fail closed at validation.
func loadStoreSettings(ctx context.Context, db *mongo.Database) (models.StoreSettings, error) {
	var settings models.StoreSettings
	err := db.Collection("settings").
		FindOne(ctx, bson.M{"_id": models.StoreSettingsID}).
		Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.StoreSettings{ID: models.StoreSettingsID}, nil
	}
	if err != nil {
		return models.StoreSettings{}, err
	}
	return settings, nil
}
