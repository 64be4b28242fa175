package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureOrderIndexes creates the unique index on the Stripe checkout session
// id. The webhook reconciler relies on this to guarantee at most one order
// per session even when two deliveries race.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	sessionIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "stripeSessionId", Value: 1}},
		Options: options.Index().
			SetName("stripeSessionId_unique").
			SetUnique(true),
	}

	log.Println("EnsureOrderIndexes: creating stripeSessionId_unique index")
	if _, err := indexes.CreateOne(ctx, sessionIndex); err != nil {
		log.Println("EnsureOrderIndexes: stripeSessionId index error:", err)
		return err
	}

	statusIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}},
		Options: options.Index().SetName("status_scheduledDate_index"),
	}
	if _, err := indexes.CreateOne(ctx, statusIndex); err != nil {
		log.Println("EnsureOrderIndexes: status index error:", err)
		return err
	}

	log.Println("EnsureOrderIndexes: order indexes created")
	return nil
}

// EnsureCustomOrderIndexes creates the unique partial index on payment tokens.
// Tokens are only present once a payment link has been minted, hence the
// partial filter.
func EnsureCustomOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("custom_order_requests").Indexes()

	tokenIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "paymentToken", Value: 1}},
		Options: options.Index().
			SetName("paymentToken_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"paymentToken": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureCustomOrderIndexes: creating paymentToken_unique index")
	if _, err := indexes.CreateOne(ctx, tokenIndex); err != nil {
		log.Println("EnsureCustomOrderIndexes: paymentToken index error:", err)
		return err
	}
	log.Println("EnsureCustomOrderIndexes: paymentToken_unique index created")
	return nil
}

// EnsureMenuIndexes keeps catalog lookups by active flag fast and enforces
// unique item slugs for the storefront.
func EnsureMenuIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("menu_items").Indexes()

	slugIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().
			SetName("slug_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"slug": bson.M{
					"$exists": true,
				},
			}),
	}

	log.Println("EnsureMenuIndexes: creating slug_unique index")
	if _, err := indexes.CreateOne(ctx, slugIndex); err != nil {
		log.Println("EnsureMenuIndexes: slug index error:", err)
		return err
	}

	activeIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("isActive_createdAt_index"),
	}
	if _, err := indexes.CreateOne(ctx, activeIndex); err != nil {
		log.Println("EnsureMenuIndexes: isActive index error:", err)
		return err
	}

	log.Println("EnsureMenuIndexes: menu indexes created")
	return nil
}
