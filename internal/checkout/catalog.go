package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bakeshop/internal/models"
)

// ErrLineNotFound means a requested catalog line is not currently
// purchasable: unknown id, inactive item, inactive variant, or a
// variants-only item requested at base price.
var ErrLineNotFound = errors.New("checkout: catalog line not found")

// ResolvedLine is the authoritative name and unit price for a catalog line.
type ResolvedLine struct {
	Name  string
	Price float64
}

// CatalogResolver looks up the current catalog row for a line reference.
// Client-supplied names and prices are never consulted.
type CatalogResolver interface {
	ResolveLine(ctx context.Context, itemID, variantID string) (ResolvedLine, error)
}

// MongoCatalog resolves lines against the menu_items collection.
type MongoCatalog struct {
	DB *mongo.Database
}

func (c *MongoCatalog) ResolveLine(ctx context.Context, itemID, variantID string) (ResolvedLine, error) {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return ResolvedLine{}, ErrLineNotFound
	}

	var item models.MenuItem
	err = c.DB.Collection("menu_items").FindOne(ctx, bson.M{
		"_id":       oid,
		"isActive":  true,
		"isDeleted": bson.M{"$ne": true},
	}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return ResolvedLine{}, ErrLineNotFound
	}
	if err != nil {
		return ResolvedLine{}, err
	}

	if variantID == "" {
		if item.VariantsOnly {
			return ResolvedLine{}, ErrLineNotFound
		}
		return ResolvedLine{Name: item.Name, Price: item.Price}, nil
	}

	variant := item.Variant(variantID)
	if variant == nil || !variant.IsActive {
		return ResolvedLine{}, ErrLineNotFound
	}
	return ResolvedLine{
		Name:  fmt.Sprintf("%s (%s)", item.Name, variant.Label),
		Price: variant.Price,
	}, nil
}
