package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bakeshop/internal/models"
)

type menuVariantRequest struct {
	ID       string  `json:"id"`
	Label    string  `json:"label" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	IsActive *bool   `json:"isActive"`
}

type menuItemCreateRequest struct {
	Name         string               `json:"name" binding:"required"`
	Slug         string               `json:"slug"`
	Description  string               `json:"description"`
	Price        float64              `json:"price"`
	VariantsOnly bool                 `json:"variantsOnly"`
	Variants     []menuVariantRequest `json:"variants"`
	Tags         []string             `json:"tags"`
	IsActive     *bool                `json:"isActive"`
}

type menuItemUpdateRequest struct {
	Name         *string              `json:"name"`
	Slug         *string              `json:"slug"`
	Description  *string              `json:"description"`
	Price        *float64             `json:"price"`
	VariantsOnly *bool                `json:"variantsOnly"`
	Variants     []menuVariantRequest `json:"variants"`
	Tags         []string             `json:"tags"`
	IsActive     *bool                `json:"isActive"`
}

var errInvalidVariants = errors.New("variants need unique ids and positive prices")

func buildVariants(requests []menuVariantRequest) ([]models.MenuItemVariant, error) {
	variants := make([]models.MenuItemVariant, 0, len(requests))
	seen := make(map[string]bool, len(requests))
	for _, v := range requests {
		id := strings.TrimSpace(v.ID)
		if id == "" {
			id = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v.Label), " ", "-"))
		}
		if id == "" || seen[id] {
			return nil, errInvalidVariants
		}
		seen[id] = true

		if v.Price <= 0 {
			return nil, errInvalidVariants
		}

		isActive := true
		if v.IsActive != nil {
			isActive = *v.IsActive
		}
		variants = append(variants, models.MenuItemVariant{
			ID:       id,
			Label:    strings.TrimSpace(v.Label),
			Price:    v.Price,
			IsActive: isActive,
		})
	}
	return variants, nil
}

/*
GET /admin/api/menu
- everything including inactive and variants-only items
*/
func GetAllMenuItems(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := bson.M{"isDeleted": bson.M{"$ne": true}}

		if v := strings.TrimSpace(c.Query("isActive")); v != "" {
			filter["isActive"] = v == "true"
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("menu_items").Find(ctx, filter, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		defer cursor.Close(ctx)

		var items []models.MenuItem
		if err := cursor.All(ctx, &items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "decode error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": items})
	}
}

/*
POST /admin/api/menu
- variants-only items may omit a base price; everything else needs one
*/
func CreateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}
		if !req.VariantsOnly && req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than 0"})
			return
		}
		if req.VariantsOnly && len(req.Variants) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "variants-only item needs at least one variant"})
			return
		}

		variants, err := buildVariants(req.Variants)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variants"})
			return
		}

		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		now := time.Now()
		item := models.MenuItem{
			Name:         name,
			Slug:         strings.TrimSpace(req.Slug),
			Description:  strings.TrimSpace(req.Description),
			Price:        req.Price,
			VariantsOnly: req.VariantsOnly,
			Variants:     variants,
			Tags:         models.NormalizeTags(req.Tags),
			IsActive:     isActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("menu_items").InsertOne(ctx, item)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		item.ID = result.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, item)
	}
}

/*
PUT /admin/api/menu/:id
*/
func UpdateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req menuItemUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{"updatedAt": time.Now()}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			update["name"] = name
		}
		if req.Slug != nil {
			update["slug"] = strings.TrimSpace(*req.Slug)
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than 0"})
				return
			}
			update["price"] = *req.Price
		}
		if req.VariantsOnly != nil {
			update["variantsOnly"] = *req.VariantsOnly
		}
		if req.Variants != nil {
			variants, err := buildVariants(req.Variants)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid variants"})
				return
			}
			update["variants"] = variants
		}
		if req.Tags != nil {
			update["tags"] = models.NormalizeTags(req.Tags)
		}
		if req.IsActive != nil {
			update["isActive"] = *req.IsActive
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.MenuItem
		err = db.Collection("menu_items").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": id, "isDeleted": bson.M{"$ne": true}},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "slug already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

/*
DELETE /admin/api/menu/:id
- soft delete
*/
func DeleteMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		result, err := db.Collection("menu_items").UpdateOne(
			ctx,
			bson.M{"_id": id},
			bson.M{"$set": bson.M{
				"isDeleted": true,
				"isActive":  false,
				"deletedAt": now,
				"updatedAt": now,
			}},
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}

		if result.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
