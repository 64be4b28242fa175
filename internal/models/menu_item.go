package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuItemVariant is a priced variation of an item, e.g. a pack size. A
// variant is only sellable while both it and its parent item are active.
type MenuItemVariant struct {
	ID       string  `bson:"id" json:"id"`
	Label    string  `bson:"label" json:"label"`
	Price    float64 `bson:"price" json:"price"`
	IsActive bool    `bson:"isActive" json:"isActive"`
}

type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug,omitempty" json:"slug,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	// VariantsOnly items (e.g. bespoke cakes sold in fixed tiers) cannot be
	// purchased at the base price; a variant must be selected.
	VariantsOnly bool              `bson:"variantsOnly" json:"variantsOnly"`
	Variants     []MenuItemVariant `bson:"variants,omitempty" json:"variants,omitempty"`
	Tags         TagList           `bson:"tags" json:"tags"`
	ImagePath    string            `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	IsActive     bool              `bson:"isActive" json:"isActive"`
	IsDeleted    bool              `bson:"isDeleted" json:"isDeleted,omitempty"`
	DeletedAt    *time.Time        `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt    time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Variant returns the variant with the given id, if any.
func (m *MenuItem) Variant(id string) *MenuItemVariant {
	for i := range m.Variants {
		if m.Variants[i].ID == id {
			return &m.Variants[i]
		}
	}
	return nil
}
