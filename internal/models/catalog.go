package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Dish diet tags.
const (
	DietVeg    = "Veg"
	DietNonveg = "Nonveg"
	DietJain   = "Jain"
)

// CustomizeOption is one selectable option within a customize category.
type CustomizeOption struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	PriceAddOn float64            `bson:"priceAddOn" json:"priceAddOn"`
}

// CustomizeCategory groups customize options for a dish. Limit caps how many
// options may be selected; when AllowMultiple is false the effective limit
// is one regardless of Limit.
type CustomizeCategory struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	AllowMultiple bool               `bson:"allowMultiple" json:"allowMultiple"`
	Limit         int                `bson:"limit" json:"limit"`
	Options       []CustomizeOption  `bson:"options" json:"options"`
}

// Dish is a single orderable item, embedded inside its category. ThalPrice
// and NormalPrice are the two sale tiers.
type Dish struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title               string              `bson:"title" json:"title"`
	Description         string              `bson:"description,omitempty" json:"description,omitempty"`
	ThalPrice           float64             `bson:"thalPrice" json:"thalPrice"`
	NormalPrice         float64             `bson:"normalPrice" json:"normalPrice"`
	Diet                string              `bson:"diet" json:"diet"`
	ImagePath           string              `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	IsActive            bool                `bson:"isActive" json:"isActive"`
	CustomizeCategories []CustomizeCategory `bson:"customizeCategories,omitempty" json:"customizeCategories,omitempty"`
}

// Category is a catalog category with its dishes embedded.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Sequence  int                `bson:"sequence" json:"sequence"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	Dishes    []Dish             `bson:"dishes" json:"dishes"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Combo is a bundled set of dishes sold at a fixed price.
type Combo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Amount      float64            `bson:"amount" json:"amount"`
	Diet        string             `bson:"diet" json:"diet"`
	ImagePath   string             `bson:"imagePath,omitempty" json:"imagePath,omitempty"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
