package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kitchen is a fulfillment kitchen. MasterKitchen marks the fallback hub
// used when no pincode-covering kitchen exists.
type Kitchen struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Pincodes      []string           `bson:"pincodes" json:"pincodes"`
	VegOnly       bool               `bson:"vegOnly" json:"vegOnly"`
	MasterKitchen bool               `bson:"masterKitchen" json:"masterKitchen"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
