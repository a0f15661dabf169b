package kitchen

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

// ErrNoKitchen means the fallback chain exhausted without a match. Orders
// are rejected rather than persisted with no kitchen.
var ErrNoKitchen = errors.New("no kitchen covers this order")

// Load fetches all active kitchens.
func Load(ctx context.Context, db *mongo.Database) ([]models.Kitchen, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := db.Collection("kitchens").Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	var kitchens []models.Kitchen
	if err := cursor.All(ctx, &kitchens); err != nil {
		return nil, err
	}
	return kitchens, nil
}

// Route picks the fulfillment kitchen for a delivery pincode. The chain, in
// order, first match wins:
//  1. all-veg order: veg-only kitchen covering the pincode
//  2. all-veg order: veg-only master kitchen
//  3. any order: master kitchen
//  4. non-veg order: non-veg kitchen covering the pincode, else non-veg
//     master kitchen
func Route(kitchens []models.Kitchen, pincode string, allVeg bool) (models.Kitchen, error) {
	if allVeg {
		if k, ok := match(kitchens, func(k models.Kitchen) bool {
			return k.VegOnly && coversPincode(k, pincode)
		}); ok {
			return k, nil
		}
		if k, ok := match(kitchens, func(k models.Kitchen) bool {
			return k.VegOnly && k.MasterKitchen
		}); ok {
			return k, nil
		}
	} else {
		if k, ok := match(kitchens, func(k models.Kitchen) bool {
			return !k.VegOnly && coversPincode(k, pincode)
		}); ok {
			return k, nil
		}
		if k, ok := match(kitchens, func(k models.Kitchen) bool {
			return !k.VegOnly && k.MasterKitchen
		}); ok {
			return k, nil
		}
	}

	if k, ok := match(kitchens, func(k models.Kitchen) bool {
		return k.MasterKitchen
	}); ok {
		return k, nil
	}

	return models.Kitchen{}, ErrNoKitchen
}

func match(kitchens []models.Kitchen, pred func(models.Kitchen) bool) (models.Kitchen, bool) {
	for _, k := range kitchens {
		if pred(k) {
			return k, true
		}
	}
	return models.Kitchen{}, false
}

func coversPincode(k models.Kitchen, pincode string) bool {
	for _, p := range k.Pincodes {
		if p == pincode {
			return true
		}
	}
	return false
}
