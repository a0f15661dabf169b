package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "referralCode", Value: 1}},
			Options: options.Index().
				SetName("referralCode_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"referralCode": bson.M{"$type": "string"},
				}),
		},
	}

	log.Println("EnsureUserIndexes: creating user indexes")
	_, err := indexes.CreateMany(ctx, models)
	if err != nil {
		log.Println("EnsureUserIndexes: index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt"),
	}

	log.Println("EnsureOrderIndexes: creating userId_createdAt index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureOrderIndexes: userId index error:", err)
		return err
	}
	return nil
}

// EnsurePaymentIndexes makes gatewayOrderId unique so a replayed webhook can
// never match more than one payment.
func EnsurePaymentIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("payments").Indexes()

	gatewayIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "gatewayOrderId", Value: 1}},
		Options: options.Index().SetName("gatewayOrderId_unique").SetUnique(true),
	}

	log.Println("EnsurePaymentIndexes: creating gatewayOrderId_unique index")
	_, err := indexes.CreateOne(ctx, gatewayIndex)
	if err != nil {
		log.Println("EnsurePaymentIndexes: gatewayOrderId index error:", err)
		return err
	}
	return nil
}

func EnsureTransactionIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("transactions").Indexes()

	userIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("userId_createdAt"),
	}

	log.Println("EnsureTransactionIndexes: creating userId_createdAt index")
	_, err := indexes.CreateOne(ctx, userIDIndex)
	if err != nil {
		log.Println("EnsureTransactionIndexes: userId index error:", err)
		return err
	}
	return nil
}
