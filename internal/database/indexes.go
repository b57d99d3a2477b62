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

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "mainCategory", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().SetName("category_lookup"),
		},
		{
			Keys:    bson.D{{Key: "stock", Value: 1}},
			Options: options.Index().SetName("stock_index"),
		},
	}

	log.Println("EnsureProductIndexes: creating category and stock indexes")
	_, err := db.Collection("products").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureProductIndexes: index error:", err)
		return err
	}
	return nil
}

// EnsureOrderIndexes creates the order lookup indexes. The partial unique
// indexes on the processor correlation ids guarantee a Stripe session or a
// PayPal order can never be attached to two orders.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_createdAt"),
		},
		{
			Keys: bson.D{{Key: "stripeSessionId", Value: 1}},
			Options: options.Index().
				SetName("stripeSessionId_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"stripeSessionId": bson.M{"$exists": true},
				}),
		},
		{
			Keys: bson.D{{Key: "paypalOrderId", Value: 1}},
			Options: options.Index().
				SetName("paypalOrderId_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"paypalOrderId": bson.M{"$exists": true},
				}),
		},
	}

	log.Println("EnsureOrderIndexes: creating user and correlation id indexes")
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}
