package orders

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hagyustic/internal/models"
)

// MongoStore persists orders in the "orders" collection and reads product
// stock levels from "products" for the low-stock rollup.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) orders() *mongo.Collection {
	return s.db.Collection("orders")
}

func (s *MongoStore) Insert(ctx context.Context, order models.Order) (models.Order, error) {
	res, err := s.orders().InsertOne(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return order, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := s.orders().FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *MongoStore) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.orders().Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) FindAllWithOwners(ctx context.Context) ([]models.OrderWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
		{{Key: "$project", Value: bson.M{
			"owner.password":   0,
			"owner.providerId": 0,
		}}},
	}

	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.OrderWithOwner{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) HasOrdersByUser(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	count, err := s.orders().CountDocuments(ctx, bson.M{"user": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoStore) MarkPaid(ctx context.Context, id primitive.ObjectID, processor models.PaymentProcessor, confirmationID string, paidAt time.Time) (models.Order, bool, error) {
	filter := bson.M{"_id": id, "status": models.OrderProcessing, "isPaid": false}
	update := bson.M{"$set": bson.M{
		"isPaid":                true,
		"paidAt":                paidAt,
		"status":                models.OrderPaid,
		"paymentMethod":         string(processor),
		processor.RefField():    confirmationID,
		"updatedAt":             paidAt,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.orders().FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, err
	}
	return order, true, nil
}

func (s *MongoStore) UpdateStatusFrom(ctx context.Context, id primitive.ObjectID, allowedPrior []models.OrderStatus, next models.OrderStatus) (models.Order, bool, error) {
	filter := bson.M{"_id": id, "status": bson.M{"$in": allowedPrior}}
	update := bson.M{"$set": bson.M{
		"status":    next,
		"updatedAt": time.Now(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err := s.orders().FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, false, nil
	}
	if err != nil {
		return models.Order{}, false, err
	}
	return order, true, nil
}

func (s *MongoStore) TotalSales(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": models.OrderCancelled}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
	}

	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

func (s *MongoStore) CountOrders(ctx context.Context) (int64, error) {
	return s.orders().CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) CountActiveUsers(ctx context.Context) (int64, error) {
	users, err := s.orders().Distinct(ctx, "user", bson.M{})
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (s *MongoStore) CountLowStockProducts(ctx context.Context, threshold int) (int64, error) {
	return s.db.Collection("products").CountDocuments(ctx, bson.M{
		"stock": bson.M{"$lt": threshold},
	})
}

func (s *MongoStore) MonthlySales(ctx context.Context, since time.Time) ([]MonthlySale, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"createdAt": bson.M{"$gte": since},
			"status":    bson.M{"$ne": models.OrderCancelled},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m",
				"date":   "$createdAt",
			}},
			"total": bson.M{"$sum": "$totalAmount"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.orders().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sales := []MonthlySale{}
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}
