package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

// Indexes declares every collection index. The partial unique index on
// bookings allows at most one pending booking per (property, buyer).
func Indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		USERS: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		PROPERTIES: {
			{Keys: bson.D{{Key: "location.city", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "isFeatured", Value: 1}, {Key: "featuredUntil", Value: 1}}},
		},
		BOOKINGS: {
			{
				Keys: bson.D{{Key: "property", Value: 1}, {Key: "buyer", Value: 1}},
				Options: options.Index().
					SetName("one_pending_per_buyer").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": domain.BookingPending}),
			},
			{Keys: bson.D{{Key: "confirmationToken", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "buyer", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "seller", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		PAYMENTS: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "transactionId", Value: 1}}},
		},
		INQUIRIES: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		REVIEWS: {
			{Keys: bson.D{{Key: "property", Value: 1}, {Key: "author", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		ALERTS: {
			{Keys: bson.D{{Key: "user", Value: 1}}},
			{Keys: bson.D{{Key: "active", Value: 1}}},
		},
		NOTIFICATIONS: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "read", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, models := range Indexes() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating indexes on %s: %w", collection, err)
		}
	}
	return nil
}
