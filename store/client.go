package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	USERS         = "users"
	PROPERTIES    = "properties"
	BOOKINGS      = "bookings"
	PAYMENTS      = "payments"
	INQUIRIES     = "inquiries"
	REVIEWS       = "reviews"
	ALERTS        = "alerts"
	NOTIFICATIONS = "notifications"
)

func GetClient(ctx context.Context, host, port string) (*mongo.Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%s/", host, port)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}

func GetRedisClient(host, port string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port),
	})
	if err := client.Ping().Err(); err != nil {
		return nil, err
	}
	return client, nil
}
