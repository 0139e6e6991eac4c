package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type NotificationMongoDBStore struct {
	notifications *mongo.Collection
	tracer        trace.Tracer
}

func NewNotificationMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.NotificationStore {
	return &NotificationMongoDBStore{
		notifications: db.Collection(NOTIFICATIONS),
		tracer:        tracer,
	}
}

func (store *NotificationMongoDBStore) Insert(ctx context.Context, notification *domain.Notification) error {
	ctx, span := store.tracer.Start(ctx, "NotificationStore.Insert")
	defer span.End()

	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.notifications, notification))
}

func (store *NotificationMongoDBStore) ListByUser(ctx context.Context, user primitive.ObjectID, unreadOnly bool) ([]*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationStore.ListByUser")
	defer span.End()

	query := bson.M{"user": user}
	if unreadOnly {
		query["read"] = false
	}
	notifications, err := filter[domain.Notification](ctx, store.notifications, query, newestFirst())
	return notifications, record(span, err)
}

// MarkRead only touches notifications owned by user.
func (store *NotificationMongoDBStore) MarkRead(ctx context.Context, id, user primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "NotificationStore.MarkRead")
	defer span.End()

	query := bson.M{"_id": id, "user": user}
	return record(span, updateOne(ctx, store.notifications, query, bson.M{"$set": bson.M{"read": true}}))
}

func (store *NotificationMongoDBStore) MarkAllRead(ctx context.Context, user primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "NotificationStore.MarkAllRead")
	defer span.End()

	query := bson.M{"user": user, "read": false}
	_, err := store.notifications.UpdateMany(ctx, query, bson.M{"$set": bson.M{"read": true}})
	return record(span, err)
}
