package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type AlertMongoDBStore struct {
	alerts *mongo.Collection
	tracer trace.Tracer
}

func NewAlertMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.AlertStore {
	return &AlertMongoDBStore{
		alerts: db.Collection(ALERTS),
		tracer: tracer,
	}
}

func (store *AlertMongoDBStore) Insert(ctx context.Context, alert *domain.Alert) error {
	ctx, span := store.tracer.Start(ctx, "AlertStore.Insert")
	defer span.End()

	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.alerts, alert))
}

func (store *AlertMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Alert, error) {
	ctx, span := store.tracer.Start(ctx, "AlertStore.Get")
	defer span.End()

	alert, err := filterOne[domain.Alert](ctx, store.alerts, bson.M{"_id": id})
	return alert, record(span, err)
}

func (store *AlertMongoDBStore) ListByUser(ctx context.Context, user primitive.ObjectID) ([]*domain.Alert, error) {
	ctx, span := store.tracer.Start(ctx, "AlertStore.ListByUser")
	defer span.End()

	alerts, err := filter[domain.Alert](ctx, store.alerts, bson.M{"user": user}, newestFirst())
	return alerts, record(span, err)
}

func (store *AlertMongoDBStore) CountByUser(ctx context.Context, user primitive.ObjectID) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "AlertStore.CountByUser")
	defer span.End()

	count, err := store.alerts.CountDocuments(ctx, bson.M{"user": user})
	return count, record(span, err)
}

func (store *AlertMongoDBStore) ListActive(ctx context.Context) ([]*domain.Alert, error) {
	ctx, span := store.tracer.Start(ctx, "AlertStore.ListActive")
	defer span.End()

	alerts, err := filter[domain.Alert](ctx, store.alerts, bson.M{"active": true})
	return alerts, record(span, err)
}

func (store *AlertMongoDBStore) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	ctx, span := store.tracer.Start(ctx, "AlertStore.SetActive")
	defer span.End()

	update := bson.M{"$set": bson.M{"active": active}}
	return record(span, updateOne(ctx, store.alerts, bson.M{"_id": id}, update))
}

func (store *AlertMongoDBStore) MarkNotified(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	ctx, span := store.tracer.Start(ctx, "AlertStore.MarkNotified")
	defer span.End()

	update := bson.M{"$set": bson.M{"lastNotifiedAt": at}}
	return record(span, updateOne(ctx, store.alerts, bson.M{"_id": id}, update))
}

func (store *AlertMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "AlertStore.Delete")
	defer span.End()

	return record(span, deleteOne(ctx, store.alerts, bson.M{"_id": id}))
}
