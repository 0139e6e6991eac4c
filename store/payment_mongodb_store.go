package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

// PaymentMongoDBStore is insert-only; payment records are an audit trail.
type PaymentMongoDBStore struct {
	payments *mongo.Collection
	tracer   trace.Tracer
}

func NewPaymentMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.PaymentStore {
	return &PaymentMongoDBStore{
		payments: db.Collection(PAYMENTS),
		tracer:   tracer,
	}
}

func (store *PaymentMongoDBStore) Insert(ctx context.Context, payment *domain.Payment) error {
	ctx, span := store.tracer.Start(ctx, "PaymentStore.Insert")
	defer span.End()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.payments, payment))
}

func (store *PaymentMongoDBStore) ListByUser(ctx context.Context, user primitive.ObjectID) ([]*domain.Payment, error) {
	ctx, span := store.tracer.Start(ctx, "PaymentStore.ListByUser")
	defer span.End()

	payments, err := filter[domain.Payment](ctx, store.payments, bson.M{"user": user}, newestFirst())
	return payments, record(span, err)
}

func (store *PaymentMongoDBStore) ListAll(ctx context.Context) ([]*domain.Payment, error) {
	ctx, span := store.tracer.Start(ctx, "PaymentStore.ListAll")
	defer span.End()

	payments, err := filter[domain.Payment](ctx, store.payments, bson.M{}, newestFirst())
	return payments, record(span, err)
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}
