package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type InquiryMongoDBStore struct {
	inquiries *mongo.Collection
	tracer    trace.Tracer
}

func NewInquiryMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.InquiryStore {
	return &InquiryMongoDBStore{
		inquiries: db.Collection(INQUIRIES),
		tracer:    tracer,
	}
}

func (store *InquiryMongoDBStore) Insert(ctx context.Context, inquiry *domain.Inquiry) error {
	ctx, span := store.tracer.Start(ctx, "InquiryStore.Insert")
	defer span.End()

	if inquiry.ID.IsZero() {
		inquiry.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.inquiries, inquiry))
}

func (store *InquiryMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Inquiry, error) {
	ctx, span := store.tracer.Start(ctx, "InquiryStore.Get")
	defer span.End()

	inquiry, err := filterOne[domain.Inquiry](ctx, store.inquiries, bson.M{"_id": id})
	return inquiry, record(span, err)
}

func (store *InquiryMongoDBStore) ListBySender(ctx context.Context, sender primitive.ObjectID) ([]*domain.Inquiry, error) {
	ctx, span := store.tracer.Start(ctx, "InquiryStore.ListBySender")
	defer span.End()

	inquiries, err := filter[domain.Inquiry](ctx, store.inquiries, bson.M{"sender": sender}, newestFirst())
	return inquiries, record(span, err)
}

func (store *InquiryMongoDBStore) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Inquiry, error) {
	ctx, span := store.tracer.Start(ctx, "InquiryStore.ListByOwner")
	defer span.End()

	inquiries, err := filter[domain.Inquiry](ctx, store.inquiries, bson.M{"owner": owner}, newestFirst())
	return inquiries, record(span, err)
}

func (store *InquiryMongoDBStore) Update(ctx context.Context, inquiry *domain.Inquiry) error {
	ctx, span := store.tracer.Start(ctx, "InquiryStore.Update")
	defer span.End()

	update := bson.M{"$set": bson.M{
		"status":      inquiry.Status,
		"response":    inquiry.Response,
		"respondedAt": inquiry.RespondedAt,
	}}
	return record(span, updateOne(ctx, store.inquiries, bson.M{"_id": inquiry.ID}, update))
}
