package store

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type ReviewMongoDBStore struct {
	reviews *mongo.Collection
	tracer  trace.Tracer
}

func NewReviewMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.ReviewStore {
	return &ReviewMongoDBStore{
		reviews: db.Collection(REVIEWS),
		tracer:  tracer,
	}
}

// Insert returns ErrDuplicate when the author already reviewed the property.
func (store *ReviewMongoDBStore) Insert(ctx context.Context, review *domain.Review) error {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Insert")
	defer span.End()

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.reviews, review))
}

func (store *ReviewMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Get")
	defer span.End()

	review, err := filterOne[domain.Review](ctx, store.reviews, bson.M{"_id": id})
	return review, record(span, err)
}

func (store *ReviewMongoDBStore) ListByProperty(ctx context.Context, property primitive.ObjectID) ([]*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.ListByProperty")
	defer span.End()

	reviews, err := filter[domain.Review](ctx, store.reviews, bson.M{"property": property}, newestFirst())
	return reviews, record(span, err)
}

func (store *ReviewMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Delete")
	defer span.End()

	return record(span, deleteOne(ctx, store.reviews, bson.M{"_id": id}))
}

func (store *ReviewMongoDBStore) Stats(ctx context.Context, property primitive.ObjectID) (float64, int, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewStore.Stats")
	defer span.End()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"property": property}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.M{"$avg": "$rating"}},
			{Key: "count", Value: bson.M{"$sum": 1}},
		}}},
	}
	cursor, err := store.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, record(span, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg   float64 `bson:"avg"`
		Count int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, record(span, err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return math.Round(rows[0].Avg*10) / 10, rows[0].Count, nil
}
