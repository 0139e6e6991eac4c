package store

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

func filter[T any](ctx context.Context, collection *mongo.Collection, query any, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := collection.Find(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		results = append(results, &doc)
	}
	return results, cursor.Err()
}

func filterOne[T any](ctx context.Context, collection *mongo.Collection, query any) (*T, error) {
	var doc T
	err := collection.FindOne(ctx, query).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func insert(ctx context.Context, collection *mongo.Collection, doc any) error {
	_, err := collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return err
}

// updateOne applies update to the document matching filter and reports
// ErrNotFound when nothing matched.
func updateOne(ctx context.Context, collection *mongo.Collection, filter, update any) error {
	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteOne(ctx context.Context, collection *mongo.Collection, filter any) error {
	result, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// record marks the span as failed for unexpected errors and passes err through.
func record(span trace.Span, err error) error {
	if err != nil && !stderrors.Is(err, domain.ErrNotFound) {
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
