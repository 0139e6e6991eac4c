package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type PropertyMongoDBStore struct {
	properties *mongo.Collection
	tracer     trace.Tracer
}

func NewPropertyMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.PropertyStore {
	return &PropertyMongoDBStore{
		properties: db.Collection(PROPERTIES),
		tracer:     tracer,
	}
}

func (store *PropertyMongoDBStore) Insert(ctx context.Context, property *domain.Property) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Insert")
	defer span.End()

	if property.ID.IsZero() {
		property.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.properties, property))
}

func (store *PropertyMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Get")
	defer span.End()

	property, err := filterOne[domain.Property](ctx, store.properties, bson.M{"_id": id})
	return property, record(span, err)
}

func (store *PropertyMongoDBStore) GetAndCountView(ctx context.Context, id primitive.ObjectID) (*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.GetAndCountView")
	defer span.End()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var property domain.Property
	err := store.properties.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&property)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, record(span, err)
	}
	return &property, nil
}

func (store *PropertyMongoDBStore) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.GetMany")
	defer span.End()

	if len(ids) == 0 {
		return []*domain.Property{}, nil
	}
	properties, err := filter[domain.Property](ctx, store.properties, bson.M{"_id": bson.M{"$in": ids}})
	return properties, record(span, err)
}

func (store *PropertyMongoDBStore) GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.GetByOwner")
	defer span.End()

	opts := options.Find().SetSort(PropertySort(domain.SortNewest))
	properties, err := filter[domain.Property](ctx, store.properties, bson.M{"owner": owner}, opts)
	return properties, record(span, err)
}

func (store *PropertyMongoDBStore) Search(ctx context.Context, q domain.PropertyQuery, now time.Time) ([]*domain.Property, int64, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Search")
	defer span.End()

	query := PropertyFilter(q, now)
	total, err := store.properties.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, record(span, err)
	}

	opts := options.Find().
		SetSort(PropertySort(q.Sort)).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit))
	properties, err := filter[domain.Property](ctx, store.properties, query, opts)
	if err != nil {
		return nil, 0, record(span, err)
	}
	return properties, total, nil
}

func (store *PropertyMongoDBStore) Similar(ctx context.Context, property *domain.Property, limit int) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Similar")
	defer span.End()

	opts := options.Find().SetSort(PropertySort(domain.SortNewest)).SetLimit(int64(limit))
	properties, err := filter[domain.Property](ctx, store.properties, SimilarFilter(property), opts)
	return properties, record(span, err)
}

func (store *PropertyMongoDBStore) Featured(ctx context.Context, now time.Time, limit int) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Featured")
	defer span.End()

	opts := options.Find().SetSort(PropertySort(domain.SortNewest)).SetLimit(int64(limit))
	properties, err := filter[domain.Property](ctx, store.properties, FeaturedFilter(now), opts)
	return properties, record(span, err)
}

// Update writes the client-editable fields. Counters, rating and
// featuring are owned by their own operations and left alone.
func (store *PropertyMongoDBStore) Update(ctx context.Context, p *domain.Property) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Update")
	defer span.End()

	update := bson.M{"$set": bson.M{
		"title":        p.Title,
		"description":  p.Description,
		"propertyType": p.PropertyType,
		"listingType":  p.ListingType,
		"price":        p.Price,
		"area":         p.Area,
		"bedrooms":     p.Bedrooms,
		"bathrooms":    p.Bathrooms,
		"furnishing":   p.Furnishing,
		"amenities":    p.Amenities,
		"images":       p.Images,
		"location":     p.Location,
		"status":       p.Status,
		"updatedAt":    p.UpdatedAt,
	}}
	return record(span, updateOne(ctx, store.properties, bson.M{"_id": p.ID}, update))
}

func (store *PropertyMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.Delete")
	defer span.End()

	return record(span, deleteOne(ctx, store.properties, bson.M{"_id": id}))
}

func (store *PropertyMongoDBStore) SetFeatured(ctx context.Context, id primitive.ObjectID, until time.Time) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.SetFeatured")
	defer span.End()

	update := bson.M{"$set": bson.M{"isFeatured": true, "featuredUntil": until, "updatedAt": time.Now().UTC()}}
	return record(span, updateOne(ctx, store.properties, bson.M{"_id": id}, update))
}

func (store *PropertyMongoDBStore) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.SetVerified")
	defer span.End()

	update := bson.M{"$set": bson.M{"isVerified": verified, "updatedAt": time.Now().UTC()}}
	return record(span, updateOne(ctx, store.properties, bson.M{"_id": id}, update))
}

func (store *PropertyMongoDBStore) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error {
	ctx, span := store.tracer.Start(ctx, "PropertyStore.SetRating")
	defer span.End()

	update := bson.M{"$set": bson.M{"rating": rating, "reviewCount": count}}
	return record(span, updateOne(ctx, store.properties, bson.M{"_id": id}, update))
}
