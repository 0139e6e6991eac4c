package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type UserMongoDBStore struct {
	users  *mongo.Collection
	tracer trace.Tracer
}

func NewUserMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.UserStore {
	return &UserMongoDBStore{
		users:  db.Collection(USERS),
		tracer: tracer,
	}
}

func (store *UserMongoDBStore) Insert(ctx context.Context, user *domain.User) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.Insert")
	defer span.End()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	return record(span, insert(ctx, store.users, user))
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	user, err := filterOne[domain.User](ctx, store.users, bson.M{"_id": id})
	return user, record(span, err)
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	query := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	user, err := filterOne[domain.User](ctx, store.users, query)
	return user, record(span, err)
}

func (store *UserMongoDBStore) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetMany")
	defer span.End()

	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	users, err := filter[domain.User](ctx, store.users, bson.M{"_id": bson.M{"$in": ids}})
	return users, record(span, err)
}

func (store *UserMongoDBStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetAll")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	users, err := filter[domain.User](ctx, store.users, bson.M{}, opts)
	return users, record(span, err)
}

func (store *UserMongoDBStore) UpdateProfile(ctx context.Context, user *domain.User) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateProfile")
	defer span.End()

	update := bson.M{"$set": bson.M{
		"name":      user.Name,
		"phone":     user.Phone,
		"avatar":    user.Avatar,
		"updatedAt": user.UpdatedAt,
	}}
	return record(span, updateOne(ctx, store.users, bson.M{"_id": user.ID}, update))
}

func (store *UserMongoDBStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdatePassword")
	defer span.End()

	update := bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}}
	return record(span, updateOne(ctx, store.users, bson.M{"_id": id}, update))
}

func (store *UserMongoDBStore) UpdateRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateRole")
	defer span.End()

	update := bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}}
	return record(span, updateOne(ctx, store.users, bson.M{"_id": id}, update))
}

func (store *UserMongoDBStore) AddFavorite(ctx context.Context, id, propertyID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.AddFavorite")
	defer span.End()

	update := bson.M{"$addToSet": bson.M{"favorites": propertyID}}
	return record(span, updateOne(ctx, store.users, bson.M{"_id": id}, update))
}

func (store *UserMongoDBStore) RemoveFavorite(ctx context.Context, id, propertyID primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.RemoveFavorite")
	defer span.End()

	update := bson.M{"$pull": bson.M{"favorites": propertyID}}
	return record(span, updateOne(ctx, store.users, bson.M{"_id": id}, update))
}
