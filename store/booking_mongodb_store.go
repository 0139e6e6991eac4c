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

type BookingMongoDBStore struct {
	bookings *mongo.Collection
	tracer   trace.Tracer
}

func NewBookingMongoDBStore(db *mongo.Database, tracer trace.Tracer) domain.BookingStore {
	return &BookingMongoDBStore{
		bookings: db.Collection(BOOKINGS),
		tracer:   tracer,
	}
}

// Insert returns ErrDuplicate when the buyer already holds a pending booking
// for the property.
func (store *BookingMongoDBStore) Insert(ctx context.Context, booking *domain.Booking) error {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Insert")
	defer span.End()

	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	return record(span, insert(ctx, store.bookings, booking))
}

func (store *BookingMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.Get")
	defer span.End()

	booking, err := filterOne[domain.Booking](ctx, store.bookings, bson.M{"_id": id})
	return booking, record(span, err)
}

func (store *BookingMongoDBStore) HasPending(ctx context.Context, property, buyer primitive.ObjectID) (bool, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.HasPending")
	defer span.End()

	query := bson.M{"property": property, "buyer": buyer, "status": domain.BookingPending}
	count, err := store.bookings.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, record(span, err)
	}
	return count > 0, nil
}

func (store *BookingMongoDBStore) List(ctx context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	ctx, span := store.tracer.Start(ctx, "BookingStore.List")
	defer span.End()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	bookings, err := filter[domain.Booking](ctx, store.bookings, BookingListFilter(f), opts)
	return bookings, record(span, err)
}

func (store *BookingMongoDBStore) UpdateState(ctx context.Context, b *domain.Booking, from domain.State) error {
	ctx, span := store.tracer.Start(ctx, "BookingStore.UpdateState")
	defer span.End()

	set := bson.M{
		"status":    b.Status,
		"updatedAt": b.UpdatedAt,
	}
	if b.SellerConfirmedAt != nil {
		set["sellerConfirmedAt"] = b.SellerConfirmedAt
	}
	if b.BuyerConfirmedAt != nil {
		set["buyerConfirmedAt"] = b.BuyerConfirmedAt
	}
	if b.SellerConfirmationNote != "" {
		set["sellerConfirmationNote"] = b.SellerConfirmationNote
	}

	result, err := store.bookings.UpdateOne(ctx, StateFilter(b.ID, from), bson.M{"$set": set})
	if err != nil {
		return record(span, err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrConflict
	}
	return nil
}

// StateFilter matches the booking only while it is still in state. Both
// Confirmed variants share a status, so the acknowledgement is pinned too.
func StateFilter(id primitive.ObjectID, state domain.State) bson.M {
	query := bson.M{"_id": id, "status": state.Status()}
	if confirmed, ok := state.(domain.Confirmed); ok {
		if confirmed.BuyerAcked {
			query["buyerConfirmedAt"] = bson.M{"$ne": nil}
		} else {
			query["buyerConfirmedAt"] = nil
		}
	}
	return query
}

// BookingListFilter selects the caller's bookings by side and status.
func BookingListFilter(f domain.BookingFilter) bson.M {
	var query bson.M
	switch f.Role {
	case domain.ActorBuyer:
		query = bson.M{"buyer": f.UserID}
	case domain.ActorSeller:
		query = bson.M{"seller": f.UserID}
	default:
		query = bson.M{"$or": bson.A{bson.M{"buyer": f.UserID}, bson.M{"seller": f.UserID}}}
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	return query
}
