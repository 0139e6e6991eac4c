package domain

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = stderrors.New("document not found")
	ErrDuplicate = stderrors.New("duplicate document")
	// ErrConflict means a conditional update matched no document.
	ErrConflict = stderrors.New("document changed concurrently")
)

type UserStore interface {
	Insert(ctx context.Context, user *User) error
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role Role) error
	AddFavorite(ctx context.Context, id, propertyID primitive.ObjectID) error
	RemoveFavorite(ctx context.Context, id, propertyID primitive.ObjectID) error
}

type PropertyStore interface {
	Insert(ctx context.Context, property *Property) error
	Get(ctx context.Context, id primitive.ObjectID) (*Property, error)
	// GetAndCountView increments views and returns the updated listing.
	GetAndCountView(ctx context.Context, id primitive.ObjectID) (*Property, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*Property, error)
	GetByOwner(ctx context.Context, owner primitive.ObjectID) ([]*Property, error)
	Search(ctx context.Context, query PropertyQuery, now time.Time) ([]*Property, int64, error)
	Similar(ctx context.Context, property *Property, limit int) ([]*Property, error)
	Featured(ctx context.Context, now time.Time, limit int) ([]*Property, error)
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetFeatured(ctx context.Context, id primitive.ObjectID, until time.Time) error
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error
	SetRating(ctx context.Context, id primitive.ObjectID, rating float64, count int) error
}

type BookingStore interface {
	Insert(ctx context.Context, booking *Booking) error
	Get(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	HasPending(ctx context.Context, property, buyer primitive.ObjectID) (bool, error)
	List(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	// UpdateState persists a transition only if the stored booking is still in
	// state from. It returns ErrConflict otherwise.
	UpdateState(ctx context.Context, booking *Booking, from State) error
}

type PaymentStore interface {
	Insert(ctx context.Context, payment *Payment) error
	ListByUser(ctx context.Context, user primitive.ObjectID) ([]*Payment, error)
	ListAll(ctx context.Context) ([]*Payment, error)
}

type InquiryStore interface {
	Insert(ctx context.Context, inquiry *Inquiry) error
	Get(ctx context.Context, id primitive.ObjectID) (*Inquiry, error)
	ListBySender(ctx context.Context, sender primitive.ObjectID) ([]*Inquiry, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]*Inquiry, error)
	Update(ctx context.Context, inquiry *Inquiry) error
}

type ReviewStore interface {
	Insert(ctx context.Context, review *Review) error
	Get(ctx context.Context, id primitive.ObjectID) (*Review, error)
	ListByProperty(ctx context.Context, property primitive.ObjectID) ([]*Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// Stats returns the average rating and number of reviews of a property.
	Stats(ctx context.Context, property primitive.ObjectID) (float64, int, error)
}

type AlertStore interface {
	Insert(ctx context.Context, alert *Alert) error
	Get(ctx context.Context, id primitive.ObjectID) (*Alert, error)
	ListByUser(ctx context.Context, user primitive.ObjectID) ([]*Alert, error)
	CountByUser(ctx context.Context, user primitive.ObjectID) (int64, error)
	ListActive(ctx context.Context) ([]*Alert, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	MarkNotified(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type NotificationStore interface {
	Insert(ctx context.Context, notification *Notification) error
	ListByUser(ctx context.Context, user primitive.ObjectID, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, id, user primitive.ObjectID) error
	MarkAllRead(ctx context.Context, user primitive.ObjectID) error
}

// AuthCache holds revoked tokens until they would have expired anyway.
type AuthCache interface {
	PostCacheData(ctx context.Context, key string, value string, ttl time.Duration) error
	GetCachedValue(ctx context.Context, key string) (string, error)
	DelCachedValue(ctx context.Context, key string) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
