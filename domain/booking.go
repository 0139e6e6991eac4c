package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingType string

const (
	BookingVisit    BookingType = "visit"
	BookingPurchase BookingType = "purchase"
	BookingRent     BookingType = "rent"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// Booking is one buyer's request against one property. Seller is the
// property owner at the time the booking was created and is never refreshed.
type Booking struct {
	ID                     primitive.ObjectID `bson:"_id" json:"id"`
	Property               primitive.ObjectID `bson:"property" json:"property"`
	Buyer                  primitive.ObjectID `bson:"buyer" json:"buyer"`
	Seller                 primitive.ObjectID `bson:"seller" json:"seller"`
	BookingType            BookingType        `bson:"bookingType" json:"bookingType"`
	Status                 BookingStatus      `bson:"status" json:"status"`
	VisitDate              time.Time          `bson:"visitDate" json:"visitDate"`
	VisitTime              string             `bson:"visitTime" json:"visitTime"`
	PriceNegotiated        *float64           `bson:"priceNegotiated,omitempty" json:"priceNegotiated,omitempty"`
	BuyerMessage           string             `bson:"buyerMessage,omitempty" json:"buyerMessage,omitempty"`
	SellerConfirmationNote string             `bson:"sellerConfirmationNote,omitempty" json:"sellerConfirmationNote,omitempty"`
	SellerConfirmedAt      *time.Time         `bson:"sellerConfirmedAt,omitempty" json:"sellerConfirmedAt,omitempty"`
	BuyerConfirmedAt       *time.Time         `bson:"buyerConfirmedAt,omitempty" json:"buyerConfirmedAt,omitempty"`
	ConfirmationToken      string             `bson:"confirmationToken" json:"confirmationToken"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ActorOf reports how userID relates to the booking.
func (b *Booking) ActorOf(userID primitive.ObjectID) Actor {
	switch userID {
	case b.Seller:
		return ActorSeller
	case b.Buyer:
		return ActorBuyer
	default:
		return ActorNone
	}
}

func (b *Booking) InvolvedParty(userID primitive.ObjectID) bool {
	return b.ActorOf(userID) != ActorNone
}

// CounterParty returns the other side of the booking for a party.
func (b *Booking) CounterParty(userID primitive.ObjectID) primitive.ObjectID {
	if userID == b.Seller {
		return b.Buyer
	}
	return b.Seller
}

// Apply folds state into the persisted fields. Timestamps are only stamped
// when the corresponding step is taken for the first time.
func (b *Booking) Apply(state State, now time.Time) {
	b.Status = state.Status()
	switch s := state.(type) {
	case Confirmed:
		if b.SellerConfirmedAt == nil {
			b.SellerConfirmedAt = &now
		}
		if s.BuyerAcked && b.BuyerConfirmedAt == nil {
			b.BuyerConfirmedAt = &now
		}
	}
	b.UpdatedAt = now
}

type BookingView struct {
	*Booking
	Property *PropertySummary `json:"property"`
	Buyer    *UserSummary     `json:"buyer"`
	Seller   *UserSummary     `json:"seller"`
}

type BookingFilter struct {
	UserID primitive.ObjectID
	Role   Actor
	Status BookingStatus
}

// BookingEvent is published after every booking change.
type BookingEvent struct {
	BookingID primitive.ObjectID `json:"bookingId"`
	Property  primitive.ObjectID `json:"property"`
	Buyer     primitive.ObjectID `json:"buyer"`
	Seller    primitive.ObjectID `json:"seller"`
	Action    string             `json:"action"`
	Status    BookingStatus      `json:"status"`
	At        time.Time          `json:"at"`
}

func NewBookingEvent(b *Booking, action string, at time.Time) BookingEvent {
	return BookingEvent{
		BookingID: b.ID,
		Property:  b.Property,
		Buyer:     b.Buyer,
		Seller:    b.Seller,
		Action:    action,
		Status:    b.Status,
		At:        at,
	}
}
