package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type BookingService struct {
	store      domain.BookingStore
	properties domain.PropertyStore
	users      domain.UserStore
	notifier   Notifier
	publisher  domain.EventPublisher
	logger     *logrus.Logger
	now        func() time.Time
}

func NewBookingService(store domain.BookingStore, properties domain.PropertyStore, users domain.UserStore,
	notifier Notifier, publisher domain.EventPublisher, logger *logrus.Logger) *BookingService {
	return &BookingService{
		store:      store,
		properties: properties,
		users:      users,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (service *BookingService) Create(ctx context.Context, buyer *domain.User, req domain.BookingRequest) (*domain.BookingView, error) {
	req.Normalize()
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	visitDate, err := req.ParseVisitDate()
	if err != nil {
		return nil, err
	}
	propertyID, err := domain.ParseID(req.PropertyID)
	if err != nil {
		return nil, err
	}

	property, err := service.properties.Get(ctx, propertyID)
	if err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	if property.OwnedBy(buyer.ID) {
		return nil, errors.Validation(errors.SelfBookingError)
	}

	pending, err := service.store.HasPending(ctx, property.ID, buyer.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if pending {
		return nil, errors.Validation(errors.DuplicatePendingBooking)
	}

	now := service.now().UTC()
	booking := &domain.Booking{
		ID:                primitive.NewObjectID(),
		Property:          property.ID,
		Buyer:             buyer.ID,
		Seller:            property.Owner,
		BookingType:       req.BookingType,
		Status:            domain.BookingPending,
		VisitDate:         visitDate,
		VisitTime:         req.VisitTime,
		PriceNegotiated:   req.PriceNegotiated,
		BuyerMessage:      req.Message,
		ConfirmationToken: uuid.NewString(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	// The partial unique index catches a concurrent create that passed the check above.
	if err := service.store.Insert(ctx, booking); err != nil {
		if stderrors.Is(err, domain.ErrDuplicate) {
			return nil, errors.Validation(errors.DuplicatePendingBooking)
		}
		return nil, errors.Internal(err)
	}

	service.logger.WithFields(logrus.Fields{
		"booking":  booking.ID.Hex(),
		"property": property.ID.Hex(),
		"buyer":    buyer.ID.Hex(),
	}).Info("Booking created")

	service.notifier.Notify(ctx, booking.Seller, domain.NotifyBooking, "New booking request",
		fmt.Sprintf("%s requested a %s for %q on %s (%s).",
			buyer.Name, booking.BookingType, property.Title, visitDate.Format("2006-01-02"), booking.VisitTime))
	publish(ctx, service.publisher, service.logger, "booking.created", domain.NewBookingEvent(booking, "created", now))

	return service.view(ctx, booking)
}

func (service *BookingService) List(ctx context.Context, user *domain.User, role, status string) ([]*domain.BookingView, error) {
	filter := domain.BookingFilter{UserID: user.ID}
	switch domain.Actor(role) {
	case domain.ActorNone, domain.ActorBuyer, domain.ActorSeller:
		filter.Role = domain.Actor(role)
	default:
		return nil, errors.Validationf("role must be buyer or seller, got %q", role)
	}
	switch domain.BookingStatus(status) {
	case "", domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted:
		filter.Status = domain.BookingStatus(status)
	default:
		return nil, errors.Validationf("unknown booking status %q", status)
	}

	bookings, err := service.store.List(ctx, filter)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return service.views(ctx, bookings)
}

func (service *BookingService) Get(ctx context.Context, user *domain.User, bookingID string) (*domain.BookingView, error) {
	booking, err := service.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.InvolvedParty(user.ID) {
		return nil, errors.Forbidden()
	}
	return service.view(ctx, booking)
}

func (service *BookingService) ConfirmSeller(ctx context.Context, user *domain.User, bookingID string, req domain.ConfirmSellerRequest) (*domain.BookingView, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	return service.transition(ctx, user, bookingID, domain.ConfirmSeller, func(b *domain.Booking) {
		if note := strings.TrimSpace(req.Note); note != "" {
			b.SellerConfirmationNote = note
		}
	})
}

func (service *BookingService) ConfirmBuyer(ctx context.Context, user *domain.User, bookingID string) (*domain.BookingView, error) {
	return service.transition(ctx, user, bookingID, domain.ConfirmBuyer, nil)
}

func (service *BookingService) Cancel(ctx context.Context, user *domain.User, bookingID string) (*domain.BookingView, error) {
	return service.transition(ctx, user, bookingID, domain.Cancel, nil)
}

func (service *BookingService) Complete(ctx context.Context, user *domain.User, bookingID string) (*domain.BookingView, error) {
	return service.transition(ctx, user, bookingID, domain.Complete, nil)
}

var transitionNotices = map[domain.Action]struct{ title, message string }{
	domain.ConfirmSeller: {"Booking confirmed", "The seller confirmed your booking for %q."},
	domain.ConfirmBuyer:  {"Booking acknowledged", "The buyer acknowledged the confirmed booking for %q."},
	domain.Cancel:        {"Booking cancelled", "The booking for %q was cancelled."},
	domain.Complete:      {"Booking completed", "The booking for %q was marked completed."},
}

// transition loads the booking, runs the state machine for the caller and
// persists the result only if nobody changed the booking in between.
func (service *BookingService) transition(ctx context.Context, user *domain.User, bookingID string, action domain.Action, mutate func(*domain.Booking)) (*domain.BookingView, error) {
	booking, err := service.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	from, err := domain.StateOf(booking)
	if err != nil {
		return nil, err
	}
	to, err := domain.Transition(from, action, booking.ActorOf(user.ID))
	if err != nil {
		return nil, err
	}
	if to == from {
		return service.view(ctx, booking)
	}

	now := service.now().UTC()
	booking.Apply(to, now)
	if mutate != nil {
		mutate(booking)
	}

	switch err := service.store.UpdateState(ctx, booking, from); {
	case stderrors.Is(err, domain.ErrConflict):
		return nil, errors.Validation(errors.BookingConcurrentUpdate)
	case err != nil:
		return nil, lookup(err, errors.BookingNotFound)
	}

	service.logger.WithFields(logrus.Fields{
		"booking": booking.ID.Hex(),
		"action":  action,
		"status":  booking.Status,
	}).Info("Booking updated")

	view, err := service.view(ctx, booking)
	if err != nil {
		return nil, err
	}

	title := booking.Property.Hex()
	if view.Property != nil {
		title = view.Property.Title
	}
	notice := transitionNotices[action]
	service.notifier.Notify(ctx, booking.CounterParty(user.ID), domain.NotifyBooking, notice.title, fmt.Sprintf(notice.message, title))
	publish(ctx, service.publisher, service.logger, "booking."+string(action), domain.NewBookingEvent(booking, string(action), now))

	return view, nil
}

func (service *BookingService) load(ctx context.Context, bookingID string) (*domain.Booking, error) {
	id, err := pathID(bookingID, errors.BookingNotFound)
	if err != nil {
		return nil, err
	}
	booking, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.BookingNotFound)
	}
	return booking, nil
}

func (service *BookingService) view(ctx context.Context, booking *domain.Booking) (*domain.BookingView, error) {
	views, err := service.views(ctx, []*domain.Booking{booking})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// views attaches property and party summaries, loading each referenced
// document once. A listing deleted since booking leaves Property nil.
func (service *BookingService) views(ctx context.Context, bookings []*domain.Booking) ([]*domain.BookingView, error) {
	propertyIDs := make([]primitive.ObjectID, 0, len(bookings))
	userIDs := make([]primitive.ObjectID, 0, 2*len(bookings))
	for _, b := range bookings {
		propertyIDs = append(propertyIDs, b.Property)
		userIDs = append(userIDs, b.Buyer, b.Seller)
	}

	properties, err := service.properties.GetMany(ctx, unique(propertyIDs))
	if err != nil {
		return nil, errors.Internal(err)
	}
	users, err := service.users.GetMany(ctx, unique(userIDs))
	if err != nil {
		return nil, errors.Internal(err)
	}

	propertyByID := make(map[primitive.ObjectID]*domain.PropertySummary, len(properties))
	for _, p := range properties {
		propertyByID[p.ID] = p.Summary()
	}
	userByID := make(map[primitive.ObjectID]*domain.UserSummary, len(users))
	for _, u := range users {
		userByID[u.ID] = u.Summary()
	}

	views := make([]*domain.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, &domain.BookingView{
			Booking:  b,
			Property: propertyByID[b.Property],
			Buyer:    userByID[b.Buyer],
			Seller:   userByID[b.Seller],
		})
	}
	return views, nil
}

func unique(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
