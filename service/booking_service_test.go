package application

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func visit(property *domain.Property) domain.BookingRequest {
	return domain.BookingRequest{
		PropertyID:  property.ID.Hex(),
		BookingType: domain.BookingVisit,
		VisitDate:   "2025-06-01",
		VisitTime:   "10:00-11:00",
	}
}

func assertError(t *testing.T, err error, kind errors.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, errors.KindOf(err), err.Error())
	if message != "" {
		assert.Equal(t, message, errors.PublicMessage(err))
	}
}

func TestBooking_FullLifecycle(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, created.Status)
	assert.Equal(t, buyer.ID, created.Buyer.ID)
	assert.Equal(t, seller.ID, created.Seller.ID)
	assert.Equal(t, "Sea view flat", created.Property.Title)
	assert.Equal(t, "2025-06-01", created.VisitDate.Format("2006-01-02"))
	assert.NotEmpty(t, created.ConfirmationToken)
	id := created.ID.Hex()

	confirmed, err := f.bookings.ConfirmSeller(f.ctx, seller, id, domain.ConfirmSellerRequest{Note: "See you there"})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, confirmed.Status)
	assert.NotNil(t, confirmed.SellerConfirmedAt)
	assert.Nil(t, confirmed.BuyerConfirmedAt)
	assert.Equal(t, "See you there", confirmed.SellerConfirmationNote)

	acked, err := f.bookings.ConfirmBuyer(f.ctx, buyer, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, acked.Status)
	assert.NotNil(t, acked.BuyerConfirmedAt)
	assert.Equal(t, confirmed.SellerConfirmedAt, acked.SellerConfirmedAt)

	completed, err := f.bookings.Complete(f.ctx, seller, id)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, completed.Status)

	_, err = f.bookings.Cancel(f.ctx, buyer, id)
	assertError(t, err, errors.KindValidation, errors.BookingAlreadyCompleted)

	stored, err := f.bookingStore.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, stored.Status)

	assert.Equal(t, []string{"booking.created", "booking.confirm_seller", "booking.confirm_buyer", "booking.complete"},
		f.publisher.RoutingKeys())
	assert.Len(t, f.notificationsOf(t, seller), 2)
	assert.Len(t, f.notificationsOf(t, buyer), 2)
	f.notifications.Wait()
	assert.Equal(t, 4, f.mailer.Count())
}

func TestBooking_CreateRejectsOwnProperty(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	property := f.listing(t, seller)

	_, err := f.bookings.Create(f.ctx, seller, visit(property))
	assertError(t, err, errors.KindValidation, errors.SelfBookingError)

	bookings, err := f.bookings.List(f.ctx, seller, "", "")
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestBooking_CreateRejectsSecondPending(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	first, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)

	_, err = f.bookings.Create(f.ctx, buyer, visit(property))
	assertError(t, err, errors.KindValidation, errors.DuplicatePendingBooking)

	_, err = f.bookings.Cancel(f.ctx, buyer, first.ID.Hex())
	require.NoError(t, err)
	_, err = f.bookings.Create(f.ctx, buyer, visit(property))
	assert.NoError(t, err)
}

// pendingRaceStore reports no pending booking so the insert has to catch the
// duplicate, as the unique index does for two concurrent creates.
type pendingRaceStore struct {
	domain.BookingStore
}

func (pendingRaceStore) HasPending(context.Context, primitive.ObjectID, primitive.ObjectID) (bool, error) {
	return false, nil
}

func TestBooking_CreateDuplicateCaughtOnInsert(t *testing.T) {
	f := newFixture(t)
	f.bookings.store = pendingRaceStore{f.bookingStore}
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	_, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)
	_, err = f.bookings.Create(f.ctx, buyer, visit(property))
	assertError(t, err, errors.KindValidation, errors.DuplicatePendingBooking)
}

func TestBooking_CreateValidation(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	missingTime := visit(property)
	missingTime.VisitTime = ""
	blankTime := visit(property)
	blankTime.VisitTime = "   "
	badDate := visit(property)
	badDate.VisitDate = "01/06/2025"
	badType := visit(property)
	badType.BookingType = "lease"
	negative := visit(property)
	price := -1.0
	negative.PriceNegotiated = &price
	badID := visit(property)
	badID.PropertyID = "nope"

	tests := []struct {
		name    string
		req     domain.BookingRequest
		message string
	}{
		{"missing visit time", missingTime, "visitTime is required"},
		{"blank visit time", blankTime, "visitTime is required"},
		{"unparseable date", badDate, "visitDate is invalid"},
		{"unknown booking type", badType, "bookingType is not one of [visit purchase rent]"},
		{"negative price", negative, "priceNegotiated is below the minimum of 0"},
		{"malformed property id", badID, `invalid id "nope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.Create(f.ctx, buyer, tt.req)
			assertError(t, err, errors.KindValidation, tt.message)
		})
	}

	unknown := visit(property)
	unknown.PropertyID = "65f1a2b3c4d5e6f708192a3b"
	_, err := f.bookings.Create(f.ctx, buyer, unknown)
	assertError(t, err, errors.KindNotFound, errors.PropertyNotFound)
}

func TestBooking_CreateStoresOptionalFields(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	req := visit(property)
	req.BookingType = domain.BookingPurchase
	req.VisitDate = "2025-06-01T10:00:00+05:30"
	req.Message = "  Is the price negotiable?  "
	offer := 4_500_000.0
	req.PriceNegotiated = &offer

	created, err := f.bookings.Create(f.ctx, buyer, req)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPurchase, created.BookingType)
	assert.Equal(t, "Is the price negotiable?", created.BuyerMessage)
	require.NotNil(t, created.PriceNegotiated)
	assert.Equal(t, offer, *created.PriceNegotiated)
	assert.Equal(t, "2025-06-01T04:30:00Z", created.VisitDate.Format("2006-01-02T15:04:05Z07:00"))
}

func TestBooking_SellerIsSnapshotAtCreation(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	newOwner := f.user(t, "chetan", domain.RoleSeller)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)

	property.Owner = newOwner.ID
	require.NoError(t, f.propertyStore.Insert(f.ctx, property))

	got, err := f.bookings.Get(f.ctx, seller, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, seller.ID, got.Booking.Seller)

	_, err = f.bookings.Get(f.ctx, newOwner, created.ID.Hex())
	assertError(t, err, errors.KindAuthorization, "")
}

func TestBooking_ConfirmBuyerNeedsSellerFirst(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)

	_, err = f.bookings.ConfirmBuyer(f.ctx, buyer, created.ID.Hex())
	assertError(t, err, errors.KindValidation, errors.SellerMustConfirmFirst)

	_, err = f.bookings.Cancel(f.ctx, seller, created.ID.Hex())
	require.NoError(t, err)
	_, err = f.bookings.ConfirmBuyer(f.ctx, buyer, created.ID.Hex())
	assertError(t, err, errors.KindValidation, errors.SellerMustConfirmFirst)
}

func TestBooking_CompleteRequiresConfirmed(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)

	_, err = f.bookings.Complete(f.ctx, seller, created.ID.Hex())
	assertError(t, err, errors.KindValidation, errors.BookingNotConfirmed)

	_, err = f.bookings.ConfirmSeller(f.ctx, seller, created.ID.Hex(), domain.ConfirmSellerRequest{})
	require.NoError(t, err)
	completed, err := f.bookings.Complete(f.ctx, seller, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, completed.Status)
	assert.Nil(t, completed.BuyerConfirmedAt)
}

func TestBooking_PartyChecks(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	stranger := f.user(t, "dev", domain.RoleAdmin)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)
	id := created.ID.Hex()

	_, err = f.bookings.Get(f.ctx, stranger, id)
	assertError(t, err, errors.KindAuthorization, errors.ForbiddenError)
	_, err = f.bookings.ConfirmSeller(f.ctx, buyer, id, domain.ConfirmSellerRequest{})
	assertError(t, err, errors.KindAuthorization, errors.ForbiddenError)
	_, err = f.bookings.Complete(f.ctx, buyer, id)
	assertError(t, err, errors.KindAuthorization, errors.ForbiddenError)
	_, err = f.bookings.ConfirmBuyer(f.ctx, seller, id)
	assertError(t, err, errors.KindAuthorization, errors.ForbiddenError)
	_, err = f.bookings.Cancel(f.ctx, stranger, id)
	assertError(t, err, errors.KindAuthorization, errors.ForbiddenError)

	_, err = f.bookings.Get(f.ctx, buyer, "65f1a2b3c4d5e6f708192a3b")
	assertError(t, err, errors.KindNotFound, errors.BookingNotFound)
	_, err = f.bookings.Cancel(f.ctx, buyer, "not-an-id")
	assertError(t, err, errors.KindNotFound, errors.BookingNotFound)
}

func TestBooking_CancelOfCancelledIsNoop(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)

	first, err := f.bookings.Cancel(f.ctx, buyer, created.ID.Hex())
	require.NoError(t, err)
	second, err := f.bookings.Cancel(f.ctx, seller, created.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, domain.BookingCancelled, second.Status)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, []string{"booking.created", "booking.cancel"}, f.publisher.RoutingKeys())
}

func TestBooking_RepeatBuyerConfirmIsNoop(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)
	_, err = f.bookings.ConfirmSeller(f.ctx, seller, created.ID.Hex(), domain.ConfirmSellerRequest{})
	require.NoError(t, err)

	first, err := f.bookings.ConfirmBuyer(f.ctx, buyer, created.ID.Hex())
	require.NoError(t, err)
	second, err := f.bookings.ConfirmBuyer(f.ctx, buyer, created.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, domain.BookingConfirmed, second.Status)
	require.NotNil(t, second.BuyerConfirmedAt)
	assert.Equal(t, *first.BuyerConfirmedAt, *second.BuyerConfirmedAt)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, []string{"booking.created", "booking.confirm_seller", "booking.confirm_buyer"}, f.publisher.RoutingKeys())
}

func TestBooking_SellerConfirmsOnlyPending(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)
	_, err = f.bookings.ConfirmSeller(f.ctx, seller, created.ID.Hex(), domain.ConfirmSellerRequest{})
	require.NoError(t, err)

	_, err = f.bookings.ConfirmSeller(f.ctx, seller, created.ID.Hex(), domain.ConfirmSellerRequest{Note: "again"})
	assertError(t, err, errors.KindValidation, errors.BookingNotPending)
}

// racingBookingStore lets another writer change the booking just before the
// conditional update runs.
type racingBookingStore struct {
	domain.BookingStore
	before func()
}

func (s racingBookingStore) UpdateState(ctx context.Context, b *domain.Booking, from domain.State) error {
	s.before()
	return s.BookingStore.UpdateState(ctx, b, from)
}

func TestBooking_ConcurrentTransitionLoses(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)

	f.bookings.store = racingBookingStore{
		BookingStore: f.bookingStore,
		before: func() {
			cancelled := *created.Booking
			cancelled.Status = domain.BookingCancelled
			f.bookingStore.Force(&cancelled)
		},
	}

	_, err = f.bookings.ConfirmSeller(f.ctx, seller, created.ID.Hex(), domain.ConfirmSellerRequest{})
	assertError(t, err, errors.KindValidation, errors.BookingConcurrentUpdate)

	stored, err := f.bookingStore.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, stored.Status)
	assert.Nil(t, stored.SellerConfirmedAt)
}

func TestBooking_ListFiltersAndOrder(t *testing.T) {
	f := newFixture(t)
	arun := f.user(t, "arun", domain.RoleSeller)
	bina := f.user(t, "bina", domain.RoleSeller)
	chetan := f.user(t, "chetan", domain.RoleUser)

	p1 := f.listing(t, bina)
	p2 := f.listing(t, bina)
	own := f.listing(t, arun)

	b1, err := f.bookings.Create(f.ctx, arun, visit(p1))
	require.NoError(t, err)
	b2, err := f.bookings.Create(f.ctx, arun, visit(p2))
	require.NoError(t, err)
	b3, err := f.bookings.Create(f.ctx, chetan, visit(own))
	require.NoError(t, err)
	_, err = f.bookings.ConfirmSeller(f.ctx, bina, b1.ID.Hex(), domain.ConfirmSellerRequest{})
	require.NoError(t, err)

	ids := func(views []*domain.BookingView) []string {
		out := make([]string, 0, len(views))
		for _, v := range views {
			out = append(out, v.ID.Hex())
		}
		return out
	}

	asBuyer, err := f.bookings.List(f.ctx, arun, "buyer", "")
	require.NoError(t, err)
	assert.Equal(t, []string{b2.ID.Hex(), b1.ID.Hex()}, ids(asBuyer))

	asSeller, err := f.bookings.List(f.ctx, arun, "seller", "")
	require.NoError(t, err)
	assert.Equal(t, []string{b3.ID.Hex()}, ids(asSeller))

	all, err := f.bookings.List(f.ctx, arun, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{b3.ID.Hex(), b2.ID.Hex(), b1.ID.Hex()}, ids(all))
	for _, v := range all {
		assert.NotNil(t, v.Property)
		assert.NotNil(t, v.Buyer)
		assert.NotNil(t, v.Seller)
	}

	confirmed, err := f.bookings.List(f.ctx, arun, "", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, []string{b1.ID.Hex()}, ids(confirmed))

	_, err = f.bookings.List(f.ctx, arun, "admin", "")
	assertError(t, err, errors.KindValidation, "")
	_, err = f.bookings.List(f.ctx, arun, "", "archived")
	assertError(t, err, errors.KindValidation, "")
}

func TestBooking_SideEffectFailuresAreSwallowed(t *testing.T) {
	f := newFixture(t)
	f.mailer.Err = stderrors.New("smtp down")
	f.notificationStore.Err = stderrors.New("mongo down")
	f.publisher.Err = stderrors.New("broker down")
	seller := f.user(t, "bina", domain.RoleSeller)
	buyer := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	created, err := f.bookings.Create(f.ctx, buyer, visit(property))
	require.NoError(t, err)
	_, err = f.bookings.ConfirmSeller(f.ctx, seller, created.ID.Hex(), domain.ConfirmSellerRequest{})
	require.NoError(t, err)

	f.notifications.Wait()
	assert.Zero(t, f.mailer.Count())
	assert.NotEmpty(t, f.hook.AllEntries())
}
