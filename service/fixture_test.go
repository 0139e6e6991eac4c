package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/store/memstore"
)

// clock advances one second per reading so creation order is strict.
type clock struct {
	t time.Time
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fixture struct {
	ctx   context.Context
	clock *clock
	hook  *test.Hook

	userStore         *memstore.UserStore
	propertyStore     *memstore.PropertyStore
	bookingStore      *memstore.BookingStore
	paymentStore      *memstore.PaymentStore
	inquiryStore      *memstore.InquiryStore
	reviewStore       *memstore.ReviewStore
	alertStore        *memstore.AlertStore
	notificationStore *memstore.NotificationStore
	cache             *memstore.AuthCache
	mailer            *memstore.Mailer
	publisher         *memstore.Publisher

	tokens        *authorization.TokenManager
	auth          *AuthService
	users         *UserService
	notifications *NotificationService
	alerts        *AlertService
	properties    *PropertyService
	bookings      *BookingService
	payments      *PaymentService
	inquiries     *InquiryService
	reviews       *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()

	f := &fixture{
		ctx:               context.Background(),
		clock:             &clock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
		hook:              hook,
		userStore:         memstore.NewUserStore(),
		propertyStore:     memstore.NewPropertyStore(),
		bookingStore:      memstore.NewBookingStore(),
		paymentStore:      memstore.NewPaymentStore(),
		inquiryStore:      memstore.NewInquiryStore(),
		reviewStore:       memstore.NewReviewStore(),
		alertStore:        memstore.NewAlertStore(),
		notificationStore: memstore.NewNotificationStore(),
		cache:             memstore.NewAuthCache(),
		mailer:            &memstore.Mailer{},
		publisher:         &memstore.Publisher{},
	}

	tokens, err := authorization.NewTokenManager("fixture-secret", time.Hour)
	require.NoError(t, err)
	f.tokens = tokens

	f.auth = NewAuthService(f.userStore, f.cache, tokens, logger)
	f.auth.cost = bcrypt.MinCost
	f.auth.now = f.clock.now
	f.users = NewUserService(f.userStore, f.propertyStore, logger)

	f.notifications = NewNotificationService(f.notificationStore, f.userStore, f.mailer, logger)
	f.notifications.now = f.clock.now
	f.alerts = NewAlertService(f.alertStore, f.notifications, logger)
	f.alerts.now = f.clock.now
	f.properties = NewPropertyService(f.propertyStore, f.userStore, f.alerts, logger)
	f.properties.now = f.clock.now
	f.bookings = NewBookingService(f.bookingStore, f.propertyStore, f.userStore, f.notifications, f.publisher, logger)
	f.bookings.now = f.clock.now
	f.payments = NewPaymentService(f.paymentStore, f.propertyStore, f.notifications, f.publisher, logger)
	f.payments.now = f.clock.now
	f.inquiries = NewInquiryService(f.inquiryStore, f.propertyStore, f.notifications, logger)
	f.inquiries.now = f.clock.now
	f.reviews = NewReviewService(f.reviewStore, f.propertyStore, f.userStore, f.notifications, logger)
	f.reviews.now = f.clock.now
	return f
}

func (f *fixture) user(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	now := f.clock.now()
	user := &domain.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     name + "@example.com",
		Password:  string(hash),
		Phone:     "+91-98000-00000",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.userStore.Insert(f.ctx, user))
	return user
}

func (f *fixture) listing(t *testing.T, owner *domain.User, edits ...func(*domain.Property)) *domain.Property {
	t.Helper()
	now := f.clock.now()
	property := &domain.Property{
		ID:           primitive.NewObjectID(),
		Title:        "Sea view flat",
		Description:  "Two bedrooms close to the beach",
		PropertyType: domain.Apartment,
		ListingType:  domain.ForSale,
		Price:        5_000_000,
		Area:         950,
		Bedrooms:     2,
		Bathrooms:    2,
		Amenities:    []string{"lift", "parking"},
		Images:       []string{"https://img.example.com/1.jpg"},
		Location:     domain.Location{Locality: "Bandra", City: "Mumbai", State: "MH"},
		Status:       domain.PropertyAvailable,
		Owner:        owner.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, edit := range edits {
		edit(property)
	}
	require.NoError(t, f.propertyStore.Insert(f.ctx, property))
	return property
}

func (f *fixture) notificationsOf(t *testing.T, user *domain.User) []*domain.Notification {
	t.Helper()
	notifications, err := f.notificationStore.ListByUser(f.ctx, user.ID, false)
	require.NoError(t, err)
	return notifications
}
