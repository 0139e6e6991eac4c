package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

const (
	purposeFeaturedListing = "featured_listing"
	paymentCompleted       = "completed"
)

// PaymentService simulates the purchase of a featured listing. No gateway is
// involved; every payment succeeds.
type PaymentService struct {
	store      domain.PaymentStore
	properties domain.PropertyStore
	notifier   Notifier
	publisher  domain.EventPublisher
	logger     *logrus.Logger
	now        func() time.Time
}

func NewPaymentService(store domain.PaymentStore, properties domain.PropertyStore, notifier Notifier,
	publisher domain.EventPublisher, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		store:      store,
		properties: properties,
		notifier:   notifier,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

type FeatureResult struct {
	Payment  *domain.Payment  `json:"payment"`
	Property *domain.Property `json:"property"`
}

func (service *PaymentService) FeatureProperty(ctx context.Context, user *domain.User, propertyID string) (*FeatureResult, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return nil, err
	}
	property, err := service.properties.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	if !property.OwnedBy(user.ID) && !user.IsAdmin() {
		return nil, errors.Forbidden()
	}

	now := service.now().UTC()
	if property.FeaturedAt(now) {
		return nil, errors.Validation(errors.AlreadyFeatured)
	}

	until := now.Add(domain.FeaturedListingDuration)
	if err := service.properties.SetFeatured(ctx, property.ID, until); err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	property.IsFeatured = true
	property.FeaturedUntil = &until

	payment := &domain.Payment{
		ID:            primitive.NewObjectID(),
		User:          user.ID,
		Property:      property.ID,
		Amount:        domain.FeaturedListingPrice,
		Currency:      domain.FeaturedListingCurrency,
		Purpose:       purposeFeaturedListing,
		Status:        paymentCompleted,
		TransactionID: fmt.Sprintf("TXN-MOCK-%d", now.UnixMilli()),
		FeaturedUntil: until,
		CreatedAt:     now,
	}
	if err := service.store.Insert(ctx, payment); err != nil {
		return nil, errors.Internal(err)
	}

	service.logger.WithFields(logrus.Fields{
		"property":    property.ID.Hex(),
		"transaction": payment.TransactionID,
	}).Info("Listing featured")

	service.notifier.Notify(ctx, user.ID, domain.NotifyPayment, "Listing featured",
		fmt.Sprintf("%q is featured until %s. Transaction %s, %d %s.",
			property.Title, until.Format("2006-01-02"), payment.TransactionID,
			domain.FeaturedListingPrice, domain.FeaturedListingCurrency))
	publish(ctx, service.publisher, service.logger, "payment.completed", payment)

	return &FeatureResult{Payment: payment, Property: property}, nil
}

// History lists the caller's payments newest first. Admins see every payment.
func (service *PaymentService) History(ctx context.Context, user *domain.User) ([]*domain.Payment, error) {
	var (
		payments []*domain.Payment
		err      error
	)
	if user.IsAdmin() {
		payments, err = service.store.ListAll(ctx)
	} else {
		payments, err = service.store.ListByUser(ctx, user.ID)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return payments, nil
}
