package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type InquiryService struct {
	store      domain.InquiryStore
	properties domain.PropertyStore
	notifier   Notifier
	logger     *logrus.Logger
	now        func() time.Time
}

func NewInquiryService(store domain.InquiryStore, properties domain.PropertyStore, notifier Notifier, logger *logrus.Logger) *InquiryService {
	return &InquiryService{
		store:      store,
		properties: properties,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

func (service *InquiryService) Create(ctx context.Context, user *domain.User, req domain.InquiryRequest) (*domain.Inquiry, error) {
	if err := domain.Validate(req); err != nil {
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
	if property.OwnedBy(user.ID) {
		return nil, errors.Validation(errors.SelfInquiryError)
	}

	inquiry := &domain.Inquiry{
		ID:        primitive.NewObjectID(),
		Property:  property.ID,
		Sender:    user.ID,
		Owner:     property.Owner,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Message:   strings.TrimSpace(req.Message),
		Status:    domain.InquiryNew,
		CreatedAt: service.now().UTC(),
	}
	if err := service.store.Insert(ctx, inquiry); err != nil {
		return nil, errors.Internal(err)
	}

	service.notifier.Notify(ctx, inquiry.Owner, domain.NotifyInquiry, "New inquiry",
		fmt.Sprintf("%s asked about %q: %s", inquiry.Name, property.Title, inquiry.Message))
	return inquiry, nil
}

// List returns the inquiries the caller sent, or with role "received" the
// ones addressed to the caller's listings.
func (service *InquiryService) List(ctx context.Context, user *domain.User, role string) ([]*domain.Inquiry, error) {
	var (
		inquiries []*domain.Inquiry
		err       error
	)
	switch role {
	case "", "sent":
		inquiries, err = service.store.ListBySender(ctx, user.ID)
	case "received":
		inquiries, err = service.store.ListByOwner(ctx, user.ID)
	default:
		return nil, errors.Validationf("role must be sent or received, got %q", role)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return inquiries, nil
}

func (service *InquiryService) Respond(ctx context.Context, user *domain.User, inquiryID string, req domain.InquiryResponseRequest) (*domain.Inquiry, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	inquiry, err := service.loadReceived(ctx, user, inquiryID)
	if err != nil {
		return nil, err
	}
	if inquiry.Status == domain.InquiryClosed {
		return nil, errors.Validation(errors.InquiryClosed)
	}

	now := service.now().UTC()
	inquiry.Response = strings.TrimSpace(req.Response)
	inquiry.RespondedAt = &now
	inquiry.Status = domain.InquiryResponded
	if err := service.store.Update(ctx, inquiry); err != nil {
		return nil, lookup(err, errors.InquiryNotFound)
	}

	service.notifier.Notify(ctx, inquiry.Sender, domain.NotifyInquiry, "Your inquiry was answered", inquiry.Response)
	return inquiry, nil
}

func (service *InquiryService) Close(ctx context.Context, user *domain.User, inquiryID string) (*domain.Inquiry, error) {
	inquiry, err := service.loadReceived(ctx, user, inquiryID)
	if err != nil {
		return nil, err
	}
	inquiry.Status = domain.InquiryClosed
	if err := service.store.Update(ctx, inquiry); err != nil {
		return nil, lookup(err, errors.InquiryNotFound)
	}
	return inquiry, nil
}

func (service *InquiryService) loadReceived(ctx context.Context, user *domain.User, inquiryID string) (*domain.Inquiry, error) {
	id, err := pathID(inquiryID, errors.InquiryNotFound)
	if err != nil {
		return nil, err
	}
	inquiry, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.InquiryNotFound)
	}
	if inquiry.Owner != user.ID {
		return nil, errors.Forbidden()
	}
	return inquiry, nil
}
