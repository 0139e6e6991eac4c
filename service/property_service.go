package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type PropertyService struct {
	store  domain.PropertyStore
	users  domain.UserStore
	alerts *AlertService
	logger *logrus.Logger
	now    func() time.Time
}

func NewPropertyService(store domain.PropertyStore, users domain.UserStore, alerts *AlertService, logger *logrus.Logger) *PropertyService {
	return &PropertyService{
		store:  store,
		users:  users,
		alerts: alerts,
		logger: logger,
		now:    time.Now,
	}
}

type PropertyPage struct {
	Properties []*domain.Property `json:"properties"`
	Pagination domain.Page        `json:"pagination"`
}

func (service *PropertyService) List(ctx context.Context, query domain.PropertyQuery) (*PropertyPage, error) {
	properties, total, err := service.store.Search(ctx, query, service.now().UTC())
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &PropertyPage{
		Properties: properties,
		Pagination: domain.NewPage(query.Page, query.Limit, total),
	}, nil
}

func (service *PropertyService) Featured(ctx context.Context) ([]*domain.Property, error) {
	properties, err := service.store.Featured(ctx, service.now().UTC(), domain.FeaturedLimit)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return properties, nil
}

// Get counts a view on every call.
func (service *PropertyService) Get(ctx context.Context, propertyID string) (*domain.PropertyView, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return nil, err
	}
	property, err := service.store.GetAndCountView(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}

	view := &domain.PropertyView{Property: property}
	owner, err := service.users.Get(ctx, property.Owner)
	if err != nil {
		service.logger.WithError(err).WithField("property", id.Hex()).Warn("Listing owner lookup failed")
	} else {
		view.Owner = owner.Summary()
	}
	return view, nil
}

func (service *PropertyService) Similar(ctx context.Context, propertyID string) ([]*domain.Property, error) {
	property, err := service.load(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	similar, err := service.store.Similar(ctx, property, domain.SimilarLimit)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return similar, nil
}

func (service *PropertyService) Mine(ctx context.Context, user *domain.User) ([]*domain.Property, error) {
	if user.Role == domain.RoleUser {
		return nil, errors.Forbidden()
	}
	properties, err := service.store.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return properties, nil
}

func (service *PropertyService) Create(ctx context.Context, user *domain.User, req domain.PropertyRequest) (*domain.Property, error) {
	if user.Role == domain.RoleUser {
		return nil, errors.Forbidden()
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	property := &domain.Property{
		ID:        primitive.NewObjectID(),
		Status:    domain.PropertyAvailable,
		Owner:     user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.ApplyTo(property)

	if err := service.store.Insert(ctx, property); err != nil {
		return nil, errors.Internal(err)
	}
	service.logger.WithFields(logrus.Fields{"property": property.ID.Hex(), "owner": user.ID.Hex()}).Info("Listing created")

	service.alerts.NotifyMatches(ctx, property)
	return property, nil
}

// Update applies a partial update. Only the fields of PropertyRequest can be
// written; owner, counters, rating and featuring are ignored.
func (service *PropertyService) Update(ctx context.Context, user *domain.User, propertyID string, patch map[string]any) (*domain.Property, error) {
	property, err := service.loadOwned(ctx, user, propertyID)
	if err != nil {
		return nil, err
	}

	req := domain.PropertyRequestOf(property)
	if err := decodePatch(patch, &req); err != nil {
		return nil, err
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	req.ApplyTo(property)
	property.UpdatedAt = service.now().UTC()

	if err := service.store.Update(ctx, property); err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	return property, nil
}

func (service *PropertyService) Delete(ctx context.Context, user *domain.User, propertyID string) error {
	property, err := service.loadOwned(ctx, user, propertyID)
	if err != nil {
		return err
	}
	if err := service.store.Delete(ctx, property.ID); err != nil {
		return lookup(err, errors.PropertyNotFound)
	}
	service.logger.WithFields(logrus.Fields{"property": property.ID.Hex(), "by": user.ID.Hex()}).Info("Listing deleted")
	return nil
}

func (service *PropertyService) Verify(ctx context.Context, propertyID string, verified bool) (*domain.Property, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return nil, err
	}
	if err := service.store.SetVerified(ctx, id, verified); err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	property, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	return property, nil
}

func (service *PropertyService) load(ctx context.Context, propertyID string) (*domain.Property, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return nil, err
	}
	property, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	return property, nil
}

// loadOwned returns the listing if the caller owns it or is an admin.
func (service *PropertyService) loadOwned(ctx context.Context, user *domain.User, propertyID string) (*domain.Property, error) {
	property, err := service.load(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !property.OwnedBy(user.ID) && !user.IsAdmin() {
		return nil, errors.Forbidden()
	}
	return property, nil
}
