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

type AlertService struct {
	store    domain.AlertStore
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

func NewAlertService(store domain.AlertStore, notifier Notifier, logger *logrus.Logger) *AlertService {
	return &AlertService{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

func (service *AlertService) Create(ctx context.Context, user *domain.User, req domain.AlertRequest) (*domain.Alert, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	c := req.Criteria
	if c.MinPrice != nil && c.MaxPrice != nil && *c.MinPrice > *c.MaxPrice {
		return nil, errors.Validation(errors.InvalidPriceRange)
	}

	count, err := service.store.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if count >= domain.MaxAlertsPerUser {
		return nil, errors.Validation(errors.AlertLimitReached)
	}

	c.City = strings.TrimSpace(c.City)
	alert := &domain.Alert{
		ID:        primitive.NewObjectID(),
		User:      user.ID,
		Name:      strings.TrimSpace(req.Name),
		Criteria:  c,
		Active:    true,
		CreatedAt: service.now().UTC(),
	}
	if err := service.store.Insert(ctx, alert); err != nil {
		return nil, errors.Internal(err)
	}
	return alert, nil
}

func (service *AlertService) List(ctx context.Context, user *domain.User) ([]*domain.Alert, error) {
	alerts, err := service.store.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return alerts, nil
}

func (service *AlertService) Toggle(ctx context.Context, user *domain.User, alertID string) (*domain.Alert, error) {
	alert, err := service.loadOwn(ctx, user, alertID)
	if err != nil {
		return nil, err
	}
	alert.Active = !alert.Active
	if err := service.store.SetActive(ctx, alert.ID, alert.Active); err != nil {
		return nil, lookup(err, errors.AlertNotFound)
	}
	return alert, nil
}

func (service *AlertService) Delete(ctx context.Context, user *domain.User, alertID string) error {
	alert, err := service.loadOwn(ctx, user, alertID)
	if err != nil {
		return err
	}
	return lookup(service.store.Delete(ctx, alert.ID), errors.AlertNotFound)
}

// NotifyMatches tells the owner of every active alert matching the new
// listing about it. The listing's own owner is skipped. Failures are logged.
func (service *AlertService) NotifyMatches(ctx context.Context, property *domain.Property) {
	alerts, err := service.store.ListActive(ctx)
	if err != nil {
		service.logger.WithError(err).Error("Loading active alerts failed")
		return
	}

	now := service.now().UTC()
	for _, alert := range alerts {
		if alert.User == property.Owner || !alert.Matches(property) {
			continue
		}
		service.notifier.Notify(ctx, alert.User, domain.NotifyAlert,
			"New listing matches your alert",
			fmt.Sprintf("%q in %s matches your alert %q.", property.Title, property.Location.City, alert.Name))

		if err := service.store.MarkNotified(ctx, alert.ID, now); err != nil {
			service.logger.WithError(err).WithField("alert", alert.ID.Hex()).Warn("Stamping alert failed")
		}
	}
}

func (service *AlertService) loadOwn(ctx context.Context, user *domain.User, alertID string) (*domain.Alert, error) {
	id, err := pathID(alertID, errors.AlertNotFound)
	if err != nil {
		return nil, err
	}
	alert, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.AlertNotFound)
	}
	if alert.User != user.ID {
		return nil, errors.Forbidden()
	}
	return alert, nil
}
