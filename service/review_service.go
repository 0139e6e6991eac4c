package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type ReviewService struct {
	store      domain.ReviewStore
	properties domain.PropertyStore
	users      domain.UserStore
	notifier   Notifier
	logger     *logrus.Logger
	now        func() time.Time
}

func NewReviewService(store domain.ReviewStore, properties domain.PropertyStore, users domain.UserStore,
	notifier Notifier, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		store:      store,
		properties: properties,
		users:      users,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

func (service *ReviewService) Create(ctx context.Context, user *domain.User, propertyID string, req domain.ReviewRequest) (*domain.ReviewView, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	property, err := service.properties.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}
	if property.OwnedBy(user.ID) {
		return nil, errors.Validation(errors.SelfReviewError)
	}

	review := &domain.Review{
		ID:        primitive.NewObjectID(),
		Property:  property.ID,
		Author:    user.ID,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: service.now().UTC(),
	}
	if err := service.store.Insert(ctx, review); err != nil {
		if stderrors.Is(err, domain.ErrDuplicate) {
			return nil, errors.Validation(errors.DuplicateReview)
		}
		return nil, errors.Internal(err)
	}
	if err := service.refreshRating(ctx, property.ID); err != nil {
		return nil, err
	}

	service.notifier.Notify(ctx, property.Owner, domain.NotifyReview, "New review",
		fmt.Sprintf("%s rated %q %d/5.", user.Name, property.Title, review.Rating))
	return &domain.ReviewView{Review: review, Author: user.Summary()}, nil
}

func (service *ReviewService) List(ctx context.Context, propertyID string) ([]*domain.ReviewView, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := service.properties.Get(ctx, id); err != nil {
		return nil, lookup(err, errors.PropertyNotFound)
	}

	reviews, err := service.store.ListByProperty(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	authorIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		authorIDs = append(authorIDs, r.Author)
	}
	authors, err := service.users.GetMany(ctx, unique(authorIDs))
	if err != nil {
		return nil, errors.Internal(err)
	}
	byID := make(map[primitive.ObjectID]*domain.UserSummary, len(authors))
	for _, a := range authors {
		byID[a.ID] = a.Summary()
	}

	views := make([]*domain.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, &domain.ReviewView{Review: r, Author: byID[r.Author]})
	}
	return views, nil
}

func (service *ReviewService) Delete(ctx context.Context, user *domain.User, reviewID string) error {
	id, err := pathID(reviewID, errors.ReviewNotFound)
	if err != nil {
		return err
	}
	review, err := service.store.Get(ctx, id)
	if err != nil {
		return lookup(err, errors.ReviewNotFound)
	}
	if review.Author != user.ID && !user.IsAdmin() {
		return errors.Forbidden()
	}
	if err := service.store.Delete(ctx, id); err != nil {
		return lookup(err, errors.ReviewNotFound)
	}
	return service.refreshRating(ctx, review.Property)
}

func (service *ReviewService) refreshRating(ctx context.Context, propertyID primitive.ObjectID) error {
	rating, count, err := service.store.Stats(ctx, propertyID)
	if err != nil {
		return errors.Internal(err)
	}
	err = service.properties.SetRating(ctx, propertyID, rating, count)
	if stderrors.Is(err, domain.ErrNotFound) {
		// listing deleted since; nothing to update
		service.logger.WithField("property", propertyID.Hex()).Debug("Rating not refreshed")
		return nil
	}
	if err != nil {
		return errors.Internal(err)
	}
	return nil
}
