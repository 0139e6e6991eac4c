package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type UserService struct {
	store      domain.UserStore
	properties domain.PropertyStore
	logger     *logrus.Logger
}

func NewUserService(store domain.UserStore, properties domain.PropertyStore, logger *logrus.Logger) *UserService {
	return &UserService{
		store:      store,
		properties: properties,
		logger:     logger,
	}
}

// ToggleFavorite adds the property to the caller's favourites, or removes it
// if it is already there. It reports whether the property is now a favourite.
func (service *UserService) ToggleFavorite(ctx context.Context, user *domain.User, propertyID string) (bool, error) {
	id, err := pathID(propertyID, errors.PropertyNotFound)
	if err != nil {
		return false, err
	}
	if _, err := service.properties.Get(ctx, id); err != nil {
		return false, lookup(err, errors.PropertyNotFound)
	}

	current, err := service.store.Get(ctx, user.ID)
	if err != nil {
		return false, lookup(err, errors.UserNotFound)
	}
	if current.HasFavorite(id) {
		return false, lookup(service.store.RemoveFavorite(ctx, user.ID, id), errors.UserNotFound)
	}
	return true, lookup(service.store.AddFavorite(ctx, user.ID, id), errors.UserNotFound)
}

func (service *UserService) Favorites(ctx context.Context, user *domain.User) ([]*domain.Property, error) {
	current, err := service.store.Get(ctx, user.ID)
	if err != nil {
		return nil, lookup(err, errors.UserNotFound)
	}
	properties, err := service.properties.GetMany(ctx, current.Favorites)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return properties, nil
}

func (service *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := service.store.GetAll(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return users, nil
}

func (service *UserService) ChangeRole(ctx context.Context, admin *domain.User, userID string, req domain.RoleUpdateRequest) (*domain.User, error) {
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	id, err := pathID(userID, errors.UserNotFound)
	if err != nil {
		return nil, err
	}
	if id == admin.ID {
		return nil, errors.Validation(errors.OwnRoleChange)
	}

	if err := service.store.UpdateRole(ctx, id, req.Role); err != nil {
		return nil, lookup(err, errors.UserNotFound)
	}
	service.logger.WithFields(logrus.Fields{"user": id.Hex(), "role": req.Role, "by": admin.ID.Hex()}).Info("Role changed")

	user, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, errors.UserNotFound)
	}
	return user, nil
}
