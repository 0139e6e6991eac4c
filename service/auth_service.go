package application

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type AuthService struct {
	store  domain.UserStore
	cache  domain.AuthCache
	tokens *authorization.TokenManager
	logger *logrus.Logger
	cost   int
	now    func() time.Time
}

func NewAuthService(store domain.UserStore, cache domain.AuthCache, tokens *authorization.TokenManager, logger *logrus.Logger) *AuthService {
	return &AuthService{
		store:  store,
		cache:  cache,
		tokens: tokens,
		logger: logger,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (service *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	email := req.Email

	_, err := service.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, errors.Validation(errors.EmailAlreadyExist)
	case !stderrors.Is(err, domain.ErrNotFound):
		return nil, errors.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), service.cost)
	if err != nil {
		return nil, errors.Internal(err)
	}

	role := req.Role
	if role == "" {
		role = domain.RoleUser
	}
	now := service.now().UTC()
	user := &domain.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hash),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      role,
		Favorites: []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := service.store.Insert(ctx, user); err != nil {
		if stderrors.Is(err, domain.ErrDuplicate) {
			return nil, errors.Validation(errors.EmailAlreadyExist)
		}
		return nil, errors.Internal(err)
	}

	service.logger.WithFields(logrus.Fields{"user": user.ID.Hex(), "role": user.Role}).Info("User registered")
	return service.issue(user)
}

func (service *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := domain.Validate(req); err != nil {
		return nil, err
	}

	user, err := service.store.GetByEmail(ctx, req.Email)
	if stderrors.Is(err, domain.ErrNotFound) {
		return nil, errors.Authentication(errors.InvalidCredentials)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		service.logger.WithField("user", user.ID.Hex()).Warn("Failed login attempt")
		return nil, errors.Authentication(errors.InvalidCredentials)
	}
	return service.issue(user)
}

// Logout blocklists the token until it would have expired.
func (service *AuthService) Logout(ctx context.Context, claims *authorization.Claims) error {
	ttl := service.tokens.Remaining(claims)
	if ttl <= 0 {
		return nil
	}
	if err := service.cache.PostCacheData(ctx, authorization.RevokedKey(claims.ID), claims.Subject, ttl); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (service *AuthService) UpdateProfile(ctx context.Context, user *domain.User, patch map[string]any) (*domain.User, error) {
	var update domain.ProfileUpdate
	if err := decodePatch(patch, &update); err != nil {
		return nil, err
	}
	if err := domain.Validate(update); err != nil {
		return nil, err
	}

	updated := *user
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, errors.Validation("name is required")
		}
		updated.Name = name
	}
	if update.Phone != nil {
		updated.Phone = strings.TrimSpace(*update.Phone)
	}
	if update.Avatar != nil {
		updated.Avatar = strings.TrimSpace(*update.Avatar)
	}
	updated.UpdatedAt = service.now().UTC()

	if err := service.store.UpdateProfile(ctx, &updated); err != nil {
		return nil, lookup(err, errors.UserNotFound)
	}
	return &updated, nil
}

func (service *AuthService) ChangePassword(ctx context.Context, user *domain.User, req domain.ChangePasswordRequest) error {
	if err := domain.Validate(req); err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return errors.Validation(errors.WrongPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), service.cost)
	if err != nil {
		return errors.Internal(err)
	}
	return lookup(service.store.UpdatePassword(ctx, user.ID, string(hash)), errors.UserNotFound)
}

func (service *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, err := service.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
