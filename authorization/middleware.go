package authorization

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

const Anonymous = "anonymous"

// RevokedKey is the blocklist key of a token id.
func RevokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

type AuthGuard struct {
	tokens *TokenManager
	users  domain.UserStore
	cache  domain.AuthCache
	logger *logrus.Logger
}

func NewAuthGuard(tokens *TokenManager, users domain.UserStore, cache domain.AuthCache, logger *logrus.Logger) *AuthGuard {
	return &AuthGuard{tokens: tokens, users: users, cache: cache, logger: logger}
}

// Middleware resolves a bearer token to its user. Requests without a token
// pass through anonymously and are left to the role guard; a token that is
// present but bad is rejected here.
func (g *AuthGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, claims, err := g.authenticate(r, header)
		if err != nil {
			g.logger.WithField("path", r.URL.Path).WithError(err).Warn("Rejected bearer token")
			errors.WriteHTTP(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user, claims)))
	})
}

func (g *AuthGuard) authenticate(r *http.Request, header string) (*domain.User, *Claims, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil, errors.Authentication(errors.InvalidTokenError)
	}

	claims, err := g.tokens.ParseToken(strings.TrimSpace(raw))
	if err != nil {
		return nil, nil, err
	}

	_, err = g.cache.GetCachedValue(r.Context(), RevokedKey(claims.ID))
	switch {
	case err == nil:
		return nil, nil, errors.Authentication(errors.RevokedTokenError)
	case !stderrors.Is(err, domain.ErrNotFound):
		return nil, nil, errors.Internal(err)
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return nil, nil, errors.Authentication(errors.InvalidTokenError)
	}
	user, err := g.users.Get(r.Context(), id)
	if stderrors.Is(err, domain.ErrNotFound) {
		return nil, nil, errors.Authentication(errors.UserNotFound)
	}
	if err != nil {
		return nil, nil, errors.Internal(err)
	}
	return user, claims, nil
}
