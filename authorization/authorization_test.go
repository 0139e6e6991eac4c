package authorization

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
	"github.com/harsh17-bit/Urban-Stay-sub001/store/memstore"
)

func newTokens(t *testing.T) *TokenManager {
	tokens, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTokens(t)
	user := &domain.User{Role: domain.RoleSeller}
	user.ID = [12]byte{1, 2, 3}

	raw, err := tokens.GenerateToken(user)
	require.NoError(t, err)

	claims, err := tokens.ParseToken(raw)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.Subject)
	assert.Equal(t, domain.RoleSeller, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), tokens.Remaining(claims).Seconds(), 5)
}

func TestParseToken_Rejects(t *testing.T) {
	tokens := newTokens(t)
	other, err := NewTokenManager("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.GenerateToken(&domain.User{Role: domain.RoleUser})
	require.NoError(t, err)

	expiring := newTokens(t)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiring.GenerateToken(&domain.User{Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = tokens.ParseToken("not-a-token")
	assert.Equal(t, errors.InvalidTokenError, errors.PublicMessage(err))

	_, err = tokens.ParseToken(foreign)
	assert.Equal(t, errors.InvalidTokenError, errors.PublicMessage(err))

	_, err = tokens.ParseToken(expired)
	assert.Equal(t, errors.ExpiredTokenError, errors.PublicMessage(err))
	assert.True(t, errors.Is(err, errors.KindAuthentication))
}

type guardFixture struct {
	guard  *AuthGuard
	tokens *TokenManager
	users  *memstore.UserStore
	cache  *memstore.AuthCache
	user   *domain.User
}

func newGuardFixture(t *testing.T) *guardFixture {
	logger, _ := test.NewNullLogger()
	users := memstore.NewUserStore()
	cache := memstore.NewAuthCache()
	tokens := newTokens(t)

	user := &domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.RoleUser}
	require.NoError(t, users.Insert(context.Background(), user))

	return &guardFixture{
		guard:  NewAuthGuard(tokens, users, cache, logger),
		tokens: tokens,
		users:  users,
		cache:  cache,
		user:   user,
	}
}

func (f *guardFixture) serve(header string) (*httptest.ResponseRecorder, *domain.User) {
	var seen *domain.User
	handler := f.guard.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthGuard_AnonymousPassesThrough(t *testing.T) {
	f := newGuardFixture(t)

	rec, seen := f.serve("")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, seen)
}

func TestAuthGuard_ResolvesUser(t *testing.T) {
	f := newGuardFixture(t)
	raw, err := f.tokens.GenerateToken(f.user)
	require.NoError(t, err)

	rec, seen := f.serve("Bearer " + raw)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, f.user.ID, seen.ID)
}

func TestAuthGuard_RejectsBadTokens(t *testing.T) {
	f := newGuardFixture(t)
	raw, err := f.tokens.GenerateToken(f.user)
	require.NoError(t, err)
	ghost, err := f.tokens.GenerateToken(&domain.User{Role: domain.RoleUser})
	require.NoError(t, err)

	revoked, err := f.tokens.GenerateToken(f.user)
	require.NoError(t, err)
	claims, err := f.tokens.ParseToken(revoked)
	require.NoError(t, err)
	require.NoError(t, f.cache.PostCacheData(context.Background(), RevokedKey(claims.ID), "1", time.Hour))

	for name, header := range map[string]string{
		"garbage":   "Bearer abc.def.ghi",
		"no scheme": raw,
		"empty":     "Bearer ",
		"ghost":     "Bearer " + ghost,
		"revoked":   "Bearer " + revoked,
	} {
		t.Run(name, func(t *testing.T) {
			rec, seen := f.serve(header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seen)
		})
	}
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, Anonymous, RoleOf(context.Background()))

	ctx := WithUser(context.Background(), &domain.User{Role: domain.RoleAdmin}, &Claims{})
	assert.Equal(t, "admin", RoleOf(ctx))
}
