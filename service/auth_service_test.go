package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func registration() domain.RegisterRequest {
	return domain.RegisterRequest{Name: " Asha ", Email: " Asha@Example.COM ", Password: "secret1"}
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	registered, err := f.auth.Register(f.ctx, registration())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.Equal(t, "Asha", registered.User.Name)
	assert.Equal(t, domain.RoleUser, registered.User.Role)
	assert.NotEqual(t, "secret1", registered.User.Password)

	claims, err := f.tokens.ParseToken(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID.Hex(), claims.Subject)

	loggedIn, err := f.auth.Login(f.ctx, domain.LoginRequest{Email: "ASHA@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = f.auth.Login(f.ctx, domain.LoginRequest{Email: "asha@example.com", Password: "wrong-one"})
	assertError(t, err, errors.KindAuthentication, errors.InvalidCredentials)
	_, err = f.auth.Login(f.ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assertError(t, err, errors.KindAuthentication, errors.InvalidCredentials)
}

func TestAuth_RegisterRejects(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(f.ctx, registration())
	require.NoError(t, err)

	_, err = f.auth.Register(f.ctx, registration())
	assertError(t, err, errors.KindValidation, errors.EmailAlreadyExist)

	admin := registration()
	admin.Email = "root@example.com"
	admin.Role = domain.RoleAdmin
	_, err = f.auth.Register(f.ctx, admin)
	assertError(t, err, errors.KindValidation, "role is not one of [user seller]")

	short := registration()
	short.Email = "short@example.com"
	short.Password = "12345"
	_, err = f.auth.Register(f.ctx, short)
	assertError(t, err, errors.KindValidation, "password is below the minimum of 6")

	seller := registration()
	seller.Email = "seller@example.com"
	seller.Role = domain.RoleSeller
	result, err := f.auth.Register(f.ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, result.User.Role)
}

func TestAuth_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	registered, err := f.auth.Register(f.ctx, registration())
	require.NoError(t, err)
	claims, err := f.tokens.ParseToken(registered.Token)
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(f.ctx, claims))

	subject, err := f.cache.GetCachedValue(f.ctx, authorization.RevokedKey(claims.ID))
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, subject)
}

func TestAuth_UpdateProfile(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "asha", domain.RoleUser)

	updated, err := f.auth.UpdateProfile(f.ctx, user, map[string]any{"phone": " 12345 ", "role": "admin"})
	require.NoError(t, err)
	assert.Equal(t, "asha", updated.Name)
	assert.Equal(t, "12345", updated.Phone)
	assert.Equal(t, domain.RoleUser, updated.Role)

	stored, err := f.userStore.Get(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345", stored.Phone)
	assert.Equal(t, domain.RoleUser, stored.Role)

	_, err = f.auth.UpdateProfile(f.ctx, user, map[string]any{"name": "   "})
	assertError(t, err, errors.KindValidation, "name is required")
	_, err = f.auth.UpdateProfile(f.ctx, user, map[string]any{"name": 42})
	assertError(t, err, errors.KindValidation, errors.InvalidRequestFormatError)
}

func TestAuth_ChangePassword(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "asha", domain.RoleUser)

	err := f.auth.ChangePassword(f.ctx, user, domain.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new"})
	assertError(t, err, errors.KindValidation, errors.WrongPassword)

	require.NoError(t, f.auth.ChangePassword(f.ctx, user, domain.ChangePasswordRequest{CurrentPassword: "secret1", NewPassword: "brand-new"}))

	_, err = f.auth.Login(f.ctx, domain.LoginRequest{Email: user.Email, Password: "brand-new"})
	assert.NoError(t, err)
	_, err = f.auth.Login(f.ctx, domain.LoginRequest{Email: user.Email, Password: "secret1"})
	assertError(t, err, errors.KindAuthentication, errors.InvalidCredentials)
}
