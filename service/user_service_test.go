package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func TestUser_ToggleFavorite(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	user := f.user(t, "arun", domain.RoleUser)
	property := f.listing(t, seller)

	on, err := f.users.ToggleFavorite(f.ctx, user, property.ID.Hex())
	require.NoError(t, err)
	assert.True(t, on)

	favorites, err := f.users.Favorites(f.ctx, user)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, property.ID, favorites[0].ID)

	off, err := f.users.ToggleFavorite(f.ctx, user, property.ID.Hex())
	require.NoError(t, err)
	assert.False(t, off)

	favorites, err = f.users.Favorites(f.ctx, user)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	_, err = f.users.ToggleFavorite(f.ctx, user, "65f1a2b3c4d5e6f708192a3b")
	assertError(t, err, errors.KindNotFound, errors.PropertyNotFound)
}

func TestUser_ChangeRole(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "root", domain.RoleAdmin)
	user := f.user(t, "arun", domain.RoleUser)

	promoted, err := f.users.ChangeRole(f.ctx, admin, user.ID.Hex(), domain.RoleUpdateRequest{Role: domain.RoleSeller})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSeller, promoted.Role)

	_, err = f.users.ChangeRole(f.ctx, admin, admin.ID.Hex(), domain.RoleUpdateRequest{Role: domain.RoleUser})
	assertError(t, err, errors.KindValidation, errors.OwnRoleChange)
	_, err = f.users.ChangeRole(f.ctx, admin, user.ID.Hex(), domain.RoleUpdateRequest{Role: "owner"})
	assertError(t, err, errors.KindValidation, "role is not one of [user seller admin]")
	_, err = f.users.ChangeRole(f.ctx, admin, "65f1a2b3c4d5e6f708192a3b", domain.RoleUpdateRequest{Role: domain.RoleUser})
	assertError(t, err, errors.KindNotFound, errors.UserNotFound)

	users, err := f.users.ListUsers(f.ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
