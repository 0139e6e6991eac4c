package application

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func TestPayment_FeatureProperty(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	property := f.listing(t, seller)

	result, err := f.payments.FeatureProperty(f.ctx, seller, property.ID.Hex())
	require.NoError(t, err)

	payment := result.Payment
	assert.Equal(t, 499.0, payment.Amount)
	assert.Equal(t, "INR", payment.Currency)
	assert.Equal(t, "featured_listing", payment.Purpose)
	assert.Equal(t, "completed", payment.Status)
	assert.True(t, strings.HasPrefix(payment.TransactionID, "TXN-MOCK-"))
	assert.Equal(t, payment.CreatedAt.Add(30*24*time.Hour), payment.FeaturedUntil)

	stored, err := f.propertyStore.Get(f.ctx, property.ID)
	require.NoError(t, err)
	assert.True(t, stored.FeaturedAt(payment.CreatedAt))
	assert.Equal(t, payment.FeaturedUntil, *stored.FeaturedUntil)

	_, err = f.payments.FeatureProperty(f.ctx, seller, property.ID.Hex())
	assertError(t, err, errors.KindValidation, errors.AlreadyFeatured)

	assert.Equal(t, []string{"payment.completed"}, f.publisher.RoutingKeys())
	assert.Len(t, f.notificationsOf(t, seller), 1)
}

func TestPayment_ExpiredFeatureCanBeRenewed(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	expired := f.clock.t.Add(-time.Hour)
	property := f.listing(t, seller, func(p *domain.Property) { p.IsFeatured, p.FeaturedUntil = true, &expired })

	_, err := f.payments.FeatureProperty(f.ctx, seller, property.ID.Hex())
	assert.NoError(t, err)
}

func TestPayment_OwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	seller := f.user(t, "bina", domain.RoleSeller)
	rival := f.user(t, "chetan", domain.RoleSeller)
	admin := f.user(t, "root", domain.RoleAdmin)
	property := f.listing(t, seller)
	other := f.listing(t, rival)

	_, err := f.payments.FeatureProperty(f.ctx, rival, property.ID.Hex())
	assertError(t, err, errors.KindAuthorization, errors.ForbiddenError)
	_, err = f.payments.FeatureProperty(f.ctx, seller, "65f1a2b3c4d5e6f708192a3b")
	assertError(t, err, errors.KindNotFound, errors.PropertyNotFound)

	_, err = f.payments.FeatureProperty(f.ctx, admin, property.ID.Hex())
	require.NoError(t, err)
	_, err = f.payments.FeatureProperty(f.ctx, rival, other.ID.Hex())
	require.NoError(t, err)

	mine, err := f.payments.History(f.ctx, rival)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.payments.History(f.ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
}
