package application

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func TestNotification_NotifyStoresAndMails(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "arun", domain.RoleUser)

	f.notifications.Notify(f.ctx, user.ID, domain.NotifyBooking, "Hello", "World")
	f.notifications.Wait()

	got := f.notificationsOf(t, user)
	require.Len(t, got, 1)
	assert.Equal(t, "Hello", got[0].Title)
	assert.False(t, got[0].Read)
	require.Equal(t, 1, f.mailer.Count())
	assert.Equal(t, "arun@example.com", f.mailer.Sent[0].To)
	assert.Equal(t, "World", f.mailer.Sent[0].Body)
}

func TestNotification_BreakerOpensAfterRepeatedMailFailures(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "arun", domain.RoleUser)
	f.mailer.Err = stderrors.New("smtp refused")

	for i := 0; i < 5; i++ {
		f.notifications.Notify(f.ctx, user.ID, domain.NotifyAlert, "t", "m")
	}
	f.notifications.Wait()

	assert.Equal(t, gobreaker.StateOpen, f.notifications.cb.State())
	assert.Len(t, f.notificationsOf(t, user), 5)

	warnings := 0
	for _, entry := range f.hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 5, warnings)
}

func TestNotification_MailDoesNotBlockOrOutliveCaller(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "arun", domain.RoleUser)
	slow := &slowMailer{release: make(chan struct{})}
	f.notifications.mailer = slow

	ctx, cancel := context.WithCancel(f.ctx)
	f.notifications.Notify(ctx, user.ID, domain.NotifyBooking, "Hello", "World")
	cancel()

	assert.Len(t, f.notificationsOf(t, user), 1)
	close(slow.release)
	f.notifications.Wait()
	assert.Equal(t, 1, slow.count())
}

// slowMailer holds every send until release is closed.
type slowMailer struct {
	release chan struct{}
	mu      sync.Mutex
	sent    int
}

func (m *slowMailer) Send(to, subject, body string) error {
	<-m.release
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	return nil
}

func (m *slowMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func TestNotification_UnknownRecipientIsLogged(t *testing.T) {
	f := newFixture(t)
	ghost := f.user(t, "ghost", domain.RoleUser)
	ghost.ID = [12]byte{9}

	f.notifications.Notify(f.ctx, ghost.ID, domain.NotifyInquiry, "t", "m")
	f.notifications.Wait()

	assert.Zero(t, f.mailer.Count())
	require.NotNil(t, f.hook.LastEntry())
	assert.Equal(t, "Notification recipient lookup failed", f.hook.LastEntry().Message)
}

func TestNotification_ReadFlags(t *testing.T) {
	f := newFixture(t)
	user := f.user(t, "arun", domain.RoleUser)
	other := f.user(t, "bina", domain.RoleUser)

	for i := 0; i < 3; i++ {
		f.notifications.Notify(f.ctx, user.ID, domain.NotifyBooking, "t", "m")
	}
	all, err := f.notifications.List(f.ctx, user, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	require.NoError(t, f.notifications.MarkRead(f.ctx, user, all[0].ID.Hex()))
	unread, err := f.notifications.List(f.ctx, user, true)
	require.NoError(t, err)
	assert.Len(t, unread, 2)

	err = f.notifications.MarkRead(f.ctx, other, all[1].ID.Hex())
	assertError(t, err, errors.KindNotFound, errors.NotificationNotFound)

	require.NoError(t, f.notifications.MarkAllRead(f.ctx, user))
	unread, err = f.notifications.List(f.ctx, user, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
