// Package memstore holds in-memory implementations of the domain stores
// used by service and handler tests.
package memstore

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

var (
	_ domain.UserStore         = (*UserStore)(nil)
	_ domain.PropertyStore     = (*PropertyStore)(nil)
	_ domain.BookingStore      = (*BookingStore)(nil)
	_ domain.PaymentStore      = (*PaymentStore)(nil)
	_ domain.InquiryStore      = (*InquiryStore)(nil)
	_ domain.ReviewStore       = (*ReviewStore)(nil)
	_ domain.AlertStore        = (*AlertStore)(nil)
	_ domain.NotificationStore = (*NotificationStore)(nil)
	_ domain.AuthCache         = (*AuthCache)(nil)
	_ domain.Mailer            = (*Mailer)(nil)
	_ domain.EventPublisher    = (*Publisher)(nil)
)

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// newestFirst orders by creation time, newest first, then by id descending
// like the Mongo stores' {createdAt: -1, _id: -1} sort.
func newestFirst[T any](items []*T, key func(*T) (time.Time, primitive.ObjectID)) []*T {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return bytes.Compare(idi[:], idj[:]) > 0
	})
	return items
}

type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[primitive.ObjectID]*domain.User{}}
}

func (s *UserStore) Insert(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Favorites == nil {
		user.Favorites = []primitive.ObjectID{}
	}
	s.users[user.ID] = clone(user)
	return nil
}

func (s *UserStore) Get(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(u), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *UserStore) GetMany(_ context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, clone(u))
		}
	}
	return users, nil
}

func (s *UserStore) GetAll(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, clone(u))
	}
	return newestFirst(users, func(u *domain.User) (time.Time, primitive.ObjectID) { return u.CreatedAt, u.ID }), nil
}

func (s *UserStore) update(id primitive.ObjectID, fn func(*domain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(u)
	return nil
}

func (s *UserStore) UpdateProfile(_ context.Context, user *domain.User) error {
	return s.update(user.ID, func(u *domain.User) {
		u.Name, u.Phone, u.Avatar, u.UpdatedAt = user.Name, user.Phone, user.Avatar, user.UpdatedAt
	})
}

func (s *UserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return s.update(id, func(u *domain.User) { u.Password = hash })
}

func (s *UserStore) UpdateRole(_ context.Context, id primitive.ObjectID, role domain.Role) error {
	return s.update(id, func(u *domain.User) { u.Role = role })
}

func (s *UserStore) AddFavorite(_ context.Context, id, propertyID primitive.ObjectID) error {
	return s.update(id, func(u *domain.User) {
		if !u.HasFavorite(propertyID) {
			u.Favorites = append(u.Favorites, propertyID)
		}
	})
}

func (s *UserStore) RemoveFavorite(_ context.Context, id, propertyID primitive.ObjectID) error {
	return s.update(id, func(u *domain.User) {
		kept := make([]primitive.ObjectID, 0, len(u.Favorites))
		for _, f := range u.Favorites {
			if f != propertyID {
				kept = append(kept, f)
			}
		}
		u.Favorites = kept
	})
}

type AuthCache struct {
	mu     sync.Mutex
	values map[string]string
}

func NewAuthCache() *AuthCache {
	return &AuthCache{values: map[string]string{}}
}

func (c *AuthCache) PostCacheData(_ context.Context, key string, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *AuthCache) GetCachedValue(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (c *AuthCache) DelCachedValue(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// Mailer records sent mail. Err, when set, is returned from every Send.
type Mailer struct {
	mu   sync.Mutex
	Sent []Mail
	Err  error
}

type Mail struct {
	To, Subject, Body string
}

func (m *Mailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// Publisher records published events.
type Publisher struct {
	mu     sync.Mutex
	Keys   []string
	Events []any
	Err    error
}

func (p *Publisher) Publish(_ context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Keys = append(p.Keys, routingKey)
	p.Events = append(p.Events, payload)
	return nil
}

func (p *Publisher) RoutingKeys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Keys...)
}
