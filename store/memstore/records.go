package memstore

import (
	"context"
	"math"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

type BookingStore struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*domain.Booking
}

func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: map[primitive.ObjectID]*domain.Booking{}}
}

// Insert mimics the partial unique index on pending bookings.
func (s *BookingStore) Insert(_ context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Status == domain.BookingPending {
		for _, other := range s.bookings {
			if other.Status == domain.BookingPending && other.Property == b.Property && other.Buyer == b.Buyer {
				return domain.ErrDuplicate
			}
		}
	}
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	s.bookings[b.ID] = clone(b)
	return nil
}

func (s *BookingStore) Get(_ context.Context, id primitive.ObjectID) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(b), nil
}

func (s *BookingStore) HasPending(_ context.Context, property, buyer primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.bookings {
		if b.Status == domain.BookingPending && b.Property == property && b.Buyer == buyer {
			return true, nil
		}
	}
	return false, nil
}

func (s *BookingStore) List(_ context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		var side bool
		switch f.Role {
		case domain.ActorBuyer:
			side = b.Buyer == f.UserID
		case domain.ActorSeller:
			side = b.Seller == f.UserID
		default:
			side = b.Buyer == f.UserID || b.Seller == f.UserID
		}
		if side && (f.Status == "" || b.Status == f.Status) {
			out = append(out, clone(b))
		}
	}
	return newestFirst(out, func(b *domain.Booking) (time.Time, primitive.ObjectID) { return b.CreatedAt, b.ID }), nil
}

func (s *BookingStore) UpdateState(_ context.Context, b *domain.Booking, from domain.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[b.ID]
	if !ok {
		return domain.ErrConflict
	}
	current, err := domain.StateOf(stored)
	if err != nil || current != from {
		return domain.ErrConflict
	}
	s.bookings[b.ID] = clone(b)
	return nil
}

// Force overwrites a booking, bypassing every check. Tests use it to stage
// concurrent modifications.
func (s *BookingStore) Force(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = clone(b)
}

type PaymentStore struct {
	mu       sync.Mutex
	payments []*domain.Payment
}

func NewPaymentStore() *PaymentStore {
	return &PaymentStore{}
}

func (s *PaymentStore) Insert(_ context.Context, p *domain.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.payments = append(s.payments, clone(p))
	return nil
}

func (s *PaymentStore) ListByUser(_ context.Context, user primitive.ObjectID) ([]*domain.Payment, error) {
	return s.list(func(p *domain.Payment) bool { return p.User == user }), nil
}

func (s *PaymentStore) ListAll(_ context.Context) ([]*domain.Payment, error) {
	return s.list(func(*domain.Payment) bool { return true }), nil
}

func (s *PaymentStore) list(keep func(*domain.Payment) bool) []*domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Payment, 0)
	for _, p := range s.payments {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	return newestFirst(out, func(p *domain.Payment) (time.Time, primitive.ObjectID) { return p.CreatedAt, p.ID })
}

type InquiryStore struct {
	mu        sync.Mutex
	inquiries map[primitive.ObjectID]*domain.Inquiry
}

func NewInquiryStore() *InquiryStore {
	return &InquiryStore{inquiries: map[primitive.ObjectID]*domain.Inquiry{}}
}

func (s *InquiryStore) Insert(_ context.Context, i *domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i.ID.IsZero() {
		i.ID = primitive.NewObjectID()
	}
	s.inquiries[i.ID] = clone(i)
	return nil
}

func (s *InquiryStore) Get(_ context.Context, id primitive.ObjectID) (*domain.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.inquiries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(i), nil
}

func (s *InquiryStore) ListBySender(_ context.Context, sender primitive.ObjectID) ([]*domain.Inquiry, error) {
	return s.list(func(i *domain.Inquiry) bool { return i.Sender == sender }), nil
}

func (s *InquiryStore) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]*domain.Inquiry, error) {
	return s.list(func(i *domain.Inquiry) bool { return i.Owner == owner }), nil
}

func (s *InquiryStore) Update(_ context.Context, i *domain.Inquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inquiries[i.ID]; !ok {
		return domain.ErrNotFound
	}
	s.inquiries[i.ID] = clone(i)
	return nil
}

func (s *InquiryStore) list(keep func(*domain.Inquiry) bool) []*domain.Inquiry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Inquiry, 0)
	for _, i := range s.inquiries {
		if keep(i) {
			out = append(out, clone(i))
		}
	}
	return newestFirst(out, func(i *domain.Inquiry) (time.Time, primitive.ObjectID) { return i.CreatedAt, i.ID })
}

type ReviewStore struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]*domain.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: map[primitive.ObjectID]*domain.Review{}}
}

func (s *ReviewStore) Insert(_ context.Context, r *domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, other := range s.reviews {
		if other.Property == r.Property && other.Author == r.Author {
			return domain.ErrDuplicate
		}
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.reviews[r.ID] = clone(r)
	return nil
}

func (s *ReviewStore) Get(_ context.Context, id primitive.ObjectID) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(r), nil
}

func (s *ReviewStore) ListByProperty(_ context.Context, property primitive.ObjectID) ([]*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Review, 0)
	for _, r := range s.reviews {
		if r.Property == property {
			out = append(out, clone(r))
		}
	}
	return newestFirst(out, func(r *domain.Review) (time.Time, primitive.ObjectID) { return r.CreatedAt, r.ID }), nil
}

func (s *ReviewStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *ReviewStore) Stats(_ context.Context, property primitive.ObjectID) (float64, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, count := 0, 0
	for _, r := range s.reviews {
		if r.Property == property {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return math.Round(float64(sum)/float64(count)*10) / 10, count, nil
}

type AlertStore struct {
	mu     sync.Mutex
	alerts map[primitive.ObjectID]*domain.Alert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: map[primitive.ObjectID]*domain.Alert{}}
}

func (s *AlertStore) Insert(_ context.Context, a *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.alerts[a.ID] = clone(a)
	return nil
}

func (s *AlertStore) Get(_ context.Context, id primitive.ObjectID) (*domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(a), nil
}

func (s *AlertStore) ListByUser(_ context.Context, user primitive.ObjectID) ([]*domain.Alert, error) {
	return s.list(func(a *domain.Alert) bool { return a.User == user }), nil
}

func (s *AlertStore) CountByUser(ctx context.Context, user primitive.ObjectID) (int64, error) {
	alerts, _ := s.ListByUser(ctx, user)
	return int64(len(alerts)), nil
}

func (s *AlertStore) ListActive(_ context.Context) ([]*domain.Alert, error) {
	return s.list(func(a *domain.Alert) bool { return a.Active }), nil
}

func (s *AlertStore) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	return s.modify(id, func(a *domain.Alert) { a.Active = active })
}

func (s *AlertStore) MarkNotified(_ context.Context, id primitive.ObjectID, at time.Time) error {
	return s.modify(id, func(a *domain.Alert) { a.LastNotifiedAt = &at })
}

func (s *AlertStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.alerts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.alerts, id)
	return nil
}

func (s *AlertStore) modify(id primitive.ObjectID, fn func(*domain.Alert)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(a)
	return nil
}

func (s *AlertStore) list(keep func(*domain.Alert) bool) []*domain.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Alert, 0)
	for _, a := range s.alerts {
		if keep(a) {
			out = append(out, clone(a))
		}
	}
	return newestFirst(out, func(a *domain.Alert) (time.Time, primitive.ObjectID) { return a.CreatedAt, a.ID })
}

type NotificationStore struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*domain.Notification
	Err           error
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{notifications: map[primitive.ObjectID]*domain.Notification{}}
}

func (s *NotificationStore) Insert(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	s.notifications[n.ID] = clone(n)
	return nil
}

func (s *NotificationStore) ListByUser(_ context.Context, user primitive.ObjectID, unreadOnly bool) ([]*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Notification, 0)
	for _, n := range s.notifications {
		if n.User == user && (!unreadOnly || !n.Read) {
			out = append(out, clone(n))
		}
	}
	return newestFirst(out, func(n *domain.Notification) (time.Time, primitive.ObjectID) { return n.CreatedAt, n.ID }), nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id, user primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.User != user {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

func (s *NotificationStore) MarkAllRead(_ context.Context, user primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.User == user {
			n.Read = true
		}
	}
	return nil
}
