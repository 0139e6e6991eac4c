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

type PropertyStore struct {
	mu         sync.Mutex
	properties map[primitive.ObjectID]*domain.Property
}

func NewPropertyStore() *PropertyStore {
	return &PropertyStore{properties: map[primitive.ObjectID]*domain.Property{}}
}

func (s *PropertyStore) Insert(_ context.Context, p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.properties[p.ID] = clone(p)
	return nil
}

func (s *PropertyStore) Get(_ context.Context, id primitive.ObjectID) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(p), nil
}

func (s *PropertyStore) GetAndCountView(_ context.Context, id primitive.ObjectID) (*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p.Views++
	return clone(p), nil
}

func (s *PropertyStore) GetMany(_ context.Context, ids []primitive.ObjectID) ([]*domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.properties[id]; ok {
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (s *PropertyStore) GetByOwner(_ context.Context, owner primitive.ObjectID) ([]*domain.Property, error) {
	return s.collect(func(p *domain.Property) bool { return p.Owner == owner }, domain.SortNewest), nil
}

func (s *PropertyStore) Search(_ context.Context, q domain.PropertyQuery, now time.Time) ([]*domain.Property, int64, error) {
	all := s.collect(func(p *domain.Property) bool { return matches(p, q, now) }, q.Sort)
	total := int64(len(all))

	start := int(q.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (s *PropertyStore) Similar(_ context.Context, p *domain.Property, limit int) ([]*domain.Property, error) {
	out := s.collect(func(c *domain.Property) bool {
		return c.ID != p.ID &&
			c.Status == domain.PropertyAvailable &&
			c.Location.City == p.Location.City &&
			c.PropertyType == p.PropertyType &&
			c.Price >= p.Price*0.8 && c.Price <= p.Price*1.2
	}, domain.SortNewest)
	return truncate(out, limit), nil
}

func (s *PropertyStore) Featured(_ context.Context, now time.Time, limit int) ([]*domain.Property, error) {
	out := s.collect(func(p *domain.Property) bool {
		return p.FeaturedAt(now) && p.Status == domain.PropertyAvailable
	}, domain.SortNewest)
	return truncate(out, limit), nil
}

func (s *PropertyStore) Update(_ context.Context, p *domain.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.properties[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	updated := clone(p)
	updated.Views, updated.Rating, updated.ReviewCount = stored.Views, stored.Rating, stored.ReviewCount
	updated.IsFeatured, updated.FeaturedUntil, updated.IsVerified = stored.IsFeatured, stored.FeaturedUntil, stored.IsVerified
	updated.Owner, updated.CreatedAt = stored.Owner, stored.CreatedAt
	s.properties[p.ID] = updated
	return nil
}

func (s *PropertyStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.properties[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.properties, id)
	return nil
}

func (s *PropertyStore) modify(id primitive.ObjectID, fn func(*domain.Property)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.properties[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(p)
	return nil
}

func (s *PropertyStore) SetFeatured(_ context.Context, id primitive.ObjectID, until time.Time) error {
	return s.modify(id, func(p *domain.Property) { p.IsFeatured, p.FeaturedUntil = true, &until })
}

func (s *PropertyStore) SetVerified(_ context.Context, id primitive.ObjectID, verified bool) error {
	return s.modify(id, func(p *domain.Property) { p.IsVerified = verified })
}

func (s *PropertyStore) SetRating(_ context.Context, id primitive.ObjectID, rating float64, count int) error {
	return s.modify(id, func(p *domain.Property) { p.Rating, p.ReviewCount = rating, count })
}

func (s *PropertyStore) collect(keep func(*domain.Property) bool, order domain.PropertySort) []*domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Property, 0)
	for _, p := range s.properties {
		if keep(p) {
			out = append(out, clone(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case order == domain.SortPriceAsc && a.Price != b.Price:
			return a.Price < b.Price
		case order == domain.SortPriceDesc && a.Price != b.Price:
			return a.Price > b.Price
		case order == domain.SortOldest && !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Before(b.CreatedAt)
		case order == domain.SortPopular && a.Views != b.Views:
			return a.Views > b.Views
		case isNewest(order) && !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.After(b.CreatedAt)
		}
		return idBefore(order, a.ID, b.ID)
	})
	return out
}

func matches(p *domain.Property, q domain.PropertyQuery, now time.Time) bool {
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	switch {
	case q.Status != "" && p.Status != q.Status,
		q.ListingType != "" && p.ListingType != q.ListingType,
		q.PropertyType != "" && p.PropertyType != q.PropertyType,
		q.City != "" && !contains(p.Location.City, q.City),
		q.MinPrice != nil && p.Price < *q.MinPrice,
		q.MaxPrice != nil && p.Price > *q.MaxPrice,
		q.MinArea != nil && p.Area < *q.MinArea,
		q.MaxArea != nil && p.Area > *q.MaxArea,
		q.Bedrooms != nil && p.Bedrooms < *q.Bedrooms,
		q.Furnishing != "" && p.Furnishing != q.Furnishing,
		q.Featured && !p.FeaturedAt(now),
		q.Verified && !p.IsVerified:
		return false
	}
	for _, want := range q.Amenities {
		found := false
		for _, have := range p.Amenities {
			found = found || have == want
		}
		if !found {
			return false
		}
	}
	if q.Search != "" {
		return contains(p.Title, q.Search) || contains(p.Description, q.Search) ||
			contains(p.Location.Locality, q.Search) || contains(p.Location.City, q.Search)
	}
	return true
}

func truncate[T any](items []*T, limit int) []*T {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func isNewest(order domain.PropertySort) bool {
	switch order {
	case domain.SortPriceAsc, domain.SortPriceDesc, domain.SortOldest, domain.SortPopular:
		return false
	}
	return true
}

// idBefore breaks ties on _id in the direction of the primary sort.
func idBefore(order domain.PropertySort, a, b primitive.ObjectID) bool {
	cmp := bytes.Compare(a[:], b[:])
	switch order {
	case domain.SortPriceAsc, domain.SortOldest:
		return cmp < 0
	}
	return cmp > 0
}
