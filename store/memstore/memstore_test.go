package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

func TestBookingStore_ListTiesOrderedByID(t *testing.T) {
	ctx := context.Background()
	store := NewBookingStore()
	buyer := primitive.NewObjectID()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var ids []primitive.ObjectID
	for i := 0; i < 5; i++ {
		b := &domain.Booking{
			ID:        primitive.NewObjectID(),
			Property:  primitive.NewObjectID(),
			Buyer:     buyer,
			Status:    domain.BookingPending,
			CreatedAt: at,
		}
		require.NoError(t, store.Insert(ctx, b))
		ids = append([]primitive.ObjectID{b.ID}, ids...)
	}

	for run := 0; run < 10; run++ {
		got, err := store.List(ctx, domain.BookingFilter{UserID: buyer, Role: domain.ActorBuyer})
		require.NoError(t, err)
		var order []primitive.ObjectID
		for _, b := range got {
			order = append(order, b.ID)
		}
		assert.Equal(t, ids, order)
	}
}

func TestPropertyStore_SortTiesFollowSortDirection(t *testing.T) {
	ctx := context.Background()
	store := NewPropertyStore()
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var ids []primitive.ObjectID
	for i := 0; i < 4; i++ {
		p := &domain.Property{
			ID:        primitive.NewObjectID(),
			Price:     1000,
			Status:    domain.PropertyAvailable,
			Location:  domain.Location{City: "Pune"},
			CreatedAt: at,
		}
		require.NoError(t, store.Insert(ctx, p))
		ids = append(ids, p.ID)
	}

	tests := []struct {
		sort      domain.PropertySort
		ascending bool
	}{
		{domain.SortPriceAsc, true},
		{domain.SortOldest, true},
		{domain.SortPriceDesc, false},
		{domain.SortPopular, false},
		{domain.SortNewest, false},
	}
	for _, tt := range tests {
		got, total, err := store.Search(ctx, domain.PropertyQuery{Sort: tt.sort, Page: 1, Limit: 10}, at)
		require.NoError(t, err)
		require.EqualValues(t, len(ids), total)

		want := append([]primitive.ObjectID(nil), ids...)
		if !tt.ascending {
			for i, j := 0, len(want)-1; i < j; i, j = i+1, j-1 {
				want[i], want[j] = want[j], want[i]
			}
		}
		var order []primitive.ObjectID
		for _, p := range got {
			order = append(order, p.ID)
		}
		assert.Equal(t, want, order, tt.sort)
	}
}
