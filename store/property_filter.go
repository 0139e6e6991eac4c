package store

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
)

// PropertyFilter translates catalog filters into a Mongo query. User text is
// regex-escaped before being matched as a case-insensitive substring.
func PropertyFilter(q domain.PropertyQuery, now time.Time) bson.M {
	query := bson.M{}

	if q.Status != "" {
		query["status"] = q.Status
	}
	if q.ListingType != "" {
		query["listingType"] = q.ListingType
	}
	if q.PropertyType != "" {
		query["propertyType"] = q.PropertyType
	}
	if q.City != "" {
		query["location.city"] = contains(q.City)
	}
	if r := numberRange(q.MinPrice, q.MaxPrice); r != nil {
		query["price"] = r
	}
	if r := numberRange(q.MinArea, q.MaxArea); r != nil {
		query["area"] = r
	}
	if q.Bedrooms != nil {
		query["bedrooms"] = bson.M{"$gte": *q.Bedrooms}
	}
	if q.Furnishing != "" {
		query["furnishing"] = q.Furnishing
	}
	if len(q.Amenities) > 0 {
		query["amenities"] = bson.M{"$all": q.Amenities}
	}
	if q.Featured {
		query["isFeatured"] = true
		query["featuredUntil"] = bson.M{"$gt": now}
	}
	if q.Verified {
		query["isVerified"] = true
	}
	if q.Search != "" {
		pattern := contains(q.Search)
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"location.locality": pattern},
			bson.M{"location.city": pattern},
		}
	}
	return query
}

// PropertySort returns the sort document for a sort key. Ties are broken by
// _id so paging is stable.
func PropertySort(sort domain.PropertySort) bson.D {
	switch sort {
	case domain.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	case domain.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPopular:
		return bson.D{{Key: "views", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// SimilarFilter finds available listings in the same city and category
// priced within 20% of p.
func SimilarFilter(p *domain.Property) bson.M {
	return bson.M{
		"_id":           bson.M{"$ne": p.ID},
		"status":        domain.PropertyAvailable,
		"location.city": p.Location.City,
		"propertyType":  p.PropertyType,
		"price":         bson.M{"$gte": p.Price * 0.8, "$lte": p.Price * 1.2},
	}
}

func FeaturedFilter(now time.Time) bson.M {
	return bson.M{
		"isFeatured":    true,
		"featuredUntil": bson.M{"$gt": now},
		"status":        domain.PropertyAvailable,
	}
}

func contains(text string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
}

func numberRange(lo, hi *float64) bson.M {
	if lo == nil && hi == nil {
		return nil
	}
	r := bson.M{}
	if lo != nil {
		r["$gte"] = *lo
	}
	if hi != nil {
		r["$lte"] = *hi
	}
	return r
}
