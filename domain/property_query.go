package domain

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

const (
	DefaultPageLimit = 12
	MaxPageLimit     = 100
	SimilarLimit     = 4
	FeaturedLimit    = 8
)

type PropertySort string

const (
	SortNewest    PropertySort = "newest"
	SortOldest    PropertySort = "oldest"
	SortPriceAsc  PropertySort = "price_asc"
	SortPriceDesc PropertySort = "price_desc"
	SortPopular   PropertySort = "popular"
)

// PropertyQuery holds the catalog filters. Zero values mean "not filtered".
type PropertyQuery struct {
	Status       PropertyStatus
	ListingType  ListingType
	PropertyType PropertyType
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	Bedrooms     *int
	MinArea      *float64
	MaxArea      *float64
	Furnishing   string
	Amenities    []string
	Featured     bool
	Verified     bool
	Search       string
	Sort         PropertySort
	Page         int
	Limit        int
}

func (q PropertyQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

// ParsePropertyQuery reads the catalog filters from a query string. Paging is
// clamped to sane bounds and unknown sort keys fall back to newest.
func ParsePropertyQuery(values url.Values) (PropertyQuery, error) {
	q := PropertyQuery{
		Status:       PropertyStatus(strings.TrimSpace(values.Get("status"))),
		ListingType:  ListingType(strings.TrimSpace(values.Get("listingType"))),
		PropertyType: PropertyType(strings.TrimSpace(values.Get("propertyType"))),
		City:         strings.TrimSpace(values.Get("city")),
		Furnishing:   strings.TrimSpace(values.Get("furnishing")),
		Search:       strings.TrimSpace(values.Get("search")),
		Featured:     values.Get("featured") == "true",
		Verified:     values.Get("verified") == "true",
	}

	var err error
	if q.MinPrice, err = floatParam(values, "minPrice"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = floatParam(values, "maxPrice"); err != nil {
		return q, err
	}
	if q.MinArea, err = floatParam(values, "minArea"); err != nil {
		return q, err
	}
	if q.MaxArea, err = floatParam(values, "maxArea"); err != nil {
		return q, err
	}
	if raw := strings.TrimSpace(values.Get("bedrooms")); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			return q, errors.Validation("bedrooms must be a non-negative integer")
		}
		q.Bedrooms = &n
	}

	for _, amenity := range strings.Split(values.Get("amenities"), ",") {
		if amenity = strings.TrimSpace(amenity); amenity != "" {
			q.Amenities = append(q.Amenities, amenity)
		}
	}

	switch sort := PropertySort(values.Get("sort")); sort {
	case SortOldest, SortPriceAsc, SortPriceDesc, SortPopular:
		q.Sort = sort
	default:
		q.Sort = SortNewest
	}

	q.Page = intParam(values, "page", 1)
	if q.Page < 1 {
		q.Page = 1
	}
	q.Limit = intParam(values, "limit", DefaultPageLimit)
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	return q, nil
}

func floatParam(values url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return nil, errors.Validationf("%s must be a non-negative number", key)
	}
	return &f, nil
}

func intParam(values url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(values.Get(key))
	if err != nil {
		return fallback
	}
	return n
}
