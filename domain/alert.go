package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxAlertsPerUser = 10

type AlertCriteria struct {
	City         string       `bson:"city,omitempty" json:"city,omitempty" validate:"max=100"`
	PropertyType PropertyType `bson:"propertyType,omitempty" json:"propertyType,omitempty" validate:"omitempty,oneof=apartment house villa plot commercial pg"`
	ListingType  ListingType  `bson:"listingType,omitempty" json:"listingType,omitempty" validate:"omitempty,oneof=sale rent"`
	MinPrice     *float64     `bson:"minPrice,omitempty" json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice     *float64     `bson:"maxPrice,omitempty" json:"maxPrice,omitempty" validate:"omitempty,gte=0"`
	MinBedrooms  *int         `bson:"minBedrooms,omitempty" json:"minBedrooms,omitempty" validate:"omitempty,gte=0"`
}

// Alert is a saved search. The owner is notified when a new listing matches.
type Alert struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Name           string             `bson:"name" json:"name"`
	Criteria       AlertCriteria      `bson:"criteria" json:"criteria"`
	Active         bool               `bson:"active" json:"active"`
	LastNotifiedAt *time.Time         `bson:"lastNotifiedAt,omitempty" json:"lastNotifiedAt,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// Matches reports whether every criterion that is set holds for p.
// City compares case-insensitively.
func (a *Alert) Matches(p *Property) bool {
	c := a.Criteria
	if c.City != "" && !strings.EqualFold(strings.TrimSpace(c.City), strings.TrimSpace(p.Location.City)) {
		return false
	}
	if c.PropertyType != "" && c.PropertyType != p.PropertyType {
		return false
	}
	if c.ListingType != "" && c.ListingType != p.ListingType {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinBedrooms != nil && p.Bedrooms < *c.MinBedrooms {
		return false
	}
	return true
}
