package domain

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"max=20"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user seller"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// ProfileUpdate is decoded from a partial JSON object. Nil fields are left
// untouched.
type ProfileUpdate struct {
	Name   *string `mapstructure:"name" validate:"omitempty,min=1,max=100"`
	Phone  *string `mapstructure:"phone" validate:"omitempty,max=20"`
	Avatar *string `mapstructure:"avatar" validate:"omitempty,max=500"`
}

type RoleUpdateRequest struct {
	Role Role `json:"role" validate:"required,oneof=user seller admin"`
}

type LocationRequest struct {
	Address  string `json:"address" mapstructure:"address" validate:"max=300"`
	Locality string `json:"locality" mapstructure:"locality" validate:"max=100"`
	City     string `json:"city" mapstructure:"city" validate:"required,max=100"`
	State    string `json:"state" mapstructure:"state" validate:"max=100"`
	Pincode  string `json:"pincode" mapstructure:"pincode" validate:"max=10"`
}

// PropertyRequest carries the client-writable listing fields.
type PropertyRequest struct {
	Title        string          `json:"title" mapstructure:"title" validate:"required,max=200"`
	Description  string          `json:"description" mapstructure:"description" validate:"required,max=5000"`
	PropertyType PropertyType    `json:"propertyType" mapstructure:"propertyType" validate:"required,oneof=apartment house villa plot commercial pg"`
	ListingType  ListingType     `json:"listingType" mapstructure:"listingType" validate:"required,oneof=sale rent"`
	Price        float64         `json:"price" mapstructure:"price" validate:"gte=0"`
	Area         float64         `json:"area" mapstructure:"area" validate:"gte=0"`
	Bedrooms     int             `json:"bedrooms" mapstructure:"bedrooms" validate:"gte=0"`
	Bathrooms    int             `json:"bathrooms" mapstructure:"bathrooms" validate:"gte=0"`
	Furnishing   string          `json:"furnishing" mapstructure:"furnishing" validate:"omitempty,oneof=furnished semi-furnished unfurnished"`
	Amenities    []string        `json:"amenities" mapstructure:"amenities" validate:"dive,required"`
	Images       []string        `json:"images" mapstructure:"images" validate:"dive,required"`
	Location     LocationRequest `json:"location" mapstructure:"location"`
	Status       PropertyStatus  `json:"status" mapstructure:"status" validate:"omitempty,oneof=available pending sold rented"`
}

func (req *PropertyRequest) ApplyTo(p *Property) {
	p.Title = strings.TrimSpace(req.Title)
	p.Description = req.Description
	p.PropertyType = req.PropertyType
	p.ListingType = req.ListingType
	p.Price = req.Price
	p.Area = req.Area
	p.Bedrooms = req.Bedrooms
	p.Bathrooms = req.Bathrooms
	p.Furnishing = req.Furnishing
	p.Amenities = nonNil(req.Amenities)
	p.Images = nonNil(req.Images)
	p.Location = Location(req.Location)
	if req.Status != "" {
		p.Status = req.Status
	}
}

// PropertyRequestOf returns the writable fields of p, used as the base a
// partial update is decoded over.
func PropertyRequestOf(p *Property) PropertyRequest {
	return PropertyRequest{
		Title:        p.Title,
		Description:  p.Description,
		PropertyType: p.PropertyType,
		ListingType:  p.ListingType,
		Price:        p.Price,
		Area:         p.Area,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Furnishing:   p.Furnishing,
		Amenities:    p.Amenities,
		Images:       p.Images,
		Location:     LocationRequest(p.Location),
		Status:       p.Status,
	}
}

type BookingRequest struct {
	PropertyID      string      `json:"propertyId" validate:"required"`
	BookingType     BookingType `json:"bookingType" validate:"required,oneof=visit purchase rent"`
	VisitDate       string      `json:"visitDate" validate:"required"`
	VisitTime       string      `json:"visitTime" validate:"required,max=100"`
	Message         string      `json:"message" validate:"max=500"`
	PriceNegotiated *float64    `json:"priceNegotiated" validate:"omitempty,gte=0"`
}

// Normalize trims the free-text fields so blank input fails required checks.
func (req *BookingRequest) Normalize() {
	req.PropertyID = strings.TrimSpace(req.PropertyID)
	req.VisitDate = strings.TrimSpace(req.VisitDate)
	req.VisitTime = strings.TrimSpace(req.VisitTime)
	req.Message = strings.TrimSpace(req.Message)
}

var visitDateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseVisitDate accepts a plain date or a full RFC 3339 timestamp.
func (req *BookingRequest) ParseVisitDate() (time.Time, error) {
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(req.VisitDate)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Validation("visitDate is invalid")
}

type ConfirmSellerRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type InquiryRequest struct {
	PropertyID string `json:"propertyId" validate:"required"`
	Name       string `json:"name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"max=20"`
	Message    string `json:"message" validate:"required,min=1,max=1000"`
}

type InquiryResponseRequest struct {
	Response string `json:"response" validate:"required,max=1000"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type AlertRequest struct {
	Name     string        `json:"name" validate:"required,max=100"`
	Criteria AlertCriteria `json:"criteria"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "mapstructure"} {
			name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// Validate checks the struct tags of req and reports the first failure as a
// validation error.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return errors.Validation(errors.InvalidRequestFormatError)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return errors.Validationf("%s is required", fe.Field())
	case "email":
		return errors.Validationf("%s is not a valid email", fe.Field())
	case "min", "gte":
		return errors.Validationf("%s is below the minimum of %s", fe.Field(), fe.Param())
	case "max", "lte":
		return errors.Validationf("%s is above the maximum of %s", fe.Field(), fe.Param())
	case "oneof":
		return errors.Validationf("%s is not one of [%s]", fe.Field(), fe.Param())
	default:
		return errors.Validationf("%s is invalid", fe.Field())
	}
}

// DecodeJSON reads one JSON document into v.
func DecodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Validation(errors.InvalidRequestFormatError)
	}
	return nil
}

// ParseID parses a hex object id supplied in a request body.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(hex))
	if err != nil {
		return primitive.NilObjectID, errors.Validationf("invalid id %q", hex)
	}
	return id, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
