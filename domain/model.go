package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSeller || r == RoleAdmin
}

type User struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	Name      string               `bson:"name" json:"name"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Phone     string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Avatar    string               `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Role      Role                 `bson:"role" json:"role"`
	Favorites []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

func (user *User) IsAdmin() bool {
	return user != nil && user.Role == RoleAdmin
}

func (user *User) HasFavorite(propertyID primitive.ObjectID) bool {
	for _, id := range user.Favorites {
		if id == propertyID {
			return true
		}
	}
	return false
}

// UserSummary is the public projection embedded in other resources.
type UserSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Phone  string             `json:"phone,omitempty"`
	Avatar string             `json:"avatar,omitempty"`
}

func (user *User) Summary() *UserSummary {
	return &UserSummary{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
		Avatar: user.Avatar,
	}
}

type PropertyType string

const (
	Apartment  PropertyType = "apartment"
	House      PropertyType = "house"
	Villa      PropertyType = "villa"
	Plot       PropertyType = "plot"
	Commercial PropertyType = "commercial"
	PG         PropertyType = "pg"
)

type ListingType string

const (
	ForSale ListingType = "sale"
	ForRent ListingType = "rent"
)

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyPending   PropertyStatus = "pending"
	PropertySold      PropertyStatus = "sold"
	PropertyRented    PropertyStatus = "rented"
)

type Location struct {
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
	Locality string `bson:"locality,omitempty" json:"locality,omitempty"`
	City     string `bson:"city" json:"city"`
	State    string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode  string `bson:"pincode,omitempty" json:"pincode,omitempty"`
}

type Property struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	PropertyType  PropertyType       `bson:"propertyType" json:"propertyType"`
	ListingType   ListingType        `bson:"listingType" json:"listingType"`
	Price         float64            `bson:"price" json:"price"`
	Area          float64            `bson:"area" json:"area"`
	Bedrooms      int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms     int                `bson:"bathrooms" json:"bathrooms"`
	Furnishing    string             `bson:"furnishing,omitempty" json:"furnishing,omitempty"`
	Amenities     []string           `bson:"amenities" json:"amenities"`
	Images        []string           `bson:"images" json:"images"`
	Location      Location           `bson:"location" json:"location"`
	Status        PropertyStatus     `bson:"status" json:"status"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	FeaturedUntil *time.Time         `bson:"featuredUntil,omitempty" json:"featuredUntil,omitempty"`
	IsVerified    bool               `bson:"isVerified" json:"isVerified"`
	Views         int64              `bson:"views" json:"views"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	Owner         primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FeaturedAt reports whether the listing carries an unexpired feature at now.
func (p *Property) FeaturedAt(now time.Time) bool {
	return p.IsFeatured && p.FeaturedUntil != nil && p.FeaturedUntil.After(now)
}

func (p *Property) OwnedBy(userID primitive.ObjectID) bool {
	return p.Owner == userID
}

type PropertySummary struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Images   []string           `json:"images"`
	Location Location           `json:"location"`
	Price    float64            `json:"price"`
}

func (p *Property) Summary() *PropertySummary {
	return &PropertySummary{
		ID:       p.ID,
		Title:    p.Title,
		Images:   p.Images,
		Location: p.Location,
		Price:    p.Price,
	}
}

// PropertyView is a listing together with its owner's public details.
type PropertyView struct {
	*Property
	Owner *UserSummary `json:"owner"`
}

const (
	FeaturedListingPrice    = 499
	FeaturedListingCurrency = "INR"
	FeaturedListingDuration = 30 * 24 * time.Hour
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Property      primitive.ObjectID `bson:"property" json:"property"`
	Amount        float64            `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	Purpose       string             `bson:"purpose" json:"purpose"`
	Status        string             `bson:"status" json:"status"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	FeaturedUntil time.Time          `bson:"featuredUntil" json:"featuredUntil"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryResponded InquiryStatus = "responded"
	InquiryClosed    InquiryStatus = "closed"
)

type Inquiry struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Property    primitive.ObjectID `bson:"property" json:"property"`
	Sender      primitive.ObjectID `bson:"sender" json:"sender"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Message     string             `bson:"message" json:"message"`
	Status      InquiryStatus      `bson:"status" json:"status"`
	Response    string             `bson:"response,omitempty" json:"response,omitempty"`
	RespondedAt *time.Time         `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type Review struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Property  primitive.ObjectID `bson:"property" json:"property"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type ReviewView struct {
	*Review
	Author *UserSummary `json:"author"`
}

type NotificationKind string

const (
	NotifyBooking NotificationKind = "booking"
	NotifyInquiry NotificationKind = "inquiry"
	NotifyAlert   NotificationKind = "alert"
	NotifyPayment NotificationKind = "payment"
	NotifyReview  NotificationKind = "review"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Kind      NotificationKind   `bson:"kind" json:"kind"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Page describes one page of a paginated listing query.
type Page struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPage(page, limit int, total int64) Page {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Page{Page: page, Limit: limit, Total: total, Pages: pages}
}
