package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

const (
	InvalidTokenError         = "Token is invalid"
	ExpiredTokenError         = "Token has expired"
	RevokedTokenError         = "Token has been revoked"
	MissingTokenError         = "Authentication required"
	InvalidCredentials        = "Invalid email or password"
	EmailAlreadyExist         = "Email already exists"
	InvalidRequestFormatError = "Invalid request format"
	ForbiddenError            = "You are not allowed to perform this action"
	UserNotFound              = "User not found"
	PropertyNotFound          = "Property not found"
	BookingNotFound           = "Booking not found"
	InquiryNotFound           = "Inquiry not found"
	ReviewNotFound            = "Review not found"
	AlertNotFound             = "Alert not found"
	NotificationNotFound      = "Notification not found"
	SelfBookingError          = "You cannot book your own property"
	DuplicatePendingBooking   = "You already have a pending booking for this property"
	SellerMustConfirmFirst    = "Seller must confirm the booking first"
	BookingAlreadyCompleted   = "Booking is already completed"
	BookingNotPending         = "Only pending bookings can be confirmed by the seller"
	BookingNotConfirmed       = "Only confirmed bookings can be completed"
	BookingConcurrentUpdate   = "Booking was modified concurrently, please retry"
	AlreadyFeatured           = "Property is already featured"
	SelfInquiryError          = "You cannot send an inquiry about your own property"
	SelfReviewError           = "You cannot review your own property"
	DuplicateReview           = "You have already reviewed this property"
	AlertLimitReached         = "Alert limit reached"
	WrongPassword             = "Current password is incorrect"
	InquiryClosed             = "Inquiry is closed"
	OwnRoleChange             = "You cannot change your own role"
	InvalidPriceRange         = "minPrice cannot exceed maxPrice"
	InternalError             = "internal server error"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
)

// Error is the error type returned by services. Handlers translate the kind
// into an HTTP status and expose only Message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(message string) error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func Forbidden() error {
	return &Error{Kind: KindAuthorization, Message: ForbiddenError}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Internal(cause error) error {
	return &Error{Kind: KindInternal, Message: InternalError, Cause: cause}
}

// KindOf reports the kind of err. Errors that were not produced by this
// package are internal.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to put in a response body.
func PublicMessage(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return InternalError
}

// WriteHTTP renders err as a {"message": ...} body with the matching status.
func WriteHTTP(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusCode(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"message": PublicMessage(err)})
}
