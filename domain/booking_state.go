package domain

import (
	"fmt"

	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

// State is the effective workflow state of a booking. Confirmed carries the
// buyer acknowledgement so the state space is closed over the four variants.
type State interface {
	Status() BookingStatus
	isState()
}

type Pending struct{}

type Confirmed struct {
	BuyerAcked bool
}

type Completed struct{}

type Cancelled struct{}

func (Pending) Status() BookingStatus   { return BookingPending }
func (Confirmed) Status() BookingStatus { return BookingConfirmed }
func (Completed) Status() BookingStatus { return BookingCompleted }
func (Cancelled) Status() BookingStatus { return BookingCancelled }

func (Pending) isState()   {}
func (Confirmed) isState() {}
func (Completed) isState() {}
func (Cancelled) isState() {}

type Action string

const (
	ConfirmSeller Action = "confirm_seller"
	ConfirmBuyer  Action = "confirm_buyer"
	Cancel        Action = "cancel"
	Complete      Action = "complete"
)

type Actor string

const (
	ActorNone   Actor = ""
	ActorBuyer  Actor = "buyer"
	ActorSeller Actor = "seller"
)

// StateOf derives the workflow state from the persisted document.
func StateOf(b *Booking) (State, error) {
	switch b.Status {
	case BookingPending:
		return Pending{}, nil
	case BookingConfirmed:
		return Confirmed{BuyerAcked: b.BuyerConfirmedAt != nil}, nil
	case BookingCompleted:
		return Completed{}, nil
	case BookingCancelled:
		return Cancelled{}, nil
	default:
		return nil, errors.Internal(fmt.Errorf("booking %s has unknown status %q", b.ID.Hex(), b.Status))
	}
}

// Transition is the only place booking states change. Party checks run
// before state checks, so a stranger always gets Forbidden. A returned state
// equal to the input is a no-op.
func Transition(state State, action Action, actor Actor) (State, error) {
	switch action {
	case ConfirmSeller:
		if actor != ActorSeller {
			return nil, errors.Forbidden()
		}
		if _, ok := state.(Pending); !ok {
			return nil, errors.Validation(errors.BookingNotPending)
		}
		return Confirmed{BuyerAcked: false}, nil

	case ConfirmBuyer:
		if actor != ActorBuyer {
			return nil, errors.Forbidden()
		}
		if _, ok := state.(Confirmed); !ok {
			return nil, errors.Validation(errors.SellerMustConfirmFirst)
		}
		// A repeat acknowledgement leaves the state as it is.
		return Confirmed{BuyerAcked: true}, nil

	case Cancel:
		if actor != ActorBuyer && actor != ActorSeller {
			return nil, errors.Forbidden()
		}
		if _, ok := state.(Completed); ok {
			return nil, errors.Validation(errors.BookingAlreadyCompleted)
		}
		return Cancelled{}, nil

	case Complete:
		if actor != ActorSeller {
			return nil, errors.Forbidden()
		}
		if _, ok := state.(Confirmed); !ok {
			return nil, errors.Validation(errors.BookingNotConfirmed)
		}
		return Completed{}, nil
	}
	return nil, errors.Validationf("unknown booking action %q", action)
}
