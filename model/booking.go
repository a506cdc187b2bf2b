package model

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingWaiting  BookingStatus = "WAITING"
	BookingApproved BookingStatus = "APPROVED"
	BookingRejected BookingStatus = "REJECTED"
)

// BookingState filters booking listings. ALL matches everything; CURRENT,
// PAST and FUTURE compare against "now" captured once per call; WAITING and
// REJECTED match on status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a raw state parameter to a BookingState. A blank
// value defaults to ALL; matching ignores case.
func ParseBookingState(s string) (BookingState, error) {
	switch st := BookingState(strings.ToUpper(s)); st {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown booking state %q", s)
}

type Booking struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	ItemID   int64         `json:"item_id"`
	BookerID int64         `json:"booker_id"`
	Status   BookingStatus `json:"status"`
}

type BookingShort struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	BookerID int64         `json:"booker_id"`
	Status   BookingStatus `json:"status"`
}

func (b *Booking) Short() BookingShort {
	return BookingShort{ID: b.ID, Start: b.Start, End: b.End, BookerID: b.BookerID, Status: b.Status}
}

// BookingView is the booking payload with its item and booker resolved.
type BookingView struct {
	ID     int64         `json:"id"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
	Item   ItemShort     `json:"item"`
	Booker UserShort     `json:"booker"`
	Status BookingStatus `json:"status"`
}
