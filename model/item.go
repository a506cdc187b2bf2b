package model

type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// ItemShort is the view embedded in booking and request payloads.
type ItemShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

func (i *Item) Short() ItemShort {
	return ItemShort{ID: i.ID, Name: i.Name, Description: i.Description, Available: i.Available}
}

// ItemView is the full item payload. Bookings, LastBooking and NextBooking
// are populated only when the viewer owns the item.
type ItemView struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Available   bool           `json:"available"`
	Owner       UserShort      `json:"owner"`
	RequestID   *int64         `json:"request_id,omitempty"`
	Comments    []CommentView  `json:"comments"`
	Bookings    []BookingShort `json:"bookings,omitempty"`
	LastBooking *BookingShort  `json:"last_booking,omitempty"`
	NextBooking *BookingShort  `json:"next_booking,omitempty"`
}
