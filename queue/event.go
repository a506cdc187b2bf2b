// Package queue defines payloads published to the message broker.
package queue

// BookingStatusEvent is published when an owner approves or rejects a
// booking. It carries enough for downstream consumers (notifications,
// analytics) to act without querying the store.
type BookingStatusEvent struct {
	BookingID int64  `json:"booking_id"`
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	BookerID  int64  `json:"booker_id"`
	OwnerID   int64  `json:"owner_id"`
	Status    string `json:"status"`
	Start     string `json:"start"`
	End       string `json:"end"`
	DecidedAt string `json:"decided_at"`
}
