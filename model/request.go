package model

import "time"

// Request is a want-ad for an item that does not exist in the catalog yet.
// Items created in fulfillment of it carry its id in their request_id.
type Request struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestor_id"`
	Created     time.Time `json:"created"`
}

type RequestView struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	RequestorID int64       `json:"requestor_id"`
	Created     time.Time   `json:"created"`
	Items       []ItemShort `json:"items"`
}
