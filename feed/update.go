package feed

import "time"

// Direction marks whether a message left or entered the account.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// Message is an enriched message ready for display: the raw protocol event
// reduced to a human-readable label, text, timestamp, and direction. It is
// published to subscribers and not retained.
type Message struct {
	Label     string    `json:"from"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// Kind identifies what an Update carries.
type Kind string

const (
	KindStatus  Kind = "status"
	KindPairing Kind = "qr"
	KindMessage Kind = "message"
)

// Update is one item on the subscription stream: a status text, a pairing
// token (nil token means the pairing challenge was cleared), or an enriched
// message.
type Update struct {
	Kind    Kind     `json:"kind"`
	Status  string   `json:"status,omitempty"`
	Pairing []byte   `json:"qr,omitempty"`
	Message *Message `json:"message,omitempty"`
}
