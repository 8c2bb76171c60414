package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError               Event = "error"
	EventPong                Event = "pong"
	EventHello               Event = "hello"
	EventOfferingsUpdated    Event = "offerings_updated"
	EventCatalogUpdated      Event = "catalog_updated"
	EventRequirementsUpdated Event = "requirements_updated"
)

// ChangeEvent announces a write to a catalog document. It travels over the
// Redis channel between instances and is forwarded unchanged to clients.
type ChangeEvent struct {
	Event  Event     `json:"event"`
	TermID string    `json:"term_id,omitempty"`
	Term   string    `json:"term,omitempty"`
	At     time.Time `json:"at"`
}

// HelloResponse greets a new stream client with the live snapshot's term.
type HelloResponse struct {
	Event        Event  `json:"event"`
	CurrentTerm  string `json:"current_term"`
	OfferedCount int    `json:"offered_count"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
