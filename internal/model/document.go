package model

import (
	"encoding/json"
	"time"
)

// ConfigCollection holds the program configuration documents.
const ConfigCollection = "dcda_config"

// Document ids inside ConfigCollection. Offerings use term.Term.DocumentID.
const (
	DocCourses      = "courses"
	DocRequirements = "requirements"
	DocActiveTerm   = "active_term"
)

// Document is a JSON document in the key-value document store.
type Document struct {
	Collection string          `json:"collection"`
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ActiveTerm is the body of the active_term document.
type ActiveTerm struct {
	TermID string `json:"term_id"`
}
