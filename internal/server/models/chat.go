package models

import "time"

type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionArchived SessionStatus = "archived"
	SessionClosed   SessionStatus = "closed"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionActive, SessionArchived, SessionClosed:
		return true
	}
	return false
}

type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleBot, RoleSystem:
		return true
	}
	return false
}

// Session is a chat thread owned by one person.
type Session struct {
	ID        string        `json:"id"`
	PersonID  string        `json:"person_id"`
	Title     *string       `json:"title"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Message is one turn of a session. Attachments are loaded with their
// documents when messages are listed.
type Message struct {
	ID               string       `json:"id"`
	SessionID        string       `json:"session_id"`
	Role             Role         `json:"role"`
	Content          string       `json:"content"`
	SentAt           time.Time    `json:"sent_at"`
	ReasoningContext *string      `json:"reasoning_context"`
	LatencyMS        *int         `json:"latency_ms"`
	Attachments      []Attachment `json:"attachments"`
}

// Attachment links a message to an uploaded document. A document is
// attached to a given message at most once.
type Attachment struct {
	ID         string    `json:"id"`
	MessageID  string    `json:"message_id"`
	DocumentID string    `json:"document_id"`
	Caption    *string   `json:"caption"`
	CreatedAt  time.Time `json:"created_at"`
	Document   *Document `json:"document"`
}
