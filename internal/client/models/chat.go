// Package models defines the wire types the Themis client exchanges with the
// backend REST API.
package models

import (
	"encoding/json"
	"path"
	"time"
)

// SessionStatus is the server-side lifecycle state of a chat session.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionArchived SessionStatus = "archived"
	SessionClosed   SessionStatus = "closed"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleSystem Role = "system"
)

// DocType classifies an uploaded document.
type DocType string

const (
	DocStatute    DocType = "statute"
	DocCaseLaw    DocType = "case_law"
	DocRegulation DocType = "regulation"
	DocOther      DocType = "other"
)

// Session is a conversation thread owned by the server. Ids are opaque.
type Session struct {
	ID        string        `json:"id"`
	PersonID  string        `json:"person_id,omitempty"`
	Title     *string       `json:"title"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DisplayTitle returns the title, or "Untitled" when the server has none.
func (s Session) DisplayTitle() string {
	if s.Title == nil || *s.Title == "" {
		return "Untitled"
	}
	return *s.Title
}

type Document struct {
	ID         string    `json:"id"`
	Path       string    `json:"path"`
	DocType    DocType   `json:"doc_type"`
	Title      *string   `json:"title"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DisplayName prefers the document title, then the last path segment, then
// the generic label "Dokumen".
func (d *Document) DisplayName() string {
	if d == nil {
		return "Dokumen"
	}
	if d.Title != nil && *d.Title != "" {
		return *d.Title
	}
	if d.Path != "" {
		if base := path.Base(d.Path); base != "." && base != "/" {
			return base
		}
	}
	return "Dokumen"
}

type Attachment struct {
	ID         string    `json:"id"`
	MessageID  string    `json:"message_id"`
	DocumentID string    `json:"document_id"`
	Caption    *string   `json:"caption"`
	CreatedAt  time.Time `json:"created_at"`
	Document   *Document `json:"document"`
}

// Message is one immutable turn of a session.
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

// SavedDocument is one entry of the upload response.
type SavedDocument struct {
	ID      string  `json:"id"`
	Title   string  `json:"title,omitempty"`
	DocType DocType `json:"doc_type,omitempty"`
	Path    string  `json:"path,omitempty"`
}

type UploadResult struct {
	Saved []SavedDocument `json:"saved"`
}

// DocumentIDs lists the ids of the saved documents in upload order.
func (r UploadResult) DocumentIDs() []string {
	ids := make([]string, 0, len(r.Saved))
	for _, s := range r.Saved {
		ids = append(ids, s.ID)
	}
	return ids
}

// TokenResponse is returned by sign-in and sign-up. User is only present on
// sign-up and is kept raw because the client treats the profile as opaque.
type TokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type,omitempty"`
	User        json.RawMessage `json:"user,omitempty"`
}

// Profile is the subset of the current-user payload the client reads for
// display. The full payload is stored verbatim.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// SignUpRequest carries the registration form. Every field is sent as a query
// parameter.
type SignUpRequest struct {
	FullName    string
	Email       string
	Password    string
	Gender      string
	DateOfBirth string
	Line1       string
	City        string
	State       string
	PostalCode  string
	Country     string
}
