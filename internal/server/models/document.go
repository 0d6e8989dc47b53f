package models

import "time"

type DocType string

const (
	DocStatute    DocType = "statute"
	DocCaseLaw    DocType = "case_law"
	DocRegulation DocType = "regulation"
	DocOther      DocType = "other"
)

// Document describes an uploaded file. The bytes live in blob storage under
// Path; ExtractedText holds the plain text pulled out at upload time, if any.
type Document struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"-"`
	Path          string    `json:"path"`
	DocType       DocType   `json:"doc_type"`
	Title         *string   `json:"title"`
	UploadedAt    time.Time `json:"uploaded_at"`
	ExtractedText *string   `json:"-"`
}
