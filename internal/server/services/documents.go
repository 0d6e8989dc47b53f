package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/themisai/themis/internal/logging"
	"github.com/themisai/themis/internal/server/blobstore"
	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/repositories/repomanager"
)

// MaxExtractChars caps the text kept per document.
const MaxExtractChars = 8000

// UploadFile is one part of an upload. Open may be called once.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// SavedDocument is one entry of the upload response.
type SavedDocument struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	DocType          models.DocType `json:"doc_type"`
	Path             string         `json:"path"`
	ExtractedTextLen int            `json:"extracted_text_len"`
}

type DocumentService struct {
	repomanager repomanager.RepositoryManager
	blobs       blobstore.Store
	log         logging.Logger
}

func NewDocumentService(m repomanager.RepositoryManager, blobs blobstore.Store, log logging.Logger) *DocumentService {
	return &DocumentService{repomanager: m, blobs: blobs, log: log}
}

// Upload stores every non-empty file and records it as a document owned by
// ownerID. When nothing was stored the result is ErrNoFiles.
func (s *DocumentService) Upload(ctx context.Context, ownerID string, files []UploadFile) ([]SavedDocument, error) {
	var docs []*models.Document

	for _, f := range files {
		name := SafeFilename(f.Name)

		data, err := readAll(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if len(data) == 0 {
			continue
		}

		path, err := s.blobs.Put(ctx, blobstore.StorageKey(name), bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("store %s: %w", name, err)
		}

		title := name
		doc := &models.Document{
			OwnerID: ownerID,
			Path:    path,
			DocType: models.DocOther,
			Title:   &title,
		}
		if text, ok := ExtractText(name, data, MaxExtractChars); ok {
			doc.ExtractedText = &text
		} else {
			s.log.Debug(ctx, "no text extracted", "file", name)
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, ErrNoFiles
	}

	err := s.repomanager.WithinTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		for _, d := range docs {
			if _, err := r.Documents.Create(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error saving documents: %w", err)
	}

	saved := make([]SavedDocument, 0, len(docs))
	for _, d := range docs {
		n := 0
		if d.ExtractedText != nil {
			n = utf8.RuneCountInString(*d.ExtractedText)
		}
		saved = append(saved, SavedDocument{
			ID:               d.ID,
			Title:            *d.Title,
			DocType:          d.DocType,
			Path:             d.Path,
			ExtractedTextLen: n,
		})
	}
	return saved, nil
}

func readAll(f UploadFile) ([]byte, error) {
	if f.Open == nil {
		return nil, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// SafeFilename keeps the last path segment of a client-supplied name.
func SafeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "document"
	}
	return name
}
