// Package responder produces the bot's reply to a user message. Answer
// generation lives outside this repository; Canned is a stand-in that only
// acknowledges the question and the attached documents.
package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/themisai/themis/internal/server/models"
)

// Prompt is everything a responder may look at.
type Prompt struct {
	Question  string
	Person    *models.Person
	Documents []models.Document
}

type Answer struct {
	Content          string
	ReasoningContext *string
}

type Responder interface {
	Respond(ctx context.Context, p Prompt) (Answer, error)
}

// excerptLen caps how much extracted text is quoted back per document.
const excerptLen = 280

type Canned struct{}

func (Canned) Respond(ctx context.Context, p Prompt) (Answer, error) {
	var b strings.Builder

	b.WriteString("Terima kasih, pertanyaan Anda sudah kami terima")
	if p.Person != nil && p.Person.FullName != "" {
		fmt.Fprintf(&b, ", %s", p.Person.FullName)
	}
	b.WriteString(".\n")

	if q := strings.TrimSpace(p.Question); q != "" {
		fmt.Fprintf(&b, "\n> %s\n", firstLine(q))
	}

	if len(p.Documents) > 0 {
		b.WriteString("\n**Dokumen terlampir:**\n")
		for _, d := range p.Documents {
			fmt.Fprintf(&b, "- %s\n", DocumentLabel(d))
			if d.ExtractedText != nil && *d.ExtractedText != "" {
				fmt.Fprintf(&b, "  > %s\n", excerpt(*d.ExtractedText, excerptLen))
			}
		}
	}

	return Answer{Content: strings.TrimRight(b.String(), "\n")}, nil
}

// DocumentLabel is the document title, falling back to its path.
func DocumentLabel(d models.Document) string {
	if d.Title != nil && *d.Title != "" {
		return *d.Title
	}
	return d.Path
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
