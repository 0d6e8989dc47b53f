// Package render turns engine state into terminal text. Bot replies are
// markdown and go through glamour, which only ever emits terminal text.
// User text is printed as typed.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/themisai/themis/internal/client/chat"
	"github.com/themisai/themis/internal/client/models"
)

var (
	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	botLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	attachmentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	currentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

type Renderer struct {
	md *glamour.TermRenderer
}

// New builds a renderer wrapping at width columns. Plain output uses the
// colourless glamour style, for pipes and tests.
func New(width int, plain bool) (*Renderer, error) {
	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("init markdown renderer: %w", err)
	}
	return &Renderer{md: md}, nil
}

// Markdown renders text, returning it unchanged if rendering fails.
func (r *Renderer) Markdown(text string) string {
	if r == nil || r.md == nil {
		return text
	}
	out, err := r.md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func (r *Renderer) Message(m chat.Message) string {
	var b strings.Builder
	if m.Role == chat.RoleUser {
		b.WriteString(userLabelStyle.Render("Anda"))
		b.WriteString("\n")
		b.WriteString(m.Text)
	} else {
		b.WriteString(botLabelStyle.Render("ThemisAI"))
		b.WriteString("\n")
		b.WriteString(r.Markdown(m.Text))
	}
	for _, a := range m.Attachments {
		b.WriteString("\n")
		b.WriteString(attachmentStyle.Render("  [lampiran] " + attachmentLabel(a.Name, a.Size)))
	}
	return b.String()
}

func (r *Renderer) Transcript(msgs []chat.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, r.Message(m))
	}
	return strings.Join(parts, "\n\n")
}

// Sessions lists sessions numbered from 1, marking the current one.
func Sessions(sessions []models.Session, currentID string) string {
	if len(sessions) == 0 {
		return MutedStyle.Render("(tidak ada percakapan)")
	}
	var b strings.Builder
	for i, s := range sessions {
		line := fmt.Sprintf("  %2d. %s", i+1, s.DisplayTitle())
		if s.ID == currentID {
			line = currentStyle.Render(fmt.Sprintf("* %2d. %s", i+1, s.DisplayTitle()))
		}
		b.WriteString(line)
		if i < len(sessions)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func PendingFiles(files []chat.PendingFile) string {
	if len(files) == 0 {
		return MutedStyle.Render("(tidak ada lampiran)")
	}
	var b strings.Builder
	for i, f := range files {
		fmt.Fprintf(&b, "%2d. %s", i+1, attachmentLabel(f.Name, f.Size))
		if i < len(files)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func attachmentLabel(name string, size int64) string {
	if size <= 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, FormatSize(size))
}

// FormatSize prints n bytes as B, KB or MB with one decimal above bytes.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
