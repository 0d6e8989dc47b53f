package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themisai/themis/internal/client/chat"
	"github.com/themisai/themis/internal/client/models"
)

func newPlain(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(80, true)
	require.NoError(t, err)
	return r
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 / 2, "2.5 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in))
	}
}

func TestMarkdown_KeepsText(t *testing.T) {
	r := newPlain(t)

	out := r.Markdown("Pasal 362 KUHP\n\ntentang pencurian")
	assert.Contains(t, out, "Pasal 362 KUHP")
	assert.Contains(t, out, "tentang pencurian")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestMarkdown_NilRendererReturnsInput(t *testing.T) {
	var r *Renderer
	assert.Equal(t, "**x**", r.Markdown("**x**"))
}

func TestMessage_UserTextVerbatim(t *testing.T) {
	r := newPlain(t)

	out := r.Message(chat.Message{
		Role:        chat.RoleUser,
		Text:        "apa itu **pasal**?",
		Attachments: []chat.AttachmentMeta{{Name: "a.pdf", Size: 2048}, {Name: "Dokumen"}},
	})
	assert.Contains(t, out, "apa itu **pasal**?")
	assert.Contains(t, out, "a.pdf (2.0 KB)")
	assert.Contains(t, out, "Dokumen")
	assert.NotContains(t, out, "Dokumen (")
}

func TestMessage_BotIsRendered(t *testing.T) {
	r := newPlain(t)

	out := r.Message(chat.Message{Role: chat.RoleBot, Text: "# Jawaban\n\n- satu\n- dua"})
	assert.Contains(t, out, "ThemisAI")
	assert.Contains(t, out, "Jawaban")
	assert.Contains(t, out, "satu")
}

func TestSessions_MarksCurrent(t *testing.T) {
	a, b := "Pidana", "Perdata"
	out := Sessions([]models.Session{{ID: "1", Title: &a}, {ID: "2", Title: &b}, {ID: "3"}}, "2")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "   1. Pidana")
	assert.Contains(t, lines[1], "*  2. Perdata")
	assert.Contains(t, lines[2], "3. Untitled")
}

func TestPendingFiles(t *testing.T) {
	assert.Contains(t, PendingFiles(nil), "tidak ada")
	out := PendingFiles([]chat.PendingFile{{Name: "a.txt", Size: 10}})
	assert.Contains(t, out, " 1. a.txt (10 B)")
}
