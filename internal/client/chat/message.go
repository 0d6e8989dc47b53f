package chat

import (
	"github.com/themisai/themis/internal/client/models"
)

// Role of a transcript entry as shown to the user.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// AttachmentMeta is what the transcript knows about an attached file.
type AttachmentMeta struct {
	Name string
	Size int64
}

// Message is one transcript entry. Entries are rebuilt from the server after
// every confirmed change; optimistic entries live only until then.
type Message struct {
	Role        Role
	Text        string
	Attachments []AttachmentMeta
}

func welcomeMessage() Message {
	return Message{Role: RoleBot, Text: WelcomeText}
}

func apologyMessage() Message {
	return Message{Role: RoleBot, Text: SendFailedText}
}

// fromAPI maps server messages to transcript entries. Anything not authored
// by the user is shown as the bot.
func fromAPI(msgs []models.Message) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		role := RoleBot
		if m.Role == models.RoleUser {
			role = RoleUser
		}
		var atts []AttachmentMeta
		for _, a := range m.Attachments {
			atts = append(atts, AttachmentMeta{Name: a.Document.DisplayName()})
		}
		out = append(out, Message{Role: role, Text: m.Content, Attachments: atts})
	}
	return out
}

// transcriptFor is the transcript shown for a freshly loaded session.
func transcriptFor(msgs []models.Message) []Message {
	if len(msgs) == 0 {
		return []Message{welcomeMessage()}
	}
	return fromAPI(msgs)
}
