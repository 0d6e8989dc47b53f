package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/logging"
	"github.com/themisai/themis/internal/server/config"
	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/repositories/repomanager"
	"github.com/themisai/themis/internal/server/resettokens"
	"github.com/themisai/themis/internal/server/responder"
)

// --- helpers ---

type capturingMailer struct {
	email, token string
	calls        int
}

func (m *capturingMailer) SendReset(ctx context.Context, email, token string) error {
	m.email, m.token = email, token
	m.calls++
	return nil
}

func newUserService(t *testing.T) (*UserService, *repomanager.MemoryRepositoryManager, *capturingMailer) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	mail := &capturingMailer{}
	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	return NewUserService(rm, resettokens.NewMemoryStore(), mail, logging.Discard(), cfg), rm, mail
}

func signUp(t *testing.T, s *UserService, email string) *SignUpResult {
	t.Helper()
	res, err := s.SignUp(context.Background(), SignUpInput{FullName: "Siti", Email: email, Password: "rahasia"})
	require.NoError(t, err)
	return res
}

func strp(s string) *string { return &s }

type stubFile struct {
	name string
	data string
}

func files(in ...stubFile) []UploadFile {
	out := make([]UploadFile, 0, len(in))
	for _, f := range in {
		data := f.data
		out = append(out, UploadFile{
			Name: f.name,
			Size: int64(len(data)),
			Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(data)), nil },
		})
	}
	return out
}

// --- users ---

func TestSignUp_NormalizesAndIssuesToken(t *testing.T) {
	s, _, _ := newUserService(t)

	res, err := s.SignUp(context.Background(), SignUpInput{
		FullName: "  Siti Aminah ",
		Email:    " Siti@Example.COM ",
		Password: "rahasia",
		Address:  models.Address{City: strp("Bandung")},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "siti@example.com", res.Person.Email)
	assert.Equal(t, "Siti Aminah", res.Person.FullName)
	assert.Equal(t, models.GenderUnknown, res.Person.Gender)
	require.NotNil(t, res.Person.Address)
	assert.Equal(t, "Bandung", *res.Person.Address.City)

	p, err := s.Authenticate(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.Person.ID, p.ID)
}

func TestSignUp_Errors(t *testing.T) {
	s, _, _ := newUserService(t)
	signUp(t, s, "taken@example.com")

	tests := []struct {
		name   string
		in     SignUpInput
		detail string
	}{
		{"duplicate email", SignUpInput{FullName: "X", Email: "TAKEN@example.com", Password: "p"}, "Email already registered"},
		{"missing name", SignUpInput{Email: "a@example.com", Password: "p"}, "full_name is required"},
		{"missing email", SignUpInput{FullName: "X", Password: "p"}, "email is required"},
		{"missing password", SignUpInput{FullName: "X", Email: "a@example.com"}, "password is required"},
		{"bad gender", SignUpInput{FullName: "X", Email: "a@example.com", Password: "p", Gender: "other"}, "gender must be one of male, female, unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SignUp(context.Background(), tt.in)
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.detail, se.Detail)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestSignIn(t *testing.T) {
	s, _, _ := newUserService(t)
	signUp(t, s, "siti@example.com")

	tok, err := s.SignIn(context.Background(), "  SITI@example.com", "rahasia")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	_, err = s.SignIn(context.Background(), "siti@example.com", "salah")
	assert.ErrorIs(t, err, ErrBadCredentials)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.SignIn(context.Background(), "nobody@example.com", "rahasia")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticate_Rejects(t *testing.T) {
	s, _, _ := newUserService(t)

	_, err := s.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// valid signature, unknown subject
	other := &UserService{jwtSecret: []byte("k"), accessTokenValidityDuration: time.Hour}
	tok, err := other.generateAccessToken("ghost@example.com")
	require.NoError(t, err)
	_, err = s.Authenticate(context.Background(), tok)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestPasswordReset_Flow(t *testing.T) {
	ctx := context.Background()
	s, _, mail := newUserService(t)
	signUp(t, s, "siti@example.com")

	s.ForgotPassword(ctx, "Siti@Example.com")
	require.Equal(t, 1, mail.calls)
	assert.Equal(t, "siti@example.com", mail.email)
	require.NotEmpty(t, mail.token)

	require.NoError(t, s.ResetPassword(ctx, mail.token, "baru123"))

	_, err := s.SignIn(ctx, "siti@example.com", "rahasia")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = s.SignIn(ctx, "siti@example.com", "baru123")
	require.NoError(t, err)

	// single use
	assert.ErrorIs(t, s.ResetPassword(ctx, mail.token, "lagi"), ErrInvalidResetToken)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	s, _, mail := newUserService(t)

	s.ForgotPassword(context.Background(), "nobody@example.com")
	s.ForgotPassword(context.Background(), "  ")
	assert.Zero(t, mail.calls)
}

func TestResetPassword_Validation(t *testing.T) {
	s, _, _ := newUserService(t)

	assert.ErrorIs(t, s.ResetPassword(context.Background(), "", "x"), ErrInvalidResetToken)
	assert.ErrorIs(t, s.ResetPassword(context.Background(), "unknown", "x"), ErrInvalidResetToken)

	err := s.ResetPassword(context.Background(), "tok", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestResetPassword_RejectedPasswordKeepsToken(t *testing.T) {
	ctx := context.Background()
	s, _, mail := newUserService(t)
	signUp(t, s, "siti@example.com")

	s.ForgotPassword(ctx, "siti@example.com")
	require.NotEmpty(t, mail.token)

	err := s.ResetPassword(ctx, mail.token, strings.Repeat("x", 73))
	assert.ErrorIs(t, err, common.ErrorValidation)

	require.NoError(t, s.ResetPassword(ctx, mail.token, "baru123"))
	_, err = s.SignIn(ctx, "siti@example.com", "baru123")
	require.NoError(t, err)
}

// --- chat ---

type failingResponder struct{}

func (failingResponder) Respond(context.Context, responder.Prompt) (responder.Answer, error) {
	return responder.Answer{}, errors.New("model offline")
}

func newChat(t *testing.T) (*ChatService, *DocumentService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	chat := NewChatService(rm, responder.Canned{}, logging.Discard())
	docs := NewDocumentService(rm, &memBlobs{}, logging.Discard())
	return chat, docs, rm
}

type memBlobs struct {
	keys []string
}

func (m *memBlobs) Put(ctx context.Context, key string, r io.Reader, size int64) (string, error) {
	m.keys = append(m.keys, key)
	_, err := io.Copy(io.Discard, r)
	return "mem://" + key, err
}

func TestSessions_CRUDAndOwnership(t *testing.T) {
	ctx := context.Background()
	chat, _, _ := newChat(t)

	s1, err := chat.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Nil(t, s1.Title)
	assert.Equal(t, models.SessionActive, s1.Status)

	s2, err := chat.CreateSession(ctx, "alice", strp("Warisan"))
	require.NoError(t, err)

	list, err := chat.ListSessions(ctx, "alice", "", 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, s2.ID, list[0].ID, "newest first")

	renamed, err := chat.RenameSession(ctx, "alice", s1.ID, strp("   "))
	require.NoError(t, err)
	assert.Equal(t, UntitledTitle, *renamed.Title)

	renamed, err = chat.RenameSession(ctx, "alice", s1.ID, strp("  Cerai  "))
	require.NoError(t, err)
	assert.Equal(t, "Cerai", *renamed.Title)

	unchanged, err := chat.RenameSession(ctx, "alice", s1.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Cerai", *unchanged.Title)

	_, err = chat.RenameSession(ctx, "bob", s1.ID, strp("x"))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, chat.DeleteSession(ctx, "bob", s1.ID), ErrSessionNotFound)
	_, err = chat.ListMessages(ctx, "bob", s1.ID, 200, 0)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, chat.DeleteSession(ctx, "alice", s1.ID))
	assert.ErrorIs(t, chat.DeleteSession(ctx, "alice", s1.ID), ErrSessionNotFound)
}

func TestListSessions_StatusFilter(t *testing.T) {
	ctx := context.Background()
	chat, _, rm := newChat(t)

	active, err := chat.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)
	archived, err := rm.Repositories().Sessions.Create(ctx, &models.Session{PersonID: "alice", Status: models.SessionArchived})
	require.NoError(t, err)

	list, err := chat.ListSessions(ctx, "alice", models.SessionArchived, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, archived.ID, list[0].ID)

	list, err = chat.ListSessions(ctx, "alice", models.SessionActive, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)

	list, err = chat.ListSessions(ctx, "alice", "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = chat.ListSessions(ctx, "alice", "deleted", 50, 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestCreateMessage_StoresBothTurns(t *testing.T) {
	ctx := context.Background()
	chat, docs, _ := newChat(t)
	alice := &models.Person{ID: "alice", FullName: "Alice"}

	saved, err := docs.Upload(ctx, "alice", files(stubFile{"catatan.txt", "Pasal 1365 KUHPerdata"}))
	require.NoError(t, err)
	foreign, err := docs.Upload(ctx, "bob", files(stubFile{"rahasia.txt", "milik bob"}))
	require.NoError(t, err)

	sess, err := chat.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	bot, err := chat.CreateMessage(ctx, alice, CreateMessageInput{
		SessionID:   sess.ID,
		Content:     "Apa dasar hukumnya?",
		DocumentIDs: []string{saved[0].ID, saved[0].ID, foreign[0].ID, "missing"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBot, bot.Role)
	assert.Contains(t, bot.Content, "catatan.txt")
	assert.Contains(t, bot.Content, "Pasal 1365")
	assert.NotContains(t, bot.Content, "rahasia.txt")
	require.NotNil(t, bot.LatencyMS)

	msgs, err := chat.ListMessages(ctx, "alice", sess.ID, 200, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "Apa dasar hukumnya?", msgs[0].Content)
	require.Len(t, msgs[0].Attachments, 1, "duplicates, foreign and unknown ids are skipped")
	assert.Equal(t, saved[0].ID, msgs[0].Attachments[0].DocumentID)
	assert.Equal(t, bot.ID, msgs[1].ID)
}

func TestCreateMessage_Errors(t *testing.T) {
	ctx := context.Background()
	chat, _, rm := newChat(t)
	alice := &models.Person{ID: "alice"}

	_, err := chat.CreateMessage(ctx, alice, CreateMessageInput{SessionID: "nope", Content: "x"})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sess, err := chat.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	_, err = chat.CreateMessage(ctx, alice, CreateMessageInput{SessionID: sess.ID, Content: "  "})
	assert.ErrorIs(t, err, common.ErrorValidation)

	broken := NewChatService(rm, failingResponder{}, logging.Discard())
	_, err = broken.CreateMessage(ctx, alice, CreateMessageInput{SessionID: sess.ID, Content: "halo"})
	assert.ErrorIs(t, err, ErrResponderFailed)

	msgs, err := chat.ListMessages(ctx, "alice", sess.ID, 200, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1, "the user turn is kept when answering fails")
}

func TestCreateMessage_DocumentsOnly(t *testing.T) {
	ctx := context.Background()
	chat, docs, _ := newChat(t)
	alice := &models.Person{ID: "alice"}

	saved, err := docs.Upload(ctx, "alice", files(stubFile{"bukti.txt", "kwitansi"}))
	require.NoError(t, err)
	sess, err := chat.CreateSession(ctx, "alice", nil)
	require.NoError(t, err)

	bot, err := chat.CreateMessage(ctx, alice, CreateMessageInput{SessionID: sess.ID, DocumentIDs: []string{saved[0].ID}})
	require.NoError(t, err)
	assert.Contains(t, bot.Content, "bukti.txt")
}

// --- documents ---

func TestUpload(t *testing.T) {
	ctx := context.Background()
	rm := repomanager.NewMemoryRepositoryManager()
	blobs := &memBlobs{}
	docs := NewDocumentService(rm, blobs, logging.Discard())

	saved, err := docs.Upload(ctx, "alice", files(
		stubFile{`C:\Users\alice\kontrak.pdf`, "%PDF-1.4"},
		stubFile{"kosong.txt", ""},
		stubFile{"../../catatan.md", "# Judul"},
	))
	require.NoError(t, err)
	require.Len(t, saved, 2, "empty parts are skipped")

	assert.Equal(t, "kontrak.pdf", saved[0].Title)
	assert.Equal(t, models.DocOther, saved[0].DocType)
	assert.Zero(t, saved[0].ExtractedTextLen)
	assert.True(t, strings.HasPrefix(saved[0].Path, "mem://documents/"))

	assert.Equal(t, "catatan.md", saved[1].Title)
	assert.Equal(t, len("# Judul"), saved[1].ExtractedTextLen)
	assert.Len(t, blobs.keys, 2)

	d, err := rm.Repositories().Documents.Get(ctx, saved[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", d.OwnerID)
}

func TestUpload_NothingSaved(t *testing.T) {
	docs := NewDocumentService(repomanager.NewMemoryRepositoryManager(), &memBlobs{}, logging.Discard())

	_, err := docs.Upload(context.Background(), "alice", files(stubFile{"a.txt", ""}))
	assert.ErrorIs(t, err, ErrNoFiles)

	_, err = docs.Upload(context.Background(), "alice", nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestSafeFilename(t *testing.T) {
	tests := map[string]string{
		"a.pdf":          "a.pdf",
		"dir/sub/b.txt":  "b.txt",
		`C:\x\c.docx`:    "c.docx",
		"   ":            "document",
		"dir/":           "document",
		"..":             "document",
		"  spaced.txt  ": "spaced.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeFilename(in), in)
	}
}
