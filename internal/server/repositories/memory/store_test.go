package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/server/models"
)

func TestPersons(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Persons()

	p, err := r.Create(ctx, &models.Person{FullName: "Alice", Email: "alice@example.com", Address: &models.Address{}})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Nil(t, p.Address, "empty address is not stored")

	_, err = r.Create(ctx, &models.Person{FullName: "Other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	require.NoError(t, r.UpdatePasswordHash(ctx, p.ID, "h2"))
	got, err := r.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)

	_, err = r.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.UpdatePasswordHash(ctx, "nope", "h"), common.ErrorNotFound)
}

func TestSessions_NewestFirstAndPaging(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Sessions()

	var ids []string
	for i := 0; i < 3; i++ {
		s, err := r.Create(ctx, &models.Session{PersonID: "p-1"})
		require.NoError(t, err)
		ids = append(ids, s.ID)
	}
	_, err := r.Create(ctx, &models.Session{PersonID: "p-2"})
	require.NoError(t, err)

	all, err := r.ListByPerson(ctx, "p-1", "", 50, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{all[0].ID, all[1].ID, all[2].ID})

	pg, err := r.ListByPerson(ctx, "p-1", "", 1, 1)
	require.NoError(t, err)
	require.Len(t, pg, 1)
	assert.Equal(t, ids[1], pg[0].ID)

	none, err := r.ListByPerson(ctx, "p-1", "", 50, 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSessions_FilterByStatus(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Sessions()

	a, err := r.Create(ctx, &models.Session{PersonID: "p-1"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.Session{PersonID: "p-1", Status: models.SessionClosed})
	require.NoError(t, err)

	got, err := r.ListByPerson(ctx, "p-1", models.SessionActive, 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	got, err = r.ListByPerson(ctx, "p-1", models.SessionArchived, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessions_UpdateAndDeleteCascade(t *testing.T) {
	ctx := context.Background()
	st := NewStore()

	s, err := st.Sessions().Create(ctx, &models.Session{PersonID: "p-1"})
	require.NoError(t, err)
	before := s.UpdatedAt

	upd, err := st.Sessions().UpdateTitle(ctx, s.ID, "Sengketa tanah")
	require.NoError(t, err)
	assert.Equal(t, "Sengketa tanah", *upd.Title)
	assert.False(t, upd.UpdatedAt.Before(before))

	_, err = st.Messages().Create(ctx, &models.Message{SessionID: s.ID, Role: models.RoleUser, Content: "x"})
	require.NoError(t, err)

	require.NoError(t, st.Sessions().Delete(ctx, s.ID))
	assert.ErrorIs(t, st.Sessions().Delete(ctx, s.ID), common.ErrorNotFound)

	msgs, err := st.Messages().ListBySession(ctx, s.ID, 200, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	_, err = st.Sessions().UpdateTitle(ctx, s.ID, "x")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMessages_OrderAndAttachments(t *testing.T) {
	ctx := context.Background()
	st := NewStore()
	title := "kontrak.pdf"

	doc, err := st.Documents().Create(ctx, &models.Document{Path: "uploads/kontrak.pdf", Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.DocOther, doc.DocType)

	m1, err := st.Messages().Create(ctx, &models.Message{SessionID: "s-1", Role: models.RoleUser, Content: "q"})
	require.NoError(t, err)
	m2, err := st.Messages().Create(ctx, &models.Message{SessionID: "s-1", Role: models.RoleBot, Content: "a"})
	require.NoError(t, err)

	_, err = st.Messages().AddAttachment(ctx, &models.Attachment{MessageID: m1.ID, DocumentID: doc.ID})
	require.NoError(t, err)
	_, err = st.Messages().AddAttachment(ctx, &models.Attachment{MessageID: m1.ID, DocumentID: doc.ID})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	_, err = st.Messages().AddAttachment(ctx, &models.Attachment{MessageID: m1.ID, DocumentID: "missing"})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	msgs, err := st.Messages().ListBySession(ctx, "s-1", 200, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, m1.ID, msgs[0].ID)
	assert.Equal(t, m2.ID, msgs[1].ID)
	require.Len(t, msgs[0].Attachments, 1)
	require.NotNil(t, msgs[0].Attachments[0].Document)
	assert.Equal(t, "kontrak.pdf", *msgs[0].Attachments[0].Document.Title)
	assert.NotNil(t, msgs[1].Attachments)
	assert.Empty(t, msgs[1].Attachments)
}

func TestDocuments_Get(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Documents()

	d, err := r.Create(ctx, &models.Document{OwnerID: "p-1", Path: "a.txt"})
	require.NoError(t, err)

	got, err := r.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.OwnerID)

	_, err = r.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
