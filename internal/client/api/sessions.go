package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/themisai/themis/internal/client/models"
)

const (
	SessionPageSize = 50
	MessagePageSize = 200
)

func page(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

func sessionPath(id string) string {
	return "/chat/sessions/" + url.PathEscape(id)
}

// ListSessions returns up to SessionPageSize sessions, most recent first.
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var out []models.Session
	if err := c.do(ctx, http.MethodGet, "/chat/sessions", page(SessionPageSize, 0), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSession creates a session. A nil title is sent as JSON null.
func (c *Client) CreateSession(ctx context.Context, title *string) (models.Session, error) {
	var out models.Session
	b, err := jsonBody(struct {
		Title *string `json:"title"`
	}{title})
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/chat/sessions", nil, b, &out)
	return out, err
}

func (c *Client) RenameSession(ctx context.Context, id, title string) (models.Session, error) {
	var out models.Session
	b, err := jsonBody(map[string]string{"title": title})
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPut, sessionPath(id), nil, b, &out)
	return out, err
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, sessionPath(id), nil, nil, nil)
}

// ListMessages returns up to MessagePageSize messages of a session in server
// order.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]models.Message, error) {
	var out []models.Message
	if err := c.do(ctx, http.MethodGet, sessionPath(sessionID)+"/messages", page(MessagePageSize, 0), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type sendMessageRequest struct {
	SessionID   string      `json:"session_id"`
	Content     string      `json:"content"`
	Role        models.Role `json:"role"`
	DocumentIDs []string    `json:"document_ids"`
}

// SendMessage posts a user message and returns the message the server
// created in reply.
func (c *Client) SendMessage(ctx context.Context, sessionID, content string, documentIDs []string) (models.Message, error) {
	var out models.Message
	req := sendMessageRequest{SessionID: sessionID, Content: content, Role: models.RoleUser}
	if len(documentIDs) > 0 {
		req.DocumentIDs = documentIDs
	}
	b, err := jsonBody(req)
	if err != nil {
		return out, err
	}
	err = c.do(ctx, http.MethodPost, "/chat/messages", nil, b, &out)
	return out, err
}
