package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/services"
)

const (
	defaultSessionLimit = 50
	maxSessionLimit     = 200
	defaultMessageLimit = 100
	maxMessageLimit     = 500
)

type sessionRequest struct {
	Title *string `json:"title"`
}

// createMessageRequest is the body of POST /chat/messages. Role is accepted
// for compatibility; the stored turn is always a user turn.
type createMessageRequest struct {
	SessionID   string      `json:"session_id" binding:"required"`
	Content     string      `json:"content"`
	Role        models.Role `json:"role"`
	DocumentIDs []string    `json:"document_ids"`
	Captions    []*string   `json:"captions"`
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		unprocessable(c, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) createSession(c *gin.Context) {
	var req sessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	sess, err := h.chat.CreateSession(c.Request.Context(), personFromContext(c).ID, req.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) listSessions(c *gin.Context) {
	limit, offset, ok := pageParams(c, defaultSessionLimit, maxSessionLimit)
	if !ok {
		return
	}

	status := models.SessionStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		unprocessable(c, "status must be one of active, archived, closed")
		return
	}

	list, err := h.chat.ListSessions(c.Request.Context(), personFromContext(c).ID, status, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []models.Session{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) getSession(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	sess, err := h.chat.GetSession(c.Request.Context(), personFromContext(c).ID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) renameSession(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req sessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	sess, err := h.chat.RenameSession(c.Request.Context(), personFromContext(c).ID, id, req.Title)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *Handler) deleteSession(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.chat.DeleteSession(c.Request.Context(), personFromContext(c).ID, id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listMessages(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	limit, offset, ok := pageParams(c, defaultMessageLimit, maxMessageLimit)
	if !ok {
		return
	}

	list, err := h.chat.ListMessages(c.Request.Context(), personFromContext(c).ID, id, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if list == nil {
		list = []models.Message{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) createMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, "session_id and content are required")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		unprocessable(c, "invalid session_id")
		return
	}
	if req.Role != "" && !req.Role.Valid() {
		unprocessable(c, "role must be one of user, bot, system")
		return
	}
	docIDs := make([]string, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			unprocessable(c, "invalid document id")
			return
		}
		docIDs = append(docIDs, id.String())
	}

	msg, err := h.chat.CreateMessage(c.Request.Context(), personFromContext(c), services.CreateMessageInput{
		SessionID:   sessionID.String(),
		Content:     req.Content,
		DocumentIDs: docIDs,
		Captions:    req.Captions,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	if msg.Attachments == nil {
		msg.Attachments = []models.Attachment{}
	}
	c.JSON(http.StatusCreated, msg)
}
