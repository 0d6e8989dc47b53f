// Package httpapi exposes the Themis services over a gin router.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/themisai/themis/internal/common"
	"github.com/themisai/themis/internal/logging"
	"github.com/themisai/themis/internal/server/models"
	"github.com/themisai/themis/internal/server/services"
)

const (
	personContextKey = "themis.person"

	credentialsDetail = "Could not validate credentials"
)

type Handler struct {
	users *services.UserService
	chat  *services.ChatService
	docs  *services.DocumentService
	log   logging.Logger
}

func NewHandler(users *services.UserService, chat *services.ChatService, docs *services.DocumentService, log logging.Logger) *Handler {
	return &Handler{users: users, chat: chat, docs: docs, log: log}
}

// RegisterRoutes wires all endpoints onto router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signUp)
		authGroup.POST("/signin", h.signIn)
		authGroup.POST("/forgot-password", h.forgotPassword)
		authGroup.POST("/reset-password", h.resetPassword)
		authGroup.GET("/me", h.requireAuth(), h.me)
	}

	chatGroup := router.Group("/chat", h.requireAuth())
	{
		chatGroup.POST("/sessions", h.createSession)
		chatGroup.GET("/sessions", h.listSessions)
		chatGroup.GET("/sessions/:id", h.getSession)
		chatGroup.PUT("/sessions/:id", h.renameSession)
		chatGroup.DELETE("/sessions/:id", h.deleteSession)
		chatGroup.GET("/sessions/:id/messages", h.listMessages)
		chatGroup.POST("/messages", h.createMessage)
	}

	docGroup := router.Group("/documents", h.requireAuth())
	{
		docGroup.POST("/upload", h.uploadDocuments)
	}
}

// requireAuth resolves the bearer token to a person and stores it in the
// gin context.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c)
			return
		}
		person, err := h.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(personContextKey, person)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": credentialsDetail})
}

// personFromContext returns the person stored by requireAuth.
func personFromContext(c *gin.Context) *models.Person {
	val, ok := c.Get(personContextKey)
	if !ok {
		return nil
	}
	p, _ := val.(*models.Person)
	return p
}

// writeError maps service errors to status codes. Anything unrecognised is
// logged and reported as a bare 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		c.AbortWithStatusJSON(statusFor(se.Kind), gin.H{"detail": se.Detail})
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error(c.Request.Context(), "request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
		c.AbortWithStatusJSON(status, gin.H{"detail": "Internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": http.StatusText(status)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// unprocessable reports a malformed request the way the reference backend
// does for schema failures.
func unprocessable(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}

// pathUUID reads a uuid path parameter, answering 422 when it is malformed.
func pathUUID(c *gin.Context, name string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		unprocessable(c, "invalid "+name)
		return "", false
	}
	return id.String(), true
}

// pageParams parses limit/offset query values. limit must lie in
// [1, maxLimit]; offset must not be negative.
func pageParams(c *gin.Context, defLimit, maxLimit int) (limit, offset int, ok bool) {
	limit = defLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLimit {
			unprocessable(c, "limit must be between 1 and "+strconv.Itoa(maxLimit))
			return 0, 0, false
		}
		limit = n
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			unprocessable(c, "offset must not be negative")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
