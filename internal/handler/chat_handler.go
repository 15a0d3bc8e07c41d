package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"supportbot/internal/domain"
	"supportbot/internal/observability"
	"supportbot/internal/service"
	"supportbot/internal/utils"
)

type messageCreate struct {
	Content string `json:"content" binding:"required"`
}

type messageRead struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

type sessionRead struct {
	ID      int64   `json:"id"`
	Summary *string `json:"summary"`
}

type ChatHandler struct {
	svc *service.ChatService
}

// NewRouter builds the gin engine serving the chat API.
func NewRouter(svc *service.ChatService) *gin.Engine {
	h := &ChatHandler{svc: svc}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), CORS())

	r.GET("/", h.Root)

	api := r.Group("/api")
	api.POST("/sessions/", h.CreateSession)
	api.GET("/sessions/:id/messages/", h.ListMessages)
	api.POST("/sessions/:id/messages/", h.PostMessage)
	api.POST("/sessions/:id/summarize", h.Summarize)

	return r
}

func (h *ChatHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": utils.WelcomeMessage})
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	session, err := h.svc.CreateSession(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionRead(session))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	msgs, err := h.svc.ListMessages(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]messageRead, 0, len(msgs))
	for i := range msgs {
		out = append(out, toMessageRead(&msgs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req messageCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "content is required"})
		return
	}

	botMsg, err := h.svc.PostMessage(c.Request.Context(), id, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toMessageRead(botMsg))
}

func (h *ChatHandler) Summarize(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.svc.SummarizeSession(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionRead(session))
}

func (h *ChatHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Session not found"})
	case errors.Is(err, service.ErrEmptySession):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot summarize an empty session."})
	default:
		observability.LoggerFromContext(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func sessionIDParam(c *gin.Context) (domain.SessionID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid session id"})
		return 0, false
	}
	return domain.SessionID(id), true
}

func toSessionRead(s *domain.Session) sessionRead {
	return sessionRead{ID: int64(s.ID), Summary: s.Summary}
}

func toMessageRead(m *domain.Message) messageRead {
	return messageRead{ID: int64(m.ID), Content: m.Content, Sender: string(m.Sender)}
}
