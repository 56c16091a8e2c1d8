package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/smb-ai-solution/kanban/internal/auth"
	"github.com/smb-ai-solution/kanban/internal/chat"
	"github.com/smb-ai-solution/kanban/internal/models"
)

type chatRequest struct {
	Message string `json:"message"`
}

// handleChat stores the user's message, relays it to the assistant webhook
// and stores the reply. A webhook failure degrades to a canned reply instead
// of failing the request.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Message == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("message is required"))
		return
	}

	username := auth.UsernameFrom(c)
	ctx := c.Request.Context()

	if _, err := s.store.AppendChatMessage(ctx, models.ChatMessage{
		Username: username,
		Role:     "user",
		Content:  req.Message,
	}); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	reply, err := s.relay.Send(ctx, username, req.Message)
	if err != nil {
		s.logger.Warn("assistant webhook failed", slog.String("user", username), slog.String("error", err.Error()))
		reply = chat.FallbackReply
	}

	stored, err := s.store.AppendChatMessage(ctx, models.ChatMessage{
		Username: username,
		Role:     "assistant",
		Content:  reply,
	})
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"message": stored})
}

// handleChatHistory returns the caller's recent conversation, oldest first.
func (s *Server) handleChatHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := s.store.ListChatMessages(c.Request.Context(), auth.UsernameFrom(c), limit)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"messages": messages})
}
