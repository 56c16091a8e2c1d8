package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smb-ai-solution/kanban/internal/analytics"
)

// handleAnalytics returns the read-time summary of the caller's tasks.
func (s *Server) handleAnalytics(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), taskOwner(c))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"summary": analytics.Build(tasks, time.Now())})
}
