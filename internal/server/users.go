package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smb-ai-solution/kanban/internal/models"
)

// handleListUsers returns every account for assignee pickers. Credentials are
// never included.
func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.store.ListUsers(c.Request.Context())
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"users": users})
}
