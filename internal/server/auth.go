package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smb-ai-solution/kanban/internal/auth"
	"github.com/smb-ai-solution/kanban/internal/models"
	"github.com/smb-ai-solution/kanban/internal/storage/sqlite"
)

type registerRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	FullName        string `json:"full_name"`
	RegistrationKey string `json:"registration_key"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates a new account. When a registration key is
// configured, it must be supplied.
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Username) < 3 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("username must be at least 3 characters"))
		return
	}
	if len(req.Password) < 8 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("password must be at least 8 characters"))
		return
	}
	if s.registrationKey != "" && req.RegistrationKey != s.registrationKey {
		s.respondError(c, http.StatusForbidden, fmt.Errorf("invalid registration key"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), models.User{
		Username: req.Username,
		FullName: req.FullName,
		Role:     models.RoleUser,
	}, hash)
	if errors.Is(err, sqlite.ErrUserExists) {
		s.respondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleLogin verifies credentials and issues a session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, hash, err := s.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(hash, req.Password) {
		// Same response for unknown user and wrong password.
		s.respondError(c, http.StatusUnauthorized, fmt.Errorf("invalid username or password"))
		return
	}

	token, err := s.tokens.IssueToken(user.Username, user.Role)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// handleMe returns the authenticated account.
func (s *Server) handleMe(c *gin.Context) {
	user, _, err := s.store.GetUserByUsername(c.Request.Context(), auth.UsernameFrom(c))
	if err != nil {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}
