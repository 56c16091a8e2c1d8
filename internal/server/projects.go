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

type projectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Status      *string `json:"status"`
}

// handleListProjects returns the caller's projects.
func (s *Server) handleListProjects(c *gin.Context) {
	owner := auth.UsernameFrom(c)
	if auth.RoleFrom(c) == models.RoleAdmin {
		owner = ""
	}

	projects, err := s.store.ListProjects(c.Request.Context(), owner)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleCreateProject creates a new project owned by the caller.
func (s *Server) handleCreateProject(c *gin.Context) {
	if !s.requireWriter(c) {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Name == nil || *req.Name == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}

	project, err := s.store.CreateProject(c.Request.Context(), models.Project{
		Name:        *req.Name,
		Description: getString(req.Description),
		Color:       getString(req.Color),
		Status:      models.ProjectStatus(getString(req.Status)),
		Owner:       auth.UsernameFrom(c),
	})
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleUpdateProject applies a partial patch to a project.
func (s *Server) handleUpdateProject(c *gin.Context) {
	if !s.requireWriter(c) {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("no fields to update"))
		return
	}

	project, err := s.store.UpdateProject(c.Request.Context(), c.Param("id"), updates)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project. Its tasks keep their project name
// and keep rendering with it.
func (s *Server) handleDeleteProject(c *gin.Context) {
	if !s.requireWriter(c) {
		return
	}

	err := s.store.DeleteProject(c.Request.Context(), c.Param("id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
