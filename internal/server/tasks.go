package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smb-ai-solution/kanban/internal/auth"
	"github.com/smb-ai-solution/kanban/internal/models"
	"github.com/smb-ai-solution/kanban/internal/storage/sqlite"
)

type taskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	Tags        *[]string  `json:"tags"`
	Project     *string    `json:"project"`
	Category    *string    `json:"category"`
	AssignedTo  *string    `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
}

// handleListTasks fetches the tasks visible to the caller.
func (s *Server) handleListTasks(c *gin.Context) {
	tasks, err := s.store.ListTasks(c.Request.Context(), taskOwner(c))
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask inserts a new task owned by the caller.
func (s *Server) handleCreateTask(c *gin.Context) {
	if !s.requireWriter(c) {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("title is required"))
		return
	}

	task := models.Task{
		Title:       *req.Title,
		Description: getString(req.Description),
		Status:      models.Status(getString(req.Status)),
		Priority:    models.Priority(getString(req.Priority)),
		Project:     getString(req.Project),
		Category:    getString(req.Category),
		AssignedTo:  getString(req.AssignedTo),
		CreatedBy:   auth.UsernameFrom(c),
		Deadline:    req.Deadline,
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}

	created, err := s.store.CreateTask(c.Request.Context(), task)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": created})
}

// handleUpdateTask applies a partial patch, including the status transitions
// issued by board moves.
func (s *Server) handleUpdateTask(c *gin.Context) {
	if !s.requireWriter(c) {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Tags != nil {
		updates["tags"] = *req.Tags
	}
	if req.Project != nil {
		updates["project"] = *req.Project
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Deadline != nil {
		updates["deadline"] = req.Deadline
	}
	if len(updates) == 0 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("no fields to update"))
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), c.Param("id"), updates)
	if errors.Is(err, sqlite.ErrNotFound) {
		s.respondError(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if !s.requireWriter(c) {
		return
	}

	err := s.store.DeleteTask(c.Request.Context(), c.Param("id"))
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

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
