package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smb-ai-solution/kanban/internal/auth"
	"github.com/smb-ai-solution/kanban/internal/chat"
	"github.com/smb-ai-solution/kanban/internal/models"
	"github.com/smb-ai-solution/kanban/internal/storage/sqlite"
)

// Server provides the HTTP handlers for the kanban backend.
type Server struct {
	engine          *gin.Engine
	store           *sqlite.Store
	tokens          *auth.Manager
	relay           *chat.Relay
	logger          *slog.Logger
	staticDir       string
	registrationKey string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, tokens *auth.Manager, relay *chat.Relay, logger *slog.Logger, staticDir, registrationKey string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:          router,
		store:           store,
		tokens:          tokens,
		relay:           relay,
		logger:          logger,
		staticDir:       staticDir,
		registrationKey: registrationKey,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.POST("/auth/register", s.handleRegister)
		api.POST("/auth/login", s.handleLogin)

		protected := api.Group("", auth.Middleware(s.tokens))
		{
			protected.GET("/auth/me", s.handleMe)

			protected.GET("/tasks", s.handleListTasks)
			protected.POST("/tasks", s.handleCreateTask)
			protected.PUT("/tasks/:id", s.handleUpdateTask)
			protected.DELETE("/tasks/:id", s.handleDeleteTask)

			protected.GET("/projects", s.handleListProjects)
			protected.POST("/projects", s.handleCreateProject)
			protected.PUT("/projects/:id", s.handleUpdateProject)
			protected.DELETE("/projects/:id", s.handleDeleteProject)

			protected.GET("/users", s.handleListUsers)

			protected.POST("/chat", s.handleChat)
			protected.GET("/chat/history", s.handleChatHistory)

			protected.GET("/analytics/summary", s.handleAnalytics)
		}
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

// taskOwner returns the owner to scope task queries by: admins see every
// user's tasks, everyone else sees only their own.
func taskOwner(c *gin.Context) string {
	if auth.RoleFrom(c) == models.RoleAdmin {
		return ""
	}
	return auth.UsernameFrom(c)
}

// requireWriter rejects viewer accounts on mutating routes.
func (s *Server) requireWriter(c *gin.Context) bool {
	if auth.RoleFrom(c) == models.RoleViewer {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "viewers cannot modify the board"})
		return false
	}
	return true
}
