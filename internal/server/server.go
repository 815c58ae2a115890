// Package server exposes the SQLite record store over the JSON API the
// client speaks.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/taskflow/internal/repository"
)

const shutdownTimeout = 5 * time.Second

// Server is the record store HTTP server.
type Server struct {
	store  *repository.Store
	logger *slog.Logger
	router *gin.Engine
}

// New wires the API routes. A nil logger discards request logs.
func New(store *repository.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	router := gin.New()
	s := &Server{store: store, logger: logger, router: router}

	router.Use(gin.Recovery(), s.requestLog())
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/stats", s.handleStats)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/bulk-delete", s.handleBulkDelete)
		api.POST("/tasks/delete-all", s.handleDeleteAll)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/apply-template", s.handleApplyTemplate)
		api.POST("/tasks/:id/subtasks", s.handleCreateSubtask)
		api.PUT("/tasks/:id/subtasks/reorder", s.handleReorderSubtasks)

		api.PUT("/subtasks/:id", s.handleUpdateSubtask)
		api.DELETE("/subtasks/:id", s.handleDeleteSubtask)

		api.GET("/templates", s.handleListTemplates)
		api.POST("/templates", s.handleCreateTemplate)
		api.DELETE("/templates/:id", s.handleDeleteTemplate)

		api.GET("/email/logs", s.handleListScanLog)
		api.POST("/email/logs", s.handleRecordScan)
		api.DELETE("/email/logs", s.handleClearScanLog)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
