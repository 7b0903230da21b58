// Package server exposes the scheduling engine, reports and assistant over a
// JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vkarpov/plantmind/internal/assistant"
	"github.com/vkarpov/plantmind/internal/scheduling"
	"github.com/vkarpov/plantmind/internal/store"
	"gorm.io/gorm"
)

// Answerer is the assistant seam; *assistant.Assistant satisfies it.
type Answerer interface {
	Answer(ctx context.Context, question, equipment string) (string, assistant.QueryKind, error)
}

// Deps holds the collaborators behind the HTTP handlers.
type Deps struct {
	Engine    *scheduling.Engine
	Store     *store.Store
	DB        *gorm.DB
	Assistant Answerer // nil disables /api/assistant
}

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB        *gorm.DB
	Port      int
	Out       io.Writer
	Assistant Answerer
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	st := store.New(opts.DB)
	deps := Deps{
		Engine:    scheduling.NewEngine(st, st, st),
		Store:     st,
		DB:        opts.DB,
		Assistant: opts.Assistant,
	}
	router := NewRouter(deps)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "PlantMind API running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// NewRouter builds the Gin router with all API routes registered.
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, deps)
	return router
}
