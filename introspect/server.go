// Package introspect exposes a small HTTP surface for inspecting and
// driving a running bar: module state, action dispatch, health and
// prometheus metrics.
package introspect

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barkit/barkit/bar"
	"github.com/barkit/barkit/config"
)

// Server serves the introspection API for one engine.
type Server struct {
	log    *slog.Logger
	engine *bar.Engine
	srv    *http.Server
}

type actionRequest struct {
	Action string `json:"action" binding:"required"`
	Data   string `json:"data"`
}

func New(log *slog.Logger, engine *bar.Engine, cfg config.IntrospectConfig) *Server {
	s := &Server{log: log, engine: engine}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestID())
	r.Use(Recovery(log))
	r.Use(AccessLog(log))

	r.GET("/health", s.health)
	r.GET("/modules", s.modules)
	r.POST("/modules/:name/actions", s.dispatch)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		s.log.Info("introspection server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("introspection server error", "error", err)
		}
	}()
}

// Stop shuts the server down, waiting up to ten seconds for in-flight
// requests.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("introspection shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	status := "UP"
	if len(s.engine.Modules()) > 0 {
		running := false
		for _, m := range s.engine.Modules() {
			if m.Running() {
				running = true
				break
			}
		}
		if !running {
			status = "DOWN"
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (s *Server) modules(c *gin.Context) {
	mods := s.engine.Modules()
	out := make([]gin.H, 0, len(mods))
	for _, m := range mods {
		out = append(out, gin.H{
			"name":     m.Name(),
			"type":     m.Type(),
			"state":    m.State().String(),
			"contents": m.Contents(),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) dispatch(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !s.engine.Dispatch(c.Param("name"), req.Action, req.Data) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown module or action"})
		return
	}
	c.Status(http.StatusNoContent)
}
