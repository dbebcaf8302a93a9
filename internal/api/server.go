// Package api serves the dashboard data as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/jask/rangmanch/internal/config"
	"github.com/jask/rangmanch/internal/service"
)

// Server wires the services to HTTP handlers.
type Server struct {
	Library   *service.LibraryService
	Insights  *service.InsightsService
	Generator *service.GeneratorService
	Tasks     *service.TaskTracker
	Config    config.Config
	Logger    *log.Logger
}

func (s *Server) logger() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Router builds the gin engine with CORS, recovery and request logging.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(s.logger()))

	origins := s.Config.Server.AllowOrigins
	if len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	api := r.Group("/api")
	{
		api.GET("/health", s.healthHandler)
		api.GET("/config", s.configHandler)

		content := api.Group("/content")
		{
			content.GET("", s.listContentHandler)
			content.GET("/options", s.contentOptionsHandler)
			content.GET("/:id", s.getContentHandler)
			content.POST("/:id/duplicate", s.duplicateContentHandler)
			content.DELETE("/:id", s.deleteContentHandler)
		}

		nav := api.Group("/nav")
		{
			nav.GET("/section", s.sectionHandler)
			nav.GET("/items", s.navItemsHandler)
		}

		insights := api.Group("/insights")
		{
			insights.GET("/dashboard", s.dashboardHandler)
			insights.GET("/analytics", s.analyticsHandler)
			insights.GET("/audience", s.audienceHandler)
		}

		api.POST("/generate", s.generateHandler)
		api.GET("/tasks/:id", s.taskHandler)
	}
	return r
}

func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"dur", time.Since(start).Round(time.Microsecond),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Config.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("api listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if s.Tasks != nil {
		s.Tasks.Close()
	}
	return nil
}
