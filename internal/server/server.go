package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"caltrack-backend-go/internal/domain"
	apperrors "caltrack-backend-go/internal/errors"
	"caltrack-backend-go/internal/logger"
	"github.com/gin-gonic/gin"
)

// Server wires the HTTP transport to the service layer. Handlers depend on
// the service interfaces only, so tests can swap in fakes.
type Server struct {
	auth      domain.AuthService
	profiles  domain.ProfileService
	entries   domain.EntryService
	favorites domain.FavoriteService
	analyses  domain.AnalysisService
	errs      *apperrors.Handler
}

func New(auth domain.AuthService, profiles domain.ProfileService, entries domain.EntryService,
	favorites domain.FavoriteService, analyses domain.AnalysisService) *Server {
	return &Server{
		auth:      auth,
		profiles:  profiles,
		entries:   entries,
		favorites: favorites,
		analyses:  analyses,
		errs:      apperrors.NewHandler(logger.GetLogger()),
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")

	// Public routes
	api.POST("/auth/register", s.register)
	api.POST("/auth/login", s.login)

	// Authenticated routes
	authed := api.Group("", s.authMiddleware())
	authed.GET("/user", s.getProfile)
	authed.POST("/user", s.saveProfile)

	authed.POST("/entries", s.addEntry)
	authed.GET("/entries/today", s.dailyStats)
	authed.GET("/entries/history", s.history)
	authed.PUT("/entries/:id", s.updateEntry)
	authed.DELETE("/entries/:id", s.deleteEntry)

	authed.GET("/favorites", s.listFavorites)
	authed.POST("/favorites", s.addFavorite)
	authed.DELETE("/favorites/:id", s.deleteFavorite)
	authed.POST("/favorites/:id/scale", s.scaleFavorite)

	authed.POST("/analyze/food", s.analyzeFood)
	authed.POST("/analyze/food-text", s.analyzeFoodText)
	authed.POST("/analyze/sport", s.analyzeSport)

	return router
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("HTTP server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
