package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eik-Lab/studieveileder/internal/advisor"
	"github.com/Eik-Lab/studieveileder/internal/config"
	"github.com/Eik-Lab/studieveileder/internal/server/handlers"
	"github.com/Eik-Lab/studieveileder/internal/server/middleware"
	"github.com/Eik-Lab/studieveileder/internal/server/ratelimit"
	"github.com/Eik-Lab/studieveileder/internal/server/router"
)

// Deps are the services the HTTP layer serves. DB may be nil.
type Deps struct {
	Grades  handlers.GradeResolver
	Catalog handlers.Catalog
	Advisor advisor.Answerer
	DB      handlers.Pinger
}

// NewServer builds the HTTP server. It does not start listening.
func NewServer(cfg *config.Config, deps Deps, logger *slog.Logger) *http.Server {
	gin.SetMode(cfg.Server.Mode)

	limiter := ratelimit.NewLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	mw := middleware.NewManager(cfg.CORS, limiter, logger)

	handler := handlers.New(deps.Grades, deps.Catalog, deps.Advisor, deps.DB, logger)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(handler, mw),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}
