package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Eik-Lab/studieveileder/internal/config"
	"github.com/Eik-Lab/studieveileder/internal/server/ratelimit"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// Manager wires all HTTP middlewares with shared dependencies.
type Manager struct {
	cors        config.CORSConfig
	rateLimiter *ratelimit.Limiter
	log         *slog.Logger
}

// NewManager builds a middleware manager for the HTTP server.
func NewManager(cors config.CORSConfig, limiter *ratelimit.Limiter, logger *slog.Logger) *Manager {
	return &Manager{
		cors:        cors,
		rateLimiter: limiter,
		log:         logger.With("component", "http"),
	}
}

// RequestID propagates or generates a request id and echoes it back.
func (m *Manager) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog logs every request once it has been served. Server errors log
// at ERROR, everything else at INFO.
func (m *Manager) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		m.log.LogAttrs(c.Request.Context(), level, "http.request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// Recovery turns a panicking handler into a 500.
func (m *Manager) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				m.log.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}

// CORS answers preflight requests and sets the allow-origin header for
// configured origins.
func (m *Manager) CORS() gin.HandlerFunc {
	origins := m.cors.Origins()
	methods := strings.Join(splitTrim(m.cors.AllowedMethods), ", ")
	headers := strings.Join(splitTrim(m.cors.AllowedHeaders), ", ")
	maxAge := strconv.Itoa(m.cors.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && isAllowedOrigin(origin, origins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimit enforces the per-client-IP request budget.
func (m *Manager) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, resetAt := m.rateLimiter.Allow(c.ClientIP())
		if !ok {
			retryAfter := int(time.Until(resetAt).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

func isAllowedOrigin(origin string, allowed []string) bool {
	return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

func splitTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
