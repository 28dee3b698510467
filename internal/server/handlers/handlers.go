package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eik-Lab/studieveileder/internal/advisor"
	"github.com/Eik-Lab/studieveileder/internal/catalog"
	"github.com/Eik-Lab/studieveileder/internal/types"
)

const (
	defaultLimit = catalog.DefaultLimit
	maxLimit     = catalog.MaxLimit

	healthTimeout = 3 * time.Second
)

// GradeResolver produces display-ready grade statistics.
type GradeResolver interface {
	Resolve(ctx context.Context, courseCode string, year int) (types.GradeStatistics, error)
}

// Catalog is the course search surface.
type Catalog interface {
	Search(ctx context.Context, q types.CourseQuery) (catalog.Page, error)
	Get(ctx context.Context, code string) (*types.Course, error)
	Faculties(ctx context.Context) ([]string, error)
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	grades  GradeResolver
	catalog Catalog
	advisor advisor.Answerer
	db      Pinger
	log     *slog.Logger
}

type paginationParams struct {
	Limit  int
	Page   int
	Offset int
}

// New builds the HTTP handlers. db may be nil when the service runs without
// a database; /health then only reports liveness.
func New(grades GradeResolver, courses Catalog, answerer advisor.Answerer, db Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		grades:  grades,
		catalog: courses,
		advisor: answerer,
		db:      db,
		log:     logger.With("component", "handlers"),
	}
}

// Health pings the database, if any.
func (h *Handler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		h.log.WarnContext(ctx, "health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "down",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "up",
		"latency":  time.Since(start).String(),
	})
}

// internalError logs err and answers a generic 500.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.log.ErrorContext(c.Request.Context(), msg,
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": msg})
}

func parsePaginationParams(c *gin.Context) (paginationParams, error) {
	limitValue := strings.TrimSpace(c.Query("limit"))
	if limitValue == "" {
		limitValue = strconv.Itoa(defaultLimit)
	}

	limit, err := strconv.Atoi(limitValue)
	if err != nil || limit <= 0 {
		return paginationParams{}, fmt.Errorf("limit parameter must be a positive integer")
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	pageValue := strings.TrimSpace(c.Query("page"))
	if pageValue == "" {
		pageValue = "1"
	}

	page, err := strconv.Atoi(pageValue)
	if err != nil || page <= 0 {
		return paginationParams{}, fmt.Errorf("page parameter must be a positive integer")
	}

	offset := (page - 1) * limit

	return paginationParams{
		Limit:  limit,
		Page:   page,
		Offset: offset,
	}, nil
}

func parsePaginationOrRespond(c *gin.Context) (paginationParams, bool) {
	params, err := parsePaginationParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return paginationParams{}, false
	}
	return params, true
}

func buildPaginationMeta(params paginationParams, total int, hasNext bool) gin.H {
	meta := gin.H{
		"page":     params.Page,
		"limit":    params.Limit,
		"has_next": hasNext,
		"total":    total,
	}

	if hasNext {
		meta["next_page"] = params.Page + 1
	}

	return meta
}
