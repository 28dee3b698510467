package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eik-Lab/studieveileder/internal/config"
	"github.com/Eik-Lab/studieveileder/internal/server/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newManager(buf *bytes.Buffer, limit int) *Manager {
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	cors := config.CORSConfig{
		AllowedOrigins: "https://studie.example.no",
		AllowedMethods: "GET,POST,OPTIONS",
		AllowedHeaders: "Content-Type,X-Request-ID",
		MaxAge:         600,
	}
	return NewManager(cors, ratelimit.NewLimiter(limit, time.Minute), logger)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequestID(t *testing.T) {
	mw := newManager(&bytes.Buffer{}, 10)
	r := gin.New()
	r.Use(mw.RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rec.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(r, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	mw := newManager(&buf, 10)
	r := gin.New()
	r.Use(mw.RequestID(), mw.AccessLog())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	serve(r, req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http.request", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/boom", entry["path"])
	assert.EqualValues(t, 502, entry["status"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "http", entry["component"])
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	mw := newManager(&buf, 10)
	r := gin.New()
	r.Use(mw.Recovery())
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	assert.Contains(t, buf.String(), "kaboom")
}

func TestCORS(t *testing.T) {
	mw := newManager(&bytes.Buffer{}, 10)
	r := gin.New()
	r.Use(mw.CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://studie.example.no")
		rec := serve(r, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://studie.example.no", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := serve(r, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://studie.example.no")
		rec := serve(r, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type, X-Request-ID", rec.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	})
}

func TestRateLimit(t *testing.T) {
	mw := newManager(&bytes.Buffer{}, 2)
	r := gin.New()
	r.Use(mw.RateLimit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5000"
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, get("192.0.2.1").Code)
	assert.Equal(t, http.StatusOK, get("192.0.2.1").Code)

	rec := get("192.0.2.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, get("192.0.2.2").Code)
}

func TestIsAllowedOrigin(t *testing.T) {
	assert.True(t, isAllowedOrigin("https://a.no", []string{"*"}))
	assert.True(t, isAllowedOrigin("https://a.no", []string{"https://b.no", "https://a.no"}))
	assert.False(t, isAllowedOrigin("https://a.no", []string{"https://b.no"}))
	assert.False(t, isAllowedOrigin("https://a.no", nil))
}
