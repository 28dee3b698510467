package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Eik-Lab/studieveileder/internal/advisor"
)

type chatRequest struct {
	Query string `json:"query"`
}

// Chat relays a student question to the academic advisor.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a query field"})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query cannot be empty"})
		return
	}

	answer, err := h.advisor.Answer(c.Request.Context(), query)
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "advisor failed", slog.String("error", err.Error()))
		switch {
		case errors.Is(err, advisor.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "the advisor took too long to answer"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "the advisor is unavailable"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
