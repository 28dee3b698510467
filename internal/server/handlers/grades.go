package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Eik-Lab/studieveileder/internal/gradestats"
	"github.com/Eik-Lab/studieveileder/internal/types"
)

// GetGradeStatistics returns the grade distribution for one course and year.
// Query parameters:
//   - emnekode: course code (required, e.g., "INF120")
//   - year: four-digit exam year (required, e.g., "2023")
//
// Check stats.source in the response: "synthetic" and "empty" are
// placeholders, not real results.
func (h *Handler) GetGradeStatistics(c *gin.Context) {
	code := strings.TrimSpace(c.Query("emnekode"))
	yearValue := strings.TrimSpace(c.Query("year"))
	if code == "" || yearValue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing emnekode or year"})
		return
	}

	year, err := gradestats.ParseYear(yearValue)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.grades.Resolve(c.Request.Context(), code, year)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
	case errors.Is(err, gradestats.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "No data found"})
	case errors.Is(err, types.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.internalError(c, "failed to resolve grade statistics", err)
	}
}
