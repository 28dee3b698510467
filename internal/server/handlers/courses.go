package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Eik-Lab/studieveileder/internal/types"
)

// GetCourses searches the course catalog.
// Optional query parameters (can be combined):
//   - search: substring of course code or name (case-insensitive)
//   - faculty: exact faculty name
//   - semester: exact semester label (e.g., "Høst", "Vår")
//   - credits: exact credits (e.g., "5", "7.5" or "7,5")
//   - sort: "navn" (default), "kode" or "studiepoeng"
//   - limit, page: pagination (default 20 per page, max 100)
func (h *Handler) GetCourses(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	faculty := strings.TrimSpace(c.Query("faculty"))
	semester := strings.TrimSpace(c.Query("semester"))
	sortBy := strings.ToLower(strings.TrimSpace(c.Query("sort")))

	var credits float64
	if raw := strings.TrimSpace(c.Query("credits")); raw != "" {
		v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "credits parameter must be a positive number"})
			return
		}
		credits = v
	}

	params, ok := parsePaginationOrRespond(c)
	if !ok {
		return
	}

	page, err := h.catalog.Search(c.Request.Context(), types.CourseQuery{
		Search:   search,
		Faculty:  faculty,
		Semester: semester,
		Credits:  credits,
		SortBy:   sortBy,
		Limit:    params.Limit,
		Offset:   params.Offset,
	})
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.internalError(c, "failed to search courses", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(page.Courses),
		"data":       page.Courses,
		"pagination": buildPaginationMeta(params, page.Total, page.HasNext),
	})
}

// GetCourse returns one course by code. Codes are matched exactly first,
// then upper-cased.
func (h *Handler) GetCourse(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "course code is required"})
		return
	}

	course, err := h.catalog.Get(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   fmt.Sprintf("Emnet %s ble ikke funnet", code),
			})
			return
		}
		h.internalError(c, "failed to get course", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": course})
}

// GetFaculties lists the faculties present in the catalog.
func (h *Handler) GetFaculties(c *gin.Context) {
	faculties, err := h.catalog.Faculties(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list faculties", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(faculties),
		"data":    faculties,
	})
}
