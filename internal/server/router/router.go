package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Eik-Lab/studieveileder/internal/server/handlers"
	"github.com/Eik-Lab/studieveileder/internal/server/middleware"
)

// New wires handlers and middleware into an HTTP router.
func New(handler *handlers.Handler, mw *middleware.Manager) http.Handler {
	router := gin.New()
	// AccessLog wraps Recovery so recovered panics are logged as 500s.
	router.Use(mw.RequestID(), mw.AccessLog(), mw.Recovery(), mw.CORS())

	router.GET("/health", handler.Health)

	v1 := router.Group("/api/v1")
	v1.Use(mw.RateLimit())
	{
		courses := v1.Group("/courses")
		{
			courses.GET("", handler.GetCourses)
			courses.GET("/:code", handler.GetCourse)
		}

		v1.GET("/faculties", handler.GetFaculties)
		v1.GET("/grades", handler.GetGradeStatistics)
		v1.POST("/chat", handler.Chat)
	}

	return router
}
