package server

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/service"
)

// New builds the HTTP router exposing the web booking form backend and the
// web chat endpoint.
func New(booking *service.BookingService, consult *service.ConsultService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(requestID())
	r.Use(requestLogger())

	r.GET("/ping", handlePing)

	api := r.Group("/api")
	api.POST("/booking", handleBooking(booking))
	api.POST("/chat", handleChat(consult))

	return r
}

// requestID tags every request with a correlation id, echoed in the response
// and attached to log entries.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}
