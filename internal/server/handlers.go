package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/domain"
	"github.com/Maxim-Kutkovetskiy/telegram-web-ia-assistant/internal/service"
)

func handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "msg": "pong"})
}

// handleBooking accepts one complete booking payload from the web form and
// responds synchronously.
func handleBooking(svc *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload domain.BookingPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректные данные заявки."})
			return
		}

		draft := payload.ToDraft()
		if draft.Source == "" {
			draft.Source = domain.SourceWeb
		}

		if err := svc.Submit(c.Request.Context(), draft); err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": vErr.UserMessage()})
				return
			}
			slog.Error("web booking failed", "error", err, "request_id", c.GetString("request_id"))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Не удалось сохранить заявку. Попробуйте позже."})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Заявка сохранена!"})
	}
}

type chatRequest struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

// handleChat runs one consultation turn. The thread id round-trips through
// the client so the web widget keeps its conversation context.
func handleChat(svc *service.ConsultService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Некорректный запрос."})
			return
		}

		reply, threadID, err := svc.Ask(c.Request.Context(), req.ThreadID, req.Message)
		if err != nil {
			slog.Error("web chat failed", "error", err, "user_id", req.UserID, "request_id", c.GetString("request_id"))
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Ассистент не отвечает. Попробуйте позже.", "thread_id": threadID})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "reply": reply, "thread_id": threadID})
	}
}
