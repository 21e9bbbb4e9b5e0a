package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ReceiveMessage handles POST /webhook/messages. It answers with the plain-text
// reply the messaging gateway forwards to the sender.
func (s *Server) ReceiveMessage(c echo.Context) error {
	var msg WebhookMessage
	if err := c.Bind(&msg); err != nil {
		return c.String(http.StatusBadRequest, "invalid message")
	}
	if strings.TrimSpace(msg.From) == "" {
		return c.String(http.StatusBadRequest, "missing From")
	}

	reply := s.dispatcher.Reply(c.Request().Context(), msg.From, msg.Body)
	return c.String(http.StatusOK, reply)
}
