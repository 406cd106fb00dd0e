package http

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// StreamOrders holds the connection open and relays hub frames as
// server-sent events until the client goes away or the hub drops it.
func (h *Handler) StreamOrders(c *gin.Context) {
	sub := h.hub.Subscribe()
	defer h.hub.Unsubscribe(sub.ID)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case frame, ok := <-sub.C:
			if !ok {
				slog.Info("stream subscriber closed by hub", "subscriber", sub.ID)
				return false
			}
			_, err := w.Write(append(append([]byte("data: "), frame...), '\n', '\n'))
			return err == nil
		case <-ticker.C:
			_, err := io.WriteString(w, ": keepalive\n\n")
			return err == nil
		}
	})
}
