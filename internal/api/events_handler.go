package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
)

// heartbeatInterval keeps idle SSE connections from being reaped by proxies.
const heartbeatInterval = 25 * time.Second

// EventsHandler streams mirror updates to clients over Server-Sent Events.
type EventsHandler struct {
	syncService core.SyncService
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(ss core.SyncService) *EventsHandler {
	return &EventsHandler{syncService: ss}
}

// Stream handles GET /events. The first event is always the current mirror
// snapshot, so a client is complete the moment it connects; afterwards every
// store notification arrives as another full snapshot event.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	updates, unsubscribe := h.syncService.Subscribe()
	defer unsubscribe()

	posts, meta := h.syncService.Snapshot()
	c.SSEvent("snapshot", core.SyncUpdate{Posts: posts, Meta: meta})
	c.Writer.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case update, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", update)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UnixMilli())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
