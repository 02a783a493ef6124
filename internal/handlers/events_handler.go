package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/middleware"
)

// EventsHandler transmite as mudanças do dono por SSE, para o painel
// atualizar sem recarregar. A desconexão cancela a assinatura.
type EventsHandler struct {
	bus events.Bus
}

func NewEventsHandler(bus events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

func (h *EventsHandler) Stream(c *gin.Context) {
	ownerID := c.MustGet(middleware.ContextOwnerID).(uint)

	ch, cancel := h.bus.Subscribe(c.Request.Context(), ownerID)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
