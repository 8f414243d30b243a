package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

// Handler streams hub events to the caller until it disconnects
// @Summary Event stream
// @Description Server-sent events for suggestions and account links. Filter with types=a,b.
// @Tags events
// @Produce text/event-stream
// @Param types query string false "Comma separated event types"
// @Success 200 {string} string
// @Failure 401 {object} handler.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/events [get]
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		var eventTypes []string
		if filter := r.URL.Query().Get(QueryParamTypes); filter != "" {
			for _, t := range strings.Split(filter, ",") {
				if t = strings.TrimSpace(t); t != "" {
					eventTypes = append(eventTypes, t)
				}
			}
		}

		client := hub.Register(eventTypes)
		log.Info(LogMsgClientConnected, "client_id", client.ID, "filters", eventTypes)
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		write := func(event Event) bool {
			msg, err := FormatSSEMessage(event)
			if err != nil {
				log.Error(LogMsgWriteError, "error", err)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				log.Warn(LogMsgWriteError, "error", err)
				return false
			}
			flusher.Flush()
			return true
		}

		if !write(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "filters": eventTypes},
		}) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-client.EventChannel:
				if !ok {
					return
				}
				if !write(event) {
					return
				}

			case <-ticker.C:
				if !write(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
