package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// StreamEvent is one event read from the API's event stream
type StreamEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// StreamHandler handles a specific event type
type StreamHandler func(ctx context.Context, event StreamEvent) error

// EventStream keeps a connection to /api/v1/events open and dispatches events
type EventStream struct {
	eventTypes []string
	handlers   map[string][]StreamHandler
	http       *resty.Client
	mu         sync.RWMutex
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	connected  bool
}

// NewEventStream creates a stream for the given event types. The stream shares
// the client's base URL and key but never times out.
func (c *Client) NewEventStream(eventTypes ...string) *EventStream {
	h := resty.New().
		SetBaseURL(c.BaseURL).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "text/event-stream").
		SetHeader("Cache-Control", "no-cache")
	if c.APIKey != "" {
		h.SetHeader(HeaderAPIKey, c.APIKey)
	}

	return &EventStream{
		eventTypes: eventTypes,
		handlers:   make(map[string][]StreamHandler),
		http:       h,
	}
}

// OnEvent registers a handler for a specific event type
func (s *EventStream) OnEvent(eventType string, handler StreamHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[eventType] = append(s.handlers[eventType], handler)
}

// Start connects in the background and reconnects with backoff until Stop
func (s *EventStream) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.connectLoop(ctx)
}

// Stop closes the stream and waits for the reader to exit
func (s *EventStream) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// IsConnected returns true while a stream is open
func (s *EventStream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *EventStream) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}

func (s *EventStream) connectLoop(ctx context.Context) {
	defer s.wg.Done()

	backoff := streamInitialBackoff
	failures := 0

	for {
		err := s.connect(ctx)
		wasConnected := s.IsConnected()
		s.setConnected(false)
		if ctx.Err() != nil {
			slog.Info(LogMsgStreamStopped)
			return
		}

		if wasConnected {
			backoff = streamInitialBackoff
			failures = 0
		}
		failures++
		slog.Warn(LogMsgStreamFailed, "error", err, "backoff", backoff, "consecutive_failures", failures)

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * streamBackoffMultiplier)
			if backoff > streamMaxBackoff {
				backoff = streamMaxBackoff
			}
		case <-ctx.Done():
			slog.Info(LogMsgStreamStopped)
			return
		}
	}
}

func (s *EventStream) connect(ctx context.Context) error {
	req := s.http.R().SetContext(ctx).SetDoNotParseResponse(true)
	if len(s.eventTypes) > 0 {
		req.SetQueryParam("types", strings.Join(s.eventTypes, ","))
	}

	resp, err := req.Get(PathEvents)
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode(), Message: fmt.Sprintf(ErrMsgUnexpected, resp.StatusCode())}
	}

	s.setConnected(true)
	slog.Info(LogMsgStreamConnected, "types", s.eventTypes)

	return s.readEvents(ctx, body)
}

func (s *EventStream) readEvents(ctx context.Context, body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, streamBufferSize), streamBufferSize)

	var eventID, eventType, data string
	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			if data != "" {
				s.dispatch(ctx, eventID, eventType, data)
			}
			eventID, eventType, data = "", "", ""
			continue
		}

		switch {
		case strings.HasPrefix(line, "id: "):
			eventID = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			eventType = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.New(ErrMsgStreamClosed)
}

func (s *EventStream) dispatch(ctx context.Context, id, eventType, data string) {
	if eventType == streamEventKeepalive || eventType == streamEventConnected {
		return
	}

	var event StreamEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		slog.Warn(LogMsgStreamParse, "error", err)
		return
	}
	if eventType != "" {
		event.Type = eventType
	}
	if id != "" {
		event.ID = id
	}

	s.mu.RLock()
	handlers := s.handlers[event.Type]
	s.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			slog.Error(LogMsgStreamHandler, "event_type", event.Type, "error", err)
		}
	}
}
