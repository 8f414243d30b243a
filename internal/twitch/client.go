package twitch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageHandler receives every PRIVMSG seen on a joined channel
type MessageHandler func(ctx context.Context, msg *Message)

// Client manages the IRC-over-WebSocket connection to Twitch chat
type Client struct {
	url      string
	username string
	oauth    string
	channels []string
	handler  MessageHandler

	conn     *websocket.Conn
	mu       sync.RWMutex
	writeMu  sync.Mutex
	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	connected bool
}

// NewClient creates a Twitch chat client. The oauth token may be given with
// or without its "oauth:" prefix.
func NewClient(url, username, oauth string, channels []string, handler MessageHandler) *Client {
	if url == "" {
		url = DefaultURL
	}
	if !strings.HasPrefix(oauth, "oauth:") {
		oauth = "oauth:" + oauth
	}

	normalized := make([]string, 0, len(channels))
	for _, ch := range channels {
		ch = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ch), "#"))
		if ch != "" {
			normalized = append(normalized, ch)
		}
	}

	return &Client{
		url:      url,
		username: strings.ToLower(username),
		oauth:    oauth,
		channels: normalized,
		handler:  handler,
		shutdown: make(chan struct{}),
	}
}

// Start begins the connection with auto-reconnect
func (c *Client) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.connectLoop(ctx)
}

// Stop closes the connection and waits for the read loop to exit
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.shutdown)

		c.mu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.mu.Unlock()

		c.wg.Wait()
	})
}

// IsConnected returns whether the client is currently logged in
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Say sends text to channel, threaded as a reply when replyTo is a message id
func (c *Client) Say(channel, text, replyTo string) error {
	if !c.IsConnected() {
		return errors.New(ErrMsgNotConnected)
	}
	return c.send(formatPrivmsg(channel, text, replyTo))
}

func (c *Client) connectLoop(ctx context.Context) {
	defer c.wg.Done()

	backoff := DefaultReconnectDelay
	consecutiveFailures := 0

	for {
		select {
		case <-c.shutdown:
			slog.Info(LogMsgClientStopped)
			return
		case <-ctx.Done():
			slog.Info(LogMsgClientStopped)
			return
		default:
		}

		wasConnected, err := c.connect(ctx)
		c.setConnected(false)

		if wasConnected {
			backoff = DefaultReconnectDelay
			consecutiveFailures = 0
		} else {
			consecutiveFailures++
		}
		if err == nil {
			err = errors.New(LogMsgDisconnected)
		}

		// Only log the first few failures and then periodically
		if consecutiveFailures <= 3 || consecutiveFailures%100 == 0 {
			slog.Warn(LogMsgReconnecting,
				"error", err,
				"backoff", backoff,
				"consecutive_failures", consecutiveFailures)
		}

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * ReconnectMultiplier)
			if backoff > MaxReconnectDelay {
				backoff = MaxReconnectDelay
			}
		case <-c.shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// connect dials, logs in and runs the read loop until the connection drops.
// The bool reports whether the login succeeded.
func (c *Client) connect(ctx context.Context) (bool, error) {
	slog.Info(LogMsgConnecting, "url", c.url)

	dialer := websocket.Dialer{
		ReadBufferSize:   ReadBufferSize,
		WriteBufferSize:  WriteBufferSize,
		HandshakeTimeout: WriteTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("failed to connect: %w (status: %s, code: %d)", err, resp.Status, resp.StatusCode)
		}
		return false, fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	defer conn.Close()

	// unblock ReadMessage when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for _, line := range []string{
		CapabilityRequest,
		IRCPass + " " + c.oauth,
		IRCNick + " " + c.username,
	} {
		if err := c.send(line); err != nil {
			return false, fmt.Errorf("failed to log in: %w", err)
		}
	}

	return c.readLoop(ctx, conn)
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) (bool, error) {
	loggedIn := false

	for {
		select {
		case <-c.shutdown:
			return loggedIn, nil
		case <-ctx.Done():
			return loggedIn, ctx.Err()
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.shutdown:
				return loggedIn, nil
			case <-ctx.Done():
				return loggedIn, ctx.Err()
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return loggedIn, nil
			}
			slog.Warn(LogMsgReadError, "error", err)
			return loggedIn, err
		}

		// a frame may carry several CRLF-separated lines
		for _, line := range strings.Split(string(data), "\r\n") {
			msg := ParseMessage(line)
			if msg == nil {
				continue
			}

			switch msg.Command {
			case IRCPing:
				if err := c.send(IRCPong + " :" + pingToken(msg)); err != nil {
					return loggedIn, err
				}
			case IRCWelcome:
				loggedIn = true
				if err := c.join(); err != nil {
					return loggedIn, err
				}
				c.setConnected(true)
				slog.Info(LogMsgConnected, "username", c.username)
			case IRCNotice:
				if !loggedIn {
					return false, fmt.Errorf(ErrMsgAuthFailed, msg.Text())
				}
				slog.Info(LogMsgNotice, "channel", msg.Channel(), "text", msg.Text())
			case IRCReconnect:
				return loggedIn, errors.New(ErrMsgReconnectAsked)
			case IRCPrivmsg:
				if c.handler != nil {
					c.handler(ctx, msg)
				}
			}
		}
	}
}

// pingToken is echoed back in the PONG, usually "tmi.twitch.tv"
func pingToken(msg *Message) string {
	if len(msg.Params) == 0 {
		return ""
	}
	return msg.Params[len(msg.Params)-1]
}

func (c *Client) join() error {
	for _, ch := range c.channels {
		if err := c.send(IRCJoin + " #" + ch); err != nil {
			return err
		}
		slog.Info(LogMsgJoined, "channel", ch)
	}
	return nil
}

func (c *Client) send(line string) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errors.New(ErrMsgNotConnected)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

func (c *Client) setConnected(connected bool) {
	c.mu.Lock()
	c.connected = connected
	c.mu.Unlock()
}
