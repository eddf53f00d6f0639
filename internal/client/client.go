package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/bigtwo/internal/server" // Reuse message types
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 64
)

// ErrNotConnected is returned when sending before Connect or after Close.
var ErrNotConnected = errors.New("client not connected")

// Client is a WebSocket connection to one table on a Big Two server
type Client struct {
	serverURL string
	table     string
	conn      *websocket.Conn
	send      chan *server.Message
	messages  chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu        sync.RWMutex
	connected bool
}

// New creates a client for the named table. An empty table name lets the
// server pick its first table.
func New(serverURL, table string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		table:     table,
		send:      make(chan *server.Message, sendBufferSize),
		messages:  make(chan *server.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// WebSocketURL turns a server URL into the table's /ws endpoint
func WebSocketURL(serverURL, table string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme %q", serverURL, u.Scheme)
	}

	u.Path = "/ws"
	q := url.Values{}
	if table != "" {
		q.Set("table", table)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Connect dials the server and starts the read and write pumps
func (c *Client) Connect(ctx context.Context) error {
	wsURL, err := WebSocketURL(c.serverURL, c.table)
	if err != nil {
		return err
	}
	c.logger.Debug("Connecting to server", "url", wsURL)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect: %w (HTTP %d)", err, resp.StatusCode)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()

	c.logger.Debug("Connected to server")
	return nil
}

// Close disconnects from the server. Messages is closed once the read
// pump has stopped.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.conn != nil {
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			_ = c.conn.Close()
		}
		c.connected = false
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Messages delivers every message the server sends, in order
func (c *Client) Messages() <-chan *server.Message {
	return c.messages
}

// SendMessage queues a message for the server
func (c *Client) SendMessage(msg *server.Message) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrNotConnected
	default:
		return errors.New("send buffer full")
	}
}

func (c *Client) sendData(mt server.MessageType, data any) error {
	msg, err := server.NewMessage(mt, data)
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// Join asks for a seat under the given name
func (c *Client) Join(name string) error {
	return c.sendData(server.MessageTypeJoin, server.JoinData{Name: name})
}

// Ready marks the player ready for the next game
func (c *Client) Ready() error {
	return c.sendData(server.MessageTypeReady, nil)
}

// Play plays the cards at the given indices of the player's hand
func (c *Client) Play(indices []int) error {
	return c.sendData(server.MessageTypePlay, server.PlayData{Cards: indices})
}

// Pass passes the turn
func (c *Client) Pass() error {
	return c.sendData(server.MessageTypePass, nil)
}

// Chat sends a line of text to the table
func (c *Client) Chat(text string) error {
	return c.sendData(server.MessageTypeChat, server.ChatData{Text: text})
}

// WaitFor consumes messages until one of type mt arrives. Messages of
// other types are discarded, so it does not mix with a Messages reader.
func (c *Client) WaitFor(ctx context.Context, mt server.MessageType) (*server.Message, error) {
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				return nil, ErrNotConnected
			}
			if msg.Type == mt {
				return msg, nil
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", mt, ctx.Err())
		}
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.messages)
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.messages <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
