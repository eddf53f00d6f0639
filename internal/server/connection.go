package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBufferSize = 256
)

// ErrConnectionClosed is returned when sending on a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Connection represents a WebSocket connection to one player
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	table     *Table
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu   sync.RWMutex
	name string
}

// NewConnection wraps an upgraded websocket bound to a table
func NewConnection(conn *websocket.Conn, table *Table, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, sendBufferSize),
		table:  table,
		logger: logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// Send queues a message for the client. A client that cannot keep up
// is disconnected rather than allowed to stall its table.
func (c *Connection) Send(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "player", c.Name())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Name returns the name the player joined with
func (c *Connection) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Connection) setName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// readPump handles incoming messages from the client. Any read error,
// including a normal close, counts as the player quitting.
func (c *Connection) readPump() {
	defer func() {
		_ = c.table.Leave(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}
		if err := c.handleMessage(&msg); err != nil {
			c.logger.Debug("Table unavailable", "error", err)
			return
		}
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
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

// handleMessage forwards a client message to the table. It only returns an
// error when the table has stopped.
func (c *Connection) handleMessage(msg *Message) error {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.Name())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := msg.Decode(&data); err != nil {
			c.sendError("invalid_message", "failed to parse join data")
			return nil
		}
		c.setName(data.Name)
		return c.table.Join(c, data.Name)

	case MessageTypeReady:
		return c.table.Ready(c)

	case MessageTypePlay:
		var data PlayData
		if err := msg.Decode(&data); err != nil {
			c.sendError("invalid_message", "failed to parse play data")
			return nil
		}
		if len(data.Cards) == 0 {
			c.sendError("invalid_message", "play needs at least one card, send pass to pass")
			return nil
		}
		return c.table.Play(c, data.Cards)

	case MessageTypePass:
		return c.table.Pass(c)

	case MessageTypeChat:
		var data ChatData
		if err := msg.Decode(&data); err != nil {
			c.sendError("invalid_message", "failed to parse chat data")
			return nil
		}
		return c.table.Chat(c, data.Text)

	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type.String())
		return nil
	}
}

func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.Send(msg)
}
