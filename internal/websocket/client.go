package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// pingPeriod must stay below pongWait so the peer's deadline keeps moving
	pingPeriod = pongWait * 9 / 10

	// Clients never send payloads, only control frames
	maxInboundSize = 512

	// sendBufferSize is how many events may queue before a client is evicted
	sendBufferSize = 256
)

// Client is one user's push-only connection. Events are queued with Send
// and flushed by the writer goroutine started in Serve. A client that falls
// sendBufferSize events behind is closed rather than allowed to block the
// hub.
type Client struct {
	id     string
	userID uuid.UUID
	conn   *websocket.Conn
	hub    *Hub
	logger zerolog.Logger

	queue chan []byte
	done  chan struct{}
	once  sync.Once
}

// NewClient wraps an upgraded connection owned by userID
func NewClient(conn *websocket.Conn, userID uuid.UUID, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:     id,
		userID: userID,
		conn:   conn,
		hub:    hub,
		logger: log.With().Str("client_id", id).Str("user_id", userID.String()).Logger(),
		queue:  make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Send queues data for delivery. It never blocks: a closed client returns
// ErrClientClosed and a client with a full queue is evicted with
// ErrClientSlow.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.queue <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		c.logger.Warn().Int("queued", len(c.queue)).Msg("WebSocket client too slow, evicting")
		c.evict()
		return ErrClientSlow
	}
}

// Close stops both goroutines and releases the connection.
// It is idempotent.
func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
	})
	return err
}

// IsClosed reports whether Close has run
func (c *Client) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Serve starts the writer and reader goroutines. The client removes itself
// from the hub when the peer disconnects.
func (c *Client) Serve() {
	go c.writeLoop()
	go c.readLoop()
}

func (c *Client) evict() {
	if c.hub != nil {
		c.hub.Unregister(c)
	}
	_ = c.Close()
}

// readLoop only exists to process pongs and notice disconnects
func (c *Client) readLoop() {
	defer c.evict()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("WebSocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.queue:
			if err := c.write(websocket.TextMessage, message); err != nil {
				c.logger.Warn().Err(err).Msg("WebSocket write failed")
				c.evict()
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("WebSocket ping failed")
				c.evict()
				return
			}
		}
	}
}

func (c *Client) write(messageType int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
