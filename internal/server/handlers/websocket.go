// internal/server/handlers/websocket.go

package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:  10 * time.Second,
		PongWait:   60 * time.Second,
		PingPeriod: (60 * time.Second * 9) / 10,
	}
}

// upgrader is used to upgrade HTTP connections to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// In production, this should be more restrictive
		return true
	},
}

// postFeedClient is one connected consumer of the live post feed
type postFeedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	sub    *nats.Subscription
	logger zerolog.Logger
}

// PostFeedHandler streams post-generated events from the event bus to
// WebSocket clients.
func PostFeedHandler(natsConn *nats.Conn, topic string, logger zerolog.Logger) http.HandlerFunc {
	feedLogger := logger.With().Str("component", "post_feed").Logger()

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			feedLogger.Warn().Err(err).Msg("failed to upgrade to WebSocket")
			return
		}

		client := &postFeedClient{
			conn:   conn,
			send:   make(chan []byte, 256),
			logger: feedLogger,
		}

		sub, err := natsConn.Subscribe(topic, func(msg *nats.Msg) {
			select {
			case client.send <- msg.Data:
			default:
				// Slow consumer; drop the event rather than block the bus
			}
		})
		if err != nil {
			feedLogger.Error().Err(err).Str("topic", topic).Msg("failed to subscribe to post events")
			conn.Close()
			return
		}
		client.sub = sub

		feedLogger.Info().Str("remote", r.RemoteAddr).Msg("post feed client connected")

		go client.writePump()
		go client.readPump()
	}
}

// readPump consumes control frames and detects client disconnects
func (c *postFeedClient) readPump() {
	config := DefaultWebSocketConfig()

	defer c.closeConnection()

	c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("WebSocket read error")
			}
			return
		}
	}
}

// writePump pumps post events to the WebSocket connection
func (c *postFeedClient) writePump() {
	config := DefaultWebSocketConfig()
	ticker := time.NewTicker(config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// closeConnection unsubscribes from the event bus and closes the socket
func (c *postFeedClient) closeConnection() {
	if c.sub != nil {
		c.sub.Unsubscribe()
		c.sub = nil
	}
	c.conn.Close()
}
