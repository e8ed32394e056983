package websocket

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// ClientMessageHandler processes messages a client sends over its
// connection. Implemented outside this package to avoid pulling usecases
// into the infrastructure layer.
type ClientMessageHandler interface {
	HandleClientMessage(client *Client, message []byte)
}

// Client represents one WebSocket connection.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu        sync.Mutex
	subs      map[string]func()
	sendOnce  sync.Once
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		subs:   make(map[string]func()),
	}
}

// AddSubscription registers a live-subscription stop function under a key,
// replacing (and stopping) any previous subscription with the same key.
func (c *Client) AddSubscription(key string, stop func()) {
	c.mu.Lock()
	previous := c.subs[key]
	c.subs[key] = stop
	c.mu.Unlock()

	if previous != nil {
		previous()
	}
}

// StopSubscription stops and forgets the subscription under key, if any.
func (c *Client) StopSubscription(key string) {
	c.mu.Lock()
	stop := c.subs[key]
	delete(c.subs, key)
	c.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// CloseSubscriptions stops every live subscription held by this connection.
// Called on teardown so listeners never outlive the socket.
func (c *Client) CloseSubscriptions() {
	c.mu.Lock()
	stops := make([]func(), 0, len(c.subs))
	for _, stop := range c.subs {
		stops = append(stops, stop)
	}
	c.subs = make(map[string]func())
	c.mu.Unlock()

	for _, stop := range stops {
		stop()
	}
}

func (c *Client) closeSend() {
	c.sendOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump reads messages from the connection and dispatches them to the
// handler until the connection drops.
func (c *Client) ReadPump(m *Manager, h ClientMessageHandler) {
	defer func() {
		m.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for user %s: %v", c.UserID, err)
			}
			break
		}

		h.HandleClientMessage(c, message)
	}
}

// WritePump sends queued messages to the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error for user %s: %v", c.UserID, err)
			return
		}
	}
}
