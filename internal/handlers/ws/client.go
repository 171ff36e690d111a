package ws

import (
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const sendBuffer = 256

// client is one live connection bound to a room seat
type client struct {
	handler *Handler

	roomID       string
	connID       string
	name         string
	sessionToken string

	conn    Conn
	send    chan []byte
	limiter *rate.Limiter

	closeOnce sync.Once
	closeMu   sync.Mutex
	closed    bool
}

func newClient(h *Handler, conn Conn, roomID, connID, name, sessionToken string) *client {
	return &client{
		handler:      h,
		roomID:       roomID,
		connID:       connID,
		name:         name,
		sessionToken: sessionToken,
		conn:         conn,
		send:         make(chan []byte, sendBuffer),
		// generous burst so stroke batches are not throttled
		limiter: rate.NewLimiter(rate.Limit(25), 50),
	}
}

// enqueue drops the message when the client's buffer is full rather than
// blocking a broadcast on one slow reader. A late broadcast racing the
// disconnect must not hit a closed channel.
func (c *client) enqueue(data []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once, ending the write pump
func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		c.closeMu.Lock()
		c.closed = true
		c.closeMu.Unlock()
		close(c.send)
	})
}

// readPump feeds inbound packets to the handler until the connection dies,
// then reports the disconnect
func (c *client) readPump() {
	defer c.handler.disconnect(c)

	for {
		data, err := c.conn.Read()
		if err != nil {
			return
		}

		if !c.limiter.Allow() {
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		c.handler.dispatch(c, &env)
	}
}

// writePump drains the send buffer and keeps the connection alive with
// pings. A closed send channel or a write error ends the pump.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close("")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.Write(data); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(); err != nil {
				return
			}
		}
	}
}
