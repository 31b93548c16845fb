// internal/handlers/client.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
)

const (
	outboxSize   = 64
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// Client is one websocket connection. It is bound to at most one session at a time.
type Client struct {
	ID     uuid.UUID
	Remote string

	OutChan chan game.GameEvent
	limiter *rate.Limiter

	mu        sync.Mutex
	sessionID string
	role      game.Role
	closed    bool
	closeCode websocket.StatusCode
	closeMsg  string
}

// NewClient returns an unbound client allowed perSecond inbound messages with the given burst.
func NewClient(remote string, perSecond float64, burst int) *Client {
	return &Client{
		ID:        uuid.New(),
		Remote:    remote,
		OutChan:   make(chan game.GameEvent, outboxSize),
		limiter:   rate.NewLimiter(rate.Limit(perSecond), burst),
		closeCode: websocket.StatusNormalClosure,
	}
}

// Write queues ev without blocking. It reports false if the client is closed or
// its outbox is full.
func (c *Client) Write(ev game.GameEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.OutChan <- ev:
		return true
	default:
		return false
	}
}

// WriteError queues an error event for this client only.
func (c *Client) WriteError(err error) bool {
	return c.Write(game.ErrorEvent(err))
}

// Close stops accepting events. The write pump drains what is queued and then
// closes the connection with code.
func (c *Client) Close(code websocket.StatusCode, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.closeCode = code
	c.closeMsg = reason
	close(c.OutChan)
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Binding returns the session and role the client joined as.
func (c *Client) Binding() (string, game.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.role
}

func (c *Client) bind(sessionID string, role game.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
	c.role = role
}

// Allow reports whether another inbound message fits the client's rate.
func (c *Client) Allow() bool {
	return c.limiter.Allow()
}

// writePump sends queued events and periodic pings until the outbox closes or ctx ends.
func writePump(ctx context.Context, conn *websocket.Conn, c *Client, logger logrus.FieldLogger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-c.OutChan:
			if !ok {
				c.mu.Lock()
				code, reason := c.closeCode, c.closeMsg
				c.mu.Unlock()
				conn.Close(code, reason)
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("failed to marshal %s for client %s: %v", ev.Type, c.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("failed to write to client %s: %v", c.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping to client %s failed: %v, assuming disconnect", c.ID, err)
				return
			}
		}
	}
}
