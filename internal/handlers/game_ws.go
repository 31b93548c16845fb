// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
	"github.com/jason-s-yu/thirtyseconds/internal/middleware"
)

// Subprotocol is the websocket subprotocol clients must request.
const Subprotocol = "thirtyseconds"

// WSOptions configures the game websocket endpoint.
type WSOptions struct {
	OriginPatterns    []string
	MessagesPerSecond float64
	Burst             int
}

// GameWSHandler upgrades the request and serves one client until it disconnects.
// A client may join by sending join_game, or up front with ?session=CODE&role=ROLE.
func GameWSHandler(logger *logrus.Logger, rt *Router, opts WSOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{Subprotocol},
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "handler finished")

		if conn.Subprotocol() != Subprotocol {
			conn.Close(BadSubprotocolError, "client must speak the "+Subprotocol+" subprotocol")
			return
		}

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		c := NewClient(r.RemoteAddr, opts.MessagesPerSecond, opts.Burst)
		rt.Register(c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go writePump(ctx, conn, c, logger.WithField("client", c.ID))

		if code := r.URL.Query().Get("session"); code != "" {
			if err := rt.Dispatch(c, InboundMessage{Type: "join_game", SessionID: code, Role: r.URL.Query().Get("role")}); err != nil {
				c.WriteError(err)
				c.Close(InvalidSessionError, err.Error())
			}
		}

		err = readMessages(ctx, conn, rt, c, logger)
		rt.Unregister(c)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
	}
}

// readMessages decodes inbound events and dispatches them until the connection
// fails. Rejected events are answered with an error event to the sender only.
func readMessages(ctx context.Context, conn *websocket.Conn, rt *Router, c *Client, logger *logrus.Logger) error {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			logger.Warnf("ignoring non-text message from client %s", c.ID)
			continue
		}
		if !c.Allow() {
			c.WriteError(&game.ValidationError{Msg: "too many messages, slow down"})
			continue
		}

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.WriteError(&game.ValidationError{Msg: "invalid JSON format"})
			continue
		}

		sessionID, _ := c.Binding()
		entry := logger.WithFields(logrus.Fields{"client": c.ID, "session": sessionID, "event": msg.Type})
		if err := rt.Dispatch(c, msg); err != nil {
			entry.Debugf("rejected: %v", err)
			c.WriteError(err)
			continue
		}
		entry.Debug("accepted")
	}
}
