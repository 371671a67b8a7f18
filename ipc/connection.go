package ipc

import (
	"context"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope and returns the envelopes to send
// back, in order. Return nil to send nothing.
type Handler func(ctx context.Context, env Envelope) ([]Envelope, error)

// Connection represents a single game mod instance talking to the sidecar.
// Each player gets its own connection, identified after the hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
	Player   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) write(envs ...Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelopes(c.conn, envs...)
}

// ReadLoop blocks until the connection closes, errors, or ctx is done. It
// owns the conn lifetime so callers don't need to track cleanup.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.conn.Close()
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "player", c.Player, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}

		resp, err := handler(ctx, env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}

		if len(resp) > 0 {
			if err := c.write(resp...); err != nil {
				slog.Error("failed to send response", "type", env.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", env.Type, "envelopes", len(resp), "player", c.Player)
		}
	}
}
