package stream

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrConnClosed is returned when reading or writing a closed WebSocket stream
var ErrConnClosed = errors.New("stream: connection is closed")

// WSConn adapts a WebSocket connection to an io.ReadWriteCloser so it can be
// used as a relay source or destination.
//
// Each Write is delivered as one binary message. When a relay with per-line
// flushing writes to a WSConn, every output line arrives at the peer as its
// own message. Reads return message payloads in order, carrying leftover
// bytes over to the next Read when the caller's buffer is smaller than a
// message.
type WSConn struct {
	conn   *websocket.Conn
	buffer []byte
	mu     sync.Mutex
	closed bool
}

// NewWSConn wraps an established WebSocket connection. The adapter takes
// ownership: closing it closes the underlying connection.
func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

// Read reads data from the connection
func (c *WSConn) Read(p []byte) (n int, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, io.EOF
	}

	// Drain buffered remainder of the previous message first
	if len(c.buffer) > 0 {
		n = copy(p, c.buffer)
		c.buffer = c.buffer[n:]
		c.mu.Unlock()
		return n, nil
	}
	c.mu.Unlock()

	messageType, data, err := c.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return 0, io.EOF
		}
		return 0, err
	}

	if messageType != websocket.BinaryMessage && messageType != websocket.TextMessage {
		return 0, fmt.Errorf("stream: unexpected message type: %d", messageType)
	}

	n = copy(p, data)
	if n < len(data) {
		c.mu.Lock()
		c.buffer = data[n:]
		c.mu.Unlock()
	}

	return n, nil
}

// Write writes data to the connection as a single binary message
func (c *WSConn) Write(p []byte) (n int, err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, ErrConnClosed
	}
	c.mu.Unlock()

	if err := c.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Close closes the underlying connection. Further reads return io.EOF and
// further writes return ErrConnClosed. Closing twice is a no-op.
func (c *WSConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	return c.conn.Close()
}

var _ io.ReadWriteCloser = (*WSConn)(nil)
