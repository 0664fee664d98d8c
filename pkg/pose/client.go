package pose

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// FrameHandler receives one landmark frame from the estimator stream.
type FrameHandler func(frameID uint64, frame Frame)

// Client connects out to a pose-estimation service that streams landmark
// frames over WebSocket. Frames are delivered on the read goroutine; the
// handler must not block for longer than one frame interval.
type Client struct {
	url string

	ws      *websocket.Conn
	writeMu sync.Mutex

	mu        sync.Mutex
	connected bool
	closed    bool

	onFrame FrameHandler
	onError func(err error)

	// Stats
	framesReceived uint64
}

// NewClient creates a client for the given ws:// or wss:// URL.
func NewClient(url string) *Client {
	return &Client{url: url}
}

// OnFrame sets the landmark frame callback. Must be called before Connect.
func (c *Client) OnFrame(fn FrameHandler) {
	c.onFrame = fn
}

// OnError sets the error callback for read failures.
func (c *Client) OnError(fn func(err error)) {
	c.onError = fn
}

// Connect dials the estimator and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return fmt.Errorf("pose: already connected")
	}
	c.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("pose: dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.ws = ws
	c.connected = true
	c.closed = false
	c.mu.Unlock()

	go c.readLoop()
	return nil
}

// IsConnected reports whether the client currently has a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// FramesReceived returns the number of frames delivered so far.
func (c *Client) FramesReceived() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.framesReceived
}

// Close shuts down the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.connected = false
	if c.ws != nil {
		return c.ws.Close()
	}
	return nil
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.connected = false
			c.mu.Unlock()
			if !closed && c.onError != nil {
				c.onError(fmt.Errorf("pose: read: %w", err))
			}
			return
		}

		frameID, frame, err := decodeLandmarks(data)
		if err != nil {
			// A malformed frame yields no rep progress, never a crash.
			continue
		}

		c.mu.Lock()
		c.framesReceived++
		c.mu.Unlock()

		if c.onFrame != nil {
			c.onFrame(frameID, frame)
		}
	}
}
