// Package ingest accepts WebSocket connections from pose-estimation feeds
// and routes their landmark frames into the session pipeline.
package ingest

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/protocol"
)

// Feed is one connected pose-estimation source.
type Feed struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send writes a message to the feed.
func (f *Feed) Send(msg *protocol.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	return f.Conn.WriteMessage(websocket.TextMessage, data)
}

// LandmarkHandler consumes one decoded landmark frame.
type LandmarkHandler func(feedID string, data *protocol.LandmarkData)

// Hub manages pose feed connections.
type Hub struct {
	mu          sync.RWMutex
	feeds       map[string]*Feed
	onLandmarks LandmarkHandler

	messagesReceived atomic.Uint64
	framesReceived   atomic.Uint64
	framesDropped    atomic.Uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{feeds: make(map[string]*Feed)}
}

// OnLandmarks sets the callback for incoming landmark frames.
func (h *Hub) OnLandmarks(handler LandmarkHandler) {
	h.mu.Lock()
	h.onLandmarks = handler
	h.mu.Unlock()
}

// RegisterRoutes mounts the feed endpoint on a Fiber app.
func (h *Hub) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/pose", websocket.New(h.handleFeed))
	app.Get("/ws/pose/:id", websocket.New(h.handleFeed))
}

// handleFeed owns one feed connection for its lifetime.
func (h *Hub) handleFeed(c *websocket.Conn) {
	feedID := c.Params("id")
	if feedID == "" {
		feedID = uuid.NewString()[:8]
	}

	feed := &Feed{
		ID:        feedID,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	h.mu.Lock()
	h.feeds[feedID] = feed
	count := len(h.feeds)
	h.mu.Unlock()
	log.Info("ingest: feed connected", "feed_id", feedID, "total", count)

	defer func() {
		h.mu.Lock()
		delete(h.feeds, feedID)
		count := len(h.feeds)
		h.mu.Unlock()
		log.Info("ingest: feed disconnected", "feed_id", feedID, "total", count)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			log.Debug("ingest: read error", "feed_id", feedID, "error", err)
			return
		}

		feed.mu.Lock()
		feed.LastSeen = time.Now()
		feed.mu.Unlock()

		h.messagesReceived.Add(1)
		h.handleMessage(feed, data)
	}
}

// handleMessage dispatches one raw message. Malformed frames are dropped,
// never fatal; the next frame supersedes them anyway.
func (h *Hub) handleMessage(feed *Feed, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		h.framesDropped.Add(1)
		log.Debug("ingest: parse error", "feed_id", feed.ID, "error", err)
		return
	}

	switch msg.Type {
	case protocol.TypeLandmarks:
		h.mu.RLock()
		handler := h.onLandmarks
		h.mu.RUnlock()
		if handler == nil {
			return
		}

		var lm protocol.LandmarkData
		if err := msg.ParseData(&lm); err != nil {
			h.framesDropped.Add(1)
			log.Debug("ingest: bad landmark payload", "feed_id", feed.ID, "error", err)
			return
		}
		h.framesReceived.Add(1)
		handler(feed.ID, &lm)

	case protocol.TypePing:
		if err := feed.Send(protocol.NewPong()); err != nil {
			log.Debug("ingest: pong failed", "feed_id", feed.ID, "error", err)
		}
	}
}

// FeedCount returns the number of connected feeds.
func (h *Hub) FeedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.feeds)
}

// Stats is a snapshot of hub counters.
type Stats struct {
	FeedCount        int    `json:"feed_count"`
	MessagesReceived uint64 `json:"messages_received"`
	FramesReceived   uint64 `json:"frames_received"`
	FramesDropped    uint64 `json:"frames_dropped"`
}

// GetStats returns hub statistics.
func (h *Hub) GetStats() Stats {
	return Stats{
		FeedCount:        h.FeedCount(),
		MessagesReceived: h.messagesReceived.Load(),
		FramesReceived:   h.framesReceived.Load(),
		FramesDropped:    h.framesDropped.Load(),
	}
}
