package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ShelfPrice/internal/domain/models"
	drepo "ShelfPrice/internal/domain/repository"
	"ShelfPrice/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements an InventoryStream backed by the store inventory
// WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	categories     []string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *logger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// New creates a new inventory feed stream.
func New(apiKey, websocketURL string, categories []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.InventoryStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		categories:     categories,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.apiKey != "" {
		u = fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("inventory connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.log.Info("inventory: connected", logger.String("url", c.websocketURL))
	return nil
}

// Subscribe subscribes to the configured product categories.
func (c *Client) Subscribe(ctx context.Context) error {
	c.mu.Lock()
	conn, ok := c.conn, c.connected
	c.mu.Unlock()
	if conn == nil || !ok {
		return fmt.Errorf("inventory stream not connected")
	}
	for _, cat := range c.categories {
		msg := map[string]string{"type": "subscribe", "category": cat}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", cat, err)
		}
		c.log.Info("inventory: subscribed", logger.String("category", cat))
	}
	return nil
}

type feedMessage struct {
	Type string                   `json:"type"`
	Data []models.SnapshotMessage `json:"data"`
}

// Read streams product snapshots and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.ProductSnapshot, <-chan error) {
	snapshots := make(chan *models.ProductSnapshot, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(snapshots)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn == nil {
					errs <- fmt.Errorf("inventory conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("inventory read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-snapshot frames
					continue
				}
				if m.Type != "snapshot" {
					continue
				}
				for _, d := range m.Data {
					snap := d.Snapshot()
					select {
					case snapshots <- &snap:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return snapshots, errs
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
