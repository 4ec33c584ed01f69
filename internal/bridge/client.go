// ABOUTME: Websocket client for sending controller events to a bridge
// ABOUTME: Used by padsend and by tests exercising the server
package bridge

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// Client is a connection to a bridge. Send is safe for concurrent use.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// URL builds the websocket URL for a bridge at host:port
func URL(addr string) string {
	u := url.URL{Scheme: "ws", Host: addr, Path: Path}
	return u.String()
}

// Dial connects to the bridge websocket at rawURL
func Dial(ctx context.Context, rawURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rawURL, err)
	}
	return &Client{conn: conn}, nil
}

// Send writes one controller event
func (c *Client) Send(ev controller.Event) error {
	data, err := controller.Marshal(ev)
	if err != nil {
		return err
	}
	return c.SendRaw(data)
}

// SendRaw writes a text message as is
func (c *Client) SendRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send controller event: %w", err)
	}
	return nil
}

// Close sends a close frame and closes the connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}
