package engine

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	_errors "github.com/zishang520/engine.io-client-ws/errors"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
)

var client_conn_log = log.NewLog("engine.io-client:conn")

const (
	DefaultConnPingInterval = 25 * time.Second

	writeWait = 10 * time.Second
)

// wsConn is a Conn over gorilla/websocket.
type wsConn struct {
	opts   *ConnOptions
	events *ConnEvents

	ws     *websocket.Conn
	cancel context.CancelFunc
	closed bool
	mu     sync.Mutex

	// serializes data frames
	mu_write sync.Mutex

	closeOnce sync.Once
}

// NewWebSocketConn is the default ConnFactory.
func NewWebSocketConn(opts *ConnOptions, events *ConnEvents) Conn {
	if opts == nil {
		opts = &ConnOptions{PingEnabled: true}
	}
	return &wsConn{opts: opts, events: events}
}

func (c *wsConn) Generation() uint64 {
	return c.opts.Generation
}

// Opens socket.
func (c *wsConn) Open(uri string, protocols []string, extensions []string) {
	c.mu.Lock()
	if c.closed || c.cancel != nil {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.dial(ctx, uri, protocols, extensions)
}

func (c *wsConn) dial(ctx context.Context, uri string, protocols []string, extensions []string) {
	u, err := url.Parse(uri)
	if err != nil {
		c.onClosed(CloseAbnormalClosure, err.Error())
		return
	}
	header := http.Header{}
	for k, v := range c.opts.ExtraHeaders {
		header.Set(k, v)
	}
	if c.opts.BeforeRequest != nil {
		c.opts.BeforeRequest(u, header)
	}

	dialer := &websocket.Dialer{
		Proxy:             http.ProxyFromEnvironment,
		HandshakeTimeout:  c.opts.HandshakeTimeout,
		Subprotocols:      protocols,
		TLSClientConfig:   c.opts.TLSClientConfig,
		EnableCompression: c.opts.Compression || slices.Contains(extensions, "permessage-deflate"),
	}
	client_conn_log.Debug("dialing %s", u.String())
	ws, _, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		client_conn_log.Debug("dial error: %s", err.Error())
		if c.isClosed() {
			c.onClosed(CloseNormalClosure, "connection closed")
			return
		}
		c.onClosed(CloseAbnormalClosure, err.Error())
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		ws.Close()
		c.onClosed(CloseNormalClosure, "connection closed")
		return
	}
	c.ws = ws
	c.mu.Unlock()

	if c.events.OnOpen != nil {
		c.events.OnOpen(c)
	}
	if c.opts.PingEnabled {
		interval := c.opts.PingInterval
		if interval <= 0 {
			interval = DefaultConnPingInterval
		}
		go c.keepAlive(ctx, ws, interval)
	}
	c.readLoop(ws)
}

func (c *wsConn) readLoop(ws *websocket.Conn) {
	for {
		mt, message, err := ws.NextReader()
		if err != nil {
			code, text := CloseAbnormalClosure, err.Error()
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				code, text = closeErr.Code, closeErr.Text
			} else if c.isClosed() {
				code, text = CloseNormalClosure, "connection closed"
			}
			c.onClosed(code, text)
			return
		}
		switch mt {
		case websocket.TextMessage:
			read, err := types.NewStringBufferReader(message)
			if err != nil {
				client_conn_log.Debug("websocket read error: %s", err.Error())
				continue
			}
			if c.events.OnMessage != nil {
				c.events.OnMessage(c, read.String())
			}
		case websocket.BinaryMessage:
			read, err := types.NewBytesBufferReader(message)
			if err != nil {
				client_conn_log.Debug("websocket read error: %s", err.Error())
				continue
			}
			if c.events.OnBinaryMessage != nil {
				c.events.OnBinaryMessage(c, read.Bytes())
			}
		}
	}
}

func (c *wsConn) keepAlive(ctx context.Context, ws *websocket.Conn, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				client_conn_log.Debug("websocket ping error: %s", err.Error())
				return
			}
		}
	}
}

func (c *wsConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *wsConn) onClosed(code int, message string) {
	c.closeOnce.Do(func() {
		if c.events.OnClosed != nil {
			c.events.OnClosed(c, code, message)
		}
	})
}

func (c *wsConn) SendText(data string) error {
	return c.send(websocket.TextMessage, []byte(data))
}

func (c *wsConn) SendBinary(data []byte) error {
	return c.send(websocket.BinaryMessage, data)
}

func (c *wsConn) SendAsBinary(data []byte) error {
	return c.send(websocket.BinaryMessage, data)
}

func (c *wsConn) send(mt int, data []byte) error {
	c.mu.Lock()
	ws, closed := c.ws, c.closed
	c.mu.Unlock()

	if closed {
		return _errors.ErrConnClosed
	}
	if ws == nil {
		return _errors.ErrNotConnected
	}

	c.mu_write.Lock()
	defer c.mu_write.Unlock()

	if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	ws.EnableWriteCompression(len(data) >= c.opts.CompressionThreshold)
	return ws.WriteMessage(mt, data)
}

// Closes socket.
func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	ws, cancel := c.ws, c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ws != nil {
		if err := ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		); err != nil {
			client_conn_log.Debug("websocket close frame error: %s", err.Error())
		}
		ws.Close()
	}
}
