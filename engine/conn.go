package engine

import (
	"crypto/tls"
	"time"

	"github.com/zishang520/engine.io-client-ws/config"
)

// Conn is a duplex message channel owned by exactly one transport.
type Conn interface {
	// Generation the owning transport assigned to this connection.
	Generation() uint64
	// Open starts connecting. Completion is reported through ConnEvents.
	Open(uri string, protocols []string, extensions []string)
	Close()
	// SendText writes a text frame.
	SendText(data string) error
	// SendBinary writes an attachment as a binary frame.
	SendBinary(data []byte) error
	// SendAsBinary writes a primary payload as a binary frame.
	SendAsBinary(data []byte) error
}

// ConnEvents are the callbacks a Conn raises, each tagged with the raising
// connection so stale deliveries can be told apart.
type ConnEvents struct {
	OnOpen          func(c Conn)
	OnMessage       func(c Conn, text string)
	OnBinaryMessage func(c Conn, data []byte)
	OnClosed        func(c Conn, code int, message string)
}

type ConnOptions struct {
	Generation uint64

	// Keep-alive pings. PingInterval is ignored when PingEnabled is false;
	// zero selects DefaultConnPingInterval.
	PingEnabled  bool
	PingInterval time.Duration

	// permessage-deflate. Frames shorter than CompressionThreshold are
	// written uncompressed.
	Compression          bool
	CompressionThreshold int

	HandshakeTimeout time.Duration
	TLSClientConfig  *tls.Config
	ExtraHeaders     map[string]string
	BeforeRequest    config.BeforeRequest
}

// ConnFactory constructs the Conn a transport opens.
type ConnFactory func(opts *ConnOptions, events *ConnEvents) Conn

// Close codes (RFC 6455).
const (
	CloseNormalClosure   = 1000
	CloseGoingAway       = 1001
	CloseAbnormalClosure = 1006
)
