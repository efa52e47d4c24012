package engine

import (
	"net/url"
	"sync"

	"github.com/zishang520/engine.io-client-ws/config"
)

type fakeManager struct {
	uri       *url.URL
	opts      *config.SocketOptions
	handshake *HandshakeData

	mu            sync.Mutex
	upgrading     TransportInterface
	packets       []*IncomingPacket
	probed        []TransportInterface
	errors        []string
	cleared       int
	reconnects    int
	panicOnPacket bool
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		uri:  &url.URL{Scheme: "http", Host: "localhost:3000", Path: "/engine.io/"},
		opts: config.DefaultSocketOptions(),
	}
}

func (m *fakeManager) URI() *url.URL {
	u := *m.uri
	return &u
}

func (m *fakeManager) Protocol() int { return 4 }
func (m *fakeManager) Handshake() *HandshakeData { return m.handshake }
func (m *fakeManager) Opts() config.SocketOptionsInterface { return m.opts }

func (m *fakeManager) Upgrading() TransportInterface {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.upgrading
}

func (m *fakeManager) setUpgrading(t TransportInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upgrading = t
}

func (m *fakeManager) ClearUpgrading(t TransportInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.upgrading != nil && m.upgrading == t {
		m.upgrading = nil
		m.cleared++
	}
}

func (m *fakeManager) OnTransportError(t TransportInterface, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors = append(m.errors, message)
}

func (m *fakeManager) OnTransportProbed(t TransportInterface) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.probed = append(m.probed, t)
}

func (m *fakeManager) OnPacket(p *IncomingPacket) {
	m.mu.Lock()
	m.packets = append(m.packets, p)
	panicking := m.panicOnPacket
	m.mu.Unlock()

	if panicking {
		panic("listener failure")
	}
}

func (m *fakeManager) Reconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reconnects++
}

type frame struct {
	kind string // "text", "binary" or "asBinary"
	data string
}

// fakeConn records writes; tests raise its events by hand.
type fakeConn struct {
	opts   *ConnOptions
	events *ConnEvents

	mu         sync.Mutex
	uri        string
	protocols  []string
	extensions []string
	opened     int
	closed     int
	frames     []frame
}

func (c *fakeConn) Generation() uint64 { return c.opts.Generation }

func (c *fakeConn) Open(uri string, protocols []string, extensions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.uri, c.protocols, c.extensions = uri, protocols, extensions
	c.opened++
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed++
}

func (c *fakeConn) record(kind string, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = append(c.frames, frame{kind, data})
	return nil
}

func (c *fakeConn) SendText(data string) error { return c.record("text", data) }
func (c *fakeConn) SendBinary(data []byte) error { return c.record("binary", string(data)) }
func (c *fakeConn) SendAsBinary(data []byte) error { return c.record("asBinary", string(data)) }

func (c *fakeConn) sent() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]frame(nil), c.frames...)
}

func (c *fakeConn) raiseOpen() { c.events.OnOpen(c) }
func (c *fakeConn) raiseText(text string) { c.events.OnMessage(c, text) }
func (c *fakeConn) raiseBinary(data []byte) { c.events.OnBinaryMessage(c, data) }
func (c *fakeConn) raiseClosed(code int, message string) {
	c.events.OnClosed(c, code, message)
}

type connRecorder struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (r *connRecorder) factory(opts *ConnOptions, events *ConnEvents) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &fakeConn{opts: opts, events: events}
	r.conns = append(r.conns, c)
	return c
}

func (r *connRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.conns)
}

func (r *connRecorder) last() *fakeConn {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.conns) == 0 {
		return nil
	}
	return r.conns[len(r.conns)-1]
}
