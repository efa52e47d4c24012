package engine

import (
	"sync"

	"github.com/zishang520/engine.io-go-parser/packet"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
)

var client_websocket_log = log.NewLog("engine.io-client:websocket")

type WS struct {
	*Transport

	codec   Codec
	newConn ConnFactory
	events  *ConnEvents

	// guarded by Transport.mu
	conn       Conn
	generation uint64
	probed     bool

	// keeps a packet's frames contiguous
	mu_write sync.Mutex
}

// WebSocket transport constructor.
func NewWS(manager TransportManager, codec Codec, newConn ConnFactory) *WS {
	if codec == nil {
		codec = NewCodec()
	}
	if newConn == nil {
		newConn = NewWebSocketConn
	}
	w := &WS{
		Transport: NewTransport(manager),
		codec:     codec,
		newConn:   newConn,
	}
	w.events = &ConnEvents{
		OnOpen:          w.onConnOpen,
		OnMessage:       w.onConnMessage,
		OnBinaryMessage: w.onConnBinaryMessage,
		OnClosed:        w.onConnClosed,
	}
	return w
}

// Transport name.
func (w *WS) Name() string {
	return "websocket"
}

// Opens socket.
func (w *WS) Open() {
	w.mu.Lock()
	if w._readyState != ReadyStateClosed {
		w.mu.Unlock()
		return
	}
	old := w.conn
	w.generation++
	conn := w.newConn(w.connOptions(w.generation), w.events)
	w.conn = conn
	w.probed = false
	w.setReadyState(ReadyStateConnecting)
	w.mu.Unlock()

	if old != nil {
		old.Close()
	}

	uri := transportURI(w.manager, w.Name())
	client_websocket_log.Debug("transport %s opening %s", w.id, uri)
	opts := w.manager.Opts()
	conn.Open(uri, opts.Protocols(), opts.Extensions())
}

func (w *WS) connOptions(generation uint64) *ConnOptions {
	opts := w.manager.Opts()
	connOpts := &ConnOptions{
		Generation:       generation,
		PingEnabled:      true,
		HandshakeTimeout: opts.HandshakeTimeout(),
		TLSClientConfig:  opts.TLSClientConfig(),
		ExtraHeaders:     opts.ExtraHeaders(),
		BeforeRequest:    opts.BeforeRequest(),
	}
	if perMessageDeflate := opts.PerMessageDeflate(); perMessageDeflate != nil {
		connOpts.Compression = true
		connOpts.CompressionThreshold = perMessageDeflate.Threshold
	}
	if interval := opts.GetRawPingInterval(); interval != nil {
		if *interval > 0 {
			connOpts.PingInterval = *interval
		} else {
			connOpts.PingEnabled = false
		}
	}
	return connOpts
}

// Closes socket.
func (w *WS) Close() {
	w.mu.Lock()
	if w._readyState == ReadyStateClosed {
		w.mu.Unlock()
		return
	}
	// Flip first: anything the teardown raises must see "closed".
	w.setReadyState(ReadyStateClosed)
	conn := w.conn
	w.conn = nil
	w.mu.Unlock()

	if conn == nil {
		client_websocket_log.Warning("transport %s closed without a connection", w.id)
		return
	}
	conn.Close()
}

// Poll does nothing, the websocket pushes every frame as it arrives.
func (w *WS) Poll() {}

// Pause stops writes. The websocket has no pending requests to drain, so
// onPause runs right away.
func (w *WS) Pause(onPause func()) {
	w.mu.Lock()
	if w._readyState != ReadyStateClosed {
		w.setReadyState(ReadyStatePaused)
	}
	w.mu.Unlock()

	if onPause != nil {
		onPause()
	}
}

// Send writes the primary payload, then every attachment in order.
func (w *WS) Send(p *OutgoingPacket) {
	if p == nil || p.Data == nil {
		return
	}

	w.mu.Lock()
	readyState, conn := w._readyState, w.conn
	w.mu.Unlock()

	if readyState == ReadyStateClosed || readyState == ReadyStatePaused {
		client_websocket_log.Debug(`transport %s is "%s", discarding %s packet`, w.id, readyState, p.Type)
		return
	}
	if conn == nil {
		client_websocket_log.Debug("transport %s has no connection, discarding %s packet", w.id, p.Type)
		return
	}

	w.mu_write.Lock()
	defer w.mu_write.Unlock()

	var err error
	if p.Binary {
		err = conn.SendAsBinary(p.Data.Bytes())
	} else {
		err = conn.SendText(p.Data.String())
	}
	if err != nil {
		client_websocket_log.Debug("websocket send error: %s", err.Error())
		return
	}
	for _, attachment := range p.Attachments {
		if err := conn.SendBinary(attachment.Bytes()); err != nil {
			client_websocket_log.Debug("websocket send error: %s", err.Error())
			return
		}
	}
}

// SendAll sends packets in order and takes ownership of them: every
// element of the slice is nil on return.
func (w *WS) SendAll(packets []*OutgoingPacket) {
	for _, p := range packets {
		w.Send(p)
	}
	clear(packets)
}

// Caller must hold mu.
func (w *WS) ownsLocked(generation uint64) bool {
	return w.conn != nil && w.generation == generation
}

func (w *WS) owns(generation uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.ownsLocked(generation)
}

// isUpgrading re-reads the manager's candidate register on every call.
func (w *WS) isUpgrading() bool {
	upgrading := w.manager.Upgrading()
	return upgrading != nil && upgrading == TransportInterface(w)
}

func (w *WS) onConnOpen(c Conn) {
	w.mu.Lock()
	if !w.ownsLocked(c.Generation()) {
		w.mu.Unlock()
		client_websocket_log.Debug("transport %s ignoring open from stale connection", w.id)
		return
	}
	// a pause requested while connecting holds
	if w._readyState != ReadyStatePaused {
		w.setReadyState(ReadyStateOpening)
	}
	w.mu.Unlock()

	if w.isUpgrading() {
		w.sendProbe()
	}
}

func (w *WS) onConnMessage(c Conn, text string) {
	if !w.owns(c.Generation()) {
		return
	}
	w.onData(c.Generation(), types.NewStringBufferString(text))
}

func (w *WS) onConnBinaryMessage(c Conn, data []byte) {
	if !w.owns(c.Generation()) {
		return
	}
	w.onData(c.Generation(), types.NewBytesBuffer(data))
}

func (w *WS) onData(generation uint64, data types.BufferInterface) {
	p, err := w.codec.Parse(data)
	if err != nil {
		client_websocket_log.Error("transport %s dropping malformed frame: %s", w.id, err.Error())
		return
	}
	if p == nil {
		return
	}
	if p.Type == packet.OPEN {
		handshake, err := w.codec.DecodeHandshake(p.Data)
		if err != nil {
			client_websocket_log.Error("transport %s dropping open packet: %s", w.id, err.Error())
			return
		}
		p.Handshake = handshake
	}
	w.dispatch(generation, p)
}

func (w *WS) dispatch(generation uint64, p *IncomingPacket) {
	defer func() {
		if r := recover(); r != nil {
			client_websocket_log.Error("transport %s failed to dispatch %s packet: %v", w.id, p.Type, r)
		}
	}()
	w.onPacket(generation, p)
}

// onPacket routes a decoded packet. The candidate register is read once
// per packet.
func (w *WS) onPacket(generation uint64, p *IncomingPacket) {
	upgrading := w.isUpgrading()

	switch {
	case p.Type == packet.OPEN:
		w.mu.Lock()
		if !w.ownsLocked(generation) {
			w.mu.Unlock()
			return
		}
		readyState := w._readyState
		if readyState == ReadyStateOpening {
			w.setReadyState(ReadyStateOpen)
		}
		w.mu.Unlock()

		if readyState != ReadyStateOpening {
			client_websocket_log.Warning(`transport %s got open packet in state "%s"`, w.id, readyState)
		}
		// Forwarded even while probing so the manager sees renegotiated
		// handshake data.
		w.manager.OnPacket(p)
		return

	case upgrading && isProbeAck(p):
		w.onProbeAck(generation)
	}

	if !upgrading {
		w.manager.OnPacket(p)
	}
}

func (w *WS) onConnClosed(c Conn, code int, message string) {
	if !w.owns(c.Generation()) {
		client_websocket_log.Debug("transport %s ignoring close from stale connection", w.id)
		return
	}
	upgrading := w.isUpgrading()
	client_websocket_log.Debug("transport %s closed with code %d: %s", w.id, code, message)

	if code != CloseNormalClosure {
		if upgrading {
			w.manager.ClearUpgrading(w)
			return
		}
		w.manager.OnTransportError(w, message)
		return
	}

	w.Close()
	if upgrading {
		w.manager.ClearUpgrading(w)
		return
	}
	w.manager.Reconnect()
}
