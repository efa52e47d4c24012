package engine

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zishang520/engine.io-client-ws/config"
	"github.com/zishang520/engine.io-client-ws/errors"
	"github.com/zishang520/engine.io-go-parser/packet"
	"github.com/zishang520/engine.io/v2/events"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/utils"
	sio "github.com/zishang520/socket.io-go-parser/v2/parser"
)

var client_socket_log = log.NewLog("engine.io-client:socket")

// Socket is the session manager: it owns the active transport and the
// upgrade candidate register, and turns transport callbacks into events.
//
// Events: "handshake", "open", "packet", "ping", "message", "decoded",
// "upgrading", "upgrade", "upgradeError", "error", "reconnect", "close".
type Socket struct {
	events.EventEmitter

	uri     *url.URL
	opts    config.SocketOptionsInterface
	codec   Codec
	newConn ConnFactory
	decoder sio.Decoder

	handshake atomic.Pointer[HandshakeData]

	readyState  ReadyState
	transport   TransportInterface
	upgrading   TransportInterface
	writeBuffer []*OutgoingPacket
	mu          sync.RWMutex
}

// Socket constructor.
func NewSocket(uri string, opts config.SocketOptionsInterface) (*Socket, error) {
	_url, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}

	options := config.DefaultSocketOptions()
	options.Assign(opts)

	secure := _url.Scheme == "https" || _url.Scheme == "wss"
	if options.GetRawSecure() == nil {
		options.SetSecure(secure)
	}
	if options.GetRawHostname() == nil {
		options.SetHostname(_url.Hostname())
	}
	if options.GetRawPort() == nil {
		options.SetPort(_url.Port())
	}
	if _url.RawQuery != "" {
		query := utils.NewParameterBag(_url.Query())
		query.With(options.Query().All())
		options.SetQuery(query)
	}
	// a path in the uri wins over the default one
	if options.GetRawPath() == nil && _url.Path != "" && _url.Path != "/" {
		options.SetPath(_url.Path)
	}

	s := &Socket{
		EventEmitter: events.New(),
		opts:         options,
		codec:        NewCodec(),
		decoder:      sio.NewDecoder(),
		readyState:   ReadyStateClosed,
	}

	host := options.Hostname()
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port := options.Port(); port != "" {
		host += ":" + port
	}
	// an explicit host option overrides the authority taken from the uri
	if options.GetRawHost() == nil {
		options.SetHost(host)
	}
	s.uri = &url.URL{
		Scheme: "http",
		Host:   options.Host(),
		Path:   strings.TrimRight(options.Path(), "/") + "/",
	}
	if options.Secure() {
		s.uri.Scheme = "https"
	}

	s.decoder.On("decoded", func(args ...any) {
		s.Emit("decoded", args...)
	})

	return s, nil
}

// SetConnFactory swaps the connection constructor used by new transports.
func (s *Socket) SetConnFactory(newConn ConnFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.newConn = newConn
}

func (s *Socket) URI() *url.URL {
	u := *s.uri
	return &u
}

func (s *Socket) Protocol() int {
	return s.codec.Protocol()
}

func (s *Socket) Handshake() *HandshakeData {
	return s.handshake.Load()
}

func (s *Socket) Opts() config.SocketOptionsInterface {
	return s.opts
}

func (s *Socket) Id() string {
	if handshake := s.Handshake(); handshake != nil {
		return handshake.Sid
	}
	return ""
}

func (s *Socket) ReadyState() ReadyState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.readyState
}

// Transport returns the active transport.
func (s *Socket) Transport() TransportInterface {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transport
}

func (s *Socket) Upgrading() TransportInterface {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.upgrading
}

func (s *Socket) ClearUpgrading(t TransportInterface) {
	s.mu.Lock()
	cleared := s.upgrading != nil && s.upgrading == t
	if cleared {
		s.upgrading = nil
	}
	s.mu.Unlock()

	if cleared {
		client_socket_log.Debug(`upgrade candidate "%s" abandoned`, t.Name())
		t.Close()
		err := errors.NewTransportError("probe error", fmt.Errorf("[%s] transport closed", t.Name()))
		s.Emit("upgradeError", err)
		// nothing left to carry the session
		if s.Transport() == nil {
			s.onClose("probe error", err)
		}
	}
}

// Creates transport of the given type.
func (s *Socket) createTransport(name string) (TransportInterface, error) {
	constructor, ok := Transports()[name]
	if !ok || !s.opts.Transports().Has(name) {
		return nil, fmt.Errorf("%w: %q", errors.ErrNoTransports, name)
	}
	s.mu.RLock()
	newConn := s.newConn
	s.mu.RUnlock()

	return constructor.New(s, s.codec, newConn), nil
}

// Connect opens the session. With polling enabled the handshake is made
// over HTTP and the websocket joins as an upgrade candidate; otherwise the
// websocket connects directly.
func (s *Socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.readyState != ReadyStateClosed {
		s.mu.Unlock()
		return nil
	}
	s.readyState = ReadyStateConnecting
	s.mu.Unlock()

	if !s.opts.Transports().Has("polling") {
		transport, err := s.createTransport("websocket")
		if err != nil {
			s.setReadyState(ReadyStateClosed)
			return err
		}
		s.setTransport(transport)
		transport.Open()
		return nil
	}

	handshake, err := s.handshakeRequest(ctx)
	if err != nil {
		s.setReadyState(ReadyStateClosed)
		return err
	}
	// Polling only carries the handshake; the session lives on the websocket.
	if !s.opts.Upgrade() || !slices.Contains(handshake.Upgrades, "websocket") {
		s.setReadyState(ReadyStateClosed)
		return fmt.Errorf("%w: no websocket upgrade for session %s", errors.ErrNoTransports, handshake.Sid)
	}
	s.onHandshake(handshake)

	if err := s.probe("websocket"); err != nil {
		s.onClose("transport error", err)
		return err
	}
	return nil
}

// Probes a transport.
func (s *Socket) probe(name string) error {
	transport, err := s.createTransport(name)
	if err != nil {
		return err
	}
	client_socket_log.Debug(`probing transport "%s"`, name)

	s.mu.Lock()
	s.upgrading = transport
	s.mu.Unlock()

	transport.Open()
	return nil
}

// Sets the current transport. Closes the existing one (if any).
func (s *Socket) setTransport(transport TransportInterface) {
	s.mu.Lock()
	prev := s.transport
	s.transport = transport
	s.mu.Unlock()

	if prev != nil && prev != transport {
		prev.Close()
	}
}

func (s *Socket) setReadyState(readyState ReadyState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.readyState = readyState
}

// Called upon handshake completion.
func (s *Socket) onHandshake(handshake *HandshakeData) {
	if handshake == nil {
		return
	}
	s.handshake.Store(handshake)
	s.Emit("handshake", handshake)
	s.onOpen()
}

// Called when connection is deemed open.
func (s *Socket) onOpen() {
	s.mu.Lock()
	wasOpen := s.readyState == ReadyStateOpen
	s.readyState = ReadyStateOpen
	s.mu.Unlock()

	if !wasOpen {
		s.Emit("open")
	}
	s.flush()
}

func (s *Socket) OnTransportProbed(t TransportInterface) {
	if s.Upgrading() != t {
		return
	}
	s.Emit("upgrading", t)

	if s.ReadyState() == ReadyStateClosed {
		s.ClearUpgrading(t)
		return
	}
	upgrade, err := s.codec.CreateOutgoing(packet.UPGRADE, nil)
	if err != nil {
		client_socket_log.Error("cannot encode upgrade packet: %s", err.Error())
		return
	}
	t.Send(upgrade)

	s.mu.Lock()
	if s.upgrading == t {
		s.upgrading = nil
	}
	s.mu.Unlock()
	s.setTransport(t)

	client_socket_log.Debug(`upgraded to "%s"`, t.Name())
	s.Emit("upgrade", t)
	s.onOpen()
}

func (s *Socket) OnTransportError(t TransportInterface, message string) {
	if s.Transport() != t {
		return
	}
	err := errors.NewTransportError(t.Name()+" error", errors.New(message))
	client_socket_log.Debug("transport error: %s", err.Error())
	s.Emit("error", err)
	s.onClose("transport error", err)
}

// Handles a packet.
func (s *Socket) OnPacket(p *IncomingPacket) {
	if readyState := s.ReadyState(); readyState == ReadyStateClosed {
		client_socket_log.Debug(`packet received with socket readyState "%s"`, readyState)
		return
	}
	s.Emit("packet", p)

	switch p.Type {
	case packet.OPEN:
		s.onHandshake(p.Handshake)
	case packet.PING:
		data, _ := p.Text()
		s.sendPacket(packet.PONG, data)
		s.Emit("ping")
	case packet.MESSAGE:
		s.Emit("message", p.Data)
		s.decode(p)
	case packet.CLOSE:
		s.onClose("transport close", nil)
	}
}

func (s *Socket) decode(p *IncomingPacket) {
	var data any
	if text, ok := p.Text(); ok {
		data = text
	} else if p.IsBinary() {
		data = p.Data.Bytes()
	} else {
		return
	}
	if err := s.decoder.Add(data); err != nil {
		client_socket_log.Debug("not a socket.io packet: %s", err.Error())
	}
}

func (s *Socket) Reconnect() {
	t := s.Transport()
	if t == nil || s.ReadyState() == ReadyStateClosed {
		return
	}
	s.Emit("reconnect", t)
	t.Open()
}

// Send queues data as a message packet.
func (s *Socket) Send(data any) error {
	return s.sendPacket(packet.MESSAGE, data)
}

// SendPacket encodes a socket.io packet, binary attachments included.
func (s *Socket) SendPacket(p *sio.Packet) error {
	if p == nil {
		return errors.ErrEmptyPacket
	}
	return s.sendPacket(packet.MESSAGE, p)
}

func (s *Socket) sendPacket(t packet.Type, data any) error {
	if data == "" {
		data = nil
	}
	p, err := s.codec.CreateOutgoing(t, data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.readyState == ReadyStateClosed {
		s.mu.Unlock()
		return errors.ErrConnClosed
	}
	s.writeBuffer = append(s.writeBuffer, p)
	s.mu.Unlock()

	s.flush()
	return nil
}

// Flush write buffers.
func (s *Socket) flush() {
	s.mu.Lock()
	transport := s.transport
	if transport == nil || s.readyState != ReadyStateOpen || len(s.writeBuffer) == 0 {
		s.mu.Unlock()
		return
	}
	if readyState := transport.ReadyState(); readyState != ReadyStateOpening && readyState != ReadyStateOpen {
		s.mu.Unlock()
		return
	}
	packets := s.writeBuffer
	s.writeBuffer = nil
	s.mu.Unlock()

	transport.SendAll(packets)
}

// Closes the connection.
func (s *Socket) Close() {
	s.onClose("forced close", nil)
}

// Called upon transport close.
func (s *Socket) onClose(reason string, description error) {
	s.mu.Lock()
	if s.readyState == ReadyStateClosed {
		s.mu.Unlock()
		return
	}
	s.readyState = ReadyStateClosed
	transport, upgrading := s.transport, s.upgrading
	s.upgrading = nil
	s.writeBuffer = nil
	s.mu.Unlock()

	if upgrading != nil {
		upgrading.Close()
	}
	if transport != nil {
		transport.Close()
	}
	s.decoder.Destroy()
	s.Emit("close", reason, description)
}
