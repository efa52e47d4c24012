package config

import (
	"crypto/tls"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/engine.io/v2/utils"
)

// Default values applied by DefaultSocketOptions.
const (
	DefaultPath             = "/engine.io"
	DefaultHandshakeTimeout = 45 * time.Second
	DefaultRequestTimeout   = 20 * time.Second
)

type PerMessageDeflate struct {
	Threshold int
}

type SocketOptions struct {

	// The host that we're connecting to. Set from the URI passed when connecting
	host *string

	// The hostname for our connection. Set from the URI passed when connecting
	hostname *string

	// If this is a secure connection. Set from the URI passed when connecting
	secure *bool

	// The port for our connection. Set from the URI passed when connecting
	port *string

	// Any query parameters in our uri. Set from the URI passed when connecting
	query *utils.ParameterBag

	// Send the configured query parameters only with the very first,
	// pre-handshake transport request. Later transports carry just the
	// protocol parameters and the session id.
	// @default false
	queryOnlyForHandshake *bool

	// Whether the client should try to upgrade the transport from
	// long-polling to something better.
	// @default true
	upgrade *bool

	// A list of transports to try (in order).
	// @default types.NewSet("polling", "websocket")
	transports *types.Set[string]

	// Keep-alive ping cadence of the websocket connection. A positive value
	// enables pings at that interval, zero or a negative value disables them.
	// Unset keeps pings enabled with the connection's default cadence.
	pingInterval *time.Duration

	// Timeout for the polling handshake request.
	// @default 20s
	requestTimeout *time.Duration

	// Timeout for the websocket opening handshake.
	// @default 45s
	handshakeTimeout *time.Duration

	// TLSClientConfig specifies the TLS configuration to use with tls.Client.
	// If nil, the default configuration is used.
	tLSClientConfig *tls.Config

	// Headers that will be passed for each request to the server (via xhr-polling and via websockets).
	// These values then can be used during handshake or for special proxies.
	extraHeaders map[string]string

	// Hook invoked with the outbound URL and headers right before a websocket dials.
	beforeRequest BeforeRequest

	// parameters of the WebSocket permessage-deflate extension. Set to nil to disable.
	// @default nil
	perMessageDeflate *PerMessageDeflate

	// The path to get our client file from, in the case of the server
	// serving it
	// @default '/engine.io'
	path *string

	// Either a single protocol string or an array of protocol strings. These strings are used to indicate sub-protocols,
	// so that a single server can implement multiple WebSocket sub-protocols (for example, you might want one server to
	// be able to handle different types of interactions depending on the specified protocol)
	// @default []string
	protocols []string

	// WebSocket extensions requested on open. Only "permessage-deflate" is understood.
	extensions []string
}

func DefaultSocketOptions() *SocketOptions {
	s := &SocketOptions{}
	s.SetQuery(utils.NewParameterBag(nil))
	s.SetUpgrade(true)
	s.SetTransports(types.NewSet("polling", "websocket"))
	s.SetRequestTimeout(DefaultRequestTimeout)
	s.SetHandshakeTimeout(DefaultHandshakeTimeout)
	return s
}

// Assign copies every option that is set on data into s.
func (s *SocketOptions) Assign(data SocketOptionsInterface) SocketOptionsInterface {
	if data == nil {
		return s
	}

	if data.GetRawHost() != nil {
		s.SetHost(data.Host())
	}
	if data.GetRawHostname() != nil {
		s.SetHostname(data.Hostname())
	}
	if data.GetRawSecure() != nil {
		s.SetSecure(data.Secure())
	}
	if data.GetRawPort() != nil {
		s.SetPort(data.Port())
	}
	if data.GetRawQuery() != nil {
		s.SetQuery(data.Query())
	}
	if data.GetRawQueryOnlyForHandshake() != nil {
		s.SetQueryOnlyForHandshake(data.QueryOnlyForHandshake())
	}
	if data.GetRawUpgrade() != nil {
		s.SetUpgrade(data.Upgrade())
	}
	if data.GetRawTransports() != nil {
		s.SetTransports(data.Transports())
	}
	if data.GetRawPingInterval() != nil {
		s.SetPingInterval(data.PingInterval())
	}
	if data.GetRawRequestTimeout() != nil {
		s.SetRequestTimeout(data.RequestTimeout())
	}
	if data.GetRawHandshakeTimeout() != nil {
		s.SetHandshakeTimeout(data.HandshakeTimeout())
	}
	if data.GetRawTLSClientConfig() != nil {
		s.SetTLSClientConfig(data.TLSClientConfig())
	}
	if data.GetRawExtraHeaders() != nil {
		s.SetExtraHeaders(data.ExtraHeaders())
	}
	if data.GetRawBeforeRequest() != nil {
		s.SetBeforeRequest(data.BeforeRequest())
	}
	if data.GetRawPerMessageDeflate() != nil {
		s.SetPerMessageDeflate(data.PerMessageDeflate())
	}
	if data.GetRawPath() != nil {
		s.SetPath(data.Path())
	}
	if data.GetRawProtocols() != nil {
		s.SetProtocols(data.Protocols())
	}
	if data.GetRawExtensions() != nil {
		s.SetExtensions(data.Extensions())
	}

	return s
}

func (s *SocketOptions) SetHost(host string) {
	s.host = &host
}
func (s *SocketOptions) GetRawHost() *string {
	return s.host
}
func (s *SocketOptions) Host() string {
	if s.host == nil {
		return ""
	}
	return *s.host
}

func (s *SocketOptions) SetHostname(hostname string) {
	s.hostname = &hostname
}
func (s *SocketOptions) GetRawHostname() *string {
	return s.hostname
}
func (s *SocketOptions) Hostname() string {
	if s.hostname == nil {
		return ""
	}
	return *s.hostname
}

func (s *SocketOptions) SetSecure(secure bool) {
	s.secure = &secure
}
func (s *SocketOptions) GetRawSecure() *bool {
	return s.secure
}
func (s *SocketOptions) Secure() bool {
	if s.secure == nil {
		return false
	}
	return *s.secure
}

func (s *SocketOptions) SetPort(port string) {
	s.port = &port
}
func (s *SocketOptions) GetRawPort() *string {
	return s.port
}
func (s *SocketOptions) Port() string {
	if s.port == nil {
		return ""
	}
	return *s.port
}

func (s *SocketOptions) SetQuery(query *utils.ParameterBag) {
	s.query = query
}
func (s *SocketOptions) GetRawQuery() *utils.ParameterBag {
	return s.query
}
func (s *SocketOptions) Query() *utils.ParameterBag {
	if s.query == nil {
		return utils.NewParameterBag(nil)
	}
	return s.query
}

func (s *SocketOptions) SetQueryOnlyForHandshake(queryOnlyForHandshake bool) {
	s.queryOnlyForHandshake = &queryOnlyForHandshake
}
func (s *SocketOptions) GetRawQueryOnlyForHandshake() *bool {
	return s.queryOnlyForHandshake
}
func (s *SocketOptions) QueryOnlyForHandshake() bool {
	if s.queryOnlyForHandshake == nil {
		return false
	}
	return *s.queryOnlyForHandshake
}

func (s *SocketOptions) SetUpgrade(upgrade bool) {
	s.upgrade = &upgrade
}
func (s *SocketOptions) GetRawUpgrade() *bool {
	return s.upgrade
}
func (s *SocketOptions) Upgrade() bool {
	if s.upgrade == nil {
		return true
	}
	return *s.upgrade
}

func (s *SocketOptions) SetTransports(transports *types.Set[string]) {
	s.transports = transports
}
func (s *SocketOptions) GetRawTransports() *types.Set[string] {
	return s.transports
}
func (s *SocketOptions) Transports() *types.Set[string] {
	if s.transports == nil {
		return types.NewSet("polling", "websocket")
	}
	return s.transports
}

func (s *SocketOptions) SetPingInterval(pingInterval time.Duration) {
	s.pingInterval = &pingInterval
}
func (s *SocketOptions) GetRawPingInterval() *time.Duration {
	return s.pingInterval
}
func (s *SocketOptions) PingInterval() time.Duration {
	if s.pingInterval == nil {
		return 0
	}
	return *s.pingInterval
}

func (s *SocketOptions) SetRequestTimeout(requestTimeout time.Duration) {
	s.requestTimeout = &requestTimeout
}
func (s *SocketOptions) GetRawRequestTimeout() *time.Duration {
	return s.requestTimeout
}
func (s *SocketOptions) RequestTimeout() time.Duration {
	if s.requestTimeout == nil {
		return 0
	}
	return *s.requestTimeout
}

func (s *SocketOptions) SetHandshakeTimeout(handshakeTimeout time.Duration) {
	s.handshakeTimeout = &handshakeTimeout
}
func (s *SocketOptions) GetRawHandshakeTimeout() *time.Duration {
	return s.handshakeTimeout
}
func (s *SocketOptions) HandshakeTimeout() time.Duration {
	if s.handshakeTimeout == nil {
		return DefaultHandshakeTimeout
	}
	return *s.handshakeTimeout
}

func (s *SocketOptions) SetTLSClientConfig(tLSClientConfig *tls.Config) {
	s.tLSClientConfig = tLSClientConfig
}
func (s *SocketOptions) GetRawTLSClientConfig() *tls.Config {
	return s.tLSClientConfig
}
func (s *SocketOptions) TLSClientConfig() *tls.Config {
	return s.tLSClientConfig
}

func (s *SocketOptions) SetExtraHeaders(extraHeaders map[string]string) {
	s.extraHeaders = extraHeaders
}
func (s *SocketOptions) GetRawExtraHeaders() map[string]string {
	return s.extraHeaders
}
func (s *SocketOptions) ExtraHeaders() map[string]string {
	return s.extraHeaders
}

func (s *SocketOptions) SetBeforeRequest(beforeRequest BeforeRequest) {
	s.beforeRequest = beforeRequest
}
func (s *SocketOptions) GetRawBeforeRequest() BeforeRequest {
	return s.beforeRequest
}
func (s *SocketOptions) BeforeRequest() BeforeRequest {
	return s.beforeRequest
}

func (s *SocketOptions) SetPerMessageDeflate(perMessageDeflate *PerMessageDeflate) {
	s.perMessageDeflate = perMessageDeflate
}
func (s *SocketOptions) GetRawPerMessageDeflate() *PerMessageDeflate {
	return s.perMessageDeflate
}
func (s *SocketOptions) PerMessageDeflate() *PerMessageDeflate {
	return s.perMessageDeflate
}

func (s *SocketOptions) SetPath(path string) {
	s.path = &path
}
func (s *SocketOptions) GetRawPath() *string {
	return s.path
}
func (s *SocketOptions) Path() string {
	if s.path == nil {
		return DefaultPath
	}
	return *s.path
}

func (s *SocketOptions) SetProtocols(protocols []string) {
	s.protocols = protocols
}
func (s *SocketOptions) GetRawProtocols() []string {
	return s.protocols
}
func (s *SocketOptions) Protocols() []string {
	return s.protocols
}

func (s *SocketOptions) SetExtensions(extensions []string) {
	s.extensions = extensions
}
func (s *SocketOptions) GetRawExtensions() []string {
	return s.extensions
}
func (s *SocketOptions) Extensions() []string {
	return s.extensions
}
