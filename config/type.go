package config

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"

	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/engine.io/v2/utils"
)

// BeforeRequest customizes the outbound connection request (headers, URL)
// right before the socket dials.
type BeforeRequest func(*url.URL, http.Header)

type SocketOptionsInterface interface {
	Host() string
	GetRawHost() *string
	SetHost(string)

	Hostname() string
	GetRawHostname() *string
	SetHostname(string)

	Secure() bool
	GetRawSecure() *bool
	SetSecure(bool)

	Port() string
	GetRawPort() *string
	SetPort(string)

	Query() *utils.ParameterBag
	GetRawQuery() *utils.ParameterBag
	SetQuery(*utils.ParameterBag)

	QueryOnlyForHandshake() bool
	GetRawQueryOnlyForHandshake() *bool
	SetQueryOnlyForHandshake(bool)

	Upgrade() bool
	GetRawUpgrade() *bool
	SetUpgrade(bool)

	Transports() *types.Set[string]
	GetRawTransports() *types.Set[string]
	SetTransports(*types.Set[string])

	PingInterval() time.Duration
	GetRawPingInterval() *time.Duration
	SetPingInterval(time.Duration)

	RequestTimeout() time.Duration
	GetRawRequestTimeout() *time.Duration
	SetRequestTimeout(time.Duration)

	HandshakeTimeout() time.Duration
	GetRawHandshakeTimeout() *time.Duration
	SetHandshakeTimeout(time.Duration)

	TLSClientConfig() *tls.Config
	GetRawTLSClientConfig() *tls.Config
	SetTLSClientConfig(*tls.Config)

	ExtraHeaders() map[string]string
	GetRawExtraHeaders() map[string]string
	SetExtraHeaders(map[string]string)

	BeforeRequest() BeforeRequest
	GetRawBeforeRequest() BeforeRequest
	SetBeforeRequest(BeforeRequest)

	PerMessageDeflate() *PerMessageDeflate
	GetRawPerMessageDeflate() *PerMessageDeflate
	SetPerMessageDeflate(*PerMessageDeflate)

	Path() string
	GetRawPath() *string
	SetPath(string)

	Protocols() []string
	GetRawProtocols() []string
	SetProtocols([]string)

	Extensions() []string
	GetRawExtensions() []string
	SetExtensions([]string)
}
