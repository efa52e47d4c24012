package engine

import (
	"net/url"

	"github.com/zishang520/engine.io-client-ws/config"
)

type ReadyState string

const (
	ReadyStateClosed     ReadyState = "closed"
	ReadyStateConnecting ReadyState = "connecting"
	ReadyStateOpening    ReadyState = "opening"
	ReadyStateOpen       ReadyState = "open"
	ReadyStatePaused     ReadyState = "paused"
)

type TransportInterface interface {
	// Transport name.
	Name() string
	// Instance id, unique per constructed transport.
	Id() string
	// Current lifecycle state.
	ReadyState() ReadyState
	// Opens the transport.
	Open()
	// Closes the transport.
	Close()
	// Triggers a poll cycle. Event driven transports do nothing.
	Poll()
	// Pauses the transport; onPause runs once no more writes will happen.
	Pause(onPause func())
	// Sends a packet.
	Send(*OutgoingPacket)
	// Sends multiple packets. The slice elements are consumed.
	SendAll([]*OutgoingPacket)
}

// Manager is the view of a session manager that any collaborator may use.
type Manager interface {
	// Base URI of the server, without query.
	URI() *url.URL
	// engine.io protocol version.
	Protocol() int
	// Negotiated handshake, nil until the server sent OPEN.
	Handshake() *HandshakeData
	Opts() config.SocketOptionsInterface
}

// TransportManager is the wider capability set a transport calls back into.
type TransportManager interface {
	Manager

	// The transport currently being probed for upgrade, or nil.
	Upgrading() TransportInterface
	// Clears the upgrade candidate if it is still t.
	ClearUpgrading(t TransportInterface)

	OnTransportError(t TransportInterface, message string)
	OnTransportProbed(t TransportInterface)
	OnPacket(*IncomingPacket)
	Reconnect()
}

type HandshakeData struct {
	Sid          string   `json:"sid"`
	Upgrades     []string `json:"upgrades"`
	PingInterval int64    `json:"pingInterval"`
	PingTimeout  int64    `json:"pingTimeout"`
	MaxPayload   int64    `json:"maxPayload"`
}
