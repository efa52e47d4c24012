package engine

import (
	"sync"

	"github.com/google/uuid"
	"github.com/zishang520/engine.io/v2/log"
)

var client_transport_log = log.NewLog("engine.io-client:transport")

// Transport holds what every transport shares: identity, the manager it
// reports to, and the lifecycle state. mu also guards the state that
// embedding transports keep next to the ready state.
type Transport struct {
	id      string
	manager TransportManager

	_readyState ReadyState
	mu          sync.Mutex
}

// Transport abstract constructor.
func NewTransport(manager TransportManager) *Transport {
	return &Transport{
		id:          uuid.NewString(),
		manager:     manager,
		_readyState: ReadyStateClosed,
	}
}

func (t *Transport) Id() string {
	return t.id
}

func (t *Transport) Manager() TransportManager {
	return t.manager
}

func (t *Transport) ReadyState() ReadyState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t._readyState
}

// Caller must hold mu.
func (t *Transport) setReadyState(readyState ReadyState) {
	if t._readyState != readyState {
		client_transport_log.Debug(`transport %s: "%s" -> "%s"`, t.id, t._readyState, readyState)
	}
	t._readyState = readyState
}
