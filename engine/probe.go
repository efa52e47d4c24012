package engine

import (
	"github.com/zishang520/engine.io-go-parser/packet"
)

// Payload of the ping/pong pair that validates an upgrade candidate.
const probePayload = "probe"

func isProbeAck(p *IncomingPacket) bool {
	if p.Type != packet.PONG {
		return false
	}
	data, ok := p.Text()
	return ok && data == probePayload
}

func (w *WS) sendProbe() {
	p, err := w.codec.CreateOutgoing(packet.PING, probePayload)
	if err != nil {
		client_websocket_log.Error("transport %s cannot encode probe: %s", w.id, err.Error())
		return
	}
	client_websocket_log.Debug("transport %s sending probe", w.id)
	w.Send(p)
}

// onProbeAck opens the candidate and tells the manager, once per probe.
func (w *WS) onProbeAck(generation uint64) {
	w.mu.Lock()
	if !w.ownsLocked(generation) || w.probed {
		w.mu.Unlock()
		return
	}
	w.probed = true
	w.setReadyState(ReadyStateOpen)
	w.mu.Unlock()

	client_websocket_log.Debug("transport %s probe succeeded", w.id)
	w.manager.OnTransportProbed(w)
}
