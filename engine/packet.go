package engine

import (
	"github.com/zishang520/engine.io-go-parser/packet"
	"github.com/zishang520/engine.io/v2/types"
)

// IncomingPacket is a decoded inbound engine.io packet.
type IncomingPacket struct {
	Type packet.Type
	// Raw argument. A *types.StringBuffer for text frames, a
	// *types.BytesBuffer for binary frames, nil when the packet carries none.
	Data types.BufferInterface
	// Decoded argument of an OPEN packet.
	Handshake *HandshakeData
}

// Text returns the argument of a text packet.
func (p *IncomingPacket) Text() (string, bool) {
	if sb, ok := p.Data.(*types.StringBuffer); ok {
		return sb.String(), true
	}
	return "", false
}

// IsBinary reports whether the packet arrived as a binary frame.
func (p *IncomingPacket) IsBinary() bool {
	_, ok := p.Data.(*types.BytesBuffer)
	return ok
}

// OutgoingPacket is an encoded outbound packet ready for framing.
type OutgoingPacket struct {
	Type packet.Type
	// Encoded primary payload.
	Data types.BufferInterface
	// Binary attachments, sent as separate frames after Data, in order.
	Attachments []types.BufferInterface
	// Whether Data must go out as a binary frame.
	Binary  bool
	Options *packet.Options
}
