package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zishang520/engine.io-client-ws/errors"
	"github.com/zishang520/engine.io-go-parser/packet"
	"github.com/zishang520/engine.io-go-parser/parser"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	sio "github.com/zishang520/socket.io-go-parser/v2/parser"
)

var client_codec_log = log.NewLog("engine.io-client:codec")

// Codec translates between wire frames and structured packets.
type Codec interface {
	// engine.io protocol version spoken by the codec.
	Protocol() int
	// Parse decodes one frame. A nil packet with a nil error means the
	// frame held nothing to dispatch (empty frame, NOOP).
	Parse(data types.BufferInterface) (*IncomingPacket, error)
	// DecodeHandshake decodes the argument of an OPEN packet.
	DecodeHandshake(data types.BufferInterface) (*HandshakeData, error)
	// CreateOutgoing encodes payload as a packet of type t. payload may be
	// nil, a string, []byte, an io.Reader, or a socket.io *parser.Packet.
	CreateOutgoing(t packet.Type, payload any) (*OutgoingPacket, error)
}

type codec struct {
	parser  parser.Parser
	encoder sio.Encoder
}

// NewCodec returns the engine.io v4 codec, encoding socket.io packets with
// their binary attachments split out.
func NewCodec() Codec {
	return &codec{
		parser:  parser.Parserv4(),
		encoder: sio.NewEncoder(),
	}
}

func (c *codec) Protocol() int {
	return c.parser.Protocol()
}

func (c *codec) Parse(data types.BufferInterface) (*IncomingPacket, error) {
	if data == nil || data.Len() == 0 {
		return nil, nil
	}
	p, err := c.parser.DecodePacket(data)
	if err != nil {
		return nil, err
	}
	if p.Type == packet.NOOP {
		return nil, nil
	}
	in := &IncomingPacket{Type: p.Type}
	if p.Data != nil {
		buf, ok := p.Data.(types.BufferInterface)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected packet data %T", parser.ErrParser, p.Data)
		}
		in.Data = buf
	}
	client_codec_log.Debug(`decoded packet type "%s"`, in.Type)
	return in, nil
}

func (c *codec) DecodeHandshake(data types.BufferInterface) (*HandshakeData, error) {
	if data == nil || data.Len() == 0 {
		return nil, fmt.Errorf("%w: empty open packet", errors.ErrHandshake)
	}
	handshake := &HandshakeData{}
	if err := json.Unmarshal(data.Bytes(), handshake); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrHandshake, err)
	}
	if handshake.Sid == "" {
		return nil, fmt.Errorf("%w: missing sid", errors.ErrHandshake)
	}
	return handshake, nil
}

func (c *codec) CreateOutgoing(t packet.Type, payload any) (*OutgoingPacket, error) {
	if _, ok := parser.PACKET_TYPES[t]; !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownPacketType, t)
	}

	var (
		data        io.Reader
		attachments []types.BufferInterface
	)
	switch v := payload.(type) {
	case nil:
	case string:
		data = types.NewStringBufferString(v)
	case []byte:
		data = types.NewBytesBuffer(v)
	case *sio.Packet:
		if t != packet.MESSAGE {
			return nil, fmt.Errorf("socket.io packets travel as message packets, not %q", t)
		}
		buffers := c.encoder.Encode(v)
		data, attachments = buffers[0], buffers[1:]
	case io.Reader:
		data = v
	default:
		return nil, fmt.Errorf("unsupported payload type %T", payload)
	}

	encoded, err := c.parser.EncodePacket(&packet.Packet{Type: t, Data: data}, true)
	if err != nil {
		return nil, err
	}
	_, text := encoded.(*types.StringBuffer)
	if !text && t != packet.MESSAGE {
		return nil, fmt.Errorf("binary payload on %q packet", t)
	}

	return &OutgoingPacket{
		Type:        t,
		Data:        encoded,
		Attachments: attachments,
		Binary:      !text,
	}, nil
}
