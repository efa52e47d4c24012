package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/zishang520/engine.io-client-ws/errors"
	_http "github.com/zishang520/engine.io-client-ws/http"
	"github.com/zishang520/engine.io-go-parser/packet"
	"github.com/zishang520/engine.io-go-parser/parser"
	"github.com/zishang520/engine.io/v2/types"
)

// handshakeRequest opens the session with a single long-polling GET and
// returns the server's handshake.
func (s *Socket) handshakeRequest(ctx context.Context) (*HandshakeData, error) {
	uri := transportURI(s, "polling")
	client_socket_log.Debug("handshake request %s", uri)

	header := http.Header{}
	for k, v := range s.opts.ExtraHeaders() {
		header.Set(k, v)
	}
	if beforeRequest := s.opts.BeforeRequest(); beforeRequest != nil {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, err
		}
		beforeRequest(u, header)
		uri = u.String()
	}

	res, err := _http.NewRequest(ctx, uri, &_http.Options{
		Method:          http.MethodGet,
		Headers:         header,
		Compress:        true,
		Timeout:         s.opts.RequestTimeout(),
		TLSClientConfig: s.opts.TLSClientConfig(),
	})
	if err != nil {
		return nil, errors.NewTransportError("xhr poll error", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, errors.NewTransportError("xhr poll error", fmt.Errorf("unexpected status %d", res.StatusCode))
	}
	if res.BodyBuffer == nil {
		return nil, fmt.Errorf("%w: empty response", errors.ErrHandshake)
	}

	packets, err := parser.Parserv4().DecodePayload(res.BodyBuffer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrHandshake, err)
	}
	if len(packets) == 0 || packets[0].Type != packet.OPEN {
		return nil, fmt.Errorf("%w: expected open packet", errors.ErrHandshake)
	}
	data, _ := packets[0].Data.(types.BufferInterface)
	return s.codec.DecodeHandshake(data)
}
