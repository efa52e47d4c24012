package engine

import (
	"net/url"
	"strconv"
	"strings"
)

// Query keys owned by the protocol; configured query parameters never
// override them.
var reservedQueryKeys = map[string]bool{
	"EIO":       true,
	"transport": true,
	"sid":       true,
}

// transportURI builds the connection URI of the named transport:
//
//	scheme://host:port/path?EIO=<v>&transport=<name>[&sid=<sid>][&<query>]
//
// The configured query is left out once a handshake exists when the
// manager sends it only with the handshake request.
func transportURI(m Manager, name string) string {
	base := m.URI()
	secure := base.Scheme == "https" || base.Scheme == "wss"

	_url := &url.URL{
		Host: base.Host,
		Path: base.Path,
	}
	switch {
	case name == "websocket" && secure:
		_url.Scheme = "wss"
	case name == "websocket":
		_url.Scheme = "ws"
	case secure:
		_url.Scheme = "https"
	default:
		_url.Scheme = "http"
	}

	query := new(strings.Builder)
	query.WriteString("EIO=")
	query.WriteString(strconv.Itoa(m.Protocol()))
	query.WriteString("&transport=")
	query.WriteString(url.QueryEscape(name))

	handshake := m.Handshake()
	if handshake != nil && handshake.Sid != "" {
		query.WriteString("&sid=")
		query.WriteString(url.QueryEscape(handshake.Sid))
	}
	if handshake == nil || !m.Opts().QueryOnlyForHandshake() {
		params := url.Values(m.Opts().Query().All())
		for key := range reservedQueryKeys {
			params.Del(key)
		}
		if extra := params.Encode(); extra != "" {
			query.WriteByte('&')
			query.WriteString(extra)
		}
	}
	_url.RawQuery = query.String()

	return _url.String()
}
