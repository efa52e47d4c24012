package config

import (
	"testing"
	"time"

	"github.com/zishang520/engine.io/v2/types"
)

func TestDefaultSocketOptions(t *testing.T) {
	opts := DefaultSocketOptions()

	if got := opts.Path(); got != DefaultPath {
		t.Errorf("Path() = %q, want %q", got, DefaultPath)
	}
	if opts.GetRawPath() != nil {
		t.Error("expected path to stay unset")
	}
	if !opts.Upgrade() {
		t.Error("expected upgrade to default to true")
	}
	for _, name := range []string{"polling", "websocket"} {
		if !opts.Transports().Has(name) {
			t.Errorf("expected default transports to include %q", name)
		}
	}
	if got := opts.HandshakeTimeout(); got != DefaultHandshakeTimeout {
		t.Errorf("HandshakeTimeout() = %v, want %v", got, DefaultHandshakeTimeout)
	}
	if opts.GetRawPingInterval() != nil {
		t.Error("expected ping interval to stay unset")
	}
	if opts.Query() == nil || opts.Query().Count() != 0 {
		t.Error("expected an empty query")
	}
}

func TestSocketOptionsAssign(t *testing.T) {
	src := &SocketOptions{}
	src.SetPath("/socket.io")
	src.SetPingInterval(0)
	src.SetTransports(types.NewSet("websocket"))
	src.SetQueryOnlyForHandshake(true)

	opts := DefaultSocketOptions()
	opts.Assign(src)

	if got := opts.Path(); got != "/socket.io" {
		t.Errorf("Path() = %q, want /socket.io", got)
	}
	if raw := opts.GetRawPingInterval(); raw == nil || *raw != 0 {
		t.Errorf("GetRawPingInterval() = %v, want explicit zero", raw)
	}
	if opts.Transports().Has("polling") {
		t.Error("expected polling to be dropped")
	}
	if !opts.QueryOnlyForHandshake() {
		t.Error("expected query-only-for-handshake to be copied")
	}
	// untouched options keep their defaults
	if got := opts.RequestTimeout(); got != DefaultRequestTimeout {
		t.Errorf("RequestTimeout() = %v, want %v", got, DefaultRequestTimeout)
	}
}

func TestSocketOptionsAssignNil(t *testing.T) {
	opts := DefaultSocketOptions()
	opts.SetRequestTimeout(time.Second)

	if got := opts.Assign(nil); got != opts {
		t.Fatal("expected Assign(nil) to return the receiver")
	}
	if got := opts.RequestTimeout(); got != time.Second {
		t.Errorf("RequestTimeout() = %v, want 1s", got)
	}
}
