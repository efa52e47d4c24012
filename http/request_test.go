package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

const body = `0{"sid":"abc123","upgrades":["websocket"],"pingInterval":25000,"pingTimeout":20000}`

func compressed(t *testing.T, encoding string) []byte {
	t.Helper()
	var buf bytes.Buffer
	switch encoding {
	case "gzip":
		w := gzip.NewWriter(&buf)
		w.Write([]byte(body))
		w.Close()
	case "br":
		w := brotli.NewWriter(&buf)
		w.Write([]byte(body))
		w.Close()
	default:
		buf.WriteString(body)
	}
	return buf.Bytes()
}

func TestNewRequestDecodesBody(t *testing.T) {
	for _, encoding := range []string{"", "gzip", "br"} {
		t.Run("encoding="+encoding, func(t *testing.T) {
			payload := compressed(t, encoding)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept-Encoding"); got != "gzip, deflate, br" {
					t.Errorf("Accept-Encoding = %q", got)
				}
				if got := r.Header.Get("X-Client"); got != "test" {
					t.Errorf("X-Client = %q, want test", got)
				}
				if encoding != "" {
					w.Header().Set("Content-Encoding", encoding)
				}
				w.Write(payload)
			}))
			defer srv.Close()

			res, err := NewRequest(context.Background(), srv.URL, &Options{
				Headers:  http.Header{"X-Client": {"test"}},
				Compress: true,
				Timeout:  5 * time.Second,
			})
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", res.StatusCode)
			}
			if got := res.BodyBuffer.String(); got != body {
				t.Errorf("body = %q, want %q", got, body)
			}
			if encoding != "" && res.Header.Get("Content-Encoding") != "" {
				t.Error("expected Content-Encoding to be removed after decoding")
			}
		})
	}
}

func TestNewRequestMethodAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "text/plain;charset=UTF-8" {
			t.Errorf("Content-Type = %q", got)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	res, err := NewRequest(context.Background(), srv.URL, &Options{
		Method: "post",
		Body:   bytes.NewBufferString("4hello"),
	})
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := res.BodyBuffer.String(); got != "ok" {
		t.Errorf("body = %q, want ok", got)
	}
}

func TestNewRequestCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRequest(ctx, srv.URL, nil); err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}
