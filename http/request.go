package http

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/zishang520/engine.io/v2/types"
)

type Response struct {
	*http.Response

	BodyBuffer types.BufferInterface
}

type Options struct {
	Method          string
	Headers         http.Header
	Compress        bool
	Timeout         time.Duration
	Body            io.Reader
	Jar             http.CookieJar
	TLSClientConfig *tls.Config
}

type Request struct {
	uri     string
	options *Options
}

// Request constructor. The request is sent right away; the response body is
// fully read and decompressed into BodyBuffer.
func NewRequest(ctx context.Context, uri string, opts *Options) (*Response, error) {
	r := &Request{}

	r.uri = uri
	r.options = opts
	if r.options == nil {
		r.options = &Options{}
	}

	return r.create(ctx)
}

func (r *Request) create(ctx context.Context) (*Response, error) {
	client := &http.Client{}
	if r.options.Jar != nil {
		client.Jar = r.options.Jar
	}
	if r.options.TLSClientConfig != nil {
		client.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: r.options.TLSClientConfig,
		}
	}
	if r.options.Timeout > 0 {
		client.Timeout = r.options.Timeout
	}
	method := strings.ToUpper(r.options.Method)
	if method == "" {
		method = http.MethodGet
	}
	request, err := http.NewRequestWithContext(ctx, method, r.uri, r.options.Body)
	if err != nil {
		return nil, err
	}
	for key, values := range r.options.Headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	if _, HasContentType := request.Header["Content-Type"]; r.options.Body != nil && !HasContentType {
		request.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	}
	request.Header.Set("Accept", "*/*")
	if r.options.Compress {
		request.Header.Set("Accept-Encoding", "gzip, deflate, br")
	}

	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}

	res := &Response{Response: response}

	// apparently, Body can be nil in some cases
	if response.Body == nil {
		return res, nil
	}
	defer response.Body.Close()

	var body io.Reader = response.Body
	decoded := true
	switch response.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	case "deflate":
		fl := flate.NewReader(response.Body)
		defer fl.Close()
		body = fl
	case "br":
		body = brotli.NewReader(response.Body)
	default:
		decoded = false
	}
	if decoded {
		response.Header.Del("Content-Encoding")
		response.Header.Del("Content-Length")
		response.ContentLength = -1
		response.Uncompressed = true
	}

	res.BodyBuffer, err = types.NewStringBufferReader(body)
	if err != nil {
		return nil, err
	}
	return res, nil
}
