// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by both tools.
package httputil

import (
	"net"
	"net/http"
	"time"

	"github.com/pdiddy/harvest/pkg/types"
)

// HeaderTransport sets fixed headers on every outgoing request before
// handing it to Base. Headers already present on the request are replaced.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers http.Header
}

// RoundTrip implements http.RoundTripper. The caller's request is cloned
// so it is never mutated.
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if len(t.Headers) == 0 {
		return base.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	for k, vs := range t.Headers {
		r.Header.Del(k)
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
	return base.RoundTrip(r)
}

// NewClient returns an http.Client that sends cfg.UserAgent and any extra
// headers on every request. cfg.Timeout bounds connecting, the TLS
// handshake, and the wait for response headers; reading the body is not
// limited, so long downloads are not cut off.
func NewClient(cfg types.HTTPConfig, extra http.Header) *http.Client {
	return &http.Client{
		Transport: Transport(BaseTransport(cfg.Timeout), cfg.UserAgent, extra),
	}
}

// BaseTransport clones http.DefaultTransport and applies timeout to the
// dial, TLS handshake, and response header phases. A non-positive timeout
// keeps the default transport settings.
func BaseTransport(timeout time.Duration) *http.Transport {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if timeout <= 0 {
		return tr
	}
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	tr.DialContext = dialer.DialContext
	tr.TLSHandshakeTimeout = timeout
	tr.ResponseHeaderTimeout = timeout
	return tr
}

// Transport wraps base in a HeaderTransport carrying userAgent and extra.
func Transport(base http.RoundTripper, userAgent string, extra http.Header) http.RoundTripper {
	h := make(http.Header, len(extra)+1)
	for k, vs := range extra {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}
	if userAgent != "" {
		h.Set("User-Agent", userAgent)
	}
	return &HeaderTransport{Base: base, Headers: h}
}
