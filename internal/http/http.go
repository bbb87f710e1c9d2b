// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package http builds HTTP/2 cleartext (h2c) clients and servers for the
// connect relay transport.
package http

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// DefaultMaxReadFrameSize is the HTTP/2 frame size used when none is given
const DefaultMaxReadFrameSize = 1 << 20

// NewClient creates an h2c HTTP client. Connections are kept alive and
// multiplexed, redirects are not followed.
func NewClient(maxReadFrameSize uint32, timeout time.Duration) *http.Client {
	if maxReadFrameSize == 0 {
		maxReadFrameSize = DefaultMaxReadFrameSize
	}

	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		Timeout: timeout,
		Transport: &http2.Transport{
			AllowHTTP:        true,
			MaxReadFrameSize: maxReadFrameSize,
			PingTimeout:      10 * time.Second,
			ReadIdleTimeout:  20 * time.Second,
			// h2c: dial plain TCP even though the transport asks for TLS
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialer.DialContext(ctx, network, addr)
			},
		},
	}
}

// NewHandler wraps handler so it serves HTTP/2 cleartext requests
func NewHandler(handler http.Handler, maxReadFrameSize uint32) http.Handler {
	if maxReadFrameSize == 0 {
		maxReadFrameSize = DefaultMaxReadFrameSize
	}
	return h2c.NewHandler(handler, &http2.Server{
		MaxConcurrentStreams: 1000,
		MaxReadFrameSize:     maxReadFrameSize,
		IdleTimeout:          time.Minute,
	})
}

// NewServer creates an h2c server bound to addr
func NewServer(addr string, handler http.Handler, maxReadFrameSize uint32) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewHandler(handler, maxReadFrameSize),
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// URL returns the plain http base URL of host:port
func URL(host string, port int) string {
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
}
