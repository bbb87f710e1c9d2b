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

package connect

import (
	connectrpc "connectrpc.com/connect"

	"github.com/tochemey/fluxion/log"
)

// Option configures a Transport
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Transport)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Transport)

// Apply applies the option
func (f OptionFunc) Apply(t *Transport) {
	f(t)
}

// WithLogger sets the transport logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	})
}

// WithHTTPClient sets the HTTP client of outbound requests. It defaults to an
// h2c client.
func WithHTTPClient(client connectrpc.HTTPClient) Option {
	return OptionFunc(func(t *Transport) {
		if client != nil {
			t.httpClient = client
		}
	})
}
