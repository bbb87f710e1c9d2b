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

package relay

import (
	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/remote"
)

// Option configures a Delegate
type Option interface {
	// Apply sets the Option value of a config.
	Apply(*Delegate)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Delegate)

// Apply applies the option
func (f OptionFunc) Apply(d *Delegate) {
	f(d)
}

// WithLogger sets the relay logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(d *Delegate) {
		if logger != nil {
			d.logger = logger
		}
	})
}

// WithSerializer sets the payload serializer. It defaults to a
// remote.CBORSerializer. Serializers implementing remote.TypeRegistrar get
// every contract type the relay sees registered automatically.
func WithSerializer(serializer remote.Serializer) Option {
	return OptionFunc(func(d *Delegate) {
		if serializer != nil {
			d.serializer = serializer
		}
	})
}

// WithCompression sets the compression of outbound payloads. It defaults to
// remote.ZstdCompression.
func WithCompression(compression remote.Compression) Option {
	return OptionFunc(func(d *Delegate) {
		if compression.Valid() {
			d.compression = compression
		}
	})
}

// WithRoutes adds the systems directly reachable through the transport
func WithRoutes(systems ...string) Option {
	return OptionFunc(func(d *Delegate) {
		d.routes.Append(systems...)
	})
}
