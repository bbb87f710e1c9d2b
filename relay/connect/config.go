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
	"time"

	"github.com/tochemey/fluxion/internal/compression"
	"github.com/tochemey/fluxion/internal/validation"
)

// DefaultRequestTimeout bounds requests issued without a context deadline
const DefaultRequestTimeout = 5 * time.Second

// Config defines the connect transport settings
type Config struct {
	// ListenAddr is the host:port Start binds to. It can be left empty when
	// the transport Handler is mounted on an existing server.
	ListenAddr string
	// Peers maps system ids to the base URL of the transport serving them,
	// for instance "http://10.0.0.7:9000".
	Peers map[string]string
	// Compression is the connect compression of outbound requests: "gzip",
	// "zstd", "br" or empty for none.
	Compression string
	// RequestTimeout bounds requests issued with a context without deadline
	RequestTimeout time.Duration
	// MaxReadFrameSize is the HTTP/2 frame size. Zero uses the default.
	MaxReadFrameSize uint32
}

// Validate checks the configuration
func (x Config) Validate() error {
	chain := validation.New(validation.AllErrors()).
		AddAssertion(x.RequestTimeout >= 0, "RequestTimeout must not be negative").
		AddAssertion(validCompression(x.Compression), "Compression must be one of gzip, zstd, br")
	for system, url := range x.Peers {
		chain.AddValidator(validation.NewEmptyStringValidator("Peers key", system)).
			AddValidator(validation.NewURLValidator("Peers["+system+"]", url, "http", "https"))
	}
	return chain.Validate()
}

func (x Config) requestTimeout() time.Duration {
	if x.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return x.RequestTimeout
}

func validCompression(name string) bool {
	switch name {
	case "", compression.Gzip, compression.Zstd, compression.Brotli:
		return true
	default:
		return false
	}
}
