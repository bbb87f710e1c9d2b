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
	"context"
	"errors"
	"io"
)

// ErrUnreachable is returned by a Transport when no listener serves the
// requested system.
var ErrUnreachable = errors.New("relay: system unreachable")

// ErrTransportClosed is returned by a Transport used after Close.
var ErrTransportClosed = errors.New("relay: transport closed")

// Handler serves an inbound frame. Requests expect the returned reply frame;
// the return value of published frames is ignored.
type Handler func(ctx context.Context, frame []byte) []byte

// Transport moves opaque frames between systems. Frames are addressed by the
// destination system id. Implementations are safe for concurrent use.
type Transport interface {
	// Listen serves frames addressed to system until the returned closer is closed
	Listen(ctx context.Context, system string, handler Handler) (io.Closer, error)
	// Request sends frame to system and waits for its reply
	Request(ctx context.Context, system string, frame []byte) ([]byte, error)
	// Publish sends frame to system without waiting for a reply
	Publish(ctx context.Context, system string, frame []byte) error
	// Close releases the transport resources
	Close() error
}
