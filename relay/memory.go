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
	"fmt"
	"io"
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/fluxion/internal/xsync"
)

// MemoryTransport is an in-process Transport. Systems sharing one
// MemoryTransport reach each other by plain function calls: the caller's
// context flows into the remote handler, so a call cycle across systems is
// reported as a reentrant send instead of deadlocking.
type MemoryTransport struct {
	handlers *xsync.Map[string, Handler]
	closed   *atomic.Bool
}

var _ Transport = (*MemoryTransport)(nil)

// NewMemoryTransport creates a MemoryTransport
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		handlers: xsync.NewMap[string, Handler](),
		closed:   atomic.NewBool(false),
	}
}

// Listen implements Transport
func (t *MemoryTransport) Listen(_ context.Context, system string, handler Handler) (io.Closer, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}
	if !t.handlers.SetIfAbsent(system, handler) {
		return nil, fmt.Errorf("relay: system %s already listening", system)
	}
	return &memoryListener{transport: t, system: system}, nil
}

// Request implements Transport
func (t *MemoryTransport) Request(ctx context.Context, system string, frame []byte) ([]byte, error) {
	handler, err := t.handler(ctx, system)
	if err != nil {
		return nil, err
	}
	return handler(ctx, frame), nil
}

// Publish implements Transport
func (t *MemoryTransport) Publish(ctx context.Context, system string, frame []byte) error {
	handler, err := t.handler(ctx, system)
	if err != nil {
		return err
	}
	handler(ctx, frame)
	return nil
}

// Close implements Transport. Every listener is dropped.
func (t *MemoryTransport) Close() error {
	if t.closed.CompareAndSwap(false, true) {
		t.handlers.Reset()
	}
	return nil
}

func (t *MemoryTransport) handler(ctx context.Context, system string) (Handler, error) {
	if t.closed.Load() {
		return nil, ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handler, ok := t.handlers.Get(system)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, system)
	}
	return handler, nil
}

type memoryListener struct {
	transport *MemoryTransport
	system    string
	once      sync.Once
}

func (l *memoryListener) Close() error {
	l.once.Do(func() {
		l.transport.handlers.Delete(l.system)
	})
	return nil
}
