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

// Package nats implements a relay.Transport over NATS request/reply.
//
// Every system listens on its own subject, "<prefix>.<system id>". Requests
// use NATS request/reply; notifications are plain publications.
package nats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/nats-io/nats.go"
	"go.uber.org/atomic"

	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/relay"
)

// ErrNotConnected is returned when the transport is used before Connect
var ErrNotConnected = errors.New("nats: transport not connected")

// Transport is a relay.Transport backed by a NATS connection
type Transport struct {
	config *Config
	logger log.Logger

	mu        sync.Mutex
	conn      *nats.Conn
	connected *atomic.Bool

	// gate keeps inflight.Add from racing with the Wait of Close
	gate     sync.RWMutex
	draining bool
	inflight sync.WaitGroup
}

var _ relay.Transport = (*Transport)(nil)

// NewTransport creates a NATS transport. Call Connect before use.
func NewTransport(config *Config, opts ...Option) *Transport {
	transport := &Transport{
		config:    config,
		logger:    log.DefaultLogger,
		connected: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(transport)
	}
	return transport
}

// Connect validates the configuration and connects to the NATS server,
// retrying with an exponential backoff.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected.Load() {
		return nil
	}

	if err := t.config.Validate(); err != nil {
		return err
	}

	opts := nats.GetDefaultOptions()
	opts.Url = t.config.Server
	opts.Name = t.config.Name
	opts.ReconnectWait = 2 * time.Second
	opts.MaxReconnect = -1

	var conn *nats.Conn
	retrier := retry.NewRetrier(t.config.maxRetries(), 100*time.Millisecond, opts.ReconnectWait)
	err := retrier.RunContext(ctx, func(context.Context) error {
		var err error
		conn, err = opts.Connect()
		return err
	})
	if err != nil {
		return fmt.Errorf("nats: failed to connect to %s: %w", t.config.Server, err)
	}

	t.gate.Lock()
	t.draining = false
	t.gate.Unlock()

	t.conn = conn
	t.connected.Store(true)
	t.logger.Infof("nats transport connected to %s", conn.ConnectedUrlRedacted())
	return nil
}

// Listen implements relay.Transport. Inbound frames are served concurrently.
func (t *Transport) Listen(_ context.Context, system string, handler relay.Handler) (io.Closer, error) {
	conn, err := t.connection()
	if err != nil {
		return nil, err
	}

	timeout := t.config.requestTimeout()
	sub, err := conn.Subscribe(t.subject(system), func(msg *nats.Msg) {
		t.gate.RLock()
		if t.draining {
			t.gate.RUnlock()
			return
		}
		t.inflight.Add(1)
		t.gate.RUnlock()

		go func() {
			defer t.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			out := handler(ctx, msg.Data)
			if msg.Reply == "" {
				return
			}
			if err := msg.Respond(out); err != nil {
				t.logger.Warnf("nats transport failed to reply on %s: %v", msg.Subject, err)
			}
		}()
	})
	if err != nil {
		return nil, err
	}

	// the subscription must be known to the server before Listen returns
	if err := conn.FlushTimeout(timeout); err != nil {
		_ = sub.Unsubscribe()
		return nil, err
	}
	return &subscription{sub: sub}, nil
}

// Request implements relay.Transport
func (t *Transport) Request(ctx context.Context, system string, frame []byte) ([]byte, error) {
	conn, err := t.connection()
	if err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.requestTimeout())
		defer cancel()
	}

	msg, err := conn.RequestWithContext(ctx, t.subject(system), frame)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return nil, fmt.Errorf("%w: %s", relay.ErrUnreachable, system)
		}
		return nil, err
	}
	return msg.Data, nil
}

// Publish implements relay.Transport
func (t *Transport) Publish(_ context.Context, system string, frame []byte) error {
	conn, err := t.connection()
	if err != nil {
		return err
	}
	return conn.Publish(t.subject(system), frame)
}

// Close implements relay.Transport. Frames received from then on are
// dropped; frames being served are waited for.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected.CompareAndSwap(true, false) {
		return nil
	}

	t.gate.Lock()
	t.draining = true
	t.gate.Unlock()

	t.inflight.Wait()
	t.conn.Close()
	return nil
}

func (t *Transport) connection() (*nats.Conn, error) {
	if !t.connected.Load() {
		return nil, ErrNotConnected
	}
	return t.conn, nil
}

func (t *Transport) subject(system string) string {
	return t.config.subjectPrefix() + "." + system
}

type subscription struct {
	sub *nats.Subscription
}

func (s *subscription) Close() error {
	if !s.sub.IsValid() {
		return nil
	}
	return s.sub.Unsubscribe()
}
