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

package actor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/tochemey/fluxion/policy"
)

type ping struct{}

type pong struct {
	From ID
}

type add struct {
	N int
}

type total struct {
	N int
}

type boom struct {
	Value any
}

type forward struct {
	To ID
}

type census struct{}

type tick struct {
	Seq int
}

type unhandled struct{}

var (
	pingContract      = NewContract[ping, pong]()
	addContract       = NewContract[add, total]()
	boomContract      = NewContract[boom, pong]()
	forwardContract   = NewContract[forward, pong]()
	censusContract    = NewContract[census, string]()
	unhandledContract = NewContract[unhandled, pong]()
	tickNotification  = NewNotification[tick]()
)

var errTransient = errors.New("transient")

// pinger answers ping with its own id
type pinger struct {
	Base
}

func (p *pinger) Handlers(table *HandlerTable) {
	Handle(table, pingContract, func(ctx *Context, _ ping) (pong, error) {
		return pong{From: ctx.Self()}, nil
	})
}

// counter sums the add messages and detects overlapping handler invocations
type counter struct {
	Base
	inside     *atomic.Int32
	overlapped *atomic.Bool
	sum        int
}

func newCounter() *counter {
	return &counter{
		inside:     atomic.NewInt32(0),
		overlapped: atomic.NewBool(false),
	}
}

func (c *counter) Handlers(table *HandlerTable) {
	Handle(table, addContract, func(_ *Context, msg add) (total, error) {
		if c.inside.Inc() > 1 {
			c.overlapped.Store(true)
		}
		defer c.inside.Dec()
		current := c.sum
		time.Sleep(100 * time.Microsecond)
		c.sum = current + msg.N
		return total{N: c.sum}, nil
	})
}

// lifecycle records its hooks invocations
type lifecycle struct {
	initErrs    []error
	deinitErr   error
	cleanupErr  error
	initCalls   *atomic.Int32
	deinitCalls *atomic.Int32
	cleanCalls  *atomic.Int32

	mu    sync.Mutex
	cause error
}

func newLifecycle(initErrs ...error) *lifecycle {
	return &lifecycle{
		initErrs:    initErrs,
		initCalls:   atomic.NewInt32(0),
		deinitCalls: atomic.NewInt32(0),
		cleanCalls:  atomic.NewInt32(0),
	}
}

// Initialize fails with the configured errors, in order, then succeeds
func (l *lifecycle) Initialize(*Context) error {
	call := int(l.initCalls.Inc())
	if call <= len(l.initErrs) {
		return l.initErrs[call-1]
	}
	return nil
}

func (l *lifecycle) Deinitialize(*Context) error {
	l.deinitCalls.Inc()
	return l.deinitErr
}

func (l *lifecycle) Cleanup(_ *Context, cause error) error {
	l.cleanCalls.Inc()
	l.mu.Lock()
	l.cause = cause
	l.mu.Unlock()
	return l.cleanupErr
}

func (l *lifecycle) Handlers(table *HandlerTable) {
	Handle(table, pingContract, func(ctx *Context, _ ping) (pong, error) {
		return pong{From: ctx.Self()}, nil
	})
}

func (l *lifecycle) cleanupCause() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cause
}

// panicker panics in its handler and, optionally, in Initialize
type panicker struct {
	Base
	panicOnInit bool
}

func (p *panicker) Initialize(*Context) error {
	if p.panicOnInit {
		panic("init panic")
	}
	return nil
}

func (p *panicker) Handlers(table *HandlerTable) {
	Handle(table, boomContract, func(_ *Context, msg boom) (pong, error) {
		panic(msg.Value)
	})
}

// forwarder pings the actor named in the message and reports the sender it saw
type forwarder struct {
	Base
	mu      sync.Mutex
	senders []ID
}

func (f *forwarder) Handlers(table *HandlerTable) {
	Handle(table, forwardContract, func(ctx *Context, msg forward) (pong, error) {
		if sender, ok := ctx.Sender(); ok {
			f.mu.Lock()
			f.senders = append(f.senders, sender)
			f.mu.Unlock()
		}
		if msg.To == ctx.Self() {
			return Send(ctx.Context(), ctx.System(), msg.To, forwardContract, msg)
		}
		return Send(ctx.Context(), ctx.System(), msg.To, pingContract, ping{})
	})
	Handle(table, pingContract, func(ctx *Context, _ ping) (pong, error) {
		if sender, ok := ctx.Sender(); ok {
			f.mu.Lock()
			f.senders = append(f.senders, sender)
			f.mu.Unlock()
		}
		return pong{From: ctx.Self()}, nil
	})
}

func (f *forwarder) seen() []ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ID(nil), f.senders...)
}

// listener counts tick notifications and fails the first ones when told to
type listener struct {
	Base
	failures *atomic.Int32
	received *atomic.Int32
	name     string
}

func newListener(name string, failures int32) *listener {
	return &listener{
		name:     name,
		failures: atomic.NewInt32(failures),
		received: atomic.NewInt32(0),
	}
}

func (l *listener) Handlers(table *HandlerTable) {
	HandleNotification(table, tickNotification, func(*Context, tick) error {
		l.received.Inc()
		if l.failures.Load() > 0 {
			l.failures.Dec()
			return errTransient
		}
		return nil
	})
	HandleFederated(table, censusContract, func(ctx *Context, _ census) (string, error) {
		if l.name == "" {
			return "", fmt.Errorf("actor %s has no name", ctx.Self())
		}
		return l.name, nil
	})
}

// duplicate registers the same contract twice
type duplicate struct {
	Base
}

func (duplicate) Handlers(table *HandlerTable) {
	Handle(table, pingContract, func(*Context, ping) (pong, error) { return pong{}, nil })
	Handle(table, pingContract, func(*Context, ping) (pong, error) { return pong{}, nil })
}

// twoFederated declares two federated contracts
type twoFederated struct {
	Base
}

func (twoFederated) Handlers(table *HandlerTable) {
	HandleFederated(table, censusContract, func(*Context, census) (string, error) { return "", nil })
	HandleFederated(table, pingContract, func(*Context, ping) (pong, error) { return pong{}, nil })
}

// providerActor carries its own policy and fails to initialize the first time
type providerActor struct {
	*lifecycle
	policy *policy.Policy
}

func (p *providerActor) Policy() *policy.Policy {
	return p.policy
}

// relayer forwards every notification and census to a peer that may be gone
type relayer struct {
	Base
	peer ID
}

func (r *relayer) Handlers(table *HandlerTable) {
	HandleNotification(table, tickNotification, func(ctx *Context, msg tick) error {
		_, err := Send(ctx.Context(), ctx.System(), r.peer, pingContract, ping{})
		return err
	})
	HandleFederated(table, censusContract, func(ctx *Context, _ census) (string, error) {
		if _, err := Send(ctx.Context(), ctx.System(), r.peer, pingContract, ping{}); err != nil {
			return "", err
		}
		return "relayed", nil
	})
}
