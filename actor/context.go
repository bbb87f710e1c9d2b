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
	"context"

	"github.com/tochemey/fluxion/log"
)

// Context is handed to lifecycle hooks and handlers.
type Context struct {
	ctx       context.Context
	self      ID
	sender    ID
	hasSender bool
	system    *System
	logger    log.Logger
}

// Context returns the context.Context of the call. It carries the caller's
// deadline and values. The runtime never cancels a running handler itself.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Self returns the ID of the actor being called
func (c *Context) Self() ID {
	return c.self
}

// Sender returns the ID of the actor whose handler issued the call. The
// boolean is false when the call did not originate from a handler of the same
// System.
func (c *Context) Sender() (ID, bool) {
	return c.sender, c.hasSender
}

// System returns the System the actor belongs to
func (c *Context) System() *System {
	return c.system
}

// Logger returns the actor logger
func (c *Context) Logger() log.Logger {
	return c.logger
}

type callChainKey struct{}

// callLink is a record held by the current call chain
type callLink struct {
	system *System
	id     ID
}

// callChain lists the records held by the handlers of the current call, the
// innermost last. A chain is never mutated: push returns a new one.
type callChain []callLink

func chainFrom(ctx context.Context) callChain {
	if ctx == nil {
		return nil
	}
	chain, _ := ctx.Value(callChainKey{}).(callChain)
	return chain
}

func (c callChain) holds(system *System, id ID) bool {
	for _, link := range c {
		if link.system == system && link.id == id {
			return true
		}
	}
	return false
}

// last returns the innermost record held for the given system
func (c callChain) last(system *System) (ID, bool) {
	if len(c) == 0 {
		return 0, false
	}
	link := c[len(c)-1]
	if link.system != system {
		return 0, false
	}
	return link.id, true
}

func (c callChain) push(ctx context.Context, system *System, id ID) context.Context {
	next := make(callChain, len(c), len(c)+1)
	copy(next, c)
	next = append(next, callLink{system: system, id: id})
	return context.WithValue(ctx, callChainKey{}, next)
}
