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

// Package actor implements a synchronous actor runtime.
//
// Actors are registered in a System, which assigns them a numeric ID. Messages
// are typed by contracts: a Contract[M, R] pairs a request type with its
// response type, and actors declare which contracts they handle in their
// handler table. Sending a message is a function call: the caller waits until
// the target's handler returns, and the System guarantees that a given actor
// runs at most one handler at a time.
//
// Actors living in another System are addressed with an address.Path and
// reached through the Delegate configured on the System.
package actor

import (
	"strconv"

	"github.com/tochemey/fluxion/policy"
)

// ID is the identifier assigned to an actor when it is added to a System.
// IDs are allocated from a counter starting at 0 and are never reused within
// the lifetime of the System.
type ID uint64

// String returns the decimal form of the ID
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses the decimal form of an ID
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}

// Actor is the lifecycle contract every actor implements.
//
// Initialize runs when the actor is added, before it can receive messages. An
// Initialize failure removes the actor. Deinitialize runs when the actor is
// shut down, after its last handler returned. Cleanup runs exactly once at the
// end of the actor's life, whatever happened before; cause carries the
// Initialize or Deinitialize failure, if any. Cleanup errors are only logged.
//
// Embed Base to get no-op hooks.
type Actor interface {
	Initialize(ctx *Context) error
	Deinitialize(ctx *Context) error
	Cleanup(ctx *Context, cause error) error
}

// MessageHandlers is implemented by actors that handle messages.
// Handlers is called once, when the actor is added.
type MessageHandlers interface {
	Handlers(table *HandlerTable)
}

// PolicyProvider is implemented by actors that carry their own error policy.
type PolicyProvider interface {
	Policy() *policy.Policy
}

// Base provides no-op lifecycle hooks
type Base struct{}

var _ Actor = Base{}

// Initialize implements Actor
func (Base) Initialize(*Context) error { return nil }

// Deinitialize implements Actor
func (Base) Deinitialize(*Context) error { return nil }

// Cleanup implements Actor
func (Base) Cleanup(*Context, error) error { return nil }
