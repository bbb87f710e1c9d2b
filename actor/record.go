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
	"sync"

	"go.uber.org/atomic"

	"github.com/tochemey/fluxion/log"
	"github.com/tochemey/fluxion/policy"
)

type state int32

const (
	initializing state = iota
	running
	deinitializing
	terminated
)

// String returns the string representation of the state
func (s state) String() string {
	switch s {
	case initializing:
		return "Initializing"
	case running:
		return "Running"
	case deinitializing:
		return "Deinitializing"
	case terminated:
		return "Terminated"
	default:
		return ""
	}
}

// record is the registry entry of an actor. mu is held for the whole duration
// of a handler or of a lifecycle hook.
type record struct {
	mu sync.Mutex

	id        ID
	actor     Actor
	handlers  *HandlerTable
	policy    *policy.Policy
	logger    log.Logger
	state     *atomic.Int32
	processed *atomic.Uint64
}

func newRecord(id ID, actor Actor, handlers *HandlerTable, errPolicy *policy.Policy, logger log.Logger) *record {
	return &record{
		id:        id,
		actor:     actor,
		handlers:  handlers,
		policy:    errPolicy,
		logger:    logger,
		state:     atomic.NewInt32(int32(initializing)),
		processed: atomic.NewUint64(0),
	}
}

func (r *record) current() state {
	return state(r.state.Load())
}

func (r *record) isRunning() bool {
	return r.current() == running
}

func (r *record) transition(from, to state) bool {
	return r.state.CompareAndSwap(int32(from), int32(to))
}

func (r *record) set(to state) {
	r.state.Store(int32(to))
}
