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
	"fmt"

	gerrors "github.com/tochemey/fluxion/errors"
)

// Sender sends messages of one contract to one actor, local or foreign.
type Sender[M, R any] interface {
	// Ask sends the message and waits for the response
	Ask(ctx context.Context, msg M) (R, error)
	// Tell sends the message and discards the response
	Tell(ctx context.Context, msg M) error
}

// Ref is a handle to a local actor. It stays valid after the actor is shut
// down: messages sent through it then fail with errors.ErrActorNotFound.
type Ref struct {
	id     ID
	system *System
}

// ID returns the actor ID
func (r *Ref) ID() ID {
	return r.id
}

// System returns the system the actor belongs to
func (r *Ref) System() *System {
	return r.system
}

// Alive returns true when the actor is running
func (r *Ref) Alive() bool {
	rec, ok := r.system.registry.Load(r.id)
	return ok && rec.isRunning()
}

// Handles returns true when the actor is running and handles the contract identity
func (r *Ref) Handles(contractID string) bool {
	rec, ok := r.system.registry.Load(r.id)
	return ok && rec.isRunning() && rec.handlers.Handles(contractID)
}

// Send sends msg to the actor id of sys and returns the handler's response.
//
// The call fails with errors.ErrActorNotFound when no running actor has this
// ID, with errors.ErrNoHandler when the actor does not handle the contract,
// and with errors.ErrReentrancy when the actor is already busy serving the
// call chain this call belongs to.
func Send[M, R any](ctx context.Context, sys *System, id ID, c Contract[M, R], msg M) (R, error) {
	resp, err := sys.dispatch(ctx, id, c.ID(), msg)
	return responseOf(c, resp, err)
}

func responseOf[M, R any](c Contract[M, R], resp any, err error) (R, error) {
	var zero R
	if err != nil {
		return zero, err
	}
	out, ok := coerce[R](resp)
	if !ok {
		return zero, gerrors.NewErrInvalidMessage(fmt.Errorf("contract %s responds %v, got %T", c.ID(), c.info.Response, resp))
	}
	return out, nil
}

// Tell is Send without the response
func Tell[M, R any](ctx context.Context, sys *System, id ID, c Contract[M, R], msg M) error {
	_, err := sys.dispatch(ctx, id, c.ID(), msg)
	return err
}

// SenderOf returns a Sender bound to a local actor
func SenderOf[M, R any](ref *Ref, c Contract[M, R]) Sender[M, R] {
	return &localSender[M, R]{ref: ref, contract: c}
}

type localSender[M, R any] struct {
	ref      *Ref
	contract Contract[M, R]
}

func (s *localSender[M, R]) Ask(ctx context.Context, msg M) (R, error) {
	return Send(ctx, s.ref.system, s.ref.id, s.contract, msg)
}

func (s *localSender[M, R]) Tell(ctx context.Context, msg M) error {
	return Tell(ctx, s.ref.system, s.ref.id, s.contract, msg)
}

// Deliver is the type-erased form of Send, used by delegates to hand an
// inbound message to a local actor. msg must be a value of, or a pointer to,
// the contract's message type.
func (x *System) Deliver(ctx context.Context, id ID, contractID string, msg any) (any, error) {
	return x.dispatch(ctx, id, contractID, msg)
}

func (x *System) dispatch(ctx context.Context, id ID, contractID string, msg any) (any, error) {
	resp, _, err := x.invoke(ctx, id, contractID, msg)
	return resp, err
}

// invoke runs the handler of contractID on the actor id. running is false
// only when the actor is unknown or no longer running, never for handler errors.
func (x *System) invoke(ctx context.Context, id ID, contractID string, msg any) (resp any, running bool, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	rec, ok := x.registry.Load(id)
	if !ok || !rec.isRunning() {
		return nil, false, gerrors.NewErrActorNotFound(id.String())
	}

	handler, ok := rec.handlers.message(contractID)
	if !ok {
		return nil, true, gerrors.NewErrNoHandler(contractID)
	}

	chain := chainFrom(ctx)
	if chain.holds(x, id) {
		return nil, true, fmt.Errorf("(actor=%s) %w", id, gerrors.ErrReentrancy)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	// the actor may have been shut down while we were waiting
	if !rec.isRunning() {
		return nil, false, gerrors.NewErrActorNotFound(id.String())
	}

	hctx := x.newContext(ctx, rec)
	hctx.ctx = chain.push(ctx, x, id)

	resp, err = safeHandle(handler, hctx, msg)
	rec.processed.Inc()
	x.processed.Inc()
	return resp, true, err
}
