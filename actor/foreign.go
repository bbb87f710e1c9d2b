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
	"errors"
	"fmt"

	"github.com/tochemey/fluxion/address"
	gerrors "github.com/tochemey/fluxion/errors"
)

// ForeignSender carries type-erased messages to a foreign actor.
type ForeignSender interface {
	// Ask sends the message and returns the foreign actor's response
	Ask(ctx context.Context, msg any) (any, error)
	// Tell sends the message without waiting for a response
	Tell(ctx context.Context, msg any) error
}

// Delegate resolves foreign paths. A System holds exactly one Delegate for its
// whole lifetime; it is called concurrently and must synchronise itself.
//
// Resolve receives a path whose first segment is a system other than the
// caller's. It returns false when the path cannot be routed.
type Delegate interface {
	Resolve(ctx context.Context, path address.Path, contract ContractInfo) (ForeignSender, bool)
}

// Broadcaster is implemented by delegates that forward notifications to
// foreign systems.
type Broadcaster interface {
	Broadcast(ctx context.Context, notification ContractInfo, msg any) error
}

// NoDelegate is the delegate of a System without foreign connectivity.
// It never resolves a path.
var NoDelegate Delegate = noDelegate{}

type noDelegate struct{}

func (noDelegate) Resolve(context.Context, address.Path, ContractInfo) (ForeignSender, bool) {
	return nil, false
}

// Resolve returns a Sender for the actor addressed by path.
//
// Leading segments naming sys itself are dropped. A path left without system
// segments addresses a local actor: its last segment must be the ID of a
// running actor handling c. Any other path is handed to the system's Delegate.
// Unroutable paths fail with errors.ErrActorNotFound.
//
// Nothing is cached: every call resolves the path again.
func Resolve[M, R any](ctx context.Context, sys *System, path address.Path, c Contract[M, R]) (Sender[M, R], error) {
	path = path.Peel(sys.ID())
	if path.IsLocal() {
		id, err := ParseID(path.Actor())
		if err != nil {
			return nil, gerrors.NewErrActorNotFound(path.String())
		}
		ref, err := sys.GetLocal(id)
		if err != nil {
			return nil, err
		}
		if !ref.Handles(c.ID()) {
			return nil, gerrors.NewErrNoHandler(c.ID())
		}
		return SenderOf(ref, c), nil
	}

	foreign, ok := sys.delegate.Resolve(ctx, path, c.Info())
	if !ok || foreign == nil {
		return nil, gerrors.NewErrActorNotFound(path.String())
	}
	return &foreignSender[M, R]{sender: foreign, contract: c}, nil
}

// SendPath resolves path and sends msg to the actor
func SendPath[M, R any](ctx context.Context, sys *System, path address.Path, c Contract[M, R], msg M) (R, error) {
	sender, err := Resolve(ctx, sys, path, c)
	if err != nil {
		var zero R
		return zero, err
	}
	return sender.Ask(ctx, msg)
}

// TellPath resolves path and sends msg to the actor, discarding the response
func TellPath[M, R any](ctx context.Context, sys *System, path address.Path, c Contract[M, R], msg M) error {
	sender, err := Resolve(ctx, sys, path, c)
	if err != nil {
		return err
	}
	return sender.Tell(ctx, msg)
}

type foreignSender[M, R any] struct {
	sender   ForeignSender
	contract Contract[M, R]
}

func (s *foreignSender[M, R]) Ask(ctx context.Context, msg M) (R, error) {
	var zero R
	resp, err := s.sender.Ask(ctx, msg)
	if err != nil {
		return zero, foreignError(err)
	}
	out, ok := coerce[R](resp)
	if !ok {
		return zero, gerrors.NewErrForeignUnavailable(fmt.Errorf("contract %s responds %v, got %T", s.contract.ID(), s.contract.info.Response, resp))
	}
	return out, nil
}

func (s *foreignSender[M, R]) Tell(ctx context.Context, msg M) error {
	if err := s.sender.Tell(ctx, msg); err != nil {
		return foreignError(err)
	}
	return nil
}

// passthrough lists the errors a foreign system reports as is
var passthrough = []error{
	gerrors.ErrActorNotFound,
	gerrors.ErrNoHandler,
	gerrors.ErrForeignUnavailable,
	gerrors.ErrInvalidMessage,
	gerrors.ErrReentrancy,
	gerrors.ErrSystemStopped,
	gerrors.ErrRemoteHandler,
}

func foreignError(err error) error {
	for _, known := range passthrough {
		if errors.Is(err, known) {
			return err
		}
	}
	return gerrors.NewErrForeignUnavailable(err)
}
