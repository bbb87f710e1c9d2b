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

	gerrors "github.com/tochemey/fluxion/errors"
)

// FederatedReply is the outcome of a federated message for one actor
type FederatedReply[R any] struct {
	ID       ID
	Response R
	Err      error
}

// Notify delivers msg to every running actor handling n, one after the
// other in ascending ID order. Deliveries are independent: a failing handler
// does not stop the others. Failures go through the actor's error policy when
// it applies to notifications, are logged and published as DeadLetter events.
//
// Notify returns the number of actors that accepted the notification.
func Notify[N any](ctx context.Context, sys *System, n Notification[N], msg N) int {
	return sys.notify(ctx, n.ID(), msg)
}

// Broadcast is Notify followed by the forwarding of the notification to
// foreign systems, when the system's Delegate is a Broadcaster.
func Broadcast[N any](ctx context.Context, sys *System, n Notification[N], msg N) (int, error) {
	delivered := sys.notify(ctx, n.ID(), msg)
	broadcaster, ok := sys.delegate.(Broadcaster)
	if !ok {
		return delivered, nil
	}
	if err := broadcaster.Broadcast(ctx, n.Info(), msg); err != nil {
		return delivered, gerrors.NewErrForeignUnavailable(err)
	}
	return delivered, nil
}

// DeliverNotification is the type-erased form of Notify, used by delegates to
// hand an inbound notification to the local actors.
func (x *System) DeliverNotification(ctx context.Context, contractID string, msg any) int {
	return x.notify(ctx, contractID, msg)
}

// Federate sends msg to every running actor whose federated contract is c, in
// ascending ID order, and collects one reply per actor. Actors shut down
// while the federation is in progress are skipped.
func Federate[M, R any](ctx context.Context, sys *System, c Contract[M, R], msg M) []FederatedReply[R] {
	ids := sys.federated(c.ID())
	replies := make([]FederatedReply[R], 0, len(ids))
	for _, id := range ids {
		out, running, err := sys.invoke(ctx, id, c.ID(), msg)
		if !running {
			continue
		}
		resp, err := responseOf(c, out, err)
		replies = append(replies, FederatedReply[R]{ID: id, Response: resp, Err: err})
	}
	return replies
}

func (x *System) federated(contractID string) []ID {
	var ids []ID
	for _, id := range x.Actors() {
		rec, ok := x.registry.Load(id)
		if !ok {
			continue
		}
		if federated, ok := rec.handlers.Federated(); ok && federated == contractID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (x *System) notify(ctx context.Context, contractID string, msg any) int {
	if ctx == nil {
		ctx = context.Background()
	}

	chain := chainFrom(ctx)
	delivered := 0
	for _, id := range x.Actors() {
		rec, ok := x.registry.Load(id)
		if !ok {
			continue
		}
		handler, ok := rec.handlers.notification(contractID)
		if !ok {
			continue
		}
		if chain.holds(x, id) {
			x.deadLetter(id, contractID, msg, gerrors.ErrReentrancy)
			continue
		}
		running, err := x.notifyOne(ctx, chain, rec, handler, msg)
		if !running {
			continue
		}
		if err != nil {
			rec.logger.Warnf("notification (%s) failed: %v", contractID, err)
			x.deadLetter(id, contractID, msg, err)
			continue
		}
		delivered++
	}
	return delivered
}

// notifyOne returns false when the actor stopped running before the handler could run
func (x *System) notifyOne(ctx context.Context, chain callChain, rec *record, handler notificationHandler, msg any) (bool, error) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.isRunning() {
		return false, nil
	}

	hctx := x.newContext(ctx, rec)
	hctx.ctx = chain.push(ctx, x, rec.id)

	op := func() error {
		return safeCall(func() error { return handler(hctx, msg) })
	}

	var err error
	if rec.policy.AppliesToNotifications() {
		err = rec.policy.Run(op)
	} else {
		err = op()
	}
	rec.processed.Inc()
	x.processed.Inc()
	return true, err
}

func (x *System) deadLetter(id ID, contractID string, msg any, err error) {
	x.deadLetters.Inc()
	x.events.Publish(EventsTopic, &DeadLetter{
		ID:       id,
		Contract: contractID,
		Message:  msg,
		Err:      err,
	})
}
