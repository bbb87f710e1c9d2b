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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/fluxion/errors"
)

// unit is an actor without state nor hooks
type unit struct {
	Base
}

func (unit) Handlers(table *HandlerTable) {
	Handle(table, pingContract, func(ctx *Context, _ ping) (pong, error) {
		return pong{From: ctx.Self()}, nil
	})
}

func TestPingPong(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	sys := newTestSystem(t)

	id, err := sys.Add(ctx, unit{})
	require.NoError(t, err)
	require.EqualValues(t, 0, id)

	resp, err := Send(ctx, sys, id, pingContract, ping{})
	require.NoError(t, err)
	assert.Equal(t, pong{From: 0}, resp)

	require.NoError(t, sys.Shutdown(ctx, id))

	_, err = Send(ctx, sys, id, pingContract, ping{})
	assert.ErrorIs(t, err, gerrors.ErrActorNotFound)
}

func TestSend(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	t.Run("With handlers serialized", func(t *testing.T) {
		sys := newTestSystem(t)
		actor := newCounter()
		id, err := sys.Add(ctx, actor)
		require.NoError(t, err)

		const senders = 50
		eg, egCtx := errgroup.WithContext(ctx)
		for range senders {
			eg.Go(func() error {
				_, err := Send(egCtx, sys, id, addContract, add{N: 1})
				return err
			})
		}
		require.NoError(t, eg.Wait())

		assert.False(t, actor.overlapped.Load())
		resp, err := Send(ctx, sys, id, addContract, add{N: 0})
		require.NoError(t, err)
		assert.Equal(t, senders, resp.N)
		require.NoError(t, sys.Stop(ctx))
	})
	t.Run("With sequential sends in order", func(t *testing.T) {
		sys := newTestSystem(t)
		id, err := sys.Add(ctx, newCounter())
		require.NoError(t, err)
		for i := 1; i <= 5; i++ {
			resp, err := Send(ctx, sys, id, addContract, add{N: 1})
			require.NoError(t, err)
			assert.Equal(t, i, resp.N)
		}
	})
	t.Run("With unknown id for every contract", func(t *testing.T) {
		sys := newTestSystem(t)
		_, err := Send(ctx, sys, 99, pingContract, ping{})
		assert.ErrorIs(t, err, gerrors.ErrActorNotFound)
		_, err = Send(ctx, sys, 99, addContract, add{})
		assert.ErrorIs(t, err, gerrors.ErrActorNotFound)
		_, err = Send(ctx, sys, 99, censusContract, census{})
		assert.ErrorIs(t, err, gerrors.ErrActorNotFound)
		assert.ErrorIs(t, Tell(ctx, sys, 99, boomContract, boom{}), gerrors.ErrActorNotFound)
	})
	t.Run("With no handler", func(t *testing.T) {
		sys := newTestSystem(t)
		id, err := sys.Add(ctx, &pinger{})
		require.NoError(t, err)
		_, err = Send(ctx, sys, id, unhandledContract, unhandled{})
		assert.ErrorIs(t, err, gerrors.ErrNoHandler)
	})
	t.Run("With Tell", func(t *testing.T) {
		sys := newTestSystem(t)
		actor := newCounter()
		id, err := sys.Add(ctx, actor)
		require.NoError(t, err)
		require.NoError(t, Tell(ctx, sys, id, addContract, add{N: 3}))
		resp, err := Send(ctx, sys, id, addContract, add{})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.N)
	})
	t.Run("With handler panic", func(t *testing.T) {
		sys := newTestSystem(t)
		id, err := sys.Add(ctx, &panicker{})
		require.NoError(t, err)

		_, err = Send(ctx, sys, id, boomContract, boom{Value: "kaboom"})
		var panicErr *gerrors.PanicError
		require.ErrorAs(t, err, &panicErr)
		assert.Contains(t, err.Error(), "kaboom")

		cause := errors.New("error value")
		_, err = Send(ctx, sys, id, boomContract, boom{Value: cause})
		require.ErrorAs(t, err, &panicErr)
		assert.ErrorIs(t, err, cause)

		wrapped := gerrors.NewPanicError(cause)
		_, err = Send(ctx, sys, id, boomContract, boom{Value: wrapped})
		require.ErrorAs(t, err, &panicErr)
		assert.Same(t, wrapped, panicErr)

		// the actor survives its panics
		ref, err := sys.GetLocal(id)
		require.NoError(t, err)
		assert.True(t, ref.Alive())
	})
	t.Run("With sender", func(t *testing.T) {
		sys := newTestSystem(t)
		front := &forwarder{}
		back := &forwarder{}
		frontID, err := sys.Add(ctx, front)
		require.NoError(t, err)
		backID, err := sys.Add(ctx, back)
		require.NoError(t, err)

		resp, err := Send(ctx, sys, frontID, forwardContract, forward{To: backID})
		require.NoError(t, err)
		assert.Equal(t, backID, resp.From)
		assert.Empty(t, front.seen())
		assert.Equal(t, []ID{frontID}, back.seen())
	})
	t.Run("With reentrant send to self", func(t *testing.T) {
		sys := newTestSystem(t)
		id, err := sys.Add(ctx, &forwarder{})
		require.NoError(t, err)
		_, err = Send(ctx, sys, id, forwardContract, forward{To: id})
		assert.ErrorIs(t, err, gerrors.ErrReentrancy)

		// the actor is still usable
		resp, err := Send(ctx, sys, id, pingContract, ping{})
		require.NoError(t, err)
		assert.Equal(t, id, resp.From)
	})
	t.Run("With reentrant shutdown", func(t *testing.T) {
		sys := newTestSystem(t)
		id, err := sys.Add(ctx, &pinger{})
		require.NoError(t, err)
		held := chainFrom(ctx).push(ctx, sys, id)
		assert.ErrorIs(t, sys.Shutdown(held, id), gerrors.ErrReentrancy)
		require.NoError(t, sys.Shutdown(ctx, id))
	})
}

func TestDeliver(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)
	id, err := sys.Add(ctx, newCounter())
	require.NoError(t, err)

	t.Run("With value", func(t *testing.T) {
		resp, err := sys.Deliver(ctx, id, addContract.ID(), add{N: 2})
		require.NoError(t, err)
		assert.Equal(t, total{N: 2}, resp)
	})
	t.Run("With pointer", func(t *testing.T) {
		resp, err := sys.Deliver(ctx, id, addContract.ID(), &add{N: 2})
		require.NoError(t, err)
		assert.Equal(t, total{N: 4}, resp)
	})
	t.Run("With invalid message", func(t *testing.T) {
		_, err := sys.Deliver(ctx, id, addContract.ID(), "not an add")
		assert.ErrorIs(t, err, gerrors.ErrInvalidMessage)
	})
	t.Run("With unknown contract", func(t *testing.T) {
		_, err := sys.Deliver(ctx, id, "unknown", add{})
		assert.ErrorIs(t, err, gerrors.ErrNoHandler)
	})
	t.Run("With nil context", func(t *testing.T) {
		//nolint:staticcheck
		resp, err := sys.Deliver(nil, id, addContract.ID(), add{N: 1})
		require.NoError(t, err)
		assert.Equal(t, total{N: 5}, resp)
	})
}
