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

	gerrors "github.com/tochemey/fluxion/errors"
	"github.com/tochemey/fluxion/policy"
)

func TestNotify(t *testing.T) {
	ctx := context.Background()

	t.Run("With every listener reached", func(t *testing.T) {
		sys := newTestSystem(t)
		listeners := []*listener{newListener("a", 0), newListener("b", 0), newListener("c", 0)}
		for _, l := range listeners {
			_, err := sys.Add(ctx, l)
			require.NoError(t, err)
		}
		// actors without a handler are skipped
		_, err := sys.Add(ctx, &pinger{})
		require.NoError(t, err)

		delivered := Notify(ctx, sys, tickNotification, tick{Seq: 1})
		assert.Equal(t, 3, delivered)
		for _, l := range listeners {
			assert.EqualValues(t, 1, l.received.Load())
		}
	})
	t.Run("With independent failures", func(t *testing.T) {
		sys := newTestSystem(t)
		sub, err := sys.Subscribe()
		require.NoError(t, err)

		failing := newListener("a", 1)
		healthy := newListener("b", 0)
		failingID, err := sys.Add(ctx, failing)
		require.NoError(t, err)
		_, err = sys.Add(ctx, healthy)
		require.NoError(t, err)

		delivered := Notify(ctx, sys, tickNotification, tick{Seq: 1})
		assert.Equal(t, 1, delivered)
		assert.EqualValues(t, 1, failing.received.Load())
		assert.EqualValues(t, 1, healthy.received.Load())
		assert.EqualValues(t, 1, sys.deadLetters.Load())

		var letters []*DeadLetter
		for msg := range sub.Iterator() {
			if letter, ok := msg.Payload().(*DeadLetter); ok {
				letters = append(letters, letter)
			}
		}
		require.Len(t, letters, 1)
		assert.Equal(t, failingID, letters[0].ID)
		assert.Equal(t, tickNotification.ID(), letters[0].Contract)
		assert.Equal(t, tick{Seq: 1}, letters[0].Message)
		assert.ErrorIs(t, letters[0].Err, errTransient)
	})
	t.Run("With a handler failing on a missing peer", func(t *testing.T) {
		sys := newTestSystem(t)
		sub, err := sys.Subscribe()
		require.NoError(t, err)

		id, err := sys.Add(ctx, &relayer{peer: ID(999)})
		require.NoError(t, err)

		assert.Zero(t, Notify(ctx, sys, tickNotification, tick{Seq: 7}))
		assert.EqualValues(t, 1, sys.deadLetters.Load())

		var letters []*DeadLetter
		for msg := range sub.Iterator() {
			if letter, ok := msg.Payload().(*DeadLetter); ok {
				letters = append(letters, letter)
			}
		}
		require.Len(t, letters, 1)
		assert.Equal(t, id, letters[0].ID)
		assert.ErrorIs(t, letters[0].Err, gerrors.ErrActorNotFound)
	})
	t.Run("With policy applied to notifications", func(t *testing.T) {
		sys := newTestSystem(t)
		retrying := policy.New(
			policy.When(policy.Is(errTransient), policy.Retry(2)),
			policy.When(policy.Always(), policy.Propagate()),
			policy.ApplyToNotifications(),
		)
		l := newListener("a", 2)
		_, err := sys.Add(ctx, l, WithPolicy(retrying))
		require.NoError(t, err)

		assert.Equal(t, 1, Notify(ctx, sys, tickNotification, tick{}))
		assert.EqualValues(t, 3, l.received.Load())
		assert.Zero(t, sys.deadLetters.Load())
	})
	t.Run("With policy not applied to notifications", func(t *testing.T) {
		sys := newTestSystem(t)
		l := newListener("a", 2)
		_, err := sys.Add(ctx, l, WithPolicy(policy.New(policy.When(policy.Always(), policy.Retry(5)))))
		require.NoError(t, err)

		assert.Zero(t, Notify(ctx, sys, tickNotification, tick{}))
		assert.EqualValues(t, 1, l.received.Load())
	})
	t.Run("With erased delivery", func(t *testing.T) {
		sys := newTestSystem(t)
		l := newListener("a", 0)
		_, err := sys.Add(ctx, l)
		require.NoError(t, err)

		assert.Equal(t, 1, sys.DeliverNotification(ctx, tickNotification.ID(), &tick{Seq: 2}))
		assert.Zero(t, sys.DeliverNotification(ctx, tickNotification.ID(), "bad payload"))
		assert.Zero(t, sys.DeliverNotification(ctx, "unknown", tick{}))
		assert.EqualValues(t, 1, l.received.Load())
	})
	t.Run("With Broadcast", func(t *testing.T) {
		delegate := &stubDelegate{}
		sys := newTestSystem(t, WithDelegate(delegate))
		_, err := sys.Add(ctx, newListener("a", 0))
		require.NoError(t, err)

		delivered, err := Broadcast(ctx, sys, tickNotification, tick{Seq: 3})
		require.NoError(t, err)
		assert.Equal(t, 1, delivered)
		assert.Equal(t, []any{tick{Seq: 3}}, delegate.broadcast)

		delegate.bcastErr = errors.New("nats down")
		delivered, err = Broadcast(ctx, sys, tickNotification, tick{Seq: 4})
		assert.Equal(t, 1, delivered)
		assert.ErrorIs(t, err, gerrors.ErrForeignUnavailable)
	})
	t.Run("With Broadcast without broadcaster", func(t *testing.T) {
		sys := newTestSystem(t)
		delivered, err := Broadcast(ctx, sys, tickNotification, tick{})
		require.NoError(t, err)
		assert.Zero(t, delivered)
	})
}

func TestFederate(t *testing.T) {
	ctx := context.Background()
	sys := newTestSystem(t)

	ids := make([]ID, 0, 3)
	for _, name := range []string{"a", "", "c"} {
		id, err := sys.Add(ctx, newListener(name, 0))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	_, err := sys.Add(ctx, &pinger{})
	require.NoError(t, err)

	replies := Federate(ctx, sys, censusContract, census{})
	require.Len(t, replies, 3)
	for i, reply := range replies {
		assert.Equal(t, ids[i], reply.ID)
	}
	assert.Equal(t, "a", replies[0].Response)
	assert.NoError(t, replies[0].Err)
	assert.Error(t, replies[1].Err)
	assert.Equal(t, "c", replies[2].Response)

	require.NoError(t, sys.Shutdown(ctx, ids[0]))
	assert.Len(t, Federate(ctx, sys, censusContract, census{}), 2)
	assert.Empty(t, Federate(ctx, sys, pingContract, ping{}))

	t.Run("With a handler failing on a missing peer", func(t *testing.T) {
		sys := newTestSystem(t)
		id, err := sys.Add(ctx, &relayer{peer: ID(999)})
		require.NoError(t, err)

		replies := Federate(ctx, sys, censusContract, census{})
		require.Len(t, replies, 1)
		assert.Equal(t, id, replies[0].ID)
		assert.ErrorIs(t, replies[0].Err, gerrors.ErrActorNotFound)
		assert.Empty(t, replies[0].Response)
	})
}
