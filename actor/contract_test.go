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
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/fluxion/errors"
)

type catalogued struct{}

type renamed struct{}

func TestContract(t *testing.T) {
	t.Run("With default identity", func(t *testing.T) {
		c := NewContract[catalogued, string]()
		assert.Equal(t, "actor.catalogued", c.ID())

		info, ok := LookupContract(c.ID())
		require.True(t, ok)
		assert.Equal(t, reflect.TypeFor[catalogued](), info.Message)
		assert.Equal(t, reflect.TypeFor[string](), info.Response)
		assert.Equal(t, KindMessage, info.Kind)
		assert.Equal(t, info, c.Info())
	})
	t.Run("With idempotent registration", func(t *testing.T) {
		first := NamedContract[renamed, int]("fluxion.test.renamed")
		second := NamedContract[renamed, int]("fluxion.test.renamed")
		assert.Equal(t, first.Info(), second.Info())
	})
	t.Run("With conflicting registration", func(t *testing.T) {
		NamedContract[renamed, int]("fluxion.test.conflict")
		assert.Panics(t, func() {
			NamedContract[renamed, string]("fluxion.test.conflict")
		})
		assert.Panics(t, func() {
			NamedNotification[renamed]("fluxion.test.conflict")
		})
	})
	t.Run("With notification", func(t *testing.T) {
		info, ok := LookupContract(tickNotification.ID())
		require.True(t, ok)
		assert.Equal(t, KindNotification, info.Kind)
		assert.Nil(t, info.Response)
		assert.Equal(t, "notification", info.Kind.String())
		assert.Equal(t, "message", KindMessage.String())
	})
	t.Run("With unknown identity", func(t *testing.T) {
		_, ok := LookupContract("does.not.exist")
		assert.False(t, ok)
	})
}

func TestHandlerTable(t *testing.T) {
	table := newHandlerTable()
	(&listener{}).Handlers(table)
	require.NoError(t, table.err)

	assert.True(t, table.Handles(tickNotification.ID()))
	assert.True(t, table.Handles(censusContract.ID()))
	assert.False(t, table.Handles(pingContract.ID()))
	assert.ElementsMatch(t, []string{tickNotification.ID(), censusContract.ID()}, table.Contracts())

	federated, ok := table.Federated()
	require.True(t, ok)
	assert.Equal(t, censusContract.ID(), federated)

	table = newHandlerTable()
	HandleNotification(table, tickNotification, func(*Context, tick) error { return nil })
	HandleNotification(table, tickNotification, func(*Context, tick) error { return nil })
	assert.ErrorIs(t, table.err, gerrors.ErrDuplicateHandler)
}

func TestIDs(t *testing.T) {
	assert.Equal(t, "42", ID(42).String())
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	_, err = ParseID("-1")
	assert.Error(t, err)
	assert.Equal(t, "Running", running.String())
	assert.Equal(t, "Terminated", terminated.String())
}
